package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/soma/core"
	"github.com/trezcool/soma/core/user"
)

// addAdmin provisions an approved admin profile. Admins cannot
// self-register through the API, this is the only way in.
func (cli *commandLine) addAdmin(name, email, schoolID, password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}

	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	if _, err := cli.usrSvc.GetByEmail(ctx, email); err == nil {
		return user.ErrEmailExists
	} else if errors.Cause(err) != user.ErrNotFound {
		return errors.Wrap(err, "checking email uniqueness")
	}

	now := time.Now().UTC()
	prof := user.Profile{
		FullName:  core.CleanString(name),
		Email:     email,
		Role:      user.RoleAdmin,
		SchoolID:  core.CleanString(schoolID),
		Status:    user.StatusApproved,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := prof.SetPassword(password); err != nil {
		return errors.Wrap(err, "hashing password")
	}

	prof, err := cli.usrRepo.CreateProfile(ctx, prof)
	if err != nil {
		return errors.Wrap(err, "creating admin profile")
	}

	fmt.Printf("admin %q (%s) created\n", prof.FullName, prof.Email)
	return nil
}
