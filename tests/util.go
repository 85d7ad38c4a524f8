package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/soma/core"
	"github.com/trezcool/soma/core/user"
)

// NewConfig returns app config locked to test mode so the server skips
// request logging and panics surface instead of recovering.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true
	conf.Env = "TEST"
	conf.SecretKey = "s0ma-t3st-s3cr3t"
	return conf
}

// NopLogger drops everything. Services under test log fail-soft errors
// on purpose; the noise helps nobody.
type NopLogger struct{}

var _ core.Logger = (*NopLogger)(nil)

func (NopLogger) Debug(msg string, args ...interface{}) {}
func (NopLogger) Info(msg string, args ...interface{})  {}
func (NopLogger) Warn(msg string, args ...interface{})  {}
func (NopLogger) Error(msg string, args ...interface{}) {}
func (NopLogger) Fatal(msg string, args ...interface{}) {}

func CreateProfile(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role, schoolID, status string,
	createdAt ...time.Time,
) user.Profile {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	prof := user.Profile{
		FullName:  name,
		Email:     email,
		Role:      role,
		SchoolID:  schoolID,
		Status:    status,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if prof.IsStudent() {
		prof.StudentCode = user.GenerateStudentCode()
	}
	if pwd != "" {
		if err := prof.SetPassword(pwd); err != nil {
			t.Fatalf("CreateProfile() failed: %v", err)
		}
	}
	prof, err := repo.CreateProfile(context.Background(), prof)
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	return prof
}
