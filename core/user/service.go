package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/soma/core"
)

var (
	// errors
	ErrNotFound           = errors.New("profile not found")
	ErrEmailExists        = errors.New("a profile with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	// Filter selects profiles; empty fields are ignored. All set fields
	// apply with AND.
	Filter struct {
		SchoolID string
		Role     string
		Status   string
	}

	Repository interface {
		CreateProfile(ctx context.Context, p Profile) (Profile, error)
		GetProfileByID(ctx context.Context, id string) (Profile, error)
		GetProfileByEmail(ctx context.Context, email string) (Profile, error)
		GetStudentByCode(ctx context.Context, code string) (Profile, error)
		FilterProfiles(ctx context.Context, filter Filter) ([]Profile, error)
		UpdateProfileStatus(ctx context.Context, id, status string) error
		SetLastLogin(ctx context.Context, id string, t time.Time) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		logger:  logger,
		conf:    conf,
	}
}

// Authenticate checks credentials and returns the matching profile.
// It fails closed: any miss or store error surfaces as
// ErrInvalidCredentials / the wrapped error, never a partial profile.
// It does NOT enforce the pending-student gate; that is the login
// handler's responsibility so the rejection message can differ.
func (svc *Service) Authenticate(ctx context.Context, email, password string) (Profile, error) {
	prof, err := svc.repo.GetProfileByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Profile{}, ErrInvalidCredentials
		}
		return Profile{}, errors.Wrap(err, "finding profile by email")
	}
	if err = prof.CheckPassword(password); err != nil {
		return Profile{}, ErrInvalidCredentials
	}

	prof.LastLogin = time.Now().UTC()
	if err = svc.repo.SetLastLogin(ctx, prof.ID, prof.LastLogin); err != nil {
		// not worth failing the login over
		svc.logger.Error(fmt.Sprintf("setting last login: %v", err), err)
	}
	return prof, nil
}

// Register creates a profile for np. Students get a soma code and start
// PENDING; every other role starts APPROVED. Any step failing makes the
// whole registration a failure.
func (svc *Service) Register(ctx context.Context, np NewProfile) RegistrationResult {
	if _, err := svc.repo.GetProfileByEmail(ctx, np.Email); err == nil {
		return RegistrationResult{Message: ErrEmailExists.Error()}
	} else if errors.Cause(err) != ErrNotFound {
		svc.logger.Error(fmt.Sprintf("checking email uniqueness: %v", err), err)
		return RegistrationResult{Message: "Registration failed"}
	}

	now := time.Now().UTC()
	prof := Profile{
		FullName:  np.FullName,
		Email:     np.Email,
		Role:      np.Role,
		Status:    DefaultStatus(np.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if prof.IsStudent() {
		prof.StudentCode = GenerateStudentCode()
	}
	if err := prof.SetPassword(np.Password); err != nil {
		svc.logger.Error(fmt.Sprintf("hashing password: %v", err), err)
		return RegistrationResult{Message: "Registration failed"}
	}

	prof, err := svc.repo.CreateProfile(ctx, prof)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("creating profile: %v", err), err)
		return RegistrationResult{Message: "Failed to create profile"}
	}

	svc.sendWelcomeEmail(prof)
	return RegistrationResult{Success: true, Profile: &prof}
}

// PendingStudents lists students of schoolID awaiting approval.
// Empty list on any error; never propagates.
func (svc *Service) PendingStudents(ctx context.Context, schoolID string) []Profile {
	profs, err := svc.repo.FilterProfiles(ctx, Filter{
		SchoolID: schoolID,
		Role:     RoleStudent,
		Status:   StatusPending,
	})
	if err != nil {
		svc.logger.Error(fmt.Sprintf("fetching pending students: %v", err), err)
		return []Profile{}
	}
	return profs
}

// SetStudentStatus moves a student through the approval workflow.
func (svc *Service) SetStudentStatus(ctx context.Context, studentID, status string) bool {
	if err := svc.repo.UpdateProfileStatus(ctx, studentID, status); err != nil {
		svc.logger.Error(fmt.Sprintf("updating student status: %v", err), err)
		return false
	}
	if status == StatusApproved {
		svc.sendApprovalEmail(ctx, studentID)
	}
	return true
}

// Teachers lists schoolID's teacher profiles. Empty list on any error.
func (svc *Service) Teachers(ctx context.Context, schoolID string) []Profile {
	profs, err := svc.repo.FilterProfiles(ctx, Filter{SchoolID: schoolID, Role: RoleTeacher})
	if err != nil {
		svc.logger.Error(fmt.Sprintf("fetching teachers: %v", err), err)
		return []Profile{}
	}
	return profs
}

// LinkStudentByCode resolves a soma code to a student name for the
// parent dashboard. The association lives in the parent's session only.
func (svc *Service) LinkStudentByCode(ctx context.Context, parentID, studentCode string) LinkResult {
	prof, err := svc.repo.GetStudentByCode(ctx, core.CleanString(studentCode))
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			svc.logger.Error(fmt.Sprintf("linking student by code: %v", err), err)
		}
		return LinkResult{}
	}
	return LinkResult{Success: true, StudentName: prof.FullName}
}

func (svc *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	return svc.repo.GetProfileByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Profile, error) {
	return svc.repo.GetProfileByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) sendWelcomeEmail(prof Profile) {
	body := fmt.Sprintf("Hello %s,\n\nWelcome to %s!", prof.FullName, svc.conf.AppName)
	if prof.IsPendingStudent() {
		body += "\n\nYour account is pending approval by an academic director. " +
			fmt.Sprintf("Share your code %s with your parent so they can follow your progress.", prof.StudentCode)
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: prof.FullName, Address: prof.Email}},
		Subject: "Welcome",
		BodyStr: body,
	})
}

func (svc *Service) sendApprovalEmail(ctx context.Context, studentID string) {
	prof, err := svc.repo.GetProfileByID(ctx, studentID)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("fetching approved student: %v", err), err)
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: prof.FullName, Address: prof.Email}},
		Subject: "Account approved",
		BodyStr: fmt.Sprintf("Hello %s,\n\nYour account has been approved. You can now log in to your dashboard.", prof.FullName),
	})
}
