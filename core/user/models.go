package user

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/soma/core"
)

// Roles. Each role maps to exactly one portal; dispatch on these
// constants, never on free-form strings.
const (
	RoleStudent  = "student"
	RoleTeacher  = "teacher"
	RoleParent   = "parent"
	RoleAdmin    = "admin"
	RoleAcademic = "academic" // academic director
)

// Approval statuses. Only student profiles go through the approval
// workflow; everyone else is APPROVED at registration.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

var (
	AllRoles    = []string{RoleStudent, RoleTeacher, RoleParent, RoleAdmin, RoleAcademic}
	AllStatuses = []string{StatusPending, StatusApproved, StatusRejected}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Parent", Value: RoleParent},
		{Name: "Academic Director", Value: RoleAcademic},
		{Name: "Admin", Value: RoleAdmin},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Profile is the portal view of a `profiles` row. Storage rows never
// leave the repositories; every read is mapped into this shape.
type Profile struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Role         string    `json:"role"`
	SchoolID     string    `json:"schoolId"`
	Email        string    `json:"email"`
	Status       string    `json:"status,omitempty"`
	StudentCode  string    `json:"studentCode,omitempty"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"-"` // UTC
	UpdatedAt    time.Time `json:"-"` // UTC
	LastLogin    time.Time `json:"-"` // UTC
}

func (p *Profile) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = hash
	return nil
}

func (p *Profile) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(pwd))
}

func (p *Profile) IsStudent() bool  { return p.Role == RoleStudent }
func (p *Profile) IsTeacher() bool  { return p.Role == RoleTeacher }
func (p *Profile) IsParent() bool   { return p.Role == RoleParent }
func (p *Profile) IsAdmin() bool    { return p.Role == RoleAdmin }
func (p *Profile) IsAcademic() bool { return p.Role == RoleAcademic }

// IsPendingStudent gates dashboard access: a PENDING student must not
// be let into the student portal even with valid credentials.
func (p *Profile) IsPendingStudent() bool {
	return p.IsStudent() && p.Status == StatusPending
}

// DefaultStatus returns the approval status a fresh registration gets.
func DefaultStatus(role string) string {
	if role == RoleStudent {
		return StatusPending
	}
	return StatusApproved
}

// GenerateStudentCode returns a human-shareable soma code of the form
// SOMA-#### used for parent-to-student linking.
func GenerateStudentCode() string {
	return fmt.Sprintf("SOMA-%04d", 1000+rand.Intn(9000))
}

// NewProfile contains information needed to register a new Profile.
type NewProfile struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,portalrole"`
}

func (np *NewProfile) Validate(validate *validator.Validate) error {
	np.FullName = core.CleanString(np.FullName)
	np.Email = core.CleanString(np.Email, true /* lower */)
	np.Role = core.CleanString(np.Role, true /* lower */)
	return validate.Struct(np)
}

// RegistrationResult reports the outcome of Service.Register. A failed
// auth step or profile insert is a failure, never a half-success.
type RegistrationResult struct {
	Success bool     `json:"success"`
	Profile *Profile `json:"profile,omitempty"`
	Message string   `json:"message,omitempty"`
}

// LinkResult reports a parent-to-student soma code lookup. The link
// itself is session-local; nothing is persisted.
type LinkResult struct {
	Success     bool   `json:"success"`
	StudentName string `json:"studentName,omitempty"`
}
