package user

import (
	"regexp"
	"testing"
)

func Test_DefaultStatus(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{role: RoleStudent, want: StatusPending},
		{role: RoleTeacher, want: StatusApproved},
		{role: RoleParent, want: StatusApproved},
		{role: RoleAcademic, want: StatusApproved},
		{role: RoleAdmin, want: StatusApproved},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := DefaultStatus(tt.role); got != tt.want {
				t.Errorf("DefaultStatus(%s) = %s, want %s", tt.role, got, tt.want)
			}
		})
	}
}

func Test_GenerateStudentCode(t *testing.T) {
	re := regexp.MustCompile(`^SOMA-\d{4}$`)
	for i := 0; i < 100; i++ {
		if code := GenerateStudentCode(); !re.MatchString(code) {
			t.Fatalf("GenerateStudentCode() = %q, want SOMA-####", code)
		}
	}
}

func Test_IsPendingStudent(t *testing.T) {
	tests := []struct {
		name string
		prof Profile
		want bool
	}{
		{name: "pending student", prof: Profile{Role: RoleStudent, Status: StatusPending}, want: true},
		{name: "approved student", prof: Profile{Role: RoleStudent, Status: StatusApproved}},
		{name: "rejected student", prof: Profile{Role: RoleStudent, Status: StatusRejected}},
		{name: "pending non-student", prof: Profile{Role: RoleTeacher, Status: StatusPending}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.prof.IsPendingStudent(); got != tt.want {
				t.Errorf("IsPendingStudent() = %v, want %v", got, tt.want)
			}
		})
	}
}
