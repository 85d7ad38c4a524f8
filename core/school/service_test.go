package school

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"
)

var errBoom = errors.New("boom")

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

// brokenRepository errors on every call.
type brokenRepository struct{}

var _ Repository = (*brokenRepository)(nil)

func (brokenRepository) QueryClasses(ctx context.Context, schoolID string) ([]Class, error) {
	return nil, errBoom
}
func (brokenRepository) CreateClass(ctx context.Context, schoolID string, c Class) (Class, error) {
	return Class{}, errBoom
}
func (brokenRepository) QueryTeacherSubjects(ctx context.Context, teacherID string) ([]string, error) {
	return nil, errBoom
}
func (brokenRepository) QueryStudentMastery(ctx context.Context, subject string) ([]MasteryRecord, error) {
	return nil, errBoom
}
func (brokenRepository) CreateFeedback(ctx context.Context, teacherID, studentID, subject, message string) error {
	return errBoom
}
func (brokenRepository) QueryStudentFeedback(ctx context.Context, studentID string) ([]FeedbackRecord, error) {
	return nil, errBoom
}
func (brokenRepository) CreateExam(ctx context.Context, schoolID string, e Exam) (Exam, error) {
	return Exam{}, errBoom
}
func (brokenRepository) QueryExams(ctx context.Context, schoolID, subject string) ([]Exam, error) {
	return nil, errBoom
}
func (brokenRepository) CreateResource(ctx context.Context, schoolID, teacherID string, r Resource) (Resource, error) {
	return Resource{}, errBoom
}
func (brokenRepository) QueryResources(ctx context.Context, schoolID, subject string) ([]Resource, error) {
	return nil, errBoom
}
func (brokenRepository) CountProfiles(ctx context.Context) (int, error) {
	return 0, errBoom
}

// stubRepository serves canned rows for the derivation tests.
type stubRepository struct {
	brokenRepository
	mastery  []MasteryRecord
	feedback []FeedbackRecord
}

func (repo *stubRepository) QueryStudentMastery(ctx context.Context, subject string) ([]MasteryRecord, error) {
	return repo.mastery, nil
}

func (repo *stubRepository) QueryStudentFeedback(ctx context.Context, studentID string) ([]FeedbackRecord, error) {
	return repo.feedback, nil
}

func Test_Service_failsSoftOnBrokenStore(t *testing.T) {
	svc := NewService(brokenRepository{}, nopLogger{})
	ctx := context.Background()

	if got := svc.Classes(ctx, "gayaza"); !reflect.DeepEqual(got, []Class{}) {
		t.Errorf("Classes() = %v, want empty list", got)
	}
	if got := svc.CreateClass(ctx, "gayaza", NewClass{Name: "S1 East", Level: "S1"}); got != nil {
		t.Errorf("CreateClass() = %v, want nil", got)
	}
	if got := svc.TeacherCourses(ctx, "t1"); !reflect.DeepEqual(got, []string{}) {
		t.Errorf("TeacherCourses() = %v, want empty list", got)
	}
	if got := svc.StudentProgress(ctx, "Mathematics"); !reflect.DeepEqual(got, []StudentProgress{}) {
		t.Errorf("StudentProgress() = %v, want empty list", got)
	}
	if svc.SendFeedback(ctx, "t1", "s1", "Mathematics", "msg") {
		t.Error("SendFeedback() = true, want false")
	}
	if got := svc.StudentFeedback(ctx, "s1"); !reflect.DeepEqual(got, []Feedback{}) {
		t.Errorf("StudentFeedback() = %v, want empty list", got)
	}
	if got := svc.ScheduleExam(ctx, NewExam{Title: "Mid Term", Subject: "Mathematics", Date: "2026-10-05", Duration: "1h"}, "gayaza"); got != nil {
		t.Errorf("ScheduleExam() = %v, want nil", got)
	}
	if got := svc.UpcomingExams(ctx, "gayaza", ""); !reflect.DeepEqual(got, []Exam{}) {
		t.Errorf("UpcomingExams() = %v, want empty list", got)
	}
	if got := svc.PublishResource(ctx, NewResource{Title: "Notes", Unit: "U1", Subject: "Biology"}, "gayaza", "t1"); got != nil {
		t.Errorf("PublishResource() = %v, want nil", got)
	}
	if got := svc.ClassResources(ctx, "gayaza", ""); !reflect.DeepEqual(got, []Resource{}) {
		t.Errorf("ClassResources() = %v, want empty list", got)
	}
	if got := svc.Health(ctx); got.Status != "Error" || got.Uptime != "0%" {
		t.Errorf("Health() = %+v, want error snapshot", got)
	}
}

func Test_Service_AssignCourse(t *testing.T) {
	svc := NewService(brokenRepository{}, nopLogger{})
	if !svc.AssignCourse(context.Background(), "t1", "Physics") {
		t.Error("AssignCourse() = false, want true")
	}
}

func Test_Service_StudentProgress(t *testing.T) {
	updatedAt := time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)
	repo := &stubRepository{
		mastery: []MasteryRecord{
			{StudentID: "s1", StudentName: "Okello Bosco", Mastery: 95, UpdatedAt: updatedAt},
			{StudentID: "s2", StudentName: "Amina Nansubuga", Mastery: 65, UpdatedAt: updatedAt},
			{StudentID: "s3", StudentName: "Kato Mugisha", Mastery: 30, UpdatedAt: updatedAt},
		},
	}
	svc := NewService(repo, nopLogger{})

	want := []StudentProgress{
		{StudentID: "s1", StudentName: "Okello Bosco", Mastery: 95, LastActive: "Aug 30, 2026 14:05", Status: ProgressExcellent},
		{StudentID: "s2", StudentName: "Amina Nansubuga", Mastery: 65, LastActive: "Aug 30, 2026 14:05", Status: ProgressOnTrack},
		{StudentID: "s3", StudentName: "Kato Mugisha", Mastery: 30, LastActive: "Aug 30, 2026 14:05", Status: ProgressAtRisk},
	}
	got := svc.StudentProgress(context.Background(), "Mathematics")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StudentProgress() = %+v, want %+v", got, want)
	}
}

func Test_Service_StudentFeedback(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	repo := &stubRepository{
		feedback: []FeedbackRecord{
			{ID: "f1", TeacherName: "Grace Achieng", Subject: "Mathematics", Message: "Great work", CreatedAt: createdAt},
			{ID: "f2", TeacherName: "", Subject: "Biology", Message: "See me", CreatedAt: createdAt},
		},
	}
	svc := NewService(repo, nopLogger{})

	want := []Feedback{
		{ID: "f1", FromTeacher: "Grace Achieng", Subject: "Mathematics", Message: "Great work", Date: "Aug 30, 2026"},
		{ID: "f2", FromTeacher: "Unknown", Subject: "Biology", Message: "See me", Date: "Aug 30, 2026"},
	}
	got := svc.StudentFeedback(context.Background(), "s1")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StudentFeedback() = %+v, want %+v", got, want)
	}
}
