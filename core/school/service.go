package school

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/soma/core"
)

var ErrNotFound = errors.New("record not found")

const (
	feedbackDateFormat = "Jan 2, 2006"
	lastActiveFormat   = "Jan 2, 2006 15:04"
)

type (
	Repository interface {
		QueryClasses(ctx context.Context, schoolID string) ([]Class, error)
		CreateClass(ctx context.Context, schoolID string, c Class) (Class, error)
		QueryTeacherSubjects(ctx context.Context, teacherID string) ([]string, error)
		QueryStudentMastery(ctx context.Context, subject string) ([]MasteryRecord, error)
		CreateFeedback(ctx context.Context, teacherID, studentID, subject, message string) error
		// QueryStudentFeedback returns feedback for a student ordered
		// newest-first by creation time.
		QueryStudentFeedback(ctx context.Context, studentID string) ([]FeedbackRecord, error)
		CreateExam(ctx context.Context, schoolID string, e Exam) (Exam, error)
		// QueryExams returns exams for a school ordered ascending by date,
		// optionally filtered by subject ("" means no filter).
		QueryExams(ctx context.Context, schoolID, subject string) ([]Exam, error)
		CreateResource(ctx context.Context, schoolID, teacherID string, r Resource) (Resource, error)
		QueryResources(ctx context.Context, schoolID, subject string) ([]Resource, error)
		CountProfiles(ctx context.Context) (int, error)
	}

	// Service is the role dashboards' single entry to the school data.
	// Every operation fails soft: store errors are logged and callers
	// get a benign empty/nil/false value, never an error.
	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (svc *Service) Classes(ctx context.Context, schoolID string) []Class {
	classes, err := svc.repo.QueryClasses(ctx, schoolID)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("fetching classes: %v", err), err)
		return []Class{}
	}
	return classes
}

func (svc *Service) CreateClass(ctx context.Context, schoolID string, nc NewClass) *Class {
	class, err := svc.repo.CreateClass(ctx, schoolID, Class{Name: nc.Name, Level: nc.Level})
	if err != nil {
		svc.logger.Error(fmt.Sprintf("creating class: %v", err), err)
		return nil
	}
	return &class
}

// TeacherCourses derives the distinct subject set from the teacher's
// published resources.
func (svc *Service) TeacherCourses(ctx context.Context, teacherID string) []string {
	subjects, err := svc.repo.QueryTeacherSubjects(ctx, teacherID)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("fetching teacher courses: %v", err), err)
		return []string{}
	}
	return subjects
}

// AssignCourse is a placeholder: it performs no persistence and always
// succeeds. Real semantics would need a teacher_courses table that the
// schema does not have yet; do not rely on this sticking.
func (svc *Service) AssignCourse(ctx context.Context, teacherID, subject string) bool {
	return true
}

// StudentProgress joins mastery records to profile names and derives
// each student's status from their mastery score. Ordering is not
// guaranteed.
func (svc *Service) StudentProgress(ctx context.Context, subject string) []StudentProgress {
	records, err := svc.repo.QueryStudentMastery(ctx, subject)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("fetching student progress: %v", err), err)
		return []StudentProgress{}
	}

	progress := make([]StudentProgress, 0, len(records))
	for _, rec := range records {
		progress = append(progress, StudentProgress{
			StudentID:   rec.StudentID,
			StudentName: rec.StudentName,
			Mastery:     rec.Mastery,
			LastActive:  rec.UpdatedAt.Format(lastActiveFormat),
			Status:      MasteryStatus(rec.Mastery),
		})
	}
	return progress
}

func (svc *Service) SendFeedback(ctx context.Context, teacherID, studentID, subject, message string) bool {
	if err := svc.repo.CreateFeedback(ctx, teacherID, studentID, subject, message); err != nil {
		svc.logger.Error(fmt.Sprintf("sending feedback: %v", err), err)
		return false
	}
	return true
}

func (svc *Service) StudentFeedback(ctx context.Context, studentID string) []Feedback {
	records, err := svc.repo.QueryStudentFeedback(ctx, studentID)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("fetching feedback: %v", err), err)
		return []Feedback{}
	}

	feedback := make([]Feedback, 0, len(records))
	for _, rec := range records {
		from := rec.TeacherName
		if from == "" {
			from = "Unknown"
		}
		feedback = append(feedback, Feedback{
			ID:          rec.ID,
			FromTeacher: from,
			Subject:     rec.Subject,
			Message:     rec.Message,
			Date:        rec.CreatedAt.Format(feedbackDateFormat),
		})
	}
	return feedback
}

func (svc *Service) ScheduleExam(ctx context.Context, ne NewExam, schoolID string) *Exam {
	exam, err := svc.repo.CreateExam(ctx, schoolID, Exam{
		Title:    ne.Title,
		Subject:  ne.Subject,
		Date:     ne.Date,
		Duration: ne.Duration,
		Status:   ne.Status,
	})
	if err != nil {
		svc.logger.Error(fmt.Sprintf("scheduling exam: %v", err), err)
		return nil
	}
	return &exam
}

func (svc *Service) UpcomingExams(ctx context.Context, schoolID, subject string) []Exam {
	exams, err := svc.repo.QueryExams(ctx, schoolID, subject)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("fetching exams: %v", err), err)
		return []Exam{}
	}
	return exams
}

func (svc *Service) PublishResource(ctx context.Context, nr NewResource, schoolID, teacherID string) *Resource {
	resource, err := svc.repo.CreateResource(ctx, schoolID, teacherID, Resource{
		Title:    nr.Title,
		Unit:     nr.Unit,
		Subject:  nr.Subject,
		FileSize: nr.FileSize,
		Content:  nr.Content,
	})
	if err != nil {
		svc.logger.Error(fmt.Sprintf("publishing resource: %v", err), err)
		return nil
	}
	return &resource
}

func (svc *Service) ClassResources(ctx context.Context, schoolID, subject string) []Resource {
	resources, err := svc.repo.QueryResources(ctx, schoolID, subject)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("fetching resources: %v", err), err)
		return []Resource{}
	}
	return resources
}

// Health reports a coarse system snapshot for the admin dashboard.
func (svc *Service) Health(ctx context.Context) HealthSnapshot {
	count, err := svc.repo.CountProfiles(ctx)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("fetching system health: %v", err), err)
		return HealthSnapshot{Status: "Error", Uptime: "0%"}
	}
	return HealthSnapshot{Status: "Optimal", Users: count, Uptime: "99.9%"}
}
