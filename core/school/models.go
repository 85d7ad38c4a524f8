package school

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/soma/core"
)

// Exam statuses.
const (
	ExamUpcoming  = "upcoming"
	ExamActive    = "active"
	ExamCompleted = "completed"
)

// Progress statuses derived from mastery (0-100).
const (
	ProgressExcellent = "excellent"
	ProgressOnTrack   = "on-track"
	ProgressAtRisk    = "at-risk"
)

var AllExamStatuses = []string{ExamUpcoming, ExamActive, ExamCompleted}

// MasteryStatus derives the progress status from a mastery score:
// >=80 excellent, >=50 on-track, else at-risk.
func MasteryStatus(mastery int) string {
	switch {
	case mastery >= 80:
		return ProgressExcellent
	case mastery >= 50:
		return ProgressOnTrack
	default:
		return ProgressAtRisk
	}
}

type (
	// Class is an organizational grouping created by an academic director.
	Class struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Level        string `json:"level"`
		StudentCount int    `json:"studentCount"`
	}

	// Resource is lesson material published by a teacher for a subject.
	// Content feeds the AI quiz generator.
	Resource struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Unit     string `json:"unit"`
		Subject  string `json:"subject"`
		FileSize string `json:"fileSize"`
		Content  string `json:"content"`
	}

	Exam struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Subject  string `json:"subject"`
		Date     string `json:"date"` // YYYY-MM-DD
		Duration string `json:"duration"`
		Status   string `json:"status"`
	}

	// Feedback is a one-directional note from a teacher to a student.
	Feedback struct {
		ID          string `json:"id"`
		FromTeacher string `json:"fromTeacher"`
		Subject     string `json:"subject"`
		Message     string `json:"message"`
		Date        string `json:"date"`
	}

	// StudentProgress is derived, not stored: mastery rows joined to
	// profile names, with Status computed from Mastery.
	StudentProgress struct {
		StudentID   string `json:"studentId"`
		StudentName string `json:"studentName"`
		Mastery     int    `json:"mastery"`
		LastActive  string `json:"lastActive"`
		Status      string `json:"status"`
	}

	// HealthSnapshot is the admin dashboard's system overview.
	HealthSnapshot struct {
		Status string `json:"status"`
		Users  int    `json:"users"`
		Uptime string `json:"uptime"`
	}

	// MasteryRecord is the repository row backing StudentProgress.
	MasteryRecord struct {
		StudentID   string
		StudentName string
		Mastery     int
		UpdatedAt   time.Time
	}

	// FeedbackRecord is the repository row backing Feedback.
	FeedbackRecord struct {
		ID          string
		TeacherName string
		Subject     string
		Message     string
		CreatedAt   time.Time
	}
)

// NewClass contains information needed to create a Class.
type NewClass struct {
	Name  string `json:"name" validate:"required"`
	Level string `json:"level" validate:"required"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Level = core.CleanString(nc.Level)
	return validate.Struct(nc)
}

// NewExam contains information needed to schedule an Exam.
type NewExam struct {
	Title    string `json:"title" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Duration string `json:"duration" validate:"required"`
	Status   string `json:"status" validate:"omitempty,examstatus"`
}

func (ne *NewExam) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Subject = core.CleanString(ne.Subject)
	ne.Date = core.CleanString(ne.Date)
	ne.Duration = core.CleanString(ne.Duration)
	ne.Status = core.CleanString(ne.Status, true /* lower */)
	if ne.Status == "" {
		ne.Status = ExamUpcoming
	}
	return validate.Struct(ne)
}

// NewResource contains information needed to publish a Resource.
type NewResource struct {
	Title    string `json:"title" validate:"required"`
	Unit     string `json:"unit" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	FileSize string `json:"fileSize"`
	Content  string `json:"content"`
}

func (nr *NewResource) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	nr.Unit = core.CleanString(nr.Unit)
	nr.Subject = core.CleanString(nr.Subject)
	nr.FileSize = core.CleanString(nr.FileSize)
	return validate.Struct(nr)
}

// NewFeedback contains information needed to send a Feedback note.
type NewFeedback struct {
	StudentID string `json:"studentId" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

func (nf *NewFeedback) Validate(validate *validator.Validate) error {
	nf.Subject = core.CleanString(nf.Subject)
	nf.Message = core.CleanString(nf.Message)
	return validate.Struct(nf)
}
