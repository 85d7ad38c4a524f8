package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/soma/core/school"
)

type (
	classRow struct {
		ID           string `db:"id"`
		Name         string `db:"name"`
		Level        string `db:"level"`
		StudentCount int    `db:"student_count"`
	}

	resourceRow struct {
		ID       string         `db:"id"`
		Title    string         `db:"title"`
		Unit     string         `db:"unit"`
		Subject  string         `db:"subject"`
		FileSize sql.NullString `db:"file_size"`
		Content  sql.NullString `db:"content"`
	}

	examRow struct {
		ID       string         `db:"id"`
		Title    string         `db:"title"`
		Subject  string         `db:"subject"`
		ExamDate time.Time      `db:"exam_date"`
		Duration sql.NullString `db:"duration"`
		Status   string         `db:"status"`
	}

	masteryRow struct {
		StudentID   string    `db:"student_id"`
		StudentName string    `db:"student_name"`
		Mastery     int       `db:"mastery_percentage"`
		UpdatedAt   time.Time `db:"updated_at"`
	}

	feedbackRow struct {
		ID          string         `db:"id"`
		TeacherName sql.NullString `db:"teacher_name"`
		Subject     string         `db:"subject"`
		Message     string         `db:"message"`
		CreatedAt   time.Time      `db:"created_at"`
	}
)

const examDateFormat = "2006-01-02"

func (r classRow) toClass() school.Class {
	return school.Class{ID: r.ID, Name: r.Name, Level: r.Level, StudentCount: r.StudentCount}
}

func (r resourceRow) toResource() school.Resource {
	return school.Resource{
		ID:       r.ID,
		Title:    r.Title,
		Unit:     r.Unit,
		Subject:  r.Subject,
		FileSize: r.FileSize.String,
		Content:  r.Content.String,
	}
}

func (r examRow) toExam() school.Exam {
	return school.Exam{
		ID:       r.ID,
		Title:    r.Title,
		Subject:  r.Subject,
		Date:     r.ExamDate.Format(examDateFormat),
		Duration: r.Duration.String,
		Status:   r.Status,
	}
}

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo schoolRepository) QueryClasses(ctx context.Context, schoolID string) ([]school.Class, error) {
	var rows []classRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, name, level, student_count FROM classes WHERE school_id = $1`,
		schoolID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}

	classes := make([]school.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, row.toClass())
	}
	return classes, nil
}

func (repo schoolRepository) CreateClass(ctx context.Context, schoolID string, c school.Class) (school.Class, error) {
	c.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO classes (id, school_id, name, level, student_count)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, schoolID, c.Name, c.Level, c.StudentCount,
	)
	if err != nil {
		return school.Class{}, errors.Wrap(err, "inserting class")
	}
	return c, nil
}

func (repo schoolRepository) QueryTeacherSubjects(ctx context.Context, teacherID string) ([]string, error) {
	subjects := make([]string, 0)
	err := repo.db.SelectContext(ctx, &subjects, `
		SELECT DISTINCT subject FROM resources WHERE teacher_id = $1`,
		teacherID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying teacher subjects")
	}
	return subjects, nil
}

func (repo schoolRepository) QueryStudentMastery(ctx context.Context, subject string) ([]school.MasteryRecord, error) {
	var rows []masteryRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT sm.student_id, p.full_name AS student_name, sm.mastery_percentage, sm.updated_at
		FROM student_mastery sm
		JOIN profiles p ON p.id = sm.student_id
		WHERE sm.subject = $1`,
		subject,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying student mastery")
	}

	records := make([]school.MasteryRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, school.MasteryRecord{
			StudentID:   row.StudentID,
			StudentName: row.StudentName,
			Mastery:     row.Mastery,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return records, nil
}

func (repo schoolRepository) CreateFeedback(ctx context.Context, teacherID, studentID, subject, message string) error {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO feedback (id, teacher_id, student_id, subject, message)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), teacherID, studentID, subject, message,
	)
	return errors.Wrap(err, "inserting feedback")
}

func (repo schoolRepository) QueryStudentFeedback(ctx context.Context, studentID string) ([]school.FeedbackRecord, error) {
	var rows []feedbackRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT f.id, p.full_name AS teacher_name, f.subject, f.message, f.created_at
		FROM feedback f
		LEFT JOIN profiles p ON p.id = f.teacher_id
		WHERE f.student_id = $1
		ORDER BY f.created_at DESC`,
		studentID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying student feedback")
	}

	records := make([]school.FeedbackRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, school.FeedbackRecord{
			ID:          row.ID,
			TeacherName: row.TeacherName.String,
			Subject:     row.Subject,
			Message:     row.Message,
			CreatedAt:   row.CreatedAt,
		})
	}
	return records, nil
}

func (repo schoolRepository) CreateExam(ctx context.Context, schoolID string, e school.Exam) (school.Exam, error) {
	date, err := time.Parse(examDateFormat, e.Date)
	if err != nil {
		return school.Exam{}, errors.Wrap(err, "parsing exam date")
	}

	e.ID = uuid.New().String()
	_, err = repo.db.ExecContext(ctx, `
		INSERT INTO exams (id, school_id, title, subject, exam_date, duration, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, schoolID, e.Title, e.Subject, date, e.Duration, e.Status,
	)
	if err != nil {
		return school.Exam{}, errors.Wrap(err, "inserting exam")
	}
	return e, nil
}

func (repo schoolRepository) QueryExams(ctx context.Context, schoolID, subject string) ([]school.Exam, error) {
	query := `
		SELECT id, title, subject, exam_date, duration, status
		FROM exams WHERE school_id = ?`
	args := []interface{}{schoolID}
	if subject != "" {
		query += ` AND subject = ?`
		args = append(args, subject)
	}
	query += ` ORDER BY exam_date ASC`

	var rows []examRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying exams")
	}

	exams := make([]school.Exam, 0, len(rows))
	for _, row := range rows {
		exams = append(exams, row.toExam())
	}
	return exams, nil
}

func (repo schoolRepository) CreateResource(ctx context.Context, schoolID, teacherID string, r school.Resource) (school.Resource, error) {
	r.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO resources (id, school_id, teacher_id, title, unit, subject, file_size, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, schoolID, teacherID, r.Title, r.Unit, r.Subject, r.FileSize, r.Content,
	)
	if err != nil {
		return school.Resource{}, errors.Wrap(err, "inserting resource")
	}
	return r, nil
}

func (repo schoolRepository) QueryResources(ctx context.Context, schoolID, subject string) ([]school.Resource, error) {
	query := `
		SELECT id, title, unit, subject, file_size, content
		FROM resources WHERE school_id = ?`
	args := []interface{}{schoolID}
	if subject != "" {
		query += ` AND subject = ?`
		args = append(args, subject)
	}

	var rows []resourceRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying resources")
	}

	resources := make([]school.Resource, 0, len(rows))
	for _, row := range rows {
		resources = append(resources, row.toResource())
	}
	return resources, nil
}

func (repo schoolRepository) CountProfiles(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM profiles`); err != nil {
		return 0, errors.Wrap(err, "counting profiles")
	}
	return count, nil
}
