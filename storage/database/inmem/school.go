package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/soma/core/school"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) QueryClasses(ctx context.Context, schoolID string) ([]school.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]school.Class, 0)
	for id, class := range repo.db.classes {
		if repo.db.classOrg[id] == schoolID {
			classes = append(classes, *class)
		}
	}
	return classes, nil
}

func (repo *schoolRepository) CreateClass(ctx context.Context, schoolID string, c school.Class) (school.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c.ID = uuid.New().String()
	repo.db.classes[c.ID] = &c
	repo.db.classOrg[c.ID] = schoolID
	return c, nil
}

func (repo *schoolRepository) QueryTeacherSubjects(ctx context.Context, teacherID string) ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	seen := make(map[string]bool)
	subjects := make([]string, 0)
	for _, entry := range repo.db.resources {
		if entry.TeacherID == teacherID && !seen[entry.Subject] {
			seen[entry.Subject] = true
			subjects = append(subjects, entry.Subject)
		}
	}
	return subjects, nil
}

func (repo *schoolRepository) QueryStudentMastery(ctx context.Context, subject string) ([]school.MasteryRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]school.MasteryRecord, 0)
	for _, entry := range repo.db.mastery {
		if entry.Subject != subject {
			continue
		}
		var name string
		if prof, ok := repo.db.profiles[entry.StudentID]; ok {
			name = prof.FullName
		}
		records = append(records, school.MasteryRecord{
			StudentID:   entry.StudentID,
			StudentName: name,
			Mastery:     entry.Mastery,
			UpdatedAt:   entry.UpdatedAt,
		})
	}
	return records, nil
}

func (repo *schoolRepository) CreateFeedback(ctx context.Context, teacherID, studentID, subject, message string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	id := uuid.New().String()
	repo.db.feedback[id] = &feedbackEntry{
		ID:        id,
		TeacherID: teacherID,
		StudentID: studentID,
		Subject:   subject,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (repo *schoolRepository) QueryStudentFeedback(ctx context.Context, studentID string) ([]school.FeedbackRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]school.FeedbackRecord, 0)
	for _, entry := range repo.db.feedback {
		if entry.StudentID != studentID {
			continue
		}
		var teacherName string
		if prof, ok := repo.db.profiles[entry.TeacherID]; ok {
			teacherName = prof.FullName
		}
		records = append(records, school.FeedbackRecord{
			ID:          entry.ID,
			TeacherName: teacherName,
			Subject:     entry.Subject,
			Message:     entry.Message,
			CreatedAt:   entry.CreatedAt,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt.After(records[j].CreatedAt) })
	return records, nil
}

func (repo *schoolRepository) CreateExam(ctx context.Context, schoolID string, e school.Exam) (school.Exam, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	e.ID = uuid.New().String()
	repo.db.exams[e.ID] = &examEntry{Exam: e, SchoolID: schoolID}
	return e, nil
}

func (repo *schoolRepository) QueryExams(ctx context.Context, schoolID, subject string) ([]school.Exam, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	exams := make([]school.Exam, 0)
	for _, entry := range repo.db.exams {
		if entry.SchoolID != schoolID {
			continue
		}
		if subject != "" && entry.Subject != subject {
			continue
		}
		exams = append(exams, entry.Exam)
	}
	sort.Slice(exams, func(i, j int) bool { return exams[i].Date < exams[j].Date })
	return exams, nil
}

func (repo *schoolRepository) CreateResource(ctx context.Context, schoolID, teacherID string, r school.Resource) (school.Resource, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r.ID = uuid.New().String()
	repo.db.resources[r.ID] = &resourceEntry{Resource: r, SchoolID: schoolID, TeacherID: teacherID}
	return r, nil
}

func (repo *schoolRepository) QueryResources(ctx context.Context, schoolID, subject string) ([]school.Resource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	resources := make([]school.Resource, 0)
	for _, entry := range repo.db.resources {
		if entry.SchoolID != schoolID {
			continue
		}
		if subject != "" && entry.Subject != subject {
			continue
		}
		resources = append(resources, entry.Resource)
	}
	return resources, nil
}

func (repo *schoolRepository) CountProfiles(ctx context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.profiles), nil
}
