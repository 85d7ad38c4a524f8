// Package inmemdb provides map-backed repositories. They serve the
// handler tests and local hacking without a Postgres around; the sqlx
// repositories are the real thing.
package inmemdb

import (
	"sync"
	"time"

	"github.com/trezcool/soma/core/school"
	"github.com/trezcool/soma/core/user"
)

type (
	resourceEntry struct {
		school.Resource
		SchoolID  string
		TeacherID string
	}

	examEntry struct {
		school.Exam
		SchoolID string
	}

	feedbackEntry struct {
		ID        string
		TeacherID string
		StudentID string
		Subject   string
		Message   string
		CreatedAt time.Time
	}

	masteryEntry struct {
		StudentID string
		Subject   string
		Mastery   int
		UpdatedAt time.Time
	}

	DB struct {
		mutex     sync.RWMutex
		profiles  map[string]*user.Profile
		classes   map[string]*school.Class
		classOrg  map[string]string // class ID -> school ID
		resources map[string]*resourceEntry
		exams     map[string]*examEntry
		feedback  map[string]*feedbackEntry
		mastery   []*masteryEntry
	}
)

func NewDB() *DB {
	return &DB{
		profiles:  make(map[string]*user.Profile),
		classes:   make(map[string]*school.Class),
		classOrg:  make(map[string]string),
		resources: make(map[string]*resourceEntry),
		exams:     make(map[string]*examEntry),
		feedback:  make(map[string]*feedbackEntry),
	}
}

// SetMastery seeds a student's mastery score for a subject.
func (db *DB) SetMastery(studentID, subject string, mastery int, updatedAt time.Time) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	for _, entry := range db.mastery {
		if entry.StudentID == studentID && entry.Subject == subject {
			entry.Mastery = mastery
			entry.UpdatedAt = updatedAt
			return
		}
	}
	db.mastery = append(db.mastery, &masteryEntry{
		StudentID: studentID,
		Subject:   subject,
		Mastery:   mastery,
		UpdatedAt: updatedAt,
	})
}
