package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/soma/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateProfile(ctx context.Context, p user.Profile) (user.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p.ID = uuid.New().String()
	repo.db.profiles[p.ID] = &p
	return p, nil
}

func (repo *userRepository) GetProfileByID(ctx context.Context, id string) (user.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if prof, ok := repo.db.profiles[id]; ok {
		return *prof, nil
	}
	return user.Profile{}, user.ErrNotFound
}

func (repo *userRepository) GetProfileByEmail(ctx context.Context, email string) (user.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, prof := range repo.db.profiles {
		if prof.Email == email {
			return *prof, nil
		}
	}
	return user.Profile{}, user.ErrNotFound
}

func (repo *userRepository) GetStudentByCode(ctx context.Context, code string) (user.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, prof := range repo.db.profiles {
		if prof.StudentCode == code && prof.IsStudent() {
			return *prof, nil
		}
	}
	return user.Profile{}, user.ErrNotFound
}

func (repo *userRepository) FilterProfiles(ctx context.Context, filter user.Filter) ([]user.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	profs := make([]user.Profile, 0)
	for _, prof := range repo.db.profiles {
		if filter.SchoolID != "" && prof.SchoolID != filter.SchoolID {
			continue
		}
		if filter.Role != "" && prof.Role != filter.Role {
			continue
		}
		if filter.Status != "" && prof.Status != filter.Status {
			continue
		}
		profs = append(profs, *prof)
	}
	return profs, nil
}

func (repo *userRepository) UpdateProfileStatus(ctx context.Context, id, status string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	prof, ok := repo.db.profiles[id]
	if !ok {
		return user.ErrNotFound
	}
	prof.Status = status
	prof.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *userRepository) SetLastLogin(ctx context.Context, id string, t time.Time) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	prof, ok := repo.db.profiles[id]
	if !ok {
		return user.ErrNotFound
	}
	prof.LastLogin = t
	return nil
}
