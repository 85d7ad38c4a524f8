package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/soma/core"
	"github.com/trezcool/soma/core/user"
)

type profileRow struct {
	ID           string         `db:"id"`
	FullName     string         `db:"full_name"`
	Email        string         `db:"email"`
	Role         string         `db:"role"`
	Status       string         `db:"status"`
	SchoolID     sql.NullString `db:"school_id"`
	StudentCode  sql.NullString `db:"student_code"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

// toProfile maps a storage row to the domain shape. NULL optional
// columns resolve to zero values so no caller ever sees a raw row.
func (r profileRow) toProfile() user.Profile {
	return user.Profile{
		ID:           r.ID,
		FullName:     r.FullName,
		Email:        r.Email,
		Role:         r.Role,
		Status:       r.Status,
		SchoolID:     r.SchoolID.String,
		StudentCode:  r.StudentCode.String,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

func newProfileRow(p user.Profile) profileRow {
	return profileRow{
		ID:           p.ID,
		FullName:     p.FullName,
		Email:        p.Email,
		Role:         p.Role,
		Status:       p.Status,
		SchoolID:     sql.NullString{String: p.SchoolID, Valid: p.SchoolID != ""},
		StudentCode:  sql.NullString{String: p.StudentCode, Valid: p.StudentCode != ""},
		PasswordHash: p.PasswordHash,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		LastLogin:    sql.NullTime{Time: p.LastLogin, Valid: !p.LastLogin.IsZero()},
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapErr maps driver errors to the domain taxonomy: "no rows" becomes
// user.ErrNotFound; a dead connection becomes a shutdown error so the
// API stops taking traffic on a broken pool.
func trapErr(err error, msg string) error {
	switch err {
	case sql.ErrNoRows:
		return user.ErrNotFound
	case sql.ErrConnDone, driver.ErrBadConn:
		return core.NewShutdownError(msg + ": database connection is gone")
	}
	return errors.Wrap(err, msg)
}

const profileColumns = `id, full_name, email, role, status, school_id, student_code, password_hash, created_at, updated_at, last_login`

func (repo userRepository) CreateProfile(ctx context.Context, p user.Profile) (user.Profile, error) {
	p.ID = uuid.New().String()
	row := newProfileRow(p)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (:id, :full_name, :email, :role, :status, :school_id, :student_code, :password_hash, :created_at, :updated_at, :last_login)`,
		row,
	)
	if err != nil {
		return user.Profile{}, trapErr(err, "inserting profile")
	}
	return p, nil
}

func (repo userRepository) GetProfileByID(ctx context.Context, id string) (user.Profile, error) {
	var row profileRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	if err != nil {
		return user.Profile{}, trapErr(err, "getting profile by id")
	}
	return row.toProfile(), nil
}

func (repo userRepository) GetProfileByEmail(ctx context.Context, email string) (user.Profile, error) {
	var row profileRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)
	if err != nil {
		return user.Profile{}, trapErr(err, "getting profile by email")
	}
	return row.toProfile(), nil
}

func (repo userRepository) GetStudentByCode(ctx context.Context, code string) (user.Profile, error) {
	var row profileRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT `+profileColumns+` FROM profiles WHERE student_code = $1 AND role = $2`,
		code, user.RoleStudent,
	)
	if err != nil {
		return user.Profile{}, trapErr(err, "getting student by code")
	}
	return row.toProfile(), nil
}

func (repo userRepository) FilterProfiles(ctx context.Context, filter user.Filter) ([]user.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE 1=1`
	var args []interface{}
	arg := func(val string) string {
		args = append(args, val)
		return "?" // numbered by Rebind below
	}

	if filter.SchoolID != "" {
		query += ` AND school_id = ` + arg(filter.SchoolID)
	}
	if filter.Role != "" {
		query += ` AND role = ` + arg(filter.Role)
	}
	if filter.Status != "" {
		query += ` AND status = ` + arg(filter.Status)
	}

	var rows []profileRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, trapErr(err, "filtering profiles")
	}

	profs := make([]user.Profile, 0, len(rows))
	for _, row := range rows {
		profs = append(profs, row.toProfile())
	}
	return profs, nil
}

func (repo userRepository) UpdateProfileStatus(ctx context.Context, id, status string) error {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE profiles SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return trapErr(err, "updating profile status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo userRepository) SetLastLogin(ctx context.Context, id string, t time.Time) error {
	if _, err := repo.db.ExecContext(ctx, `UPDATE profiles SET last_login = $1 WHERE id = $2`, t.UTC(), id); err != nil {
		return trapErr(err, "setting last login")
	}
	return nil
}
