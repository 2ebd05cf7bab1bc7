package postgres

import (
	"database/sql"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

type userRow struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const userColumns = `id, name, email, password, created_at, updated_at`

const profileColumns = `id, name, email, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Name,
		&ur.Email,
		&ur.PasswordHash,
		&ur.CreatedAt,
		&ur.UpdatedAt,
	)
	return ur, err
}

func scanProfile(row rowScanner) (domain.UserProfile, error) {
	var p domain.UserProfile
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.CreatedAt)
	return p, err
}

func (ur userRow) toDomain() domain.User {
	return domain.User{
		ID:           ur.ID,
		Name:         ur.Name,
		Email:        ur.Email,
		PasswordHash: ur.PasswordHash,
		CreatedAt:    ur.CreatedAt,
		UpdatedAt:    ur.UpdatedAt,
	}
}

var _ rowScanner = (*sql.Row)(nil)
var _ rowScanner = (*sql.Rows)(nil)
