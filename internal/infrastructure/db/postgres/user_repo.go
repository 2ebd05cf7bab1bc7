package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

const pgUniqueViolation = "23505"

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// mapErr turns driver errors into domain errors. A unique violation can only
// come from users_email_unique, so it surfaces as the email validation error.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrUserNotFound()
	case isUniqueViolation(err):
		return domain.ErrEmailTaken()
	default:
		return domain.ErrDBUnavailable(err)
	}
}

// ---------- users.UserRepo ----------

func (r *UserRepo) List(ctx context.Context) ([]domain.UserProfile, error) {
	const q = `SELECT ` + profileColumns + ` FROM users ORDER BY id;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.UserProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *UserRepo) FindProfile(ctx context.Context, id int64) (domain.UserProfile, error) {
	const q = `SELECT ` + profileColumns + ` FROM users WHERE id = $1 LIMIT 1;`

	p, err := scanProfile(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return domain.UserProfile{}, mapErr(err)
	}
	return p, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1;`

	ur, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return ur.toDomain(), nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`

	ur, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return ur.toDomain(), nil
}

func (r *UserRepo) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2);`

	var taken bool
	if err := r.db.QueryRowContext(ctx, q, email, exceptID).Scan(&taken); err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return taken, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
INSERT INTO users (name, email, password)
VALUES ($1, $2, $3)
RETURNING ` + userColumns + `;`

	ur, err := scanUser(r.db.QueryRowContext(ctx, q, u.Name, u.Email, u.PasswordHash))
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return ur.toDomain(), nil
}

// Update writes only the non-nil fields of c and bumps updated_at.
func (r *UserRepo) Update(ctx context.Context, id int64, c domain.UserChanges) (domain.User, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 4)

	add := func(col string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("name", c.Name)
	add("email", c.Email)
	add("password", c.PasswordHash)

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s;`,
		strings.Join(sets, ", "), len(args), userColumns)

	ur, err := scanUser(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return ur.toDomain(), nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM users WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
