package users

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Lookups return domain.ErrUserNotFound() when no row matches.
*/
type UserRepo interface {
	List(ctx context.Context) ([]domain.UserProfile, error)
	FindProfile(ctx context.Context, id int64) (domain.UserProfile, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)

	// EmailTaken reports whether another user (id != exceptID) owns email.
	// exceptID = 0 checks every row.
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)

	Create(ctx context.Context, u domain.User) (domain.User, error)
	Update(ctx context.Context, id int64, c domain.UserChanges) (domain.User, error)
	Delete(ctx context.Context, id int64) error
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
FakeGenerator
-------------
Synthesizes seed users for demos and tests.
*/
type FakeUser struct {
	Name     string
	Email    string
	Password string
}

type FakeGenerator interface {
	User() FakeUser
}

/*
EventPublisher
--------------
Publishes user lifecycle events. Failures never fail the request.
*/
type EventPublisher interface {
	PublishUserCreated(ctx context.Context, evt UserEvent) error
	PublishUserUpdated(ctx context.Context, evt UserEvent) error
	PublishUserDeleted(ctx context.Context, evt UserEvent) error
}

type UserEvent struct {
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
