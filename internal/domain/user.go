package domain

import "time"

// User is the full persisted record. PasswordHash never leaves the service.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile is the public projection selected by the store for list/show/me.
type UserProfile struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// UserChanges carries a partial update. Nil fields are left untouched.
type UserChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

func (c UserChanges) Empty() bool {
	return c.Name == nil && c.Email == nil && c.PasswordHash == nil
}

func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
