package dto

import (
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

// timestampLayout renders UTC timestamps with microseconds, e.g.
// 2024-05-01T09:30:00.000000Z.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

type Timestamp time.Time

func (t Timestamp) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + tt.UTC().Format(timestampLayout) + `"`), nil
}

// UserSummary is returned after create, update, insert-fake and login.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserProfile is returned by list, show and me.
type UserProfile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
}

func SummaryFrom(u domain.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func ProfileFrom(p domain.UserProfile) UserProfile {
	return UserProfile{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		CreatedAt: Timestamp(p.CreatedAt),
	}
}

// ProfilesFrom never returns nil, so an empty list encodes as [].
func ProfilesFrom(list []domain.UserProfile) []UserProfile {
	out := make([]UserProfile, 0, len(list))
	for _, p := range list {
		out = append(out, ProfileFrom(p))
	}
	return out
}
