package memory

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
)

// Hasher is the minimal surface we need for seeding.
type Hasher interface {
	Hash(password string) (string, error)
}

// SeedUsers creates a demo account for local development.
// Safe to call multiple times (duplicates ignored).
func SeedUsers(ctx context.Context, repo *UserRepo, hasher Hasher) {
	seeds := []struct {
		Name  string
		Email string
		Pass  string
	}{
		{Name: "Demo User", Email: "demo@example.com", Pass: "DemoPassword123!"},
	}

	for _, s := range seeds {
		if taken, _ := repo.EmailTaken(ctx, s.Email, 0); taken {
			continue
		}

		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("email", s.Email).Msg("seed hash failed")
			continue
		}

		u, err := repo.Create(ctx, domain.User{Name: s.Name, Email: s.Email, PasswordHash: hash})
		if err != nil {
			logger.Logger.Warn().Err(err).Str("email", s.Email).Msg("seed create failed")
			continue
		}
		logger.Logger.Info().Int64("user_id", u.ID).Str("email", u.Email).Msg("seeded dev user")
	}
}
