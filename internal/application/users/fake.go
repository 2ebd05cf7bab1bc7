package users

import (
	"context"
	"errors"
	"strconv"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

// fakeAttempts bounds retries when the generator repeats an email.
const fakeAttempts = 3

// InsertFake persists a synthesized user. Only mounted outside production.
func (s *Service) InsertFake(ctx context.Context) (domain.User, error) {
	if s.fakes == nil {
		return domain.User{}, domain.ErrInternal(errors.New("fake generator not configured"))
	}

	var lastErr error
	for i := 0; i < fakeAttempts; i++ {
		f := s.fakes.User()

		hash, err := s.hash(f.Password)
		if err != nil {
			return domain.User{}, err
		}

		created, err := s.users.Create(ctx, domain.User{
			Name:         f.Name,
			Email:        normalizeEmail(f.Email),
			PasswordHash: hash,
		})
		if err != nil {
			if domain.KindOf(err) == domain.KindValidation {
				lastErr = err
				continue
			}
			return domain.User{}, err
		}

		s.audit("user.fake_created", map[string]string{"user_id": strconv.FormatInt(created.ID, 10)})
		s.publish(ctx, "user.created", s.pub.PublishUserCreated, created)
		return created, nil
	}

	return domain.User{}, domain.ErrInternal(lastErr)
}
