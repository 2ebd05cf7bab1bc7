package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

func (s *Service) Me(ctx context.Context, userID int64) (domain.UserProfile, error) {
	return s.users.FindProfile(ctx, userID)
}
