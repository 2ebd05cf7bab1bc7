package users

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/validation"
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	fakes  FakeGenerator
	pub    EventPublisher
	rules  *validation.Validator

	audit func(action string, fields map[string]string)
	now   func() time.Time
}

func NewService(users UserRepo, hasher PasswordHasher, fakes FakeGenerator, pub EventPublisher) *Service {
	if pub == nil {
		pub = noopPublisher{}
	}
	return &Service{
		users:  users,
		hasher: hasher,
		fakes:  fakes,
		pub:    pub,
		rules:  validation.New(),
		audit:  func(string, map[string]string) {},
		now:    time.Now,
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// Input is the raw request payload. Name and Email are expected to be trimmed
// by the transport layer; passwords are passed through untouched.
type Input struct {
	Name                 validation.Field
	Email                validation.Field
	Password             validation.Field
	PasswordConfirmation validation.Field
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) emailTaken(exceptID int64) validation.UniqueFunc {
	return func(ctx context.Context, value string) (bool, error) {
		return s.users.EmailTaken(ctx, normalizeEmail(value), exceptID)
	}
}

func (s *Service) hash(password string) (string, error) {
	h, err := s.hasher.Hash(password)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return "", de
		}
		return "", domain.ErrHashFailed(err)
	}
	return h, nil
}

// notFoundAs rewrites a not-found error with an operation specific message.
func notFoundAs(err error, msg string) error {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind == domain.KindNotFound {
		return domain.WithMessage(de, msg)
	}
	return err
}

type publishFunc func(ctx context.Context, evt UserEvent) error

// publish is best effort: a broker outage must not fail a committed write.
func (s *Service) publish(ctx context.Context, kind string, fn publishFunc, u domain.User) {
	evt := UserEvent{
		UserID:     u.ID,
		Name:       u.Name,
		Email:      u.Email,
		OccurredAt: s.now().UTC(),
	}
	if err := fn(ctx, evt); err != nil {
		s.audit("user.event_publish_failed", map[string]string{
			"event":   kind,
			"user_id": strconv.FormatInt(u.ID, 10),
			"error":   err.Error(),
		})
	}
}

type noopPublisher struct{}

func (noopPublisher) PublishUserCreated(context.Context, UserEvent) error { return nil }
func (noopPublisher) PublishUserUpdated(context.Context, UserEvent) error { return nil }
func (noopPublisher) PublishUserDeleted(context.Context, UserEvent) error { return nil }
