package users

import (
	"context"
	"strconv"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/validation"
)

// List returns every user, projected without the password hash.
func (s *Service) List(ctx context.Context) ([]domain.UserProfile, error) {
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.UserProfile{}
	}
	return list, nil
}

func (s *Service) Create(ctx context.Context, in Input) (domain.User, error) {
	errs, err := s.rules.Validate(ctx, map[string]validation.Rules{
		"name": {
			Field:    in.Name,
			Required: true,
			Tags:     []string{"max=255"},
		},
		"email": {
			Field:    in.Email,
			Required: true,
			Tags:     []string{"email", "max=255"},
			Unique:   s.emailTaken(0),
		},
		"password": {
			Field:    in.Password,
			Required: true,
			Tags:     []string{"min=8"},
			Confirm:  &in.PasswordConfirmation,
		},
	})
	if err != nil {
		return domain.User{}, err
	}
	if errs != nil {
		return domain.User{}, domain.ErrValidation(errs)
	}

	name, _ := in.Name.String()
	email, _ := in.Email.String()
	password, _ := in.Password.String()

	hash, err := s.hash(password)
	if err != nil {
		return domain.User{}, err
	}

	created, err := s.users.Create(ctx, domain.User{
		Name:         name,
		Email:        normalizeEmail(email),
		PasswordHash: hash,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.audit("user.created", map[string]string{"user_id": strconv.FormatInt(created.ID, 10)})
	s.publish(ctx, "user.created", s.pub.PublishUserCreated, created)
	return created, nil
}

func (s *Service) Show(ctx context.Context, id int64) (domain.UserProfile, error) {
	return s.users.FindProfile(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (domain.User, error) {
	const notFoundMsg = "User not found for update."

	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, notFoundAs(err, notFoundMsg)
	}

	errs, err := s.rules.Validate(ctx, map[string]validation.Rules{
		"name": {
			Field:     in.Name,
			Sometimes: true,
			Required:  true,
			Tags:      []string{"max=255"},
		},
		"email": {
			Field:     in.Email,
			Sometimes: true,
			Required:  true,
			Tags:      []string{"email", "max=255"},
			Unique:    s.emailTaken(id),
		},
		"password": {
			Field:     in.Password,
			Sometimes: true,
			Nullable:  true,
			Tags:      []string{"min=8"},
			Confirm:   &in.PasswordConfirmation,
		},
	})
	if err != nil {
		return domain.User{}, err
	}
	if errs != nil {
		return domain.User{}, domain.ErrValidation(errs)
	}

	var changes domain.UserChanges
	if name, ok := in.Name.String(); ok && in.Name.Present {
		changes.Name = &name
	}
	if email, ok := in.Email.String(); ok && in.Email.Present {
		email = normalizeEmail(email)
		changes.Email = &email
	}
	if in.Password.Filled() {
		password, _ := in.Password.String()
		hash, err := s.hash(password)
		if err != nil {
			return domain.User{}, err
		}
		changes.PasswordHash = &hash
	}

	if changes.Empty() {
		return current, nil
	}

	updated, err := s.users.Update(ctx, id, changes)
	if err != nil {
		return domain.User{}, notFoundAs(err, notFoundMsg)
	}

	s.audit("user.updated", map[string]string{
		"user_id":          strconv.FormatInt(id, 10),
		"password_changed": strconv.FormatBool(changes.PasswordHash != nil),
	})
	s.publish(ctx, "user.updated", s.pub.PublishUserUpdated, updated)
	return updated, nil
}

func (s *Service) Destroy(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundAs(err, "User not found for deletion.")
	}

	s.audit("user.deleted", map[string]string{"user_id": strconv.FormatInt(id, 10)})
	s.publish(ctx, "user.deleted", s.pub.PublishUserDeleted, domain.User{ID: id})
	return nil
}
