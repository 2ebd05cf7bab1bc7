package security

import (
	"errors"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		// bcrypt only reads 72 bytes; reject rather than silently truncate
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.ErrValidation(map[string][]string{
				"password": {"The password field must not be greater than 72 bytes."},
			})
		}
		return "", domain.ErrHashFailed(err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
