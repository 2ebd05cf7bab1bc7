package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[int64]domain.User
	findErr error
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{byID: map[int64]domain.User{}}
	for _, u := range users {
		r.byID[u.ID] = u
	}
	return r
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return domain.User{}, f.findErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) FindProfile(ctx context.Context, id int64) (domain.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return domain.UserProfile{}, domain.ErrUserNotFound()
	}
	return u.Profile(), nil
}

type fakeHasher struct{}

func (fakeHasher) Compare(hash string, password string) error {
	if hash == "hash:"+password {
		return nil
	}
	return errors.New("mismatch")
}

// fakeSigner encodes claims as "tok:<uid>:<jti>:<exp-unix>".
type fakeSigner struct {
	mu      sync.Mutex
	n       int
	signErr error
}

func (s *fakeSigner) SignAccessToken(userID int64, ttl time.Duration) (string, TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.signErr != nil {
		return "", TokenClaims{}, s.signErr
	}
	s.n++
	c := TokenClaims{
		UserID: userID,
		JTI:    fmt.Sprintf("jti-%d", s.n),
		Exp:    time.Now().Add(ttl).Truncate(time.Second),
	}
	return fmt.Sprintf("tok:%d:%s:%d", c.UserID, c.JTI, c.Exp.Unix()), c, nil
}

func (s *fakeSigner) VerifyAccessToken(token string) (TokenClaims, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 4 || parts[0] != "tok" {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	uid, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	exp, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	if time.Unix(exp, 0).Before(time.Now()) {
		return TokenClaims{}, domain.ErrTokenExpired()
	}
	return TokenClaims{UserID: uid, JTI: parts[2], Exp: time.Unix(exp, 0)}, nil
}

type fakeDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: map[string]time.Time{}}
}

func (d *fakeDenylist) Revoke(ctx context.Context, jti string, exp time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.revoked[jti] = exp
	return nil
}

func (d *fakeDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.revoked[jti]
	return ok, nil
}

/*
Service factory for tests
*/

var alice = domain.User{
	ID:           1,
	Name:         "Alice",
	Email:        "alice@example.com",
	PasswordHash: "hash:secret123",
	CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
}

func newSvcForTest(t *testing.T) (*Service, *fakeUserRepo, *fakeSigner, *fakeDenylist, *[]string) {
	t.Helper()

	users := newFakeUserRepo(alice)
	signer := &fakeSigner{}
	deny := newFakeDenylist()
	actions := &[]string{}

	svc := NewService(users, fakeHasher{}, signer, deny, Config{AccessTTL: time.Hour}).
		WithAudit(func(action string, _ map[string]string) {
			*actions = append(*actions, action)
		})

	return svc, users, signer, deny, actions
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}
