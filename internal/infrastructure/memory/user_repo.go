package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

// UserRepo keeps users in process memory. Used in dev when DB_ADDR is
// empty and by handler tests.
type UserRepo struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]domain.User
	byEmail map[string]int64
	now     func() time.Time
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[int64]domain.User),
		byEmail: make(map[string]int64),
		now:     time.Now,
	}
}

func (r *UserRepo) List(ctx context.Context) ([]domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.UserProfile, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u.Profile())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepo) FindProfile(ctx context.Context, id int64) (domain.UserProfile, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return u.Profile(), nil
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	return ok && id != exceptID, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailTaken()
	}

	r.nextID++
	now := r.now().UTC()
	u.ID = r.nextID
	u.CreatedAt = now
	u.UpdatedAt = now

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

func (r *UserRepo) Update(ctx context.Context, id int64, c domain.UserChanges) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}

	if c.Email != nil && *c.Email != u.Email {
		if owner, taken := r.byEmail[*c.Email]; taken && owner != id {
			return domain.User{}, domain.ErrEmailTaken()
		}
		delete(r.byEmail, u.Email)
		u.Email = *c.Email
		r.byEmail[u.Email] = id
	}
	if c.Name != nil {
		u.Name = *c.Name
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	u.UpdatedAt = r.now().UTC()

	r.byID[id] = u
	return u, nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return nil
}

// Ping satisfies the readiness check.
func (r *UserRepo) Ping(ctx context.Context) error { return nil }
