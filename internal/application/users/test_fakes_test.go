package users

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	nextID int64
	byID   map[int64]domain.User

	// injected errors (if set, method returns error)
	listErr   error
	findErr   error
	takenErr  error
	createErr error
	updateErr error
	deleteErr error

	updates []domain.UserChanges
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]domain.User{}}
}

func (f *fakeUserRepo) seed(u domain.User) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	u.UpdatedAt = u.CreatedAt
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.UserProfile
	for _, u := range f.byID {
		out = append(out, u.Profile())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) FindProfile(ctx context.Context, id int64) (domain.UserProfile, error) {
	u, err := f.FindByID(ctx, id)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return u.Profile(), nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return domain.User{}, f.findErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.takenErr != nil {
		return false, f.takenErr
	}
	for _, u := range f.byID {
		if u.Email == email && u.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if taken, _ := f.EmailTaken(ctx, u.Email, 0); taken {
		return domain.User{}, domain.ErrEmailTaken()
	}
	return f.seed(u), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id int64, c domain.UserChanges) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return domain.User{}, f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if c.Name != nil {
		u.Name = *c.Name
	}
	if c.Email != nil {
		u.Email = *c.Email
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	f.byID[id] = u
	f.updates = append(f.updates, c)
	return u, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrUserNotFound()
	}
	delete(f.byID, id)
	return nil
}

type fakeHasher struct {
	hashFn func(pw string) (string, error)
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if hash == "hash:"+password {
		return nil
	}
	return errors.New("mismatch")
}

type fakeGenerator struct {
	mu    sync.Mutex
	queue []FakeUser
	n     int
}

func (g *fakeGenerator) User() FakeUser {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.queue) > 0 {
		u := g.queue[0]
		g.queue = g.queue[1:]
		return u
	}
	g.n++
	return FakeUser{
		Name:     fmt.Sprintf("Fake %d", g.n),
		Email:    fmt.Sprintf("fake%d@example.com", g.n),
		Password: "password",
	}
}

type fakePublisher struct {
	mu  sync.Mutex
	err error

	created []UserEvent
	updated []UserEvent
	deleted []UserEvent
}

func (p *fakePublisher) PublishUserCreated(ctx context.Context, evt UserEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, evt)
	return p.err
}

func (p *fakePublisher) PublishUserUpdated(ctx context.Context, evt UserEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, evt)
	return p.err
}

func (p *fakePublisher) PublishUserDeleted(ctx context.Context, evt UserEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, evt)
	return p.err
}

type auditEntry struct {
	action string
	fields map[string]string
}

/*
Service factory for tests
*/

func newSvcForTest(t *testing.T) (*Service, *fakeUserRepo, *fakeHasher, *fakeGenerator, *fakePublisher, *[]auditEntry) {
	t.Helper()

	repo := newFakeUserRepo()
	hasher := &fakeHasher{}
	gen := &fakeGenerator{}
	pub := &fakePublisher{}
	audits := &[]auditEntry{}

	svc := NewService(repo, hasher, gen, pub).
		WithAudit(func(action string, fields map[string]string) {
			cp := map[string]string{}
			for k, v := range fields {
				cp[k] = v
			}
			*audits = append(*audits, auditEntry{action: action, fields: cp})
		})

	return svc, repo, hasher, gen, pub, audits
}

/*
Small assertions
*/

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func requireFieldErrors(t *testing.T, err error, field string, want ...string) {
	t.Helper()
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	got := de.Fields[field]
	if len(got) != len(want) {
		t.Fatalf("field %q: expected %v, got %v (all=%v)", field, want, got, de.Fields)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("field %q: expected %v, got %v", field, want, got)
		}
	}
}
