package fake

import (
	"fmt"
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/users"
)

// DefaultPassword is the plaintext every generated user gets, so seeded
// accounts can log in.
const DefaultPassword = "password"

var safeDomains = []string{"example.com", "example.org", "example.net"}

// Generator produces users.FakeUser values. A Faker is not safe for
// concurrent use, hence the mutex.
type Generator struct {
	mu sync.Mutex
	f  *gofakeit.Faker
}

// New seeds the faker; seed 0 picks a random seed.
func New(seed uint64) *Generator {
	return &Generator{f: gofakeit.New(seed)}
}

func (g *Generator) User() users.FakeUser {
	g.mu.Lock()
	defer g.mu.Unlock()

	first := g.f.FirstName()
	last := g.f.LastName()

	// the numeric suffix keeps collisions rare; the service retries the rest
	local := fmt.Sprintf("%s.%s%d", first, last, g.f.Number(1000, 999999))
	local = strings.ToLower(strings.Map(func(r rune) rune {
		if r == ' ' || r == '\'' {
			return -1
		}
		return r
	}, local))

	return users.FakeUser{
		Name:     first + " " + last,
		Email:    local + "@" + g.f.RandomString(safeDomains),
		Password: DefaultPassword,
	}
}
