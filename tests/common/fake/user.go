package fake

import (
	"context"
	"sync"

	"staybooker/internal/domain/booking"
	"staybooker/internal/domain/user"
	"staybooker/internal/infra"

	"github.com/google/uuid"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]user.User)}
}

func (r *UserRepository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "user not found")
	}
	return &u, nil
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

// Invalidator records availability cache evictions for assertions.
type Invalidator struct {
	mu     sync.Mutex
	ranges []booking.DateRange
}

func NewInvalidator() *Invalidator {
	return &Invalidator{}
}

func (i *Invalidator) Invalidate(changed booking.DateRange) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.ranges = append(i.ranges, changed)
}

func (i *Invalidator) Ranges() []booking.DateRange {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]booking.DateRange, len(i.ranges))
	copy(out, i.ranges)
	return out
}
