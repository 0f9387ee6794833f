package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/anonrelay/internal/domain"
	"github.com/spec-kit/anonrelay/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func (f *fakeUserRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		user = &domain.User{ID: id, CreatedAt: time.Now()}
		f.users[id] = user
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) SetAlias(ctx context.Context, id int64, alias string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for otherID, other := range f.users {
		if otherID != id && other.Alias != nil && *other.Alias == alias {
			return repository.ErrAliasTaken
		}
	}
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Alias = &alias
	return nil
}

func (f *fakeUserRepo) SetBan(ctx context.Context, id int64, banned bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Banned = banned
	return nil
}

func (f *fakeUserRepo) UpdateLastSubmission(ctx context.Context, id int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.LastSubmissionAt = &at
	return nil
}

func (f *fakeUserRepo) AliasTaken(ctx context.Context, alias string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Alias != nil && *user.Alias == alias {
			return true, nil
		}
	}
	return false, nil
}

// seed installs a user record directly.
func (f *fakeUserRepo) seed(user domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := user
	f.users[user.ID] = &copied
}

func (f *fakeUserRepo) aliasCount(alias string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, user := range f.users {
		if user.Alias != nil && *user.Alias == alias {
			count++
		}
	}
	return count
}

type fakePendingRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.PendingSubmission
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{rows: make(map[int64]domain.PendingSubmission)}
}

func (f *fakePendingRepo) Insert(ctx context.Context, sub *domain.PendingSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	sub.ID = f.nextID
	sub.CreatedAt = time.Now()
	f.rows[sub.ID] = *sub
	return nil
}

func (f *fakePendingRepo) GetByID(ctx context.Context, id int64) (*domain.PendingSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &sub, nil
}

func (f *fakePendingRepo) List(ctx context.Context) ([]domain.PendingSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	subs := make([]domain.PendingSubmission, 0, len(f.rows))
	for id := int64(1); id <= f.nextID; id++ {
		if sub, ok := f.rows[id]; ok {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (f *fakePendingRepo) DeleteReturning(ctx context.Context, id int64) (*domain.PendingSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	delete(f.rows, id)
	return &sub, nil
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[int64]*domain.Administrator
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[int64]*domain.Administrator)}
}

func (f *fakeAdminRepo) Add(ctx context.Context, admin *domain.Administrator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	admin.CreatedAt = time.Now()
	copied := *admin
	f.admins[admin.ID] = &copied
	return nil
}

func (f *fakeAdminRepo) Remove(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.admins[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.admins, id)
	return nil
}

func (f *fakeAdminRepo) GetByID(ctx context.Context, id int64) (*domain.Administrator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	admin, ok := f.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *admin
	return &copied, nil
}

func (f *fakeAdminRepo) IsAdmin(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.admins[id]
	return ok, nil
}

func (f *fakeAdminRepo) List(ctx context.Context) ([]domain.Administrator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	admins := make([]domain.Administrator, 0, len(f.admins))
	for _, admin := range f.admins {
		admins = append(admins, *admin)
	}
	return admins, nil
}
