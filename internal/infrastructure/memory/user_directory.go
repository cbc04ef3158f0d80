package memory

import (
	"context"
	"fmt"
	"sync"

	domuser "github.com/Zhima-Mochi/order-processor/internal/domain/user"
)

type UserDirectory struct {
	mu    sync.RWMutex
	users map[string]*domuser.User
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{
		users: make(map[string]*domuser.User),
	}
}

func (d *UserDirectory) Put(ctx context.Context, u *domuser.User) error {
	_ = ctx
	if u == nil || u.ID == "" {
		return fmt.Errorf("user directory: id is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	clone := *u
	d.users[u.ID] = &clone
	return nil
}

func (d *UserDirectory) Get(ctx context.Context, id string) (*domuser.User, error) {
	_ = ctx

	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	if !ok {
		return nil, domuser.ErrNotFound
	}
	clone := *u
	return &clone, nil
}
