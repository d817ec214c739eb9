package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct {
	h handle
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.users[user.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, u := range st.users {
			if strings.EqualFold(u.Email, user.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		c := *user
		st.users[user.ID] = &c
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.h.read(func(st *state) error {
		if u, ok := st.users[id]; ok {
			c := *u
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.h.read(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				c := *u
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.h.read(func(st *state) error {
		all := make([]*entity.User, 0, len(st.users))
		for _, u := range st.users {
			c := *u
			all = append(all, &c)
		}
		slices.SortFunc(all, func(a, b *entity.User) int {
			if n := b.CreatedAt.Compare(a.CreatedAt); n != 0 {
				return n
			}
			return cmp.Compare(a.ID, b.ID)
		})
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *UserRepository) CountByRole(ctx context.Context) (map[entity.Role]int, error) {
	out := make(map[entity.Role]int)
	err := r.h.read(func(st *state) error {
		for _, u := range st.users {
			out[u.Role]++
		}
		return nil
	})
	return out, err
}

// Delete elimina el usuario. Sus cultivos, ventas y mensajes se conservan (historial).
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrUserNotFound
		}
		delete(st.users, id)
		return nil
	})
}
