package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/userauth-api/internal/common"
	"github.com/hsm-gustavo/userauth-api/internal/db"
	"github.com/hsm-gustavo/userauth-api/internal/password"
)

// Repository is the storage the service needs. *db.UserRepository
// implements it.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*db.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db.User, error)
	List(ctx context.Context) ([]db.User, error)
	Create(ctx context.Context, u *db.User) error
	Update(ctx context.Context, id uuid.UUID, changes db.UserChanges) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateUserParams struct {
	Name     string
	Email    string
	Password string
}

type UpdateUserParams struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService is the boundary between handlers and storage. Passwords are
// hashed here, once, before anything is persisted, and every returned value
// is a db.SafeUser.
type UserService struct {
	repo   Repository
	hasher password.Hasher
	newID  func() uuid.UUID
}

func NewUserService(repo Repository, hasher password.Hasher) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		newID:  uuid.New,
	}
}

func (s *UserService) CreateUser(ctx context.Context, p CreateUserParams) (*db.SafeUser, error) {
	if err := s.ensureEmailFree(ctx, p.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, err
	}

	u := &db.User{
		ID:           s.newID(),
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	safe := u.Sanitize()
	return &safe, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]db.SafeUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]db.SafeUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitize())
	}
	return out, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*db.SafeUser, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	safe := u.Sanitize()
	return &safe, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*db.SafeUser, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	safe := u.Sanitize()
	return &safe, nil
}

// UpdateUser applies a partial update. A new password is rehashed; omitting
// it leaves the stored hash untouched.
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, p UpdateUserParams) (*db.SafeUser, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := db.UserChanges{Name: p.Name}

	if p.Email != nil && *p.Email != current.Email {
		if err := s.ensureEmailFree(ctx, *p.Email, id); err != nil {
			return nil, err
		}
		changes.Email = p.Email
	}

	if p.Password != nil {
		hash, err := s.hasher.Hash(*p.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}

	if changes.Empty() {
		safe := current.Sanitize()
		return &safe, nil
	}

	if err := s.repo.Update(ctx, id, changes); err != nil {
		return nil, err
	}

	return s.GetUser(ctx, id)
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ensureEmailFree fails with ErrDuplicateEmail when email belongs to a user
// other than self. The unique index still guards against races.
func (s *UserService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return common.ErrDuplicateEmail
	}
	return nil
}
