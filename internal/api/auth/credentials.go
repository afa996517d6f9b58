package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/userauth-api/internal/common"
	"github.com/hsm-gustavo/userauth-api/internal/db"
	"github.com/hsm-gustavo/userauth-api/internal/password"
)

// UserFinder loads a user together with its password hash.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*db.User, error)
}

// CredentialValidator checks an email and password pair against storage.
type CredentialValidator struct {
	users  UserFinder
	hasher password.Hasher

	// dummyHash is verified when there is no real hash to check, so unknown
	// emails cost the same bcrypt work as wrong passwords.
	dummyHash string
}

func NewCredentialValidator(users UserFinder, hasher password.Hasher) (*CredentialValidator, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &CredentialValidator{
		users:     users,
		hasher:    hasher,
		dummyHash: dummy,
	}, nil
}

// Validate returns the sanitized user when password matches the stored hash.
// Unknown email, missing hash and wrong password all yield
// common.ErrInvalidCredentials. Storage failures are returned as is.
func (v *CredentialValidator) Validate(ctx context.Context, email, plaintext string) (*db.SafeUser, error) {
	u, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			v.hasher.Verify(plaintext, v.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if u.PasswordHash == "" {
		v.hasher.Verify(plaintext, v.dummyHash)
		return nil, common.ErrInvalidCredentials
	}

	if !v.hasher.Verify(plaintext, u.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	safe := u.Sanitize()
	return &safe, nil
}
