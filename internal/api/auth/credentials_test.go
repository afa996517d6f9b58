package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsm-gustavo/userauth-api/internal/common"
	"github.com/hsm-gustavo/userauth-api/internal/db"
	"github.com/hsm-gustavo/userauth-api/internal/password"
)

type stubFinder struct {
	users map[string]*db.User
	err   error
}

func (f *stubFinder) FindByEmail(_ context.Context, email string) (*db.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// recordingHasher wraps the real hasher and records the digests it verified.
type recordingHasher struct {
	password.Hasher
	verified []string
}

func (h *recordingHasher) Verify(plaintext, digest string) bool {
	h.verified = append(h.verified, digest)
	return h.Hasher.Verify(plaintext, digest)
}

func newValidator(t *testing.T, users ...db.User) (*CredentialValidator, *recordingHasher) {
	t.Helper()

	hasher := &recordingHasher{Hasher: password.NewBcryptHasher()}
	finder := &stubFinder{users: map[string]*db.User{}}
	for i := range users {
		finder.users[users[i].Email] = &users[i]
	}

	v, err := NewCredentialValidator(finder, hasher)
	require.NoError(t, err)
	return v, hasher
}

func storedUser(t *testing.T, email, plaintext string) db.User {
	t.Helper()
	digest, err := password.NewBcryptHasher().Hash(plaintext)
	require.NoError(t, err)
	return db.User{
		ID:           uuid.New(),
		Name:         "Auth Test User",
		Email:        email,
		PasswordHash: digest,
	}
}

func TestValidateCredentials(t *testing.T) {
	ctx := context.Background()
	user := storedUser(t, "auth-test@example.com", "password123")

	t.Run("correct password returns sanitized user", func(t *testing.T) {
		v, _ := newValidator(t, user)

		got, err := v.Validate(ctx, user.Email, "password123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Email, got.Email)
		assert.Equal(t, user.Name, got.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		v, _ := newValidator(t, user)

		got, err := v.Validate(ctx, user.Email, "wrong-password")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
		assert.Nil(t, got)
	})

	t.Run("unknown email still verifies a hash", func(t *testing.T) {
		v, hasher := newValidator(t, user)

		got, err := v.Validate(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
		assert.Nil(t, got)
		require.Len(t, hasher.verified, 1)
		assert.Equal(t, v.dummyHash, hasher.verified[0])
	})

	t.Run("user without a stored hash", func(t *testing.T) {
		hashless := user
		hashless.PasswordHash = ""
		v, hasher := newValidator(t, hashless)

		_, err := v.Validate(ctx, user.Email, "")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
		assert.Len(t, hasher.verified, 1)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		v, _ := newValidator(t, user)

		_, errUnknown := v.Validate(ctx, "nobody@example.com", "password123")
		_, errWrong := v.Validate(ctx, user.Email, "nope")
		assert.Equal(t, errUnknown, errWrong)
	})

	t.Run("storage failure is not masked", func(t *testing.T) {
		boom := errors.New("connection refused")
		v, err := NewCredentialValidator(&stubFinder{err: boom}, password.NewBcryptHasher())
		require.NoError(t, err)

		_, err = v.Validate(ctx, user.Email, "password123")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
	})
}
