package db

import (
	"time"

	"github.com/google/uuid"
)

// User is a full users row. PasswordHash is only populated by lookups that
// authenticate (UserRepository.FindByEmail).
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SafeUser is the user view that may leave the service: it has no secret
// fields at all.
type SafeUser struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) Sanitize() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserChanges is a partial update. Nil fields are left untouched.
type UserChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

func (c UserChanges) Empty() bool {
	return c.Name == nil && c.Email == nil && c.PasswordHash == nil
}
