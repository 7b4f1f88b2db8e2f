package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicatePassword = errors.New("password is already in use")
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Password  string    `json:"-"` // never expose in JSON
	PartnerID *string   `json:"partner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPartner reports whether the user is linked to a different user.
func (u User) HasPartner() bool {
	return u.PartnerID != nil && *u.PartnerID != "" && *u.PartnerID != u.ID
}
