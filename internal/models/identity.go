package models

import "time"

// Identity is the signed-in user record. It is a convenience identity, not a
// security principal: the password hash is stored at signup but never checked.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IdentityPatch is a partial profile update. Nil fields are left untouched.
type IdentityPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Apply merges the patch into the identity. The id stays pinned to the email
// the account was created with.
func (i *Identity) Apply(p IdentityPatch) {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Email != nil {
		i.Email = *p.Email
	}
}
