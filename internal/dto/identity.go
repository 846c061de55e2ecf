package dto

import (
	"time"

	"github.com/tasktracker/tasktracker-api/internal/models"
)

// IdentityDTO represents an identity in API responses. The stored password
// hash never leaves the server.
type IdentityDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToIdentityDTO converts an Identity model to IdentityDTO
func ToIdentityDTO(idt models.Identity) IdentityDTO {
	return IdentityDTO{
		ID:        idt.ID,
		Email:     idt.Email,
		Name:      idt.Name,
		CreatedAt: idt.CreatedAt,
	}
}
