package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tasktracker/tasktracker-api/internal/constants"
	"github.com/tasktracker/tasktracker-api/internal/dto"
	apierrors "github.com/tasktracker/tasktracker-api/internal/errors"
	"github.com/tasktracker/tasktracker-api/internal/identity"
	"github.com/tasktracker/tasktracker-api/internal/models"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	provider *identity.Provider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(provider *identity.Provider) *AuthHandler {
	return &AuthHandler{
		provider: provider,
	}
}

// Signup registers a new identity and signs it in.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"required"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	idt, err := h.provider.Signup(req.Email, req.Password, req.Name)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if err := saveSession(c, idt.ID); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusCreated, dto.ToIdentityDTO(*idt))
}

// Login signs an identity in, creating the account when the email is new.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	idt, err := h.provider.Login(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if err := saveSession(c, idt.ID); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToIdentityDTO(*idt))
}

// Logout clears the current identity and the session. Stored data is kept.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.provider.Logout(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentIdentity returns the signed-in identity.
func (h *AuthHandler) GetCurrentIdentity(c *gin.Context) {
	idt := h.provider.Current()
	if idt == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToIdentityDTO(*idt))
}

// UpdateProfile shallow-merges the submitted fields into the current identity.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var patch models.IdentityPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	idt, err := h.provider.UpdateProfile(patch)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIdentityDTO(*idt))
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, identity.ErrEmailTaken):
		apierrors.Conflict(c, "An account already exists for this email. Please login instead.")
	case errors.Is(err, identity.ErrEmailRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, identity.ErrIdentityNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, identity.ErrNotAuthenticated):
		apierrors.Unauthorized(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

func saveSession(c *gin.Context, identityID string) error {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyIdentityID, identityID)
	return session.Save()
}
