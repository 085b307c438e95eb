package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/harentsoaR/doctors-portal-api/internal/middleware"
	"github.com/harentsoaR/doctors-portal-api/internal/store"
)

// Fields a client may not set through the upsert.
var protectedUserFields = []string{"_id", "id", "role"}

// GetUsers lists every user. Any authenticated caller may list.
func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.Store.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to retrieve users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpsertUser creates or updates the user keyed by the path email with the
// submitted fields and hands back a fresh token for that email.
func (h *Handler) UpsertUser(c *gin.Context) {
	email := c.Param("email")

	fields := bson.M{}
	if err := c.ShouldBindJSON(&fields); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	for _, k := range protectedUserFields {
		delete(fields, k)
	}
	fields["email"] = email

	result, err := h.Store.UpsertUser(c.Request.Context(), email, fields)
	if err != nil {
		h.fail(c, "Failed to save user", err)
		return
	}

	token, err := h.Tokens.GenerateJWT(email)
	if err != nil {
		h.fail(c, "Could not generate token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "token": token})
}

// CheckAdmin reports whether the user with the path email is an admin.
func (h *Handler) CheckAdmin(c *gin.Context) {
	user, err := h.Store.FindUser(c.Request.Context(), c.Param("email"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		h.fail(c, "Failed to retrieve user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": user.IsAdmin()})
}

// MakeAdmin promotes the path email. The requester's own role was checked by
// RequireAdmin.
func (h *Handler) MakeAdmin(c *gin.Context) {
	email := c.Param("email")
	result, err := h.Store.PromoteAdmin(c.Request.Context(), email)
	if err != nil {
		h.fail(c, "Failed to update user role", err)
		return
	}
	h.Log.Info().Str("email", email).Str("by", middleware.CurrentEmail(c)).
		Int64("matched", result.MatchedCount).Msg("user promoted to admin")
	c.JSON(http.StatusOK, result)
}
