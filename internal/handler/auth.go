package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liftco/backend/internal/model"
)

type profileResolver interface {
	ResolveProfile(ctx context.Context, caller *model.AuthUser) (*model.User, error)
}

type AuthHandler struct {
	profiles profileResolver
}

func NewAuthHandler(profiles profileResolver) *AuthHandler {
	return &AuthHandler{profiles: profiles}
}

// Me godoc
// @Summary Current profile
// @Description Resolves the bearer token to the caller's profile, linking it by email or phone on first use.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ProfileResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.profiles.ResolveProfile(c.Request.Context(), GetAuthUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ProfileResponse{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Phone:  user.Phone,
		Gender: user.Gender,
	})
}
