package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/laptrinhjava/task-planner-api/internal/constants"
	"github.com/laptrinhjava/task-planner-api/internal/dto"
	apierrors "github.com/laptrinhjava/task-planner-api/internal/errors"
	"github.com/laptrinhjava/task-planner-api/internal/middleware"
	"github.com/laptrinhjava/task-planner-api/internal/oauth"
	"github.com/laptrinhjava/task-planner-api/internal/services"
	"go.uber.org/zap"
)

// AuthHandler coordinates the OAuth2 login flow and session endpoints.
type AuthHandler struct {
	authService *services.AuthService
	provider    *oauth.GoogleProvider
	frontendURL string
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, provider *oauth.GoogleProvider, frontendURL string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		provider:    provider,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// GoogleLogin redirects to Google's consent page with a state nonce
// bound to the session.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()

	session := sessions.Default(c)
	session.Set(constants.SessionKeyOAuthState, state)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// GoogleCallback completes the code flow: it verifies the state nonce,
// exchanges the code for identity claims, provisions the user and
// initializes the session.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	expected := session.Get(constants.SessionKeyOAuthState)
	session.Delete(constants.SessionKeyOAuthState)

	state := c.Query("state")
	if expected == nil || expected.(string) != state || state == "" {
		apierrors.Unauthorized(c, "Invalid OAuth state")
		return
	}

	code := c.Query("code")
	if code == "" {
		apierrors.Unauthorized(c, "Missing authorization code")
		return
	}

	claims, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Warn("oauth code exchange failed", zap.Error(err))
		apierrors.Unauthorized(c, "Authentication failed")
		return
	}

	user, err := h.authService.ProvisionUser(services.ProvisionInput{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		AvatarURL: claims.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailClaimMissing) {
			apierrors.Unauthorized(c, "Email not provided by identity provider")
			return
		}
		h.logger.Error("user provisioning failed", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	h.logger.Info("user logged in", zap.String("email", user.Email), zap.Uint64("user_id", user.ID))
	c.Redirect(http.StatusFound, h.frontendURL+"?login_success=true")
}

// Logout invalidates the session and redirects to the frontend login page.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.Redirect(http.StatusFound, h.frontendURL+"/login?logout_success=true")
}

// GetCurrentUser returns the authenticated user's public view.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		// A session user without a row is unexpected: the row is
		// created at login time.
		h.logger.Error("session user has no record", zap.Uint64("user_id", userID), zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
