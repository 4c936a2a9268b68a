package handlers

import (
	"net/http"

	"github.com/appleboy/strava-relay/internal/core"
	"github.com/appleboy/strava-relay/internal/services"
	"github.com/appleboy/strava-relay/internal/templates"
	"github.com/appleboy/strava-relay/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKeyState = "oauth_state"

// AuthHandler drives the interactive OAuth flow. Failures are rendered to
// the browser since a person is there to retry.
type AuthHandler struct {
	oauth   core.AuthorizationAPI
	tokens  *services.TokenService
	metrics core.Recorder
	logger  *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	oauth core.AuthorizationAPI,
	tokens *services.TokenService,
	m core.Recorder,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		oauth:   oauth,
		tokens:  tokens,
		metrics: m,
		logger:  logger,
	}
}

// Start redirects the user agent to the platform's authorize page.
func (h *AuthHandler) Start(c *gin.Context) {
	// Generate state for CSRF protection
	state, err := util.RandomToken(32)
	if err != nil {
		h.logger.Error("failed to generate oauth state", zap.Error(err))
		templates.RenderTempl(c, http.StatusInternalServerError, templates.ErrorPage(templates.ErrorPageProps{
			Error: "Internal server error. Failed to initiate authorization.",
		}))
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKeyState, state)
	if err := session.Save(); err != nil {
		h.logger.Error("failed to save session", zap.Error(err))
		templates.RenderTempl(c, http.StatusInternalServerError, templates.ErrorPage(templates.ErrorPageProps{
			Error: "Internal server error. Failed to save session.",
		}))
		return
	}

	c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(state))
}

// Callback completes the authorization: it exchanges the code and stores
// the athlete's credential.
func (h *AuthHandler) Callback(c *gin.Context) {
	if errText := c.Query("error"); errText != "" {
		h.metrics.RecordOAuthCallback(false)
		h.logger.Info("authorization declined", zap.String("error", errText))
		templates.RenderTempl(c, http.StatusBadRequest, templates.ErrorPage(templates.ErrorPageProps{
			Error: errText,
		}))
		return
	}

	// Verify state (CSRF protection)
	session := sessions.Default(c)
	savedState, _ := session.Get(sessionKeyState).(string)
	if savedState == "" || c.Query("state") != savedState {
		h.metrics.RecordOAuthCallback(false)
		templates.RenderTempl(c, http.StatusBadRequest, templates.ErrorPage(templates.ErrorPageProps{
			Error:   "Invalid state. CSRF validation failed.",
			Message: "The authorization session expired or was started elsewhere. Please try again.",
		}))
		return
	}

	code := c.Query("code")
	if code == "" {
		h.metrics.RecordOAuthCallback(false)
		templates.RenderTempl(c, http.StatusBadRequest, templates.ErrorPage(templates.ErrorPageProps{
			Error: "Missing authorization code.",
		}))
		return
	}

	authz, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		h.metrics.RecordOAuthCallback(false)
		h.logger.Error("failed to exchange authorization code", zap.Error(err))
		templates.RenderTempl(c, http.StatusBadGateway, templates.ErrorPage(templates.ErrorPageProps{
			Error: "Failed to exchange authorization code with Strava.",
		}))
		return
	}

	if err := h.tokens.SaveAuthorization(c.Request.Context(), authz); err != nil {
		h.metrics.RecordOAuthCallback(false)
		h.logger.Error("failed to store credential",
			zap.Int64("athlete_id", authz.AthleteID),
			zap.Error(err),
		)
		templates.RenderTempl(c, http.StatusInternalServerError, templates.ErrorPage(templates.ErrorPageProps{
			Error: "Failed to save your authorization. Please try again later.",
		}))
		return
	}

	h.metrics.RecordOAuthCallback(true)

	// State is single use
	session.Delete(sessionKeyState)
	if err := session.Save(); err != nil {
		h.logger.Warn("failed to clear oauth state", zap.Error(err))
	}

	templates.RenderTempl(c, http.StatusOK, templates.AuthorizedPage(templates.AuthorizedPageProps{
		DisplayName: authz.DisplayName,
		AthleteID:   authz.AthleteID,
	}))
}
