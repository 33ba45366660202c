package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/internal/services"
	"github.com/temcen/streamlens/pkg/models"
)

// AuthHandler exchanges API keys for JWTs.
type AuthHandler struct {
	logger      *logrus.Logger
	authService *services.AuthService
}

func NewAuthHandler(logger *logrus.Logger, authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		authService: authService,
	}
}

// Token validates the posted API key and returns a signed JWT for it.
func (h *AuthHandler) Token(c *gin.Context) {
	var req models.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.APIKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Request body must contain an api_key",
			},
		})
		return
	}

	role, err := h.authService.ValidateAPIKey(req.APIKey)
	if err != nil {
		h.logger.WithError(err).Warn("Token request with invalid API key")
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{
				"code":    "INVALID_API_KEY",
				"message": "Invalid API key",
			},
		})
		return
	}

	token, expiresAt, err := h.authService.GenerateToken(uuid.New(), req.APIKey, role)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "TOKEN_GENERATION_FAILED",
				"message": "Failed to generate token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Role:      role,
	})
}
