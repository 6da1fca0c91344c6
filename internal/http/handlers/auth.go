package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saddleworks/stablecare-backend/internal/http/response"
	"github.com/saddleworks/stablecare-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	token, expiresIn, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "invalid_credentials", services.ErrInvalidCredentials)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token": token,
		"expires_in":   expiresIn,
	})
}
