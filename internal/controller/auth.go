package controller

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/vinsolit/lendenbook/internal/core"
	"github.com/vinsolit/lendenbook/internal/service"
)

type AuthController struct {
	authService core.AuthService
	logger      *zap.Logger
}

func NewAuthController(authService core.AuthService, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := render.DecodeJSON(r.Body, &request); err != nil {
		c.logger.Debug("Invalid request format", zap.Error(err))
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	request.Username = strings.TrimSpace(request.Username)
	if request.Username == "" || request.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, token, err := c.authService.Register(r.Context(), request.Username, request.Password)
	if err != nil {
		c.logger.Warn("Registration failed",
			zap.String("username", request.Username),
			zap.Error(err))

		switch err {
		case service.ErrUserAlreadyExists:
			http.Error(w, "Username already exists", http.StatusConflict)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.logger.Info("User registered successfully",
		zap.String("username", user.Username))

	setSessionCookie(w, token)
	w.WriteHeader(http.StatusOK)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := render.DecodeJSON(r.Body, &request); err != nil {
		c.logger.Debug("Invalid request format", zap.Error(err))
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	user, token, err := c.authService.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		c.logger.Warn("Login failed",
			zap.String("username", request.Username),
			zap.Error(err))

		switch err {
		case service.ErrInvalidCredentials:
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.logger.Info("User logged in successfully",
		zap.String("username", user.Username),
		zap.String("role", user.Role))

	setSessionCookie(w, token)
	w.WriteHeader(http.StatusOK)
}

// ResetPassword overwrites the password for the named account. No proof of
// the old password is required; the legacy flow worked the same way.
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username    string `json:"username"`
		NewPassword string `json:"new_password"`
	}

	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if request.Username == "" || request.NewPassword == "" {
		http.Error(w, "Username and new password are required", http.StatusBadRequest)
		return
	}

	err := c.authService.ResetPassword(r.Context(), request.Username, request.NewPassword)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			c.logger.Error("Password reset failed",
				zap.String("username", request.Username),
				zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	c.logger.Info("Password reset", zap.String("username", request.Username))
	w.WriteHeader(http.StatusOK)
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
	})
}
