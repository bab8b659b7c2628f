package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vinsolit/lendenbook/internal/core"
	"github.com/vinsolit/lendenbook/internal/model"
	"github.com/vinsolit/lendenbook/internal/repository"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// AdminUsername is the bootstrap admin account. Exactly one such account
// exists after EnsureAdmin has run.
const AdminUsername = "admin"

const tokenTTL = 24 * time.Hour

type authService struct {
	userRepo      repository.UserRepository
	jwtSecretKey  string
	adminPassword string
}

func NewAuthService(userRepo repository.UserRepository, jwtSecretKey, adminPassword string) core.AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecretKey:  jwtSecretKey,
		adminPassword: adminPassword,
	}
}

func (s *authService) Register(ctx context.Context, username, password string) (*model.User, string, error) {
	existingUser, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if existingUser != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	// Unknown user and wrong password collapse into the same error so the
	// response cannot be used to enumerate usernames.
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *authService) ValidateToken(tokenString string) (model.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil {
		return model.Session{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.Session{}, jwt.ErrSignatureInvalid
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return model.Session{}, jwt.ErrSignatureInvalid
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return model.Session{}, jwt.ErrSignatureInvalid
	}

	return model.Session{Username: username, Role: role}, nil
}

// ResetPassword overwrites the stored hash for an existing user. No proof
// of the prior password is required, matching the legacy behavior.
func (s *authService) ResetPassword(ctx context.Context, username, newPassword string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePasswordHash(ctx, username, string(hashedPassword))
}

// EnsureAdmin creates the bootstrap admin account if it is missing. Legacy
// databases stored the admin credential in plaintext; such a row is
// rehashed in place so verification always runs against a bcrypt hash.
func (s *authService) EnsureAdmin(ctx context.Context) error {
	admin, err := s.userRepo.GetByUsername(ctx, AdminUsername)
	if err != nil {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	if admin == nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(s.adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		return s.userRepo.Create(ctx, &model.User{
			Username:     AdminUsername,
			PasswordHash: string(hashedPassword),
			Role:         model.RoleAdmin,
		})
	}

	if !isBcryptHash(admin.PasswordHash) {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.PasswordHash), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		return s.userRepo.UpdatePasswordHash(ctx, AdminUsername, string(hashedPassword))
	}

	return nil
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}

func (s *authService) generateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
		"jti":      uuid.NewString(),
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecretKey))
}
