package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/BLUETOID/RIMAP/internal/model"
	"github.com/BLUETOID/RIMAP/internal/repository"
	"github.com/BLUETOID/RIMAP/pkg/apperror"
	"github.com/BLUETOID/RIMAP/pkg/storage"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Name           string  `json:"name" form:"name" binding:"required,min=2,max=100"`
	Email          string  `json:"email" form:"email" binding:"required,email"`
	Password       string  `json:"password" form:"password" binding:"required,min=8"`
	Role           *string `json:"role" form:"role" binding:"omitempty,oneof=alumni student"`
	GraduationYear *int    `json:"graduation_year" form:"graduation_year"`
	Department     *string `json:"department" form:"department"`
	Bio            *string `json:"bio" form:"bio"`
}

// AvatarFile represents an uploaded avatar image.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int64          `json:"expires_in"`
	User        *model.User    `json:"user"`
	Login       *LoginResult   `json:"login,omitempty"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput, avatar *AvatarFile) (*AuthResponse, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	Logout(ctx context.Context, userID string) error
}

type authService struct {
	repo         repository.UserRepository
	gamification GamificationService
	sessions     SessionCache
	imageStorage storage.ImageStorage
	secret       string
	tokenTTL     time.Duration
	defaultRole  string
}

func NewAuthService(repo repository.UserRepository, gamification GamificationService, sessions SessionCache, imageStorage storage.ImageStorage) AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	ttl := time.Hour
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	defaultRole := os.Getenv("DEFAULT_ROLE")
	if defaultRole == "" {
		defaultRole = "student"
	}

	return &authService{
		repo:         repo,
		gamification: gamification,
		sessions:     sessions,
		imageStorage: imageStorage,
		secret:       secret,
		tokenTTL:     ttl,
		defaultRole:  defaultRole,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput, avatar *AvatarFile) (*AuthResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.ErrAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	roleName := s.defaultRole
	if input.Role != nil && *input.Role != "" {
		roleName = *input.Role
	}

	role, err := s.repo.FindRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %s not found", roleName)
		}
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Upload avatar (if any) after the business validations pass.
	var avatarURL *string
	if avatar != nil && avatar.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, err
		}
		avatarURL = &url
	}

	roleID := role.ID
	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		RoleID:       &roleID,
		AvatarURL:    avatarURL,
		CurrentLevel: model.LevelBronze,
	}

	profile := &model.Profile{
		GraduationYear: input.GraduationYear,
		Department:     input.Department,
		Bio:            input.Bio,
	}

	if err := s.repo.Create(ctx, user, profile); err != nil {
		return nil, err
	}
	user.Role = *role
	user.Profile = profile

	token, expiresIn, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        user,
	}, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrUnauthorized
	}

	// Streak bookkeeping and daily-login points. Admins do not participate in
	// gamification.
	var loginResult *LoginResult
	if s.gamification != nil && user.Role.Name != "admin" {
		loginResult, err = s.gamification.RecordLogin(ctx, user.ID, time.Now())
		if err != nil {
			return nil, err
		}

		// Re-read so the response carries the post-login totals.
		user, err = s.repo.FindByID(ctx, user.ID.String())
		if err != nil {
			return nil, err
		}
	}

	if s.sessions != nil {
		if err := s.sessions.Save(ctx, SnapshotFromUser(user)); err != nil {
			log.Printf("Failed to cache session for user %s: %v", user.ID, err)
		}
	}

	token, expiresIn, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        user,
		Login:       loginResult,
	}, nil
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Clear(ctx, userID)
}

func (s *authService) issueToken(user *model.User) (string, int64, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, int64(s.tokenTTL.Seconds()), nil
}
