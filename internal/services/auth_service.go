package services

import (
	"errors"
	"fmt"
	"time"

	"cafequest/internal/models"
	"cafequest/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login, token verification and profile
// management.
type AuthService struct {
	userRepo   repositories.UserRepository
	validate   *validator.Validate
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		validate:   validator.New(),
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates a new user with a bcrypt-hashed password and returns a
// signed token plus the stored user. A taken email or username is a
// validation failure, same status as a missing field.
func (s *AuthService) Register(req RegisterRequest) (string, *models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return "", nil, validationErrorFrom(err)
	}

	if existing, err := s.userRepo.GetByEmail(req.Email); err == nil && existing != nil {
		return "", nil, newValidationError("Email already registered")
	}
	if existing, err := s.userRepo.GetByUsername(req.Username); err == nil && existing != nil {
		return "", nil, newValidationError("Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		return "", nil, fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login authenticates a user by email and password and returns a signed
// token plus the user.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, newValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists.
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     now.Add(s.tokenDurat).Unix(),
		"iat":     now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken parses and validates a token and resolves it to a live user
// record. A well-signed token for a deleted user is rejected.
func (s *AuthService) VerifyToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, errors.New("invalid token: missing user_id claim")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return user, nil
}

// GetProfile returns the user behind an ID.
func (s *AuthService) GetProfile(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// ProfileUpdate carries the profile fields a user may change. Absent fields
// keep their prior values.
type ProfileUpdate struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=30"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Avatar   *string `json:"avatar"`
}

// UpdateProfile applies the supplied fields to the caller's user record,
// re-checking uniqueness when the username or email changes.
func (s *AuthService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	if err := s.validate.Struct(update); err != nil {
		return nil, validationErrorFrom(err)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if update.Username != nil && *update.Username != user.Username {
		if existing, err := s.userRepo.GetByUsername(*update.Username); err == nil && existing != nil && existing.ID != userID {
			return nil, newValidationError("Username already taken")
		}
		user.Username = *update.Username
	}
	if update.Email != nil && *update.Email != user.Email {
		if existing, err := s.userRepo.GetByEmail(*update.Email); err == nil && existing != nil && existing.ID != userID {
			return nil, newValidationError("Email already registered")
		}
		user.Email = *update.Email
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
