package services_test

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"cafequest/internal/models"
	"cafequest/internal/repositories"
	"cafequest/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ids []string) ([]models.User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	mockRepo.On("GetByEmail", "alice@example.com").Return(nil, notFoundErr("user")).Once()
	mockRepo.On("GetByUsername", "alice").Return(nil, notFoundErr("user")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		user := args.Get(0).(*models.User)
		user.ID = "user-1"
	}).Return(nil).Once()

	token, user, err := service.Register(services.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)
	// The stored password must be a bcrypt hash of the plaintext, never the
	// plaintext itself.
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_ValidationFailures(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	tests := []struct {
		name string
		req  services.RegisterRequest
	}{
		{"missing email", services.RegisterRequest{Username: "alice", Password: "password123"}},
		{"invalid email", services.RegisterRequest{Username: "alice", Email: "nope", Password: "password123"}},
		{"short password", services.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "123"}},
		{"missing username", services.RegisterRequest{Email: "alice@example.com", Password: "password123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.Register(tt.req)
			var verr *services.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
	// No repository call should have happened for invalid input.
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_Register_TakenEmailAndUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	existing := &models.User{ID: "user-1", Username: "alice", Email: "alice@example.com"}

	mockRepo.On("GetByEmail", "alice@example.com").Return(existing, nil).Once()
	_, _, err := service.Register(services.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "password123",
	})
	var verr *services.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "Email already registered")

	mockRepo.On("GetByEmail", "new@example.com").Return(nil, notFoundErr("user")).Once()
	mockRepo.On("GetByUsername", "alice").Return(existing, nil).Once()
	_, _, err = service.Register(services.RegisterRequest{
		Username: "alice",
		Email:    "new@example.com",
		Password: "password123",
	})
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "Username already taken")

	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Username: "alice", Email: "alice@example.com", Password: string(hashed)}

	mockRepo.On("GetByEmail", "alice@example.com").Return(user, nil).Twice()

	token, loggedIn, err := service.Login("alice@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user-1", loggedIn.ID)

	// Wrong password and unknown email must be indistinguishable.
	_, _, err = service.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, notFoundErr("user")).Once()
	_, _, err = service.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_VerifyToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Username: "alice", Email: "alice@example.com", Password: string(hashed)}

	mockRepo.On("GetByEmail", "alice@example.com").Return(user, nil).Once()
	token, _, err := service.Login("alice@example.com", "password123")
	assert.NoError(t, err)

	mockRepo.On("GetByID", "user-1").Return(user, nil).Once()
	verified, err := service.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", verified.ID)

	// Garbage token.
	_, err = service.VerifyToken("not.a.token")
	assert.Error(t, err)

	// Token signed with a different secret.
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	})
	foreignString, _ := foreign.SignedString([]byte("other_secret"))
	_, err = service.VerifyToken(foreignString)
	assert.Error(t, err)

	// Expired token, correctly signed.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
		"iat":     time.Now().Add(-2 * time.Hour).Unix(),
	})
	expiredString, _ := expired.SignedString([]byte("test_secret"))
	_, err = service.VerifyToken(expiredString)
	assert.Error(t, err)

	// Valid token whose user no longer exists.
	mockRepo.On("GetByID", "user-1").Return(nil, notFoundErr("user")).Once()
	_, err = service.VerifyToken(token)
	assert.Error(t, err)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	user := &models.User{ID: "user-1", Username: "alice", Email: "alice@example.com", Avatar: ""}

	newUsername := "alice_renamed"
	newAvatar := "https://img.example.com/alice.png"

	mockRepo.On("GetByID", "user-1").Return(user, nil).Once()
	mockRepo.On("GetByUsername", "alice_renamed").Return(nil, notFoundErr("user")).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

	updated, err := service.UpdateProfile("user-1", services.ProfileUpdate{
		Username: &newUsername,
		Avatar:   &newAvatar,
	})
	assert.NoError(t, err)
	assert.Equal(t, "alice_renamed", updated.Username)
	assert.Equal(t, newAvatar, updated.Avatar)
	// Email was not supplied and must be untouched.
	assert.Equal(t, "alice@example.com", updated.Email)

	mockRepo.AssertExpectations(t)
}
