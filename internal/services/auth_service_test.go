package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conduit/internal/models"
	"conduit/internal/repositories"
	"conduit/internal/services"

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

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
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

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByVerificationToken(token string) (*models.User, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockMailer is a mock implementation of services.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationEmail(email, username, token string) error {
	args := m.Called(email, username, token)
	return args.Error(0)
}

func (m *MockMailer) SendWelcomeEmail(email, username string) error {
	args := m.Called(email, username)
	return args.Error(0)
}

func newAuthService(userRepo repositories.UserRepository, mailer services.Mailer) *services.AuthService {
	return services.NewAuthService(userRepo, mailer, nil, "test_jwt_secret", 24*time.Hour, "")
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	service := newAuthService(mockRepo, mockMailer)

	mockRepo.On("GetByUsername", "alice").Return(nil, notFoundErr("user")).Once()
	mockRepo.On("GetByEmail", "alice@example.com").Return(nil, notFoundErr("user")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockMailer.On("SendVerificationEmail", "alice@example.com", "alice", mock.AnythingOfType("string")).Return(nil).Once()

	user, err := service.Register("alice", "alice@example.com", "password123")

	assert.NoError(t, err)
	assert.False(t, user.Verified)
	assert.NotEmpty(t, user.VerificationToken)
	// The stored password is a hash, never the plaintext.
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
}

func TestAuthService_RegisterMailFailureIsSwallowed(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	service := newAuthService(mockRepo, mockMailer)

	mockRepo.On("GetByUsername", "bob").Return(nil, notFoundErr("user")).Once()
	mockRepo.On("GetByEmail", "bob@example.com").Return(nil, notFoundErr("user")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockMailer.On("SendVerificationEmail", "bob@example.com", "bob", mock.AnythingOfType("string")).
		Return(fmt.Errorf("smtp down")).Once()

	// Registration succeeds even when the verification email cannot be sent.
	user, err := service.Register("bob", "bob@example.com", "password123")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	mockMailer.AssertExpectations(t)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newAuthService(mockRepo, nil)

	// An unverified holder of the email blocks re-registration with a
	// "verify first" error, a verified one with a conflict.
	mockRepo.On("GetByUsername", "alice").Return(nil, notFoundErr("user")).Twice()
	mockRepo.On("GetByEmail", "alice@example.com").
		Return(&models.User{Email: "alice@example.com", Verified: false}, nil).Once()

	_, err := service.Register("alice", "alice@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrEmailUnverified)

	mockRepo.On("GetByEmail", "alice@example.com").
		Return(&models.User{Email: "alice@example.com", Verified: true}, nil).Once()

	_, err = service.Register("alice", "alice@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newAuthService(mockRepo, nil)

	mockRepo.On("GetByUsername", "alice").Return(&models.User{Username: "alice"}, nil).Once()

	_, err := service.Register("alice", "other@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newAuthService(mockRepo, nil)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	verified := &models.User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
		Password: string(hash),
		Verified: true,
	}

	// Successful login returns the user and a decodable token.
	mockRepo.On("GetByEmail", "alice@example.com").Return(verified, nil).Once()
	user, token, err := service.Login("alice@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "alice@example.com", claims["email"])

	// Wrong password and unknown email both collapse to invalid credentials.
	mockRepo.On("GetByEmail", "alice@example.com").Return(verified, nil).Once()
	_, _, err = service.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	mockRepo.On("GetByEmail", "ghost@example.com").Return(nil, notFoundErr("user")).Once()
	_, _, err = service.Login("ghost@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUnverified(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newAuthService(mockRepo, nil)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mockRepo.On("GetByEmail", "alice@example.com").Return(&models.User{
		Email:    "alice@example.com",
		Password: string(hash),
		Verified: false,
	}, nil).Once()

	_, _, err := service.Login("alice@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrEmailUnverified)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	service := newAuthService(mockRepo, mockMailer)

	pending := &models.User{
		ID:                "user-1",
		Username:          "alice",
		Email:             "alice@example.com",
		VerificationToken: "tok123",
	}
	mockRepo.On("GetByVerificationToken", "tok123").Return(pending, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockMailer.On("SendWelcomeEmail", "alice@example.com", "alice").Return(nil).Once()

	user, err := service.VerifyEmail("tok123")
	assert.NoError(t, err)
	assert.True(t, user.Verified)
	// The token is single-use and cleared on consumption.
	assert.Empty(t, user.VerificationToken)

	mockRepo.On("GetByVerificationToken", "tok123").Return(nil, notFoundErr("verification token")).Once()
	_, err = service.VerifyEmail("tok123")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_TokenCodec(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newAuthService(mockRepo, nil)

	user := &models.User{ID: "user-1", Email: "alice@example.com"}
	token, err := service.IssueToken(user)
	assert.NoError(t, err)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])

	// Garbage fails as invalid, not as expired.
	_, err = service.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// A token past its expiry fails with the dedicated sentinel.
	expiredService := services.NewAuthService(mockRepo, nil, nil, "test_jwt_secret", -time.Hour, "")
	expiredToken, err := expiredService.IssueToken(user)
	assert.NoError(t, err)
	_, err = service.ValidateToken(expiredToken)
	assert.ErrorIs(t, err, services.ErrTokenExpired)

	// A token signed with a different secret is rejected.
	otherService := services.NewAuthService(mockRepo, nil, nil, "other_secret", time.Hour, "")
	foreignToken, err := otherService.IssueToken(user)
	assert.NoError(t, err)
	_, err = service.ValidateToken(foreignToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_GoogleLogin(t *testing.T) {
	userinfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id":      "google-sub-1",
			"email":   "carol@example.com",
			"picture": "https://example.com/carol.png",
		})
	}))
	defer userinfo.Close()

	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, nil, nil, "test_jwt_secret", 24*time.Hour, userinfo.URL)

	// First federated login creates a verified account.
	mockRepo.On("GetByEmail", "carol@example.com").Return(nil, notFoundErr("user")).Once()
	mockRepo.On("GetByUsername", "carol").Return(nil, notFoundErr("user")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, token, err := service.GoogleLogin(context.Background(), "good-token")
	assert.NoError(t, err)
	assert.True(t, user.Verified)
	assert.True(t, user.GoogleAccount)
	assert.Equal(t, "google-sub-1", user.GoogleID)
	assert.Equal(t, "carol", user.Username)
	assert.NotEmpty(t, token)

	// Later logins reuse the existing account and sync the identity markers.
	existing := &models.User{ID: "user-2", Username: "carol", Email: "carol@example.com", Verified: false}
	mockRepo.On("GetByEmail", "carol@example.com").Return(existing, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, _, err = service.GoogleLogin(context.Background(), "good-token")
	assert.NoError(t, err)
	assert.Equal(t, "user-2", user.ID)
	assert.True(t, user.Verified)
	assert.True(t, user.GoogleAccount)

	// A rejected provider token fails the whole request.
	_, _, err = service.GoogleLogin(context.Background(), "bad-token")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	mockRepo.AssertExpectations(t)
}
