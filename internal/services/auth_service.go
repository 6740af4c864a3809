package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"conduit/internal/models"
	"conduit/internal/repositories"
	"conduit/pkg/events"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

// Mailer sends transactional mail. All sends from this service are
// best-effort: a failure is logged and the request still succeeds.
type Mailer interface {
	SendVerificationEmail(email, username, token string) error
	SendWelcomeEmail(email, username string) error
}

// EventPublisher publishes domain events. Publishing is best-effort.
type EventPublisher interface {
	Publish(event string, payload map[string]interface{}) error
}

// AuthService handles registration, login, email verification, federated
// login, and the token codec used by the auth middleware.
type AuthService struct {
	userRepo    repositories.UserRepository
	mailer      Mailer
	events      EventPublisher
	jwtSecret   []byte
	tokenTTL    time.Duration
	userinfoURL string
}

// NewAuthService creates a new AuthService. tokenTTL is the single expiry
// applied to every issued token. mailer and events may be nil.
func NewAuthService(userRepo repositories.UserRepository, mailer Mailer, events EventPublisher, jwtSecret string, tokenTTL time.Duration, userinfoURL string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		mailer:      mailer,
		events:      events,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		userinfoURL: userinfoURL,
	}
}

// Register creates a new unverified user, hashes their password, and sends
// the verification email. Re-registering an email that exists but is still
// unverified yields ErrEmailUnverified; a verified one yields ErrEmailTaken.
func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing != nil {
		return nil, fmt.Errorf("username %q: %w", username, ErrUsernameTaken)
	}
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		if !existing.Verified {
			return nil, fmt.Errorf("email %q: %w", email, ErrEmailUnverified)
		}
		return nil, fmt.Errorf("email %q: %w", email, ErrEmailTaken)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken, err := generateVerificationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}

	user := &models.User{
		Username:          username,
		Email:             strings.ToLower(email),
		Password:          string(hashedPassword),
		VerificationToken: verificationToken,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	// Mail delivery never fails registration.
	if s.mailer != nil {
		if err := s.mailer.SendVerificationEmail(user.Email, user.Username, verificationToken); err != nil {
			log.Printf("Failed to send verification email to %s: %v", user.Email, err)
		}
	}
	s.publish(events.UserRegistered, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	return user, nil
}

// Login authenticates a user by email and password and returns the user
// with a fresh token. Unverified accounts cannot log in.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists.
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !user.Verified {
		return nil, "", fmt.Errorf("login for %s: %w", user.Email, ErrEmailUnverified)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// VerifyEmail consumes a single-use verification token and marks the
// account verified.
func (s *AuthService) VerifyEmail(token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("empty verification token: %w", ErrInvalidToken)
	}

	// Unknown and already-consumed tokens both surface as not found.
	user, err := s.userRepo.GetByVerificationToken(token)
	if err != nil {
		return nil, err
	}

	user.Verified = true
	user.VerificationToken = ""
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcomeEmail(user.Email, user.Username); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return user, nil
}

// googleUserInfo is the subset of the Google userinfo response we consume.
type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// GoogleLogin verifies a Google access token against the userinfo endpoint
// and logs the matching user in, creating a verified account on first
// federated login.
func (s *AuthService) GoogleLogin(ctx context.Context, accessToken string) (*models.User, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	resp, err := client.Get(s.userinfoURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to reach identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, "", fmt.Errorf("identity provider rejected token (status %d): %w", resp.StatusCode, ErrInvalidToken)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, "", fmt.Errorf("failed to decode identity provider response: %w", err)
	}
	if info.Email == "" {
		return nil, "", fmt.Errorf("identity provider returned no email: %w", ErrInvalidToken)
	}

	user, err := s.userRepo.GetByEmail(info.Email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, "", fmt.Errorf("failed to look up user: %w", err)
		}
		// First federated login creates a verified account.
		user = &models.User{
			Username:      s.availableUsername(usernameFromEmail(info.Email)),
			Email:         strings.ToLower(info.Email),
			Image:         info.Picture,
			Verified:      true,
			GoogleAccount: true,
			GoogleID:      info.ID,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, "", fmt.Errorf("failed to create federated user: %w", err)
		}
		s.publish(events.UserRegistered, map[string]interface{}{
			"user_id":  user.ID,
			"username": user.Username,
			"provider": "google",
		})
	} else {
		// Synchronize the federated identity markers; the provider has
		// verified the email.
		changed := false
		if !user.GoogleAccount || user.GoogleID != info.ID {
			user.GoogleAccount = true
			user.GoogleID = info.ID
			changed = true
		}
		if !user.Verified {
			user.Verified = true
			user.VerificationToken = ""
			changed = true
		}
		if changed {
			if err := s.userRepo.Update(user); err != nil {
				log.Printf("Failed to sync federated identity for %s: %v", user.Email, err)
			}
		}
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken signs a credential embedding the user's id and email with the
// configured TTL.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a signed credential, returning the
// embedded claims. No storage lookup happens here: the token content is
// trusted as-is.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("%v: %w", err, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidToken)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

func (s *AuthService) publish(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(event, payload); err != nil {
		log.Printf("Failed to publish %s event: %v", event, err)
	}
}

// availableUsername returns the candidate username, or the candidate with a
// random suffix when it is already taken.
func (s *AuthService) availableUsername(candidate string) string {
	if _, err := s.userRepo.GetByUsername(candidate); err != nil {
		return candidate
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return candidate + "-" + suffix
}

func usernameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	return strings.ToLower(local)
}

func generateVerificationToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
