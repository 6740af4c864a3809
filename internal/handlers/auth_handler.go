package handlers

import (
	"log"

	"conduit/internal/models"
	"conduit/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration, login, email
// verification and federated login.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/users", h.HandleRegister)
	router.Post("/users/login", h.HandleLogin)
	router.Get("/verifyemail", h.HandleVerifyEmail)
	router.Post("/auth/google", h.HandleGoogleLogin)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration. The account starts
// unverified; a verification email is sent best-effort.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user, err := h.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return respondError(c, err, "Could not register user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully. Please check your email to verify your account.",
		"user":    models.NewProfileResponse(user),
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and returns the owner's view of the
// account, token included.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return respondError(c, err, "Authentication failed")
	}

	return c.JSON(fiber.Map{
		"user": models.NewSelfResponse(user, token),
	})
}

// HandleVerifyEmail consumes a single-use verification token.
func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Verification token is required",
		})
	}

	user, err := h.authService.VerifyEmail(token)
	if err != nil {
		log.Printf("Error verifying email: %v", err)
		return respondError(c, err, "Could not verify email")
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully",
		"user":    models.NewProfileResponse(user),
	})
}

// GoogleLoginRequest represents the request body for federated login.
type GoogleLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

// HandleGoogleLogin verifies a Google access token with the identity
// provider and logs the user in, creating a verified account on first
// federated login.
func (h *AuthHandler) HandleGoogleLogin(c *fiber.Ctx) error {
	var req GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing google login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user, token, err := h.authService.GoogleLogin(c.Context(), req.Token)
	if err != nil {
		log.Printf("Error during google login: %v", err)
		return respondError(c, err, "Federated login failed")
	}

	return c.JSON(fiber.Map{
		"user": models.NewSelfResponse(user, token),
	})
}
