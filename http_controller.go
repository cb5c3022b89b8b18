package gatekeeper

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// AuthControllerRoutes are the paths the controller mounts its handlers on.
// They should sit under a public path prefix so the filters let them through.
type AuthControllerRoutes struct {
	Login    string
	Register string
}

// AuthController exposes the login and registration endpoints. Login
// failures return a distinguishable invalid-credentials message; every
// other auth failure at the HTTP boundary is a uniform unauthenticated
// response handled by the filters.
type AuthController struct {
	Logger Logger
	Auther Authenticator
	Users  Users
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController)

func NewAuthController(auther Authenticator, users Users, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Auther: auther,
		Users:  users,
		Routes: &AuthControllerRoutes{
			Login:    "/auth/login",
			Register: "/auth/register",
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) {
		if l != nil {
			c.Logger = l
		}
	}
}

// RegisterAuthRoutes mounts the auth endpoints on the app
func RegisterAuthRoutes(app *fiber.App, controller *AuthController) {
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Register, controller.RegistrationCreate)
}

// LoginPayload is the login request body
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required),
		validation.Field(&p.Password, validation.Required),
	)
}

// RegistrationPayload is the registration request body
type RegistrationPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (p RegistrationPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.Length(2, 64)),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&p.Role, validation.Required),
	)
}

// LoginPost handles POST /auth/login
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := LoginPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "invalid request payload")
	}

	if err := payload.Validate(); err != nil {
		return failJSON(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := a.Auther.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return failJSON(c, fiber.StatusUnauthorized, "invalid credentials")
		}

		a.Logger.Error("Login error", "error", err)
		return failJSON(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// RegistrationCreate handles POST /auth/register
func (a *AuthController) RegistrationCreate(c *fiber.Ctx) error {
	payload := RegistrationPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "invalid request payload")
	}

	if err := payload.Validate(); err != nil {
		return failJSON(c, fiber.StatusBadRequest, err.Error())
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		a.Logger.Error("Registration hash error", "error", err)
		return failJSON(c, fiber.StatusInternalServerError, "internal server error")
	}

	user := &User{
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: hash,
	}

	if _, err := a.Users.Register(c.UserContext(), user, payload.Role); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return failJSON(c, fiber.StatusConflict, "username or email already taken")
		}

		a.Logger.Error("Registration error", "error", err)
		return failJSON(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "registration complete",
	})
}

func failJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
