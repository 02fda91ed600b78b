package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the credential exchange and registration
// endpoints.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...TokenControllerOption) {
	controller := NewTokenController(opts...)

	app.
		Post(controller.Routes.Token, controller.TokenPost).
		SetName("token.post")

	app.
		Post(controller.Routes.Register, controller.RegisterPost).
		SetName("register.post")
}

// TokenControllerRoutes holds the mounted paths.
type TokenControllerRoutes struct {
	Token    string
	Register string
}

// TokenController exposes the credential submission endpoint: it binds
// and validates the payload, runs the login exchange, and returns the
// bearer token envelope.
type TokenController struct {
	Debug        bool
	Logger       Logger
	Repo         RepositoryManager
	Routes       *TokenControllerRoutes
	Auther       HTTPAuthenticator
	ErrorHandler router.ErrorHandler
}

// TokenControllerOption configures the controller.
type TokenControllerOption func(*TokenController) *TokenController

// NewTokenController builds a controller; Repo and Auther are required.
func NewTokenController(opts ...TokenControllerOption) *TokenController {
	c := &TokenController{
		Logger: defLogger{},
		Routes: &TokenControllerRoutes{
			Token:    "/token",
			Register: "/users",
		},
	}

	c.ErrorHandler = c.defaultErrHandler

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in token controller...")
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in token controller...")
	}

	return c
}

// WithTokenControllerAuther sets the HTTP authenticator.
func WithTokenControllerAuther(auther HTTPAuthenticator) TokenControllerOption {
	return func(c *TokenController) *TokenController {
		c.Auther = auther
		return c
	}
}

// WithTokenControllerRepo sets the repository manager.
func WithTokenControllerRepo(repo RepositoryManager) TokenControllerOption {
	return func(c *TokenController) *TokenController {
		c.Repo = repo
		return c
	}
}

// WithTokenControllerLogger sets the logger.
func WithTokenControllerLogger(logger Logger) TokenControllerOption {
	return func(c *TokenController) *TokenController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// TokenRequest is the credential submission payload, accepted as form
// fields or a JSON body.
type TokenRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Secret     string `form:"secret" json:"secret"`
}

// GetIdentifier returns the identifier.
func (r TokenRequest) GetIdentifier() string {
	return r.Identifier
}

// GetPassword will return the secret.
func (r TokenRequest) GetPassword() string {
	return r.Secret
}

// Validate will run validation rules.
func (r TokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
		),
		validation.Field(
			&r.Secret,
			validation.Required,
		),
	)
}

// TokenPost handles the credential exchange. Validation failures are
// 400; credential failures surface through the authenticator's error
// handler as a generic 401.
func (a *TokenController) TokenPost(ctx router.Context) error {
	payload := new(TokenRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("token post bind error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"detail": err.Error(),
		})
	}

	if a.Debug {
		a.Logger.Debug("token exchange payload: %s", print.MaybePrettyJSON(payload))
	}

	return a.Auther.Login(ctx, payload)
}

// RegisterPayload is the account creation body.
type RegisterPayload struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload.
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(8, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

// RegisterPost creates a new account.
func (a *TokenController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"detail": "could not parse body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"detail": err.Error(),
		})
	}

	req := RegisterUserMessage{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	}

	registerUser := NewRegisterUserHandler(a.Repo, nil)
	if err := registerUser.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("register user error", "error", err)
		return ctx.JSON(fiber.StatusConflict, map[string]any{
			"detail": "could not create user",
		})
	}

	return ctx.JSON(fiber.StatusCreated, map[string]any{
		"username": getUsername(payload.Username, payload.Email),
		"email":    payload.Email,
	})
}

// ValidateStringEquals will check that both values match.
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return fmt.Errorf("values must match")
		}
		return nil
	}
}

func (a *TokenController) defaultErrHandler(c router.Context, err error) error {
	return c.JSON(fiber.StatusBadRequest, map[string]any{
		"detail": err.Error(),
	})
}
