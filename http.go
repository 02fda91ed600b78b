package auth

import (
	"net/http"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/rodbv/authkit/middleware/jwtware"
)

// HeaderWWWAuthenticate carries the challenge returned with every 401.
const HeaderWWWAuthenticate = "WWW-Authenticate"

// TokenResponse is the credential exchange success body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// HTTPAuthenticator adapts the Authenticator to router handlers.
type HTTPAuthenticator interface {
	Login(c router.Context, payload LoginPayload) error
	ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc
	MakeClientRouteAuthErrorHandler(optionalAuth bool) func(c router.Context, err error) error
}

// RouteAuthenticator exposes login and route protection over HTTP. All
// auth state lives in the bearer token; no cookies or server-side
// sessions are kept.
type RouteAuthenticator struct {
	auth             Authenticator
	cfg              Config
	validator        TokenValidator
	Logger           Logger
	Debug            bool
	AuthErrorHandler func(c router.Context, err error) error
	ErrorHandler     func(c router.Context, err error) error
}

var _ HTTPAuthenticator = (*RouteAuthenticator)(nil)

// NewHTTPAuthenticator wires an Authenticator and its token validator
// into HTTP handling.
func NewHTTPAuthenticator(auther Authenticator, validator TokenValidator, cfg Config) (*RouteAuthenticator, error) {
	if auther == nil {
		return nil, errors.New("authenticator is required", errors.CategoryInternal)
	}
	if validator == nil {
		return nil, errors.New("token validator is required", errors.CategoryInternal)
	}

	a := &RouteAuthenticator{
		cfg:       cfg,
		auth:      auther,
		validator: validator,
		Logger:    defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler
	a.AuthErrorHandler = a.defaultAuthErrHandler

	return a, nil
}

// ProtectedRoute guards a route group with bearer token validation.
// Requests without a valid token never reach the handler.
func (a *RouteAuthenticator) ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		ErrorHandler:   errorHandler,
		TokenValidator: a.validator,
		SigningKey: jwtware.SigningKey{
			Key:    []byte(cfg.GetSigningKey()),
			JWTAlg: cfg.GetSigningMethod(),
		},
		AuthScheme:  cfg.GetAuthScheme(),
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
	})
}

// Login exchanges the payload credential for a bearer token and writes
// the token response. Failures go through the error handlers so every
// credential problem yields the same generic body.
func (a *RouteAuthenticator) Login(ctx router.Context, payload LoginPayload) error {
	token, err := a.auth.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

// MakeClientRouteAuthErrorHandler builds the middleware error handler.
// With optional auth the request proceeds unauthenticated; otherwise the
// client gets a 401 with a bearer challenge.
func (a *RouteAuthenticator) MakeClientRouteAuthErrorHandler(optional bool) func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional {
			a.Logger.Info("Optional auth failed, proceeding", "error", richErr.Message)
			return ctx.Next()
		}

		return a.AuthErrorHandler(ctx, richErr)
	}
}

func (a *RouteAuthenticator) defaultAuthErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "An unexpected authentication error").
			WithCode(errors.CodeUnauthorized)
	}

	a.Logger.Info(
		"Authentication error",
		"error", richErr.Message,
		"text_code", richErr.TextCode,
		"path", c.OriginalURL(),
	)

	c.SetHeader(HeaderWWWAuthenticate, a.challenge())

	return c.JSON(router.StatusUnauthorized, map[string]string{
		"detail": "could not validate credentials",
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	if a.Debug {
		a.Logger.Debug(
			"Middleware error handler",
			"error", richErr.Message,
			"category", richErr.Category,
			"details", print.MaybePrettyJSON(richErr.Metadata),
		)
	}

	switch richErr.Category {
	case errors.CategoryAuth:
		if errors.Is(richErr, ErrMismatchedHashAndPassword) {
			return c.JSON(router.StatusUnauthorized, map[string]string{
				"detail": "incorrect identifier or secret",
			})
		}
		return a.AuthErrorHandler(c, richErr)
	case errors.CategoryAuthz:
		return c.JSON(router.StatusForbidden, map[string]string{
			"detail": "not enough permissions",
		})
	case errors.CategoryRateLimit:
		return c.JSON(http.StatusTooManyRequests, map[string]string{
			"detail": "too many login attempts",
		})
	case errors.CategoryInternal:
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"detail": "service unavailable",
		})
	default:
		return c.JSON(router.StatusBadRequest, map[string]string{
			"detail": richErr.Message,
		})
	}
}

func (a *RouteAuthenticator) challenge() string {
	scheme := "Bearer"
	if a.cfg != nil && a.cfg.GetAuthScheme() != "" {
		scheme = a.cfg.GetAuthScheme()
	}
	return scheme
}
