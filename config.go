package auth

import (
	"os"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goccy/go-yaml"
	"github.com/goliatone/go-errors"
)

// FileConfig is the concrete Config implementation, loaded once at
// startup and treated as read-only afterwards.
type FileConfig struct {
	SigningKey      string   `yaml:"signing_key" json:"signing_key"`
	SigningMethod   string   `yaml:"signing_method" json:"signing_method"`
	ContextKey      string   `yaml:"context_key" json:"context_key"`
	TokenExpiration int      `yaml:"token_expiration" json:"token_expiration"` // minutes
	TokenLookup     string   `yaml:"token_lookup" json:"token_lookup"`
	AuthScheme      string   `yaml:"auth_scheme" json:"auth_scheme"`
	Issuer          string   `yaml:"issuer" json:"issuer"`
	Audience        []string `yaml:"audience" json:"audience"`
}

var _ Config = (*FileConfig)(nil)

// LoadConfig reads and validates a YAML config file. Defaults are
// applied before validation so a minimal file only needs a signing key.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to read auth config")
	}

	cfg := &FileConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to parse auth config")
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid auth config")
	}

	return cfg, nil
}

func (c *FileConfig) applyDefaults() {
	if c.SigningMethod == "" {
		c.SigningMethod = "HS256"
	}
	if c.ContextKey == "" {
		c.ContextKey = "user"
	}
	if c.TokenExpiration <= 0 {
		c.TokenExpiration = 30
	}
	if c.AuthScheme == "" {
		c.AuthScheme = "Bearer"
	}
	if c.TokenLookup == "" {
		c.TokenLookup = "header:Authorization"
	}
}

// Validate runs validation rules.
func (c FileConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.SigningMethod, validation.Required, validation.In("HS256")),
		validation.Field(&c.TokenExpiration, validation.Required, validation.Min(1)),
	)
}

func (c *FileConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *FileConfig) GetSigningMethod() string {
	return c.SigningMethod
}

func (c *FileConfig) GetContextKey() string {
	return c.ContextKey
}

func (c *FileConfig) GetTokenExpiration() int {
	return c.TokenExpiration
}

func (c *FileConfig) GetTokenLookup() string {
	return c.TokenLookup
}

func (c *FileConfig) GetAuthScheme() string {
	return c.AuthScheme
}

func (c *FileConfig) GetIssuer() string {
	return c.Issuer
}

func (c *FileConfig) GetAudience() []string {
	return c.Audience
}
