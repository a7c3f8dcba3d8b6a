package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const (
	SessionTokenHeader = "X-Tidepool-Session-Token"
	RolePrescriber     = "PRESCRIBER"

	identityKey = "identity"
	tokenKey    = "sessionToken"
)

var Module = fx.Provide(NewConfig, NewParser)

var ErrInvalidToken = errors.New("invalid session token")

type Config struct {
	ServerSecret string `envconfig:"TIDEPOOL_SERVER_SECRET" required:"true"`
}

func NewConfig() (Config, error) {
	cfg := Config{}
	err := envconfig.Process("", &cfg)
	return cfg, err
}

// Claims of a session token. Clinic roles are keyed by clinic id.
type Claims struct {
	jwt.RegisteredClaims
	UserId      string              `json:"usr"`
	ClinicRoles map[string][]string `json:"clinicRoles,omitempty"`
}

type Identity struct {
	UserId      string
	ClinicRoles map[string][]string
}

func (i Identity) IsPrescriber(clinicId string) bool {
	for _, role := range i.ClinicRoles[clinicId] {
		if role == RolePrescriber {
			return true
		}
	}
	return false
}

func (i Identity) IsMember(clinicId string) bool {
	_, ok := i.ClinicRoles[clinicId]
	return ok
}

type Parser struct {
	secret []byte
}

func NewParser(config Config) *Parser {
	return &Parser{secret: []byte(config.ServerSecret)}
}

// Parse validates a HS256 session token signed with the server secret
func (p *Parser) Parse(token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	userId := claims.UserId
	if userId == "" {
		userId = claims.Subject
	}
	if userId == "" {
		return Identity{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return Identity{UserId: userId, ClinicRoles: claims.ClinicRoles}, nil
}

// Sign issues a session token for the claims. It's used by tests and local tooling.
func (p *Parser) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// Middleware rejects requests without a valid session token and exposes the identity to the handlers
func Middleware(parser *Parser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(SessionTokenHeader)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
			}
			identity, err := parser.Parse(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session token")
			}
			c.Set(identityKey, identity)
			c.Set(tokenKey, token)
			return next(c)
		}
	}
}

func IdentityFrom(c echo.Context) (Identity, bool) {
	identity, ok := c.Get(identityKey).(Identity)
	return identity, ok
}

func TokenFrom(c echo.Context) string {
	token, _ := c.Get(tokenKey).(string)
	return token
}
