package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/samber/lo"
	"github.com/tallybank/tallybank/internal/config"
	ierr "github.com/tallybank/tallybank/internal/errors"
)

// Claims is what a validated bearer token tells us about the caller
type Claims struct {
	UserID   string
	Username string
	Roles    []string
}

// Provider validates bearer tokens issued elsewhere. Tokens are never minted here.
type Provider interface {
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

type jwtProvider struct {
	secret []byte
}

func NewProvider(cfg *config.Configuration) Provider {
	return &jwtProvider{secret: []byte(cfg.Auth.Secret)}
}

func (p *jwtProvider) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewError("unexpected signing method").
				WithHint(fmt.Sprintf("unexpected signing method: %v", token.Header["alg"])).
				Mark(ierr.ErrPermissionDenied)
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Token parse error").
			Mark(ierr.ErrPermissionDenied)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrPermissionDenied)
	}

	username, ok := claims["preferred_username"].(string)
	if !ok || username == "" {
		return nil, ierr.NewError("token missing username").
			WithHint("Token missing username").
			Mark(ierr.ErrPermissionDenied)
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		userID = username
	}

	return &Claims{
		UserID:   userID,
		Username: username,
		Roles:    rolesFrom(claims),
	}, nil
}

// rolesFrom reads roles from either a top level "roles" claim or a
// keycloak style "realm_access.roles" claim
func rolesFrom(claims jwt.MapClaims) []string {
	raw, ok := claims["roles"].([]interface{})
	if !ok {
		if realm, ok := claims["realm_access"].(map[string]interface{}); ok {
			raw, _ = realm["roles"].([]interface{})
		}
	}
	return lo.FilterMap(raw, func(r interface{}, _ int) (string, bool) {
		s, ok := r.(string)
		return s, ok && s != ""
	})
}
