package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ourohead/ourohead/pkg/definition"
)

// Auth failures.
var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const authRealm = `realm="ourohead"`

// authenticate enforces the endpoint's auth requirement. It returns nil when
// the endpoint is public or the credentials are acceptable.
func (h *Handler) authenticate(r *http.Request, ep *definition.Endpoint) error {
	if !ep.RequiresAuth {
		return nil
	}
	switch ep.AuthType {
	case definition.AuthAPIKey:
		if strings.TrimSpace(r.Header.Get(ep.AuthHeaderName())) == "" {
			return ErrMissingCredentials
		}
		return nil
	case definition.AuthBasic:
		user, _, ok := r.BasicAuth()
		if !ok || user == "" {
			return ErrMissingCredentials
		}
		return nil
	default:
		return h.checkBearer(r.Header.Get(ep.AuthHeaderName()))
	}
}

// checkBearer accepts any non-empty bearer token when no secret is set and
// otherwise requires a valid HS256 JWT signed with the secret.
func (h *Handler) checkBearer(header string) error {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return ErrMissingCredentials
	}
	if len(h.jwtSecret) == 0 {
		return nil
	}

	_, err := jwt.Parse(strings.TrimSpace(token), func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return h.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return nil
}

// challenge returns the WWW-Authenticate value for ep.
func challenge(ep *definition.Endpoint) string {
	switch ep.AuthType {
	case definition.AuthBasic:
		return "Basic " + authRealm
	case definition.AuthAPIKey:
		return ""
	default:
		return "Bearer " + authRealm
	}
}
