package rpc

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/blackelite/vestd/crypto"
)

// AuthConfig configures bearer-token authentication for the admin and
// schedule-creator RPC surface, grounded on the teacher's gateway
// middleware.AuthConfig (gateway/middleware/auth.go).
type AuthConfig struct {
	Enabled    bool
	HMACSecret string
	Issuer     string
	Audience   string
	ClockSkew  time.Duration
}

type contextKey string

// ContextKeyCaller is the context key the auth middleware stores the
// authenticated caller's address under.
const ContextKeyCaller contextKey = "vestd.caller"

// Authenticator validates bearer JWTs and resolves the "sub" claim into a
// crypto.Address the handlers pass to the engine as the acting caller.
type Authenticator struct {
	cfg    AuthConfig
	secret []byte
	once   sync.Once
}

// NewAuthenticator constructs an Authenticator from cfg.
func NewAuthenticator(cfg AuthConfig) *Authenticator {
	a := &Authenticator{cfg: cfg}
	a.once.Do(func() {
		a.secret = []byte(strings.TrimSpace(cfg.HMACSecret))
		if a.cfg.ClockSkew <= 0 {
			a.cfg.ClockSkew = 2 * time.Minute
		}
	})
	return a
}

// Middleware authenticates the request and stores the resolved caller
// address in the request context. It rejects the request with 401 if
// authentication is enabled and the token is missing, invalid, or its
// subject claim is not a well-formed address.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}
		tokenString := extractBearer(r.Header.Get("Authorization"))
		if tokenString == "" {
			writeError(w, http.StatusUnauthorized, nil, codeUnauthorized, "missing bearer token", nil)
			return
		}
		claims, err := a.parseToken(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, nil, codeUnauthorized, "invalid token", err.Error())
			return
		}
		if err := validateClaims(claims, a.cfg.Issuer, a.cfg.Audience); err != nil {
			writeError(w, http.StatusUnauthorized, nil, codeUnauthorized, "invalid token", err.Error())
			return
		}
		subject, _ := claims["sub"].(string)
		caller, err := crypto.DecodeAddress(strings.TrimSpace(subject))
		if err != nil {
			writeError(w, http.StatusUnauthorized, nil, codeUnauthorized, "invalid subject claim", err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), ContextKeyCaller, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) parseToken(tokenString string) (jwt.MapClaims, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("auth: HMACSecret not configured")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwt.WithLeeway(a.cfg.ClockSkew))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token invalid")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims not a map")
	}
	return claims, nil
}

func validateClaims(claims jwt.MapClaims, issuer, audience string) error {
	if issuer != "" {
		if value, ok := claims["iss"].(string); !ok || value != issuer {
			return errors.New("issuer mismatch")
		}
	}
	if audience != "" {
		switch val := claims["aud"].(type) {
		case string:
			if val != audience {
				return errors.New("audience mismatch")
			}
		case []interface{}:
			matched := false
			for _, entry := range val {
				if s, ok := entry.(string); ok && s == audience {
					matched = true
					break
				}
			}
			if !matched {
				return errors.New("audience mismatch")
			}
		}
	}
	if exp, ok := claims["exp"].(float64); ok {
		if int64(exp) < time.Now().Unix() {
			return errors.New("token expired")
		}
	}
	return nil
}

func extractBearer(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// callerFromContext retrieves the authenticated caller, falling back to the
// zero address when auth is disabled (local development / tests).
func callerFromContext(ctx context.Context) crypto.Address {
	if addr, ok := ctx.Value(ContextKeyCaller).(crypto.Address); ok {
		return addr
	}
	return crypto.ZeroAddress()
}
