// Package auth is the boundary to the identity service. Tokens are issued
// elsewhere (OTP login); this package verifies them and puts the caller's
// Identity on the request context.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "

	// DefaultTokenTTL matches the identity service's token lifetime.
	DefaultTokenTTL = 72 * time.Hour
)

var (
	ErrNoToken      = errors.New("no bearer token provided")
	ErrInvalidToken = errors.New("token is not valid")
)

// Identity is the authenticated caller.
type Identity struct {
	UserID primitive.ObjectID
	Role   models.Role
}

// ID returns the caller's user id as a hex string.
func (i Identity) ID() string { return i.UserID.Hex() }

type tokenClaims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager verifies (and, for tooling and tests, issues) HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
}

// NewTokenManager builds a TokenManager for the shared signing secret.
func NewTokenManager(secret string, ttl time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended", zap.Int("length", len(secret)))
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, log: logger}, nil
}

// Issue signs a token for the given user.
func (tm *TokenManager) Issue(userID primitive.ObjectID, role models.Role) (string, error) {
	now := time.Now()
	c := tokenClaims{
		ID:   userID.Hex(),
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(tm.secret)
}

// Parse verifies a raw token and returns the Identity it carries.
// Unknown roles and malformed user ids are rejected.
func (tm *TokenManager) Parse(raw string) (Identity, error) {
	var c tokenClaims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	uid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: bad user id", ErrInvalidToken)
	}
	role, err := models.ParseRole(c.Role)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Identity{UserID: uid, Role: role}, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Request context                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const (
	currentUserKey ctxKey = "currentUser"
	authErrKey     ctxKey = "authErr"
)

// CurrentUser returns the caller & "found?" flag.
func CurrentUser(r *http.Request) (Identity, bool) {
	return FromContext(r.Context())
}

// FromContext returns the Identity stored on ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	u, ok := ctx.Value(currentUserKey).(Identity)
	return u, ok
}

// WithTestUser injects an identity without a token. Tests only.
func WithTestUser(r *http.Request, u Identity) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadIdentity injects the caller into context when a valid bearer token is
// present. It never rejects; RequireSignedIn/RequireRole decide that.
func (tm *TokenManager) LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authErrKey, err)))
			return
		}
		id, err := tm.Parse(raw)
		if err != nil {
			tm.log.Debug("bearer token rejected", zap.Error(err))
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authErrKey, ErrInvalidToken)))
			return
		}
		next.ServeHTTP(w, withUser(r, id))
	})
}

// RequireSignedIn responds 401 unless LoadIdentity found a valid token.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			writeUnauthenticated(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// helpers

func writeUnauthenticated(w http.ResponseWriter, r *http.Request) {
	msg := "Authorization denied. No token provided."
	if err, _ := r.Context().Value(authErrKey).(error); errors.Is(err, ErrInvalidToken) {
		msg = "Token is not valid."
	}
	writeJSONError(w, http.StatusUnauthorized, msg)
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrNoToken
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", ErrInvalidToken
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
