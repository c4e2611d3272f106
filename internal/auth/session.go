package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/astreus-ai/astreus-admin-be/internal/models"
)

// Session is the outcome of verifying a request credential. The zero value
// means "not authenticated".
type Session struct {
	Authenticated bool   `json:"authenticated"`
	IsAdmin       bool   `json:"isAdmin"`
	Username      string `json:"username,omitempty"`
}

// AccountSource resolves credential claims to stored accounts.
type AccountSource interface {
	GetUserByID(id string) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
}

// Verifier decides whether a request carries a valid credential and whether
// the associated account holds the administrator flag.
type Verifier struct {
	tokens    *TokenManager
	legacyKey []byte
	accounts  AccountSource
}

// NewVerifier creates a Verifier. legacySecret keys the historical
// signed-string credentials; accounts resolves claims to accounts.
func NewVerifier(tokens *TokenManager, legacySecret string, accounts AccountSource) *Verifier {
	return &Verifier{tokens: tokens, legacyKey: []byte(legacySecret), accounts: accounts}
}

// contextKey is a private type for context values set by this package.
type contextKey string

// SessionKey is the context key under which the verified session is stored.
const SessionKey = contextKey("session")

// CredentialFromRequest extracts the raw credential string from a request:
// the Authorization bearer header first, then the token cookie.
func CredentialFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, "Bearer ", 2)
		if len(parts) == 2 && parts[1] != "" {
			return parts[1]
		}
	}

	cookie, err := r.Cookie("token")
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Verify inspects the request credential and resolves the associated account.
// Malformed, expired or mis-signed credentials, and accounts that no longer
// exist, all come back as the zero Session; no error escapes.
func (v *Verifier) Verify(r *http.Request) Session {
	tokenStr := CredentialFromRequest(r)
	if tokenStr == "" {
		return Session{}
	}

	if claims, err := v.tokens.Parse(tokenStr); err == nil {
		user, err := v.accounts.GetUserByID(claims.UserID)
		if err != nil {
			return Session{}
		}
		return Session{Authenticated: true, IsAdmin: user.IsAdmin, Username: user.Username}
	}

	if username, ok := VerifyLegacyToken(tokenStr, v.legacyKey, time.Now()); ok {
		user, err := v.accounts.GetUserByUsername(username)
		if err != nil {
			return Session{}
		}
		return Session{Authenticated: true, IsAdmin: user.IsAdmin, Username: user.Username}
	}

	return Session{}
}

// RequireAdmin is a middleware that rejects requests without a valid admin
// credential: 401 when unauthenticated, 403 when the account lacks the
// administrator flag. The verified session is passed down via context.
func (v *Verifier) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := v.Verify(r)
		if !session.Authenticated {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !session.IsAdmin {
			writeError(w, http.StatusForbidden, "Administrator privilege required")
			return
		}

		ctx := context.WithValue(r.Context(), SessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the session stored by RequireAdmin.
func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(SessionKey).(Session)
	return session, ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
