package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/subhankar021/ShopHub/internal/auth"
)

// CartSessionCookie names the cookie that keys a browser session's cart.
const CartSessionCookie = "shophub_session"

// IdentityResolver maps a bearer token to its signed-in identity.
type IdentityResolver interface {
	Identity(accessToken string) (*auth.Identity, bool)
}

// CartSessionMiddleware assigns each browser a stable session id so its
// cart survives across requests; a missing cookie gets a fresh one.
func CartSessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if c, err := r.Cookie(CartSessionCookie); err == nil && c.Value != "" {
			sessionID = c.Value
		} else {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CartSessionCookie,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), "session_id", sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionMiddleware resolves the Authorization bearer token to an identity
// when one is present. Requests without a valid session pass through
// anonymously; handlers that require identity decide what to do.
func SessionMiddleware(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				if identity, found := resolver.Identity(token); found {
					ctx := context.WithValue(r.Context(), "access_token", token)
					ctx = context.WithValue(ctx, "identity", identity)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func getSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value("session_id").(string)
	return sessionID, ok && sessionID != ""
}

func getAccessToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value("access_token").(string)
	return token, ok && token != ""
}

func getIdentity(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value("identity").(*auth.Identity)
	return identity, ok && identity != nil
}
