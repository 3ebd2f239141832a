package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oykulab/masal-api/internal/auth"
	"github.com/oykulab/masal-api/internal/model"
	"github.com/oykulab/masal-api/internal/repository"
)

const (
	msgTokenNotFound = "Yetki yok, token bulunamadı"
	msgTokenInvalid  = "Yetki yok, token geçersiz"
)

type contextKey struct{}

var userContextKey = contextKey{}

// UserFromContext returns the authenticated user attached by Authenticator.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

// Authenticator gates protected routes behind a bearer session token. A
// missing header or a non-Bearer scheme collapses into the same "token not
// found" rejection; an invalid or expired token, or a token whose user no
// longer exists, collapses into "token invalid". The gate has no side effects
// beyond rejecting or attaching the resolved user to the request context.
func Authenticator(
	jwtAuth auth.JWTAuthenticator,
	userRepo repository.UserRepository,
	logger *zerolog.Logger,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				respondMessage(w, http.StatusUnauthorized, msgTokenNotFound)
				return
			}

			claims, err := jwtAuth.ValidateToken(parts[1])
			if err != nil {
				respondMessage(w, http.StatusUnauthorized, msgTokenInvalid)
				return
			}

			user, err := userRepo.GetUser(r.Context(), claims.UserID)
			if err != nil {
				// A deleted account is indistinguishable from a bad token.
				respondMessage(w, http.StatusUnauthorized, msgTokenInvalid)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestID assigns a UUID to every request, reusing the inbound X-Request-ID
// header when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type requestIDKey struct{}

var requestIDContextKey = requestIDKey{}

// RequestLogger logs one line per completed request.
func RequestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			requestID, _ := r.Context().Value(requestIDContextKey).(string)
			logger.Info().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
