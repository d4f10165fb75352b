// Package middleware provides HTTP middleware for the piedpiper API.
package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/Bidon15/piedpiper/internal/models"
	apierrors "github.com/Bidon15/piedpiper/internal/pkg/errors"
	"github.com/Bidon15/piedpiper/internal/pkg/response"
	"github.com/Bidon15/piedpiper/internal/service"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// SessionKey is the context key for the authorized session.
	SessionKey contextKey = "session"
	// RequestContextKey is the context key for the caller attributes.
	RequestContextKey contextKey = "request_context"
)

// BearerToken returns the token after the literal "Bearer " prefix, or ""
// when the header is missing or uses another scheme.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, service.BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, service.BearerPrefix)
}

// PeerIP returns the host part of RemoteAddr. When chi's RealIP runs first
// RemoteAddr already holds the forwarded address without a port.
func PeerIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// NewRequestContext captures token, peer IP and user agent from r.
func NewRequestContext(r *http.Request) service.RequestContext {
	return service.RequestContext{
		Token:     BearerToken(r),
		IP:        PeerIP(r),
		UserAgent: r.UserAgent(),
	}
}

// SessionAuth runs the auth gate and stores the session in the request
// context. Every denial is answered with an explicit 401, 403 or 500.
func SessionAuth(gate service.Gate, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := NewRequestContext(r)

			session, err := gate.Authorize(r.Context(), rc)
			recordGateDecision(err)
			if err != nil {
				if !apierrors.IsAPIError(err) {
					logger.Error("auth gate failed",
						slog.String("path", r.URL.Path),
						slog.String("error", err.Error()),
					)
				}
				response.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			ctx = context.WithValue(ctx, RequestContextKey, rc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession retrieves the authorized session from context.
func GetSession(ctx context.Context) *models.Session {
	if v, ok := ctx.Value(SessionKey).(*models.Session); ok {
		return v
	}
	return nil
}

// GetRequestContext retrieves the caller attributes from context.
func GetRequestContext(ctx context.Context) service.RequestContext {
	if v, ok := ctx.Value(RequestContextKey).(service.RequestContext); ok {
		return v
	}
	return service.RequestContext{}
}
