// Package reqctx tags incoming API requests with an ID for log correlation.
package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type key int

const requestKey key = 0

// RequestContext carries per-request identity for logging.
type RequestContext struct {
	RequestID string
	StartTime time.Time
}

// WithRequestContext attaches a fresh request ID to ctx.
func WithRequestContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestKey, &RequestContext{
		RequestID: generateID(),
		StartTime: time.Now(),
	})
}

// FromContext returns the request context, or a placeholder when none was
// attached.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestKey).(*RequestContext); ok {
		return rc
	}
	return &RequestContext{RequestID: "unknown", StartTime: time.Now()}
}

// Middleware attaches a request ID to every request and logs method, path,
// and duration when the handler returns.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithRequestContext(r.Context())
		rc := FromContext(ctx)

		w.Header().Set("X-Request-Id", rc.RequestID)
		next.ServeHTTP(w, r.WithContext(ctx))

		log.Debug().
			Str("request_id", rc.RequestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(rc.StartTime)).
			Msg("Request handled")
	})
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
