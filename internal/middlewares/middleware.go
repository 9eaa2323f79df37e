package middlewares

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/grvbrk/vidplay/internal/utils"
	"go.uber.org/zap"
)

type MiddlewareHandler struct {
	Logger         *zap.Logger
	AllowedOrigins []string
}

func NewMiddlewareHandler(logger *zap.Logger, allowedOrigins []string) *MiddlewareHandler {
	return &MiddlewareHandler{
		Logger:         logger,
		AllowedOrigins: allowedOrigins,
	}
}

// Cors rejects requests from origins outside AllowedOrigins and lets
// go-chi/cors answer preflights and set the response headers.
func (mh *MiddlewareHandler) Cors(next http.Handler) http.Handler {
	withHeaders := cors.Handler(cors.Options{
		AllowedOrigins:   mh.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && !mh.isOriginAllowed(origin) {
			mh.Logger.Warn("Origin not allowed", zap.String("origin", origin))
			utils.WriteError(w, http.StatusForbidden, "Origin not allowed")
			return
		}

		withHeaders.ServeHTTP(w, r)
	})
}

func (mh *MiddlewareHandler) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		mh.Logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("origin", r.Header.Get("Origin")),
		)
	})
}

func (mh *MiddlewareHandler) Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func (mh *MiddlewareHandler) isOriginAllowed(origin string) bool {
	return slices.Contains(mh.AllowedOrigins, origin)
}
