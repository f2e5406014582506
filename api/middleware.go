package api

import (
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/George1161/the-legit-website/errs"
	"github.com/George1161/the-legit-website/services"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authMiddleware struct {
	responder Responder
	auth      services.AdminAuth
}

func newAuthMiddleware(auth services.AdminAuth) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder: NewResponder(logger),
		auth:      auth,
	}
}

// authenticate requires a valid admin bearer token.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			token = ""
		}

		claims, err := m.auth.Verify(strings.TrimSpace(token))
		if err != nil {
			m.responder.WriteError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithAdmin(r.Context(), claims.Subject)))
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				if !srw.wroteHeader {
					NewResponder(log.Logger).WriteJSONStatus(srw, http.StatusInternalServerError,
						envelope{Success: false, Message: internalErrorMessage})
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// originMatcher accepts exact origins, "*" and wildcard host patterns such as
// "https://*.vercel.app".
type originMatcher struct {
	any       bool
	exact     map[string]struct{}
	wildcards []wildcardOrigin
}

type wildcardOrigin struct {
	scheme string // "https://", or empty for any scheme
	suffix string // ".vercel.app"
}

func newOriginMatcher(allowed []string) originMatcher {
	m := originMatcher{exact: make(map[string]struct{}, len(allowed))}
	for _, origin := range allowed {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch {
		case origin == "":
		case origin == "*":
			m.any = true
		case strings.Contains(origin, "*."):
			scheme, suffix, _ := strings.Cut(origin, "*")
			m.wildcards = append(m.wildcards, wildcardOrigin{scheme: scheme, suffix: suffix})
		default:
			m.exact[origin] = struct{}{}
		}
	}
	return m
}

func (m originMatcher) allows(origin string) bool {
	if m.any {
		return true
	}
	if _, ok := m.exact[origin]; ok {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	for _, w := range m.wildcards {
		if w.scheme != "" && w.scheme != u.Scheme+"://" {
			continue
		}
		if strings.HasSuffix(u.Host, w.suffix) && len(u.Host) > len(w.suffix) {
			return true
		}
	}
	return false
}

// CORSCheckMiddleware rejects preflight requests from origins that are not
// allowed with a JSON error instead of a bare response.
func CORSCheckMiddleware(matcher originMatcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// No origin header means a same-origin or non-browser request
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !matcher.allows(origin) && r.Method == http.MethodOptions {
				responder := NewResponder(log.Logger)
				responder.WriteError(w, errs.NewCORSError(origin))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware allows credentials only for explicitly listed origins; a "*"
// entry opens the API without them.
func corsMiddleware(matcher originMatcher) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return matcher.allows(origin)
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: !matcher.any,
		MaxAge:           300,
	})
}

// ColoredHTTPLoggingMiddleware logs one line per request, leveled by status code
func ColoredHTTPLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		duration := time.Since(start)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = log.Error()
		case srw.status >= 400:
			logEvent = log.Warn()
		default:
			logEvent = log.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", duration).
			Str("ip", clientIP(r)).
			Msg("HTTP Request")
	})
}
