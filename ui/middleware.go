package ui

import (
	"net/http"

	"github.com/justinas/nosurf"
	"github.com/rs/zerolog/log"
)

// csrfProtection middleware for UI form posts
func csrfProtection(next http.Handler) http.Handler {
	csrfHandler := nosurf.New(next)
	csrfHandler.SetBaseCookie(http.Cookie{
		Path:     "/ui",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// the console is served over plain HTTP by default, nosurf would otherwise expect https origins
	csrfHandler.SetIsTLSFunc(func(req *http.Request) bool {
		return req.TLS != nil
	})
	csrfHandler.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		log.Error().Err(nosurf.Reason(req)).Str("path", req.URL.Path).Msg("CSRF validation failed")
		http.Error(w, "Invalid CSRF token", http.StatusBadRequest)
	}))
	return csrfHandler
}
