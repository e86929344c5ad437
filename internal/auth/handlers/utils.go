package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"lunarbase-server/internal/shared/config"
)

// resolveRedirectURI accepts only redirect targets under the configured frontend.
func resolveRedirectURI(requested string) string {
	frontend := config.GlobalConfig.Frontend.URL
	if requested == "" || !strings.HasPrefix(requested, frontend) {
		return frontend
	}
	return strings.TrimSuffix(requested, "/")
}

// redirectWithError sends the browser back to the frontend with an error code
func redirectWithError(w http.ResponseWriter, r *http.Request, redirectURI, errorType string) {
	if redirectURI == "" {
		redirectURI = config.GlobalConfig.Frontend.URL
	}
	errorURL := redirectURI + "/auth/error?error=" + url.QueryEscape(errorType)
	http.Redirect(w, r, errorURL, http.StatusTemporaryRedirect)
}
