// Package api holds helpers shared by the HTTP handlers.
package api

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// RespondWithJSON writes the payload as a JSON response with the given
// status code.
func RespondWithJSON(statusCode int, w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("could not write json response")
	}
}

// GetBaseURL reconstructs the externally visible base URL of the request,
// honoring the forwarding proxy's protocol header.
func GetBaseURL(req *http.Request) string {
	scheme := req.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
	}
	return scheme + "://" + req.Host
}
