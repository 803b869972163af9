package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/young-creators/studio/pkg/api"
	v1 "github.com/young-creators/studio/pkg/apis/studio/v1"
	"github.com/young-creators/studio/pkg/gallery"
)

func (s *Server) jsonPublish(w http.ResponseWriter, req *http.Request) {
	var request v1.PublishRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if request.Code == "" {
		failureResponse(w, http.StatusBadRequest, "No code provided")
		return
	}

	opts := gallery.PublishOptions{
		ExistingID:    request.ID,
		Title:         request.Title,
		SourceRequest: request.SourceRequest,
	}

	// Best-effort short description; the publish succeeds without one.
	if request.SourceRequest != "" && s.dialogue.Configured() {
		description, err := s.dialogue.Describe(req.Context(), request.Title, request.SourceRequest)
		if err != nil {
			log.WithError(err).Warn("could not generate artifact description")
		} else {
			opts.Description = description
		}
	}

	artifact, err := s.artifacts.Publish(request.Code, opts)
	if err != nil {
		log.WithError(err).Error("publish failed")
		failureResponse(w, http.StatusInternalServerError, "Failed to publish artifact")
		return
	}

	publishedArtifactsMetric.Inc()

	log.WithFields(log.Fields{
		"id":   artifact.ID,
		"tags": artifact.Tags,
	}).Info("artifact published")

	api.RespondWithJSON(http.StatusOK, w, v1.PublishResponse{
		Success: true,
		ID:      artifact.ID,
		URL:     api.GetBaseURL(req) + "/view/" + artifact.ID,
		Tags:    artifact.Tags,
	})
}

func (s *Server) jsonGallery(w http.ResponseWriter, req *http.Request) {
	tag := req.URL.Query().Get("tag")

	limit := gallery.DefaultListLimit
	if raw := req.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			failureResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	items, err := s.artifacts.List(tag, limit)
	if err != nil {
		log.WithError(err).Error("gallery listing failed")
		failureResponse(w, http.StatusInternalServerError, "Failed to fetch gallery")
		return
	}

	api.RespondWithJSON(http.StatusOK, w, v1.GalleryResponse{Items: items})
}

func (s *Server) jsonAdminAuth(w http.ResponseWriter, req *http.Request) {
	var request v1.AdminAuthRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if s.adminPassword == "" {
		log.Error("admin password not configured")
		failureResponse(w, http.StatusInternalServerError, "Not configured")
		return
	}

	if subtle.ConstantTimeCompare([]byte(request.Password), []byte(s.adminPassword)) != 1 {
		failureResponse(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	api.RespondWithJSON(http.StatusOK, w, v1.SuccessResponse{Success: true})
}

// requireAdmin gates the admin CRUD endpoints on the same shared secret
// the auth endpoint checks, passed via header.
func (s *Server) requireAdmin(w http.ResponseWriter, req *http.Request) bool {
	if s.adminPassword == "" {
		log.Error("admin password not configured")
		failureResponse(w, http.StatusInternalServerError, "Not configured")
		return false
	}

	provided := req.Header.Get("X-Admin-Password")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(s.adminPassword)) != 1 {
		failureResponse(w, http.StatusUnauthorized, "Invalid password")
		return false
	}
	return true
}

func (s *Server) jsonAdminGallery(w http.ResponseWriter, req *http.Request) {
	if !s.requireAdmin(w, req) {
		return
	}

	artifacts, err := s.artifacts.ListAll()
	if err != nil {
		log.WithError(err).Error("admin gallery listing failed")
		failureResponse(w, http.StatusInternalServerError, "Failed to fetch gallery")
		return
	}

	duplicates := gallery.DuplicateIDs(artifacts)

	items := make([]v1.AdminGalleryItem, 0, len(artifacts))
	for _, artifact := range artifacts {
		items = append(items, v1.AdminGalleryItem{
			Artifact:  artifact,
			Duplicate: duplicates[artifact.ID],
		})
	}

	api.RespondWithJSON(http.StatusOK, w, v1.AdminGalleryResponse{Items: items})
}

func (s *Server) jsonAdminUpdate(w http.ResponseWriter, req *http.Request) {
	if !s.requireAdmin(w, req) {
		return
	}

	var request v1.AdminUpdateRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if request.ID == "" || request.Title == "" {
		failureResponse(w, http.StatusBadRequest, "Missing id or title")
		return
	}

	if err := s.artifacts.Update(request.ID, request.Title); err != nil {
		if err == gallery.ErrNotFound {
			failureResponse(w, http.StatusNotFound, "Artifact not found")
			return
		}
		log.WithError(err).Error("title update failed")
		failureResponse(w, http.StatusInternalServerError, "Failed to update")
		return
	}

	api.RespondWithJSON(http.StatusOK, w, v1.SuccessResponse{Success: true})
}

func (s *Server) jsonAdminDelete(w http.ResponseWriter, req *http.Request) {
	if !s.requireAdmin(w, req) {
		return
	}

	var request v1.AdminDeleteRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if request.ID == "" {
		failureResponse(w, http.StatusBadRequest, "Missing id")
		return
	}

	if err := s.artifacts.Delete(request.ID); err != nil {
		log.WithError(err).Error("delete failed")
		failureResponse(w, http.StatusInternalServerError, "Failed to delete")
		return
	}

	log.WithField("id", request.ID).Info("artifact deleted")

	api.RespondWithJSON(http.StatusOK, w, v1.SuccessResponse{Success: true})
}
