// Package server exposes the studio HTTP API: the dialogue, speech, and
// generation endpoints the creation flow calls, the publish/gallery and
// admin surfaces, and the artifact viewer.
package server

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
	metricsprom "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"

	"github.com/young-creators/studio/pkg/api"
	v1 "github.com/young-creators/studio/pkg/apis/studio/v1"
	"github.com/young-creators/studio/pkg/gallery"
)

// DialogueClient is one clarifying chat turn. Reply returns the cleaned
// assistant text and whether the readiness signal was present.
type DialogueClient interface {
	Reply(ctx context.Context, history []v1.ConversationMessage, message string) (string, bool, error)
	Describe(ctx context.Context, title, request string) (string, error)
	Configured() bool
}

type SpeechClient interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Configured() bool
}

type Generator interface {
	Generate(ctx context.Context, history []v1.ConversationMessage) (string, error)
	Configured() bool
}

var (
	dialogueTurnsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_dialogue_turns_total",
		Help: "Number of dialogue turns served, by whether the readiness signal fired",
	}, []string{"ready"})

	generatedArtifactsMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studio_artifacts_generated_total",
		Help: "Number of artifacts generated",
	})

	publishedArtifactsMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studio_artifacts_published_total",
		Help: "Number of artifacts published to the gallery",
	})
)

type Server struct {
	listenAddr    string
	dialogue      DialogueClient
	speech        SpeechClient
	generator     Generator
	artifacts     *gallery.Store
	adminPassword string
	httpServer    *http.Server
}

func NewServer(
	listenAddr string,
	dialogue DialogueClient,
	speech SpeechClient,
	generator Generator,
	artifacts *gallery.Store,
	adminPassword string,
) *Server {
	return &Server{
		listenAddr:    listenAddr,
		dialogue:      dialogue,
		speech:        speech,
		generator:     generator,
		artifacts:     artifacts,
		adminPassword: adminPassword,
	}
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/speech", s.jsonDialogueTurn).Methods(http.MethodPost)
	router.HandleFunc("/api/transcribe", s.jsonTranscribe).Methods(http.MethodPost)
	router.HandleFunc("/api/synthesize", s.audioSynthesize).Methods(http.MethodPost)
	router.HandleFunc("/api/generate", s.jsonGenerate).Methods(http.MethodPost)

	router.HandleFunc("/api/publish", s.jsonPublish).Methods(http.MethodPost)
	router.HandleFunc("/api/gallery", s.jsonGallery).Methods(http.MethodGet)

	router.HandleFunc("/api/admin/auth", s.jsonAdminAuth).Methods(http.MethodPost)
	router.HandleFunc("/api/admin/gallery", s.jsonAdminGallery).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/gallery", s.jsonAdminUpdate).Methods(http.MethodPatch)
	router.HandleFunc("/api/admin/gallery", s.jsonAdminDelete).Methods(http.MethodDelete)

	router.HandleFunc("/view/{id}", s.htmlViewArtifact).Methods(http.MethodGet)
	router.HandleFunc("/view", s.htmlViewLegacy).Methods(http.MethodGet)

	router.HandleFunc("/api/health", s.jsonHealth).Methods(http.MethodGet)

	return router
}

func (s *Server) Serve() {
	mdlw := middleware.New(middleware.Config{
		Recorder: metricsprom.NewRecorder(metricsprom.Config{}),
	})

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: std.Handler("", mdlw, s.routes()),
	}

	log.Infof("Serving studio API on %s", s.listenAddr)

	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.WithError(err).Fatal("server exited")
	}
}

func (s *Server) GetHTTPServer() *http.Server {
	return s.httpServer
}

func (s *Server) jsonHealth(w http.ResponseWriter, _ *http.Request) {
	api.RespondWithJSON(http.StatusOK, w, map[string]string{"status": "ok"})
}

func failureResponse(w http.ResponseWriter, statusCode int, message string) {
	api.RespondWithJSON(statusCode, w, map[string]interface{}{
		"code":    statusCode,
		"message": message,
	})
}
