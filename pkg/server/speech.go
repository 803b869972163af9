package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/young-creators/studio/pkg/api"
	v1 "github.com/young-creators/studio/pkg/apis/studio/v1"
)

// MaxAudioBytes caps recorded uploads; anything beyond this is not a
// child speaking into a microphone.
const MaxAudioBytes = 25 << 20

// jsonDialogueTurn runs one clarifying chat turn. The readiness marker
// is stripped before the reply leaves the AI layer; clients only ever
// see the shouldCreate boolean.
func (s *Server) jsonDialogueTurn(w http.ResponseWriter, req *http.Request) {
	var request v1.DialogueRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if request.Message == "" {
		failureResponse(w, http.StatusBadRequest, "No message provided")
		return
	}

	if !s.dialogue.Configured() {
		failureResponse(w, http.StatusInternalServerError, "OpenAI API key not configured")
		return
	}

	reply, ready, err := s.dialogue.Reply(req.Context(), request.ConversationHistory, request.Message)
	if err != nil {
		log.WithError(err).Error("dialogue turn failed")
		failureResponse(w, http.StatusInternalServerError, "Failed to process request")
		return
	}

	dialogueTurnsMetric.WithLabelValues(strconv.FormatBool(ready)).Inc()

	api.RespondWithJSON(http.StatusOK, w, v1.DialogueResponse{
		Response:     reply,
		ShouldCreate: ready,
	})
}

func (s *Server) jsonTranscribe(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, MaxAudioBytes)
	if err := req.ParseMultipartForm(MaxAudioBytes); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid audio upload")
		return
	}

	file, header, err := req.FormFile("audio")
	if err != nil {
		failureResponse(w, http.StatusBadRequest, "No audio provided")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		log.WithError(err).Error("error reading audio upload")
		failureResponse(w, http.StatusInternalServerError, "Failed to read audio")
		return
	}

	if !s.speech.Configured() {
		failureResponse(w, http.StatusInternalServerError, "OpenAI API key not configured")
		return
	}

	text, err := s.speech.Transcribe(req.Context(), audio, header.Filename)
	if err != nil {
		log.WithError(err).Error("transcription failed")
		failureResponse(w, http.StatusInternalServerError, "Failed to transcribe audio")
		return
	}

	// An empty transcript means nothing was said; that is the client's
	// signal to return to idle.
	api.RespondWithJSON(http.StatusOK, w, v1.TranscribeResponse{Text: text})
}

func (s *Server) audioSynthesize(w http.ResponseWriter, req *http.Request) {
	var request v1.SynthesizeRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if request.Text == "" {
		failureResponse(w, http.StatusBadRequest, "No text provided")
		return
	}

	if !s.speech.Configured() {
		failureResponse(w, http.StatusInternalServerError, "OpenAI API key not configured")
		return
	}

	audio, err := s.speech.Synthesize(req.Context(), request.Text)
	if err != nil {
		log.WithError(err).Error("speech synthesis failed")
		failureResponse(w, http.StatusInternalServerError, "Failed to synthesize speech")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	if _, err := w.Write(audio); err != nil {
		log.WithError(err).Error("could not write audio response")
	}
}

func (s *Server) jsonGenerate(w http.ResponseWriter, req *http.Request) {
	var request v1.GenerateRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if len(request.ConversationHistory) == 0 {
		failureResponse(w, http.StatusBadRequest, "No conversation history provided")
		return
	}

	if !s.generator.Configured() {
		failureResponse(w, http.StatusInternalServerError, "Anthropic API key not configured")
		return
	}

	code, err := s.generator.Generate(req.Context(), request.ConversationHistory)
	if err != nil {
		log.WithError(err).Error("code generation failed")
		failureResponse(w, http.StatusInternalServerError, "Failed to generate code")
		return
	}

	generatedArtifactsMetric.Inc()

	api.RespondWithJSON(http.StatusOK, w, v1.GenerateResponse{Code: code})
}
