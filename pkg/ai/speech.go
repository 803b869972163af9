package ai

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	log "github.com/sirupsen/logrus"
)

const narrationInstructions = "דבר בעברית בצורה עליזה וידידותית לילדים. השתמש בטון חם ומעודד."

// SpeechClient handles both directions of audio: transcribing recorded
// speech to text and synthesizing the assistant's narration.
type SpeechClient struct {
	client *openai.Client
	apiKey string
}

func NewSpeechClient(url string) *SpeechClient {
	options := []option.RequestOption{}
	if url != "" {
		options = append(options, option.WithBaseURL(url))
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Info("OPENAI_API_KEY environment variable is not set, speech requests will be refused")
	} else {
		options = append(options, option.WithAPIKey(apiKey))
	}

	client := openai.NewClient(options...)
	return &SpeechClient{client: &client, apiKey: apiKey}
}

func (c *SpeechClient) Configured() bool {
	return c.apiKey != ""
}

// Transcribe sends the finalized recording and returns the transcript.
// Empty audio or an empty transcript means nothing was said.
func (c *SpeechClient) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if len(audio) == 0 {
		return "", nil
	}

	resp, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model:    openai.AudioModelWhisper1,
		File:     openai.File(bytes.NewReader(audio), filename, "application/octet-stream"),
		Language: openai.String("he"),
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.Text), nil
}

// Synthesize returns mp3 narration for the assistant's reply.
func (c *SpeechClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	res, err := c.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModelGPT4oMiniTTS,
		Voice:          openai.AudioSpeechNewParamsVoiceCoral,
		Input:          text,
		Instructions:   openai.String(narrationInstructions),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.WithError(err).Warn("could not close speech response body")
		}
	}()

	return io.ReadAll(res.Body)
}
