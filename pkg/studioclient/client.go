package studioclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	v1 "github.com/young-creators/studio/pkg/apis/studio/v1"
)

const (
	DefaultServerURL = "http://localhost:8080"
)

// Client is a client for the studio API. The terminal front-end uses it
// for every AI-backed call, so a single studio server can serve many
// creation sessions.
type Client struct {
	BaseURL       string
	HTTPClient    *http.Client
	AdminPassword string
}

// Option is a functional option for configuring the client
type Option func(*Client)

// WithServerURL sets the server URL for the client
func WithServerURL(url string) Option {
	return func(c *Client) {
		c.BaseURL = strings.TrimSuffix(url, "/")
	}
}

// WithAdminPassword sets the shared secret for admin endpoints
func WithAdminPassword(password string) Option {
	return func(c *Client) {
		c.AdminPassword = password
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = httpClient
	}
}

// New creates a new studio API client
func New(opts ...Option) *Client {
	client := &Client{
		BaseURL: DefaultServerURL,
		HTTPClient: &http.Client{
			// Generation can run for a minute on large artifacts.
			Timeout: 3 * time.Minute,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Reply runs one clarifying dialogue turn.
func (c *Client) Reply(ctx context.Context, history []v1.ConversationMessage, message string) (string, bool, error) {
	var response v1.DialogueResponse
	err := c.Post(ctx, "/api/speech", v1.DialogueRequest{
		Message:             message,
		ConversationHistory: history,
	}, &response)
	if err != nil {
		return "", false, err
	}
	return response.Response, response.ShouldCreate, nil
}

// Transcribe uploads recorded audio and returns the transcript. An
// empty transcript means nothing was said.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build audio upload: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to build audio upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build audio upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/transcribe", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var response v1.TranscribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return response.Text, nil
}

// Synthesize returns MP3 narration audio for the given text.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(v1.SynthesizeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	return audio, nil
}

// Generate produces an HTML artifact from the full conversation.
func (c *Client) Generate(ctx context.Context, history []v1.ConversationMessage) (string, error) {
	var response v1.GenerateResponse
	err := c.Post(ctx, "/api/generate", v1.GenerateRequest{ConversationHistory: history}, &response)
	if err != nil {
		return "", err
	}
	return response.Code, nil
}

// Publish stores an artifact in the shared gallery.
func (c *Client) Publish(ctx context.Context, request v1.PublishRequest) (*v1.PublishResponse, error) {
	var response v1.PublishResponse
	if err := c.Post(ctx, "/api/publish", request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Gallery lists published artifacts, optionally filtered by tag.
func (c *Client) Gallery(ctx context.Context, tag string, limit int) (*v1.GalleryResponse, error) {
	path := fmt.Sprintf("/api/gallery?limit=%d", limit)
	if tag != "" {
		path += "&tag=" + tag
	}

	var response v1.GalleryResponse
	if err := c.Get(ctx, path, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Get performs a GET request to the specified path and decodes the JSON response
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	url := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Post performs a POST request to the specified path with the given body
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.doJSONRequest(ctx, http.MethodPost, path, body, result)
}

// Patch performs a PATCH request to the specified path with the given body
func (c *Client) Patch(ctx context.Context, path string, body, result interface{}) error {
	return c.doJSONRequest(ctx, http.MethodPatch, path, body, result)
}

// Delete performs a DELETE request to the specified path with the given body
func (c *Client) Delete(ctx context.Context, path string, body, result interface{}) error {
	return c.doJSONRequest(ctx, http.MethodDelete, path, body, result)
}

// doJSONRequest performs a request with a JSON body
func (c *Client) doJSONRequest(ctx context.Context, method, path string, body, result interface{}) error {
	url := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.AdminPassword != "" {
		req.Header.Set("X-Admin-Password", c.AdminPassword)
	}
}
