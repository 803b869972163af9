// Package ai wraps the hosted model APIs: the clarifying dialogue and
// speech endpoints (OpenAI) and the artifact generator (Anthropic). Every
// call is single-shot; failures propagate to the caller without retry.
package ai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	v1 "github.com/young-creators/studio/pkg/apis/studio/v1"
)

// ErrNotConfigured is returned when the upstream API key is missing.
// Callers surface it as a configuration error and never retry.
var ErrNotConfigured = errors.New("upstream API key not configured")

// readyMarker is the in-band token the persona prompt instructs the
// model to append once the clarification phase is complete. It never
// leaves this package: callers get the cleaned reply plus a boolean.
const readyMarker = "🎨יוצר🎨"

const fallbackReply = "סליחה, לא הבנתי. אפשר לנסות שוב?"

const describeInstructions = "תאר במשפט קצר אחד, בעברית פשוטה לילדים, את היצירה שנבנתה. בלי הקדמות - רק המשפט עצמו."

const DefaultDialogueModel = openai.ChatModelGPT4oMini

// DialogueClient runs one chat turn against the fixed persona prompt:
// short child-appropriate replies, one clarifying question per turn,
// terminating the clarification phase via the readiness marker.
type DialogueClient struct {
	client *openai.Client
	model  openai.ChatModel
	apiKey string
}

func NewDialogueClient(url, model string) *DialogueClient {
	options := []option.RequestOption{}
	if url != "" {
		options = append(options, option.WithBaseURL(url))
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Info("OPENAI_API_KEY environment variable is not set, dialogue requests will be refused")
	} else {
		options = append(options, option.WithAPIKey(apiKey))
	}

	chatModel := openai.ChatModel(model)
	if model == "" {
		chatModel = DefaultDialogueModel
	}

	client := openai.NewClient(options...)
	return &DialogueClient{client: &client, model: chatModel, apiKey: apiKey}
}

func (c *DialogueClient) Configured() bool {
	return c.apiKey != ""
}

// Reply sends the running history plus the child's new message and
// returns the assistant reply with the readiness marker stripped, and
// whether the marker was present.
func (c *DialogueClient) Reply(ctx context.Context, history []v1.ConversationMessage, message string) (string, bool, error) {
	if !c.Configured() {
		return "", false, ErrNotConfigured
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(dialogueSystemPrompt))
	for _, m := range history {
		if m.Role == v1.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(m.Content))
		} else {
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	messages = append(messages, openai.UserMessage(message))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       c.model,
		MaxTokens:   openai.Int(300),
		Temperature: openai.Float(0.8),
	})
	if err != nil {
		return "", false, err
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	if content == "" {
		return fallbackReply, false, nil
	}

	reply, ready := extractReadiness(content)
	return reply, ready, nil
}

// Describe asks for a one-sentence child-friendly description of a
// published creation. Best-effort; callers tolerate failure.
func (c *DialogueClient) Describe(ctx context.Context, title, request string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	data := fmt.Sprintf("כותרת: %s\nהבקשה של הילד: %s", title, request)
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(describeInstructions),
			openai.UserMessage(data),
		},
		Model:       c.model,
		MaxTokens:   openai.Int(60),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("client didn't return any content choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func extractReadiness(response string) (string, bool) {
	ready := strings.Contains(response, readyMarker)
	clean := strings.TrimSpace(strings.ReplaceAll(response, readyMarker, ""))
	return clean, ready
}
