package ai

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	v1 "github.com/young-creators/studio/pkg/apis/studio/v1"
)

const DefaultGeneratorModel = "claude-opus-4-5-20251101"

const generatorClosing = "על בסיס השיחה, צור את היצירה המושלמת שהילד ביקש. השתמש ב-Pure JavaScript + Canvas API למשחקים, או HTML/CSS/JS לאפליקציות אחרות. וודא שהקוד עובד מושלם ללא שגיאות, עם עיצוב מרהיב!"

var (
	openFenceRE  = regexp.MustCompile("(?i)```html\n?")
	closeFenceRE = regexp.MustCompile("```\n?")
)

// Generator turns a full conversation transcript into one self-contained
// HTML document, in a single shot. There is no streaming signal and no
// retry; a failed call is terminal for the creation cycle.
type Generator struct {
	client *anthropic.Client
	model  anthropic.Model
	apiKey string
}

func NewGenerator(model string) *Generator {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		log.Info("ANTHROPIC_API_KEY environment variable is not set, generation requests will be refused")
	}
	if model == "" {
		model = DefaultGeneratorModel
	}

	client := anthropic.NewClient(anthropicoption.WithAPIKey(apiKey))
	return &Generator{client: &client, model: anthropic.Model(model), apiKey: apiKey}
}

func (g *Generator) Configured() bool {
	return g.apiKey != ""
}

func (g *Generator) Generate(ctx context.Context, history []v1.ConversationMessage) (string, error) {
	if !g.Configured() {
		return "", ErrNotConfigured
	}

	var transcript strings.Builder
	for _, msg := range history {
		speaker := "ילד"
		if msg.Role == v1.RoleAssistant {
			speaker = "יוצר"
		}
		fmt.Fprintf(&transcript, "%s: %s\n", speaker, msg.Content)
	}

	prompt := fmt.Sprintf("%s\n\n## השיחה עם הילד:\n%s\n%s", generatorPrompt, transcript.String(), generatorClosing)

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: 16000,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "code generation failed")
	}

	var out strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}

	return SanitizeDocument(out.String()), nil
}

// SanitizeDocument strips surrounding markdown code fences from model
// output and guarantees the result is a full document, wrapping bare
// markup in a minimal RTL shell when the model omitted the declaration.
func SanitizeDocument(code string) string {
	code = openFenceRE.ReplaceAllString(code, "")
	code = closeFenceRE.ReplaceAllString(code, "")
	code = strings.TrimSpace(code)

	if !strings.Contains(strings.ToLower(code), "<!doctype") {
		code = "<!DOCTYPE html>\n<html lang=\"he\" dir=\"rtl\">\n<head><meta charset=\"UTF-8\"></head>\n<body>" + code + "</body>\n</html>"
	}

	log.WithField("bytes", len(code)).Debug("sanitized generated document")
	return code
}
