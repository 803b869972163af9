package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDocument(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "clean document passes through",
			input:    "<!DOCTYPE html>\n<html><body>hi</body></html>",
			expected: "<!DOCTYPE html>\n<html><body>hi</body></html>",
		},
		{
			name:     "html fence stripped",
			input:    "```html\n<!DOCTYPE html>\n<html></html>\n```",
			expected: "<!DOCTYPE html>\n<html></html>",
		},
		{
			name:     "fence case-insensitive",
			input:    "```HTML\n<!DOCTYPE html>\n<html></html>\n```",
			expected: "<!DOCTYPE html>\n<html></html>",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "\n\n  <!DOCTYPE html>\n<html></html>  \n",
			expected: "<!DOCTYPE html>\n<html></html>",
		},
		{
			name:     "lowercase doctype recognized",
			input:    "<!doctype html><html></html>",
			expected: "<!doctype html><html></html>",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeDocument(tc.input))
		})
	}
}

func TestSanitizeDocumentWrapsBareMarkup(t *testing.T) {
	out := SanitizeDocument("<h1>שלום</h1>")

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `dir="rtl"`)
	assert.Contains(t, out, "<h1>שלום</h1>")
}

func TestPromptsEmbedded(t *testing.T) {
	assert.NotEmpty(t, dialogueSystemPrompt)
	assert.NotEmpty(t, generatorPrompt)
	assert.Contains(t, dialogueSystemPrompt, readyMarker, "the persona prompt must instruct the model to emit the readiness signal")
}
