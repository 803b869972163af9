package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReadiness(t *testing.T) {
	tests := []struct {
		name          string
		response      string
		expectedReply string
		expectedReady bool
	}{
		{
			name:          "no marker",
			response:      "איזה צבע תרצה למשחק?",
			expectedReply: "איזה צבע תרצה למשחק?",
			expectedReady: false,
		},
		{
			name:          "marker at the end",
			response:      "מעולה, בונה לך את המשחק! 🎨יוצר🎨",
			expectedReply: "מעולה, בונה לך את המשחק!",
			expectedReady: true,
		},
		{
			name:          "marker in the middle",
			response:      "יוצא לדרך 🎨יוצר🎨 עוד רגע",
			expectedReply: "יוצא לדרך  עוד רגע",
			expectedReady: true,
		},
		{
			name:          "marker alone",
			response:      "🎨יוצר🎨",
			expectedReply: "",
			expectedReady: true,
		},
		{
			name:          "similar text without the marker",
			response:      "אני יוצר דברים",
			expectedReply: "אני יוצר דברים",
			expectedReady: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reply, ready := extractReadiness(tc.response)
			assert.Equal(t, tc.expectedReply, reply)
			assert.Equal(t, tc.expectedReady, ready)
		})
	}
}
