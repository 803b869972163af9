package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected []string
	}{
		{
			name:     "canvas game",
			code:     "<canvas id='c'></canvas><script>let score = 0; requestAnimationFrame(loop)</script>",
			expected: []string{TagGame},
		},
		{
			name:     "canvas without game vocabulary is not a game",
			code:     "<canvas></canvas><script>ctx.stroke(); pickColor('red'); brush.size = 3</script>",
			expected: []string{TagDrawing},
		},
		{
			name:     "stroke and color alone are drawing",
			code:     "ctx.stroke(); const color = 'red';",
			expected: []string{TagDrawing},
		},
		{
			name:     "game suppresses drawing even with drawing vocabulary",
			code:     "<canvas></canvas><script>let score = 0; let color = 'red'; brush.draw()</script>",
			expected: []string{TagGame},
		},
		{
			name:     "hebrew story",
			code:     "<div>היה היה פעם ילד קטן</div>",
			expected: []string{TagStory},
		},
		{
			name:     "tool by hebrew keyword",
			code:     "<h1>מחשבון</h1><input><button>=</button>",
			expected: []string{TagTool},
		},
		{
			name:     "story and tool can co-occur with game",
			code:     "<canvas></canvas><script>let score=0; showStory('פעם אחת'); startTimer()</script>",
			expected: []string{TagGame, TagStory, TagTool},
		},
		{
			name:     "matching is case-insensitive",
			code:     "<CANVAS></CANVAS><script>GameLoop()</script>",
			expected: []string{TagGame},
		},
		{
			name:     "nothing matches falls back to the generic tag",
			code:     "<h1>שלום</h1>",
			expected: []string{TagCreation},
		},
		{
			name:     "empty code falls back to the generic tag",
			code:     "",
			expected: []string{TagCreation},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tags := Classify(tc.code)
			assert.Equal(t, tc.expected, tags)
			assert.NotEmpty(t, tags, "classification must never return an empty tag list")
		})
	}
}
