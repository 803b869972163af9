package gallery

import "strings"

// Tag labels shown in the gallery. Hebrew, matching the product UI.
const (
	TagGame     = "משחק"
	TagDrawing  = "ציור"
	TagStory    = "סיפור"
	TagTool     = "כלי"
	TagCreation = "יצירה"
)

var (
	gameWords    = []string{"gameloop", "game", "score", "requestanimationframe"}
	drawSurface  = []string{"draw", "paint", "canvas", "stroke"}
	drawWords    = []string{"color", "brush", "stroke"}
	storyWords   = []string{"story", "once upon", "סיפור", "פעם אחת", "היה היה"}
	toolWords    = []string{"calculator", "convert", "מחשבון", "המרה", "טיימר", "timer"}
)

// Classify derives gallery tags from the artifact code text using keyword
// heuristics, evaluated in fixed priority order: game, drawing, story,
// tool. The first match is the exclusive primary category (game suppresses
// drawing); story and tool vocabulary may co-occur with it. Codes matching
// nothing get the single generic creation tag, so the result is never
// empty.
func Classify(code string) []string {
	lower := strings.ToLower(code)

	var tags []string

	isGame := strings.Contains(lower, "canvas") && containsAny(lower, gameWords)
	if isGame {
		tags = append(tags, TagGame)
	}

	if !isGame && containsAny(lower, drawSurface) && containsAny(lower, drawWords) {
		tags = append(tags, TagDrawing)
	}

	if containsAny(lower, storyWords) {
		tags = append(tags, TagStory)
	}

	if containsAny(lower, toolWords) {
		tags = append(tags, TagTool)
	}

	if len(tags) == 0 {
		tags = append(tags, TagCreation)
	}

	return tags
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
