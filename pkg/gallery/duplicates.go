package gallery

import (
	"strings"

	v1 "github.com/young-creators/studio/pkg/apis/studio/v1"
)

// DuplicateIDs returns the set of artifact IDs whose titles collide with
// another artifact's title under case- and whitespace-insensitive
// comparison. The admin surface flags these; it never merges or deletes
// them automatically.
func DuplicateIDs(artifacts []v1.Artifact) map[string]bool {
	byTitle := map[string][]string{}
	for _, a := range artifacts {
		key := normalizeTitle(a.Title)
		byTitle[key] = append(byTitle[key], a.ID)
	}

	duplicates := map[string]bool{}
	for _, ids := range byTitle {
		if len(ids) < 2 {
			continue
		}
		for _, id := range ids {
			duplicates[id] = true
		}
	}
	return duplicates
}

func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
