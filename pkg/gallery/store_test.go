package gallery

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/young-creators/studio/pkg/kv"
)

func newTestStore() (*Store, *kv.MemoryStore) {
	mem := kv.NewMemoryStore()
	return NewStore(mem), mem
}

func TestPublishAndGet(t *testing.T) {
	store, mem := newTestStore()

	artifact, err := store.Publish("<!DOCTYPE html><html><body>hi</body></html>", PublishOptions{
		SourceRequest: "משחק חלל עם חלליות",
	})
	require.NoError(t, err)
	require.NotEmpty(t, artifact.ID)
	assert.Equal(t, "משחק חלל עם חלליות", artifact.Title)
	assert.Equal(t, []string{TagCreation}, artifact.Tags)
	assert.NotZero(t, artifact.CreatedAt)

	got, err := store.Get(artifact.ID)
	require.NoError(t, err)
	assert.Equal(t, artifact.ID, got.ID)
	assert.Equal(t, artifact.Code, got.Code)
	assert.Equal(t, artifact.Title, got.Title)

	assert.Equal(t, 30*24*time.Hour, mem.Expiry(artifactKeyPrefix+artifact.ID))
}

func TestPublishDerivesTitleFromLongRequest(t *testing.T) {
	store, _ := newTestStore()

	request := strings.Repeat("א", 60)
	artifact, err := store.Publish("<html></html>", PublishOptions{SourceRequest: request})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("א", 40)+"…", artifact.Title)
}

func TestPublishWithoutRequestGetsDefaultTitle(t *testing.T) {
	store, _ := newTestStore()

	artifact, err := store.Publish("<html></html>", PublishOptions{})
	require.NoError(t, err)
	assert.Equal(t, defaultTitle, artifact.Title)
}

func TestRepublishDoesNotDuplicateIndex(t *testing.T) {
	store, _ := newTestStore()

	first, err := store.Publish("<html>v1</html>", PublishOptions{Title: "כותרת"})
	require.NoError(t, err)

	second, err := store.Publish("<html>v2</html>", PublishOptions{ExistingID: first.ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "כותרת", second.Title, "republish preserves the prior title")
	assert.Equal(t, first.CreatedAt, second.CreatedAt, "republish preserves the creation time")

	items, err := store.List("", 10)
	require.NoError(t, err)
	assert.Len(t, items, 1, "republishing must not create a second gallery entry")

	got, err := store.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "<html>v2</html>", got.Code)
}

func TestListNewestFirstAndExcludesCode(t *testing.T) {
	store, _ := newTestStore()

	older, err := store.Publish("<html>1</html>", PublishOptions{Title: "ראשון"})
	require.NoError(t, err)
	newer, err := store.Publish("<html>2</html>", PublishOptions{Title: "שני"})
	require.NoError(t, err)

	items, err := store.List("", 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, newer.ID, items[0].ID)
	assert.Equal(t, older.ID, items[1].ID)
	for _, item := range items {
		assert.True(t, item.HasCode)
	}

	// The projection carries no code field; serialize to be sure.
	raw, err := json.Marshal(items)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "<html>")
}

func TestListFiltersByTag(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.Publish("<canvas></canvas><script>score++</script>", PublishOptions{Title: "משחק"})
	require.NoError(t, err)
	_, err = store.Publish("<div>היה היה</div>", PublishOptions{Title: "סיפור"})
	require.NoError(t, err)

	items, err := store.List(TagStory, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "סיפור", items[0].Title)
}

func TestListSkipsExpiredRecords(t *testing.T) {
	store, mem := newTestStore()

	artifact, err := store.Publish("<html></html>", PublishOptions{Title: "חי"})
	require.NoError(t, err)
	gone, err := store.Publish("<html></html>", PublishOptions{Title: "פג"})
	require.NoError(t, err)

	// Simulate redis expiring the record while the index entry remains.
	require.NoError(t, mem.Del(artifactKeyPrefix+gone.ID))

	items, err := store.List("", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, artifact.ID, items[0].ID)
}

func TestGetSynthesizesLegacyRecords(t *testing.T) {
	store, mem := newTestStore()

	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "json-encoded string", raw: []byte(`"<html>legacy</html>"`)},
		{name: "raw document", raw: []byte("<html>legacy</html>")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, mem.Set(artifactKeyPrefix+"legacy-id", tc.raw, time.Hour))

			artifact, err := store.Get("legacy-id")
			require.NoError(t, err)
			assert.Equal(t, "<html>legacy</html>", artifact.Code)
			assert.Equal(t, defaultTitle, artifact.Title)
			assert.Equal(t, []string{TagCreation}, artifact.Tags)
			assert.NotZero(t, artifact.CreatedAt)
		})
	}
}

func TestGetNotFound(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.Get("missing")
	assert.Equal(t, ErrNotFound, err)
}

func TestUpdateTitle(t *testing.T) {
	store, _ := newTestStore()

	artifact, err := store.Publish("<html></html>", PublishOptions{Title: "ישן"})
	require.NoError(t, err)

	require.NoError(t, store.Update(artifact.ID, "חדש"))

	got, err := store.Get(artifact.ID)
	require.NoError(t, err)
	assert.Equal(t, "חדש", got.Title)
	assert.Equal(t, artifact.Code, got.Code, "update must not touch the code")

	assert.Equal(t, ErrNotFound, store.Update("missing", "כלשהו"))
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore()

	artifact, err := store.Publish("<html></html>", PublishOptions{Title: "למחיקה"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(artifact.ID))

	_, err = store.Get(artifact.ID)
	assert.Equal(t, ErrNotFound, err)

	items, err := store.List("", 10)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Deleting again is idempotent.
	assert.NoError(t, store.Delete(artifact.ID))
}

func TestRepublishRefreshesExpiry(t *testing.T) {
	store, mem := newTestStore()

	artifact, err := store.Publish("<html></html>", PublishOptions{Title: "כותרת"})
	require.NoError(t, err)

	// Update writes the record again, which must reset the full expiry.
	require.NoError(t, store.Update(artifact.ID, "מעודכן"))
	assert.Equal(t, 30*24*time.Hour, mem.Expiry(artifactKeyPrefix+artifact.ID))
}
