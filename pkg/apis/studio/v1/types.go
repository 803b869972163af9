// Package v1 contains the wire types shared by the studio server, its
// Go client, and the terminal app.
package v1

// Conversation message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one turn of the clarifying dialogue between the
// child and the assistant. The sequence is append-only for the lifetime
// of a creation cycle.
type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Artifact is a single published creation: a self-contained HTML document
// plus the metadata the gallery needs. Identity is the ID; republishing
// with the same ID overwrites in place.
type Artifact struct {
	ID          string   `json:"id"`
	Code        string   `json:"code"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	CreatedAt   int64    `json:"createdAt"` // unix milliseconds
}

// GalleryItem is the metadata-only projection of an Artifact used in
// gallery listings. Code is deliberately omitted to keep list responses
// light; HasCode tells the caller whether a document exists.
type GalleryItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	CreatedAt   int64    `json:"createdAt"`
	HasCode     bool     `json:"hasCode"`
}

// AdminGalleryItem is a full artifact plus the duplicate-title flag the
// admin surface shows. Duplicates are flagged, never auto-resolved.
type AdminGalleryItem struct {
	Artifact
	Duplicate bool `json:"duplicate"`
}

// DialogueRequest is one chat turn: the newly transcribed message plus
// the running history of the session.
type DialogueRequest struct {
	Message             string                `json:"message"`
	ConversationHistory []ConversationMessage `json:"conversationHistory"`
}

// DialogueResponse carries the assistant reply with the readiness marker
// already stripped; ShouldCreate is the only readiness signal clients see.
type DialogueResponse struct {
	Response     string `json:"response"`
	ShouldCreate bool   `json:"shouldCreate"`
}

type TranscribeResponse struct {
	Text string `json:"text"`
}

type SynthesizeRequest struct {
	Text string `json:"text"`
}

type GenerateRequest struct {
	ConversationHistory []ConversationMessage `json:"conversationHistory"`
}

type GenerateResponse struct {
	Code string `json:"code"`
}

// PublishRequest publishes code to the gallery. ID, when set, republishes
// in place. SourceRequest is the child's original spoken request, used to
// derive a title for first-time publishes.
type PublishRequest struct {
	Code          string `json:"code"`
	ID            string `json:"id,omitempty"`
	Title         string `json:"title,omitempty"`
	SourceRequest string `json:"sourceRequest,omitempty"`
}

type PublishResponse struct {
	Success bool     `json:"success"`
	ID      string   `json:"id"`
	URL     string   `json:"url"`
	Tags    []string `json:"tags"`
}

type GalleryResponse struct {
	Items []GalleryItem `json:"items"`
}

type AdminGalleryResponse struct {
	Items []AdminGalleryItem `json:"items"`
}

type AdminAuthRequest struct {
	Password string `json:"password"`
}

type AdminUpdateRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type AdminDeleteRequest struct {
	ID string `json:"id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
