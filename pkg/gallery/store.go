// Package gallery implements durable artifact persistence over a
// key-value store: one record per artifact plus an ordered index of
// published IDs for browsing.
package gallery

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	v1 "github.com/young-creators/studio/pkg/apis/studio/v1"
	"github.com/young-creators/studio/pkg/kv"
)

const (
	artifactKeyPrefix = "artifact:"
	galleryItemsKey   = "gallery:items"

	// Every write refreshes the expiry; unpublished work ages out.
	artifactExpiry = 30 * 24 * time.Hour

	DefaultListLimit = 50

	// Shown for artifacts published before titles existed.
	defaultTitle = "יצירה ללא שם"

	maxDerivedTitleLen = 40
)

// ErrNotFound is returned when an artifact ID has no record.
var ErrNotFound = errors.New("artifact not found")

type Store struct {
	kv kv.Store
}

func NewStore(kvs kv.Store) *Store {
	return &Store{kv: kvs}
}

// PublishOptions controls Publish. ExistingID republishes in place.
// Title overrides any derived or preserved title. SourceRequest is the
// child's original spoken request, used to derive a title on first
// publish. Description is only applied when the record has none.
type PublishOptions struct {
	ExistingID    string
	Title         string
	SourceRequest string
	Description   string
}

// Publish writes the artifact and, for first-time publishes, appends its
// ID to the gallery index. Republishing an existing ID re-derives tags
// and overwrites the record without touching the index, so retries never
// create duplicate gallery entries. Every write refreshes the 30-day
// expiry.
func (s *Store) Publish(code string, opts PublishOptions) (*v1.Artifact, error) {
	if code == "" {
		return nil, errors.New("no code provided")
	}

	artifact := v1.Artifact{
		ID:          opts.ExistingID,
		Code:        code,
		Title:       opts.Title,
		Description: opts.Description,
		Tags:        Classify(code),
		CreatedAt:   time.Now().UnixMilli(),
	}

	fresh := opts.ExistingID == ""
	if fresh {
		artifact.ID = uuid.New().String()
	} else if prior, err := s.Get(opts.ExistingID); err == nil {
		if artifact.Title == "" {
			artifact.Title = prior.Title
		}
		if artifact.Description == "" {
			artifact.Description = prior.Description
		}
		artifact.CreatedAt = prior.CreatedAt
	} else if err != ErrNotFound {
		return nil, err
	}

	if artifact.Title == "" {
		artifact.Title = deriveTitle(opts.SourceRequest)
	}

	if err := s.write(&artifact); err != nil {
		return nil, err
	}

	if fresh {
		if err := s.kv.ListPush(galleryItemsKey, artifact.ID); err != nil {
			return nil, errors.Wrap(err, "could not add artifact to gallery index")
		}
	}

	return &artifact, nil
}

// Get returns the artifact for id, or ErrNotFound. Legacy records that
// stored the bare code string are synthesized into full artifacts with a
// default title, the generic creation tag, and the current time.
func (s *Store) Get(id string) (*v1.Artifact, error) {
	raw, err := s.kv.Get(artifactKeyPrefix + id)
	if err == kv.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read artifact")
	}

	var artifact v1.Artifact
	if err := json.Unmarshal(raw, &artifact); err == nil && artifact.Code != "" {
		artifact.ID = id
		return &artifact, nil
	}

	return legacyArtifact(id, raw), nil
}

// List reads up to limit of the most recently published IDs from the
// gallery index and resolves each to its metadata. IDs whose record has
// expired are skipped. The optional tag filters by tag membership. Code
// is never included in list results.
func (s *Store) List(tag string, limit int) ([]v1.GalleryItem, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	ids, err := s.kv.ListRange(galleryItemsKey, 0, int64(limit)-1)
	if err != nil {
		return nil, errors.Wrap(err, "could not read gallery index")
	}

	items := []v1.GalleryItem{}
	for _, id := range ids {
		artifact, err := s.Get(id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			log.WithError(err).WithField("id", id).Warn("skipping unreadable gallery entry")
			continue
		}
		if tag != "" && !hasTag(artifact.Tags, tag) {
			continue
		}
		items = append(items, v1.GalleryItem{
			ID:          artifact.ID,
			Title:       artifact.Title,
			Description: artifact.Description,
			Tags:        artifact.Tags,
			CreatedAt:   artifact.CreatedAt,
			HasCode:     artifact.Code != "",
		})
	}

	return items, nil
}

// ListAll resolves the entire gallery index with full artifact records,
// for the admin surface.
func (s *Store) ListAll() ([]v1.Artifact, error) {
	ids, err := s.kv.ListRange(galleryItemsKey, 0, -1)
	if err != nil {
		return nil, errors.Wrap(err, "could not read gallery index")
	}

	artifacts := []v1.Artifact{}
	for _, id := range ids {
		artifact, err := s.Get(id)
		if err != nil {
			if err != ErrNotFound {
				log.WithError(err).WithField("id", id).Warn("skipping unreadable gallery entry")
			}
			continue
		}
		artifacts = append(artifacts, *artifact)
	}
	return artifacts, nil
}

// Update replaces the artifact's title. Returns ErrNotFound when there is
// no record for id.
func (s *Store) Update(id, title string) error {
	artifact, err := s.Get(id)
	if err != nil {
		return err
	}
	artifact.Title = title
	return s.write(artifact)
}

// Delete removes the artifact record and its gallery index entry. Either
// side already being gone is not an error.
func (s *Store) Delete(id string) error {
	if err := s.kv.ListRem(galleryItemsKey, id); err != nil {
		return errors.Wrap(err, "could not remove artifact from gallery index")
	}
	if err := s.kv.Del(artifactKeyPrefix + id); err != nil {
		return errors.Wrap(err, "could not delete artifact")
	}
	return nil
}

func (s *Store) write(artifact *v1.Artifact) error {
	raw, err := json.Marshal(artifact)
	if err != nil {
		return errors.Wrap(err, "could not marshal artifact")
	}
	if err := s.kv.Set(artifactKeyPrefix+artifact.ID, raw, artifactExpiry); err != nil {
		return errors.Wrap(err, "could not write artifact")
	}
	return nil
}

// legacyArtifact handles records written before metadata existed: either
// a JSON-encoded string or the raw document text.
func legacyArtifact(id string, raw []byte) *v1.Artifact {
	code := string(raw)
	var decoded string
	if err := json.Unmarshal(raw, &decoded); err == nil {
		code = decoded
	}
	return &v1.Artifact{
		ID:        id,
		Code:      code,
		Title:     defaultTitle,
		Tags:      []string{TagCreation},
		CreatedAt: time.Now().UnixMilli(),
	}
}

// deriveTitle trims the child's original request down to a short display
// title.
func deriveTitle(request string) string {
	request = strings.TrimSpace(request)
	if request == "" {
		return defaultTitle
	}
	if utf8.RuneCountInString(request) <= maxDerivedTitleLen {
		return request
	}
	runes := []rune(request)
	return strings.TrimSpace(string(runes[:maxDerivedTitleLen])) + "…"
}
