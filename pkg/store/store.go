// Package store keeps generated artifacts so the HTTP service can hand out
// an ID and serve the files later.
//
// An artifact is only written once every requested format has been
// produced; a failed generation never replaces what is stored. Saving an
// artifact under an existing ID replaces it atomically.
//
// Backends:
//   - [MemoryStore]: process-local, for tests and single-instance servers
//   - [MongoStore]: MongoDB collection, shared between instances
package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cablesection/pkg/errors"
)

// Kinds of artifacts.
const (
	KindCrossSection = "cross-section"
	KindModel        = "model"
)

// Artifact is a stored generation result.
type Artifact struct {
	ID         string            `json:"id" bson:"_id"`
	Kind       string            `json:"kind" bson:"kind"`
	Design     string            `json:"design" bson:"design"`
	DesignHash string            `json:"design_hash" bson:"design_hash"`
	Files      map[string][]byte `json:"-" bson:"files"`
	CreatedAt  time.Time         `json:"created_at" bson:"created_at"`
}

// Formats returns the stored formats in sorted order.
func (a *Artifact) Formats() []string {
	out := make([]string, 0, len(a.Files))
	for f := range a.Files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// File returns one stored format, failing with NOT_FOUND.
func (a *Artifact) File(format string) ([]byte, error) {
	data, ok := a.Files[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "artifact %s has no %s file", a.ID, format)
	}
	return data, nil
}

// Store persists artifacts.
type Store interface {
	// Save stores a, assigning an ID and timestamp when they are empty.
	// An artifact without files is rejected.
	Save(ctx context.Context, a *Artifact) error
	// Get returns the artifact with the given ID, failing with NOT_FOUND.
	Get(ctx context.Context, id string) (*Artifact, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewArtifact returns an artifact with a fresh ID.
func NewArtifact(kind, design, designHash string, files map[string][]byte) *Artifact {
	return &Artifact{
		ID:         uuid.NewString(),
		Kind:       kind,
		Design:     design,
		DesignHash: designHash,
		Files:      files,
		CreatedAt:  time.Now().UTC(),
	}
}

// prepare validates a before it is written.
func prepare(a *Artifact) error {
	if a == nil || len(a.Files) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "artifact has no files")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := errors.ValidateArtifactID(a.ID); err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "artifact %s not found", id)
}
