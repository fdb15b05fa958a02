package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cablesection/pkg/errors"
)

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	a := NewArtifact(KindCrossSection, "NYY 3x10", "abc123", map[string][]byte{
		"svg": []byte("<svg/>"),
		"png": {0x89, 'P', 'N', 'G'},
	})
	require.NoError(t, s.Save(ctx, a))

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "NYY 3x10", got.Design)
	assert.Equal(t, KindCrossSection, got.Kind)
	assert.Equal(t, []string{"png", "svg"}, got.Formats())

	svg, err := got.File("svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(svg))

	_, err = got.File("pdf")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	// Replacing keeps a single artifact under the ID.
	a.Files = map[string][]byte{"json": []byte("{}")}
	require.NoError(t, s.Save(ctx, a))
	got, err = s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"json"}, got.Formats())

	// An empty artifact is rejected and leaves the stored one alone.
	err = s.Save(ctx, &Artifact{ID: a.ID})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	got, err = s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"json"}, got.Formats())

	require.NoError(t, s.Delete(ctx, a.ID))
	_, err = s.Get(ctx, a.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	require.NoError(t, s.Delete(ctx, a.ID))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exercise(t, s)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := NewArtifact(KindModel, "x", "h", map[string][]byte{"glb": []byte("glTF")})
	require.NoError(t, s.Save(ctx, a))

	a.Files["glb"] = []byte("changed")
	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "glTF", string(got.Files["glb"]))
}

func TestSaveAssignsID(t *testing.T) {
	s := NewMemoryStore()
	a := &Artifact{Kind: KindModel, Files: map[string][]byte{"glb": []byte("glTF")}}
	require.NoError(t, s.Save(context.Background(), a))
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestSaveRejectsBadID(t *testing.T) {
	s := NewMemoryStore()
	a := &Artifact{ID: "../etc", Files: map[string][]byte{"svg": nil}}
	err := s.Save(context.Background(), a)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("CABLESECTION_TEST_MONGO")
	if uri == "" {
		t.Skip("CABLESECTION_TEST_MONGO not set")
	}
	s, err := NewMongoStore(context.Background(), MongoConfig{URI: uri, Database: "cablesection_test"})
	require.NoError(t, err)
	defer s.Close()
	exercise(t, s)
}
