package snapshot

import (
	"bikeprice/internal/testutil"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArchive(t *testing.T, keep int) (*Archive, string) {
	t.Helper()
	dir := t.TempDir()
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	a := NewArchive(dir, keep, c, &testutil.MockLogger{})
	t.Cleanup(a.Close)
	return a, dir
}

func TestArchive_StoreAndLoad(t *testing.T) {
	a, dir := newTestArchive(t, 5)
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	name, err := a.Store(sampleSnapshot(), at, "1a2b3c4d-5e6f")
	require.NoError(t, err)
	assert.Equal(t, "pricing-20260501T120000Z-1a2b3c4d.json.zst", name)

	_, err = os.Stat(filepath.Join(dir, name))
	require.NoError(t, err)

	loaded, err := a.LoadArchive(name)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), loaded)
}

func TestArchive_RetentionKeepsNewest(t *testing.T) {
	a, _ := newTestArchive(t, 2)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		_, err := a.Store(sampleSnapshot(), base.Add(time.Duration(i)*time.Hour), "")
		require.NoError(t, err)
	}

	entries, err := a.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, base.Add(3*time.Hour), entries[0].GeneratedAt)
	assert.Equal(t, base.Add(2*time.Hour), entries[1].GeneratedAt)
	assert.Positive(t, entries[0].Size)
}

func TestArchive_Latest(t *testing.T) {
	a, _ := newTestArchive(t, 0)

	_, _, ok, err := a.Latest()
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)
	_, err = a.Store(sampleSnapshot(), at, "run")
	require.NoError(t, err)

	snapshot, generatedAt, ok, err := a.Latest()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, at, generatedAt)
	assert.Len(t, snapshot, 2)
}

func TestArchive_RejectsPathTraversal(t *testing.T) {
	a, _ := newTestArchive(t, 1)
	_, err := a.LoadArchive("../pricing-20260501T120000Z.json.zst")
	assert.Error(t, err)
	_, err = a.LoadArchive("pricing.json")
	assert.Error(t, err)
}

func TestArchive_Disabled(t *testing.T) {
	a := NewArchive("", 3, &testutil.MockCompressor{}, &testutil.MockLogger{})
	assert.False(t, a.Enabled())

	_, err := a.Store(sampleSnapshot(), time.Now(), "")
	assert.ErrorIs(t, err, ErrArchiveDisabled)
	_, err = a.List()
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}

func TestArchive_CompressorFailure(t *testing.T) {
	comp := &testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("boom") },
	}
	a := NewArchive(t.TempDir(), 3, comp, &testutil.MockLogger{})
	_, err := a.Store(sampleSnapshot(), time.Now(), "")
	assert.ErrorContains(t, err, "boom")
}
