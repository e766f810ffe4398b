package anchor_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/patentvault/go-anchor-wallet/internal/anchor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashBytesFixedVector(t *testing.T) {
	assert.Equal(t, "38df83d7645e7f878a365e31fa78fe8873f967684834c690ffacd7c821f48e34", anchor.HashBytes([]byte("patent-draft-v1")))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", anchor.HashBytes(nil))
}

func TestHashBytesDeterministic(t *testing.T) {
	artifact := []byte("patent-draft-v1")

	first := anchor.HashBytes(artifact)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, anchor.HashBytes(artifact))
	}
}

func TestHashBytesAvalanche(t *testing.T) {
	a := anchor.HashBytes([]byte("patent-draft-v1"))
	b := anchor.HashBytes([]byte("patent-draft-v2"))

	assert.NotEqual(t, a, b)
	assert.Equal(t, "e9c53c143632704c0bd600950bfb565fc72d76d5d9a5b82a3bdd8f4869b7f115", b)
}

func TestHashReader(t *testing.T) {
	digest, err := anchor.HashReader(strings.NewReader("patent-draft-v1"))
	require.NoError(t, err)
	assert.Equal(t, "38df83d7645e7f878a365e31fa78fe8873f967684834c690ffacd7c821f48e34", digest)
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.txt")
	require.NoError(t, os.WriteFile(path, []byte("patent-draft-v1"), 0600))

	digest, err := anchor.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, "38df83d7645e7f878a365e31fa78fe8873f967684834c690ffacd7c821f48e34", digest)
}

func TestHashFileMissing(t *testing.T) {
	_, err := anchor.HashFile(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	require.Error(t, err)
}

func TestNewContentHash(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := time2.NewMockClock(now)

	hash := anchor.NewContentHash("patent-1", []byte("patent-draft-v1"), clock)

	assert.Equal(t, "patent-1", hash.PatentID)
	assert.Equal(t, anchor.HashAlgorithm, hash.Algorithm)
	assert.Equal(t, "38df83d7645e7f878a365e31fa78fe8873f967684834c690ffacd7c821f48e34", hash.HexDigest)
	assert.Equal(t, now, hash.ComputedAt)
}
