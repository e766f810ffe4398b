package anchor

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
)

// HashAlgorithm is fixed: every anchored digest is SHA-256 and verification
// recomputes with the same algorithm.
const HashAlgorithm = "sha256"

// ContentHash is the digest anchored to the ledger as evidence of a
// document's existence. Immutable once computed; recomputing over identical
// bytes is byte-identical.
type ContentHash struct {
	PatentID   string
	Algorithm  string
	HexDigest  string
	ComputedAt time.Time
}

// HashBytes returns the hex SHA-256 digest of the given artifact bytes.
// Pure and deterministic; never fails on valid byte input.
func HashBytes(artifact []byte) string {
	digest := sha256.Sum256(artifact)
	return hex.EncodeToString(digest[:])
}

// HashReader streams a reader through SHA-256, for artifacts too large to
// hold in memory.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", errors.Wrap(err, "failed to read artifact")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashFile hashes the artifact at the given path. Unreadable files surface
// as wrapped I/O errors.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open artifact %s", path)
	}
	defer f.Close()

	return HashReader(f)
}

// NewContentHash computes the content hash of an artifact at filing time.
func NewContentHash(patentID string, artifact []byte, clock time2.Clock) ContentHash {
	return ContentHash{
		PatentID:   patentID,
		Algorithm:  HashAlgorithm,
		HexDigest:  HashBytes(artifact),
		ComputedAt: clock.Now(),
	}
}
