package signing

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Contract is the canonical message an external signer signs to authorize a
// filing action. Field order and encoding are fixed by this struct: Go's
// json encoder emits struct fields in declaration order, which is what makes
// the signature reproducibly verifiable.
type Contract struct {
	PatentID    string `json:"patentId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	UserID      string `json:"userId"`
	Timestamp   int64  `json:"timestamp"`
}

// CanonicalBytes returns the exact byte sequence the signature covers.
func (c Contract) CanonicalBytes() ([]byte, error) {
	if c.PatentID == "" {
		return nil, errors.New("signing contract requires a patent id")
	}
	if c.UserID == "" {
		return nil, errors.New("signing contract requires a user id")
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize signing contract")
	}

	return payload, nil
}
