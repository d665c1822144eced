package inscription

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Token protocol constants.
const (
	// ProtocolBSV20 is the protocol tag carried in every token payload.
	ProtocolBSV20 = "bsv-20"

	// ContentTypeBSV20 is the envelope content type for token payloads.
	ContentTypeBSV20 = "application/bsv-20"
)

// Token operations.
const (
	OpTransfer   = "transfer"
	OpBurn       = "burn"
	OpDeployMint = "deploy+mint"
)

// TokenPayload is the JSON payload carried inside the envelope content.
// Amt is always a non-negative integer string in atomic units.
type TokenPayload struct {
	P   string `json:"p"`
	Op  string `json:"op"`
	ID  string `json:"id"`
	Amt string `json:"amt"`
}

// NewTransferPayload builds a transfer payload for the given token id and
// atomic amount.
func NewTransferPayload(tokenID string, atomic uint64) *TokenPayload {
	return &TokenPayload{
		P:   ProtocolBSV20,
		Op:  OpTransfer,
		ID:  tokenID,
		Amt: strconv.FormatUint(atomic, 10),
	}
}

// Atomic parses the payload amount. The amount must be a base-10 unsigned
// integer string.
func (p *TokenPayload) Atomic() (uint64, error) {
	amt, err := strconv.ParseUint(p.Amt, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amt %q: %w", ErrInvalidPayload, p.Amt, err)
	}
	return amt, nil
}

// ParseTokenPayload decodes envelope content bytes into a TokenPayload.
// Returns nil if the content is not a bsv-20 JSON payload.
func ParseTokenPayload(content []byte) *TokenPayload {
	var p TokenPayload
	if err := json.Unmarshal(content, &p); err != nil {
		return nil
	}
	if p.P != ProtocolBSV20 {
		return nil
	}
	return &p
}

// Bytes serializes the payload to its canonical JSON encoding.
func (p *TokenPayload) Bytes() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return data, nil
}
