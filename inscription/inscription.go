// Package inscription implements the script codec for the token protocol:
// the ordinal-style data envelope that carries token metadata and the
// spend-authorization templates that gate who may move it. Both live in the
// same locking script, so an output cannot be spendable without also
// declaring its token state.
package inscription

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"

	"github.com/bsv-blockchain/go-sdk/script"
)

// ordMarker is the envelope tag pushed immediately after OP_FALSE OP_IF.
var ordMarker = []byte("ord")

// Envelope field numbers.
const (
	fieldContent     = 0
	fieldContentType = 1
)

// Inscription holds the data envelope decoded from a locking script.
// Reconstructed on every decode, never persisted.
type Inscription struct {
	ContentType string
	ContentHash string // base64 SHA-256 of the content bytes
	Content     []byte
}

// Size returns the content length in bytes.
func (i *Inscription) Size() int { return len(i.Content) }

// DecodeInscription scans a locking script for the ordinal envelope and
// returns the decoded inscription, or nil when the script carries none.
// A malformed envelope also yields nil; decoding never fails with an error.
//
// The envelope is located by the marker triple OP_FALSE OP_IF <"ord"> with
// the marker push at chunk index 2 or later. From the chunk after the
// marker, (field, value) pairs are walked until OP_ENDIF. A field must be a
// small-integer opcode or a data push whose first byte is the field number;
// a value must be a push no larger than OP_PUSHDATA4. Unknown field numbers
// are skipped without aborting the scan.
func DecodeInscription(s *script.Script) *Inscription {
	if s == nil {
		return nil
	}
	chunks, err := s.Chunks()
	if err != nil {
		return nil
	}

	start := -1
	for i := 2; i < len(chunks); i++ {
		if chunks[i-2].Op == script.Op0 &&
			chunks[i-1].Op == script.OpIF &&
			bytes.Equal(chunks[i].Data, ordMarker) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	ins := &Inscription{}
	for i := start; i < len(chunks); i += 2 {
		fc := chunks[i]
		if fc.Op == script.OpENDIF {
			return ins
		}

		field, ok := fieldNumber(fc)
		if !ok {
			return nil
		}

		if i+1 >= len(chunks) {
			return nil
		}
		vc := chunks[i+1]
		if vc.Op > script.OpPUSHDATA4 {
			return nil
		}

		switch field {
		case fieldContent:
			if len(vc.Data) > 0 {
				ins.Content = vc.Data
				sum := sha256.Sum256(vc.Data)
				ins.ContentHash = base64.StdEncoding.EncodeToString(sum[:])
			}
		case fieldContentType:
			ins.ContentType = string(vc.Data)
		default:
			// Unrecognized fields are ignored.
		}
	}
	return nil
}

// fieldNumber maps a field chunk to its envelope field number. Small-integer
// opcodes map to 0..16; a data push contributes its first byte. Any other
// encoding aborts the scan.
func fieldNumber(c *script.ScriptChunk) (int, bool) {
	switch {
	case c.Op == script.Op0:
		return 0, true
	case c.Op >= script.Op1 && c.Op <= script.Op16:
		return int(c.Op-script.Op1) + 1, true
	case c.Op <= script.OpPUSHDATA4 && len(c.Data) > 0:
		return int(c.Data[0]), true
	default:
		return 0, false
	}
}
