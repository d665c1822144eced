package inscription

import (
	"encoding/hex"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
)

const (
	// PubKeyHashLen is the length of a P2PKH public key hash.
	PubKeyHashLen = 20

	// CompressedPubKeyLen is the length of a compressed public key.
	CompressedPubKeyLen = 33
)

// Authorization is the spend-authorization template decoded from a locking
// script. An empty CosignerPubKey means the plain single-key template; a
// non-empty value is the hex compressed key whose counter-signature the
// script requires.
type Authorization struct {
	Address        string
	CosignerPubKey string
}

// DecodeAuthorization matches a script against the two authorization
// templates and returns the decoded result, or nil when neither matches.
//
// The cosigner template is a 7-chunk window:
//
//	OP_DUP OP_HASH160 <hash20> OP_EQUALVERIFY OP_CHECKSIGVERIFY <pubkey33> OP_CHECKSIG
//
// and the plain template the 5-chunk P2PKH window:
//
//	OP_DUP OP_HASH160 <hash20> OP_EQUALVERIFY OP_CHECKSIG
func DecodeAuthorization(s *script.Script) *Authorization {
	if s == nil {
		return nil
	}
	chunks, err := s.Chunks()
	if err != nil {
		return nil
	}

	for i := 0; i+7 <= len(chunks); i++ {
		w := chunks[i : i+7]
		if w[0].Op == script.OpDUP &&
			w[1].Op == script.OpHASH160 &&
			len(w[2].Data) == PubKeyHashLen &&
			w[3].Op == script.OpEQUALVERIFY &&
			w[4].Op == script.OpCHECKSIGVERIFY &&
			len(w[5].Data) == CompressedPubKeyLen &&
			w[6].Op == script.OpCHECKSIG {
			addr, err := script.NewAddressFromPublicKeyHash(w[2].Data, true)
			if err != nil {
				return nil
			}
			return &Authorization{
				Address:        addr.AddressString,
				CosignerPubKey: hex.EncodeToString(w[5].Data),
			}
		}
	}

	for i := 0; i+5 <= len(chunks); i++ {
		w := chunks[i : i+5]
		if w[0].Op == script.OpDUP &&
			w[1].Op == script.OpHASH160 &&
			len(w[2].Data) == PubKeyHashLen &&
			w[3].Op == script.OpEQUALVERIFY &&
			w[4].Op == script.OpCHECKSIG {
			addr, err := script.NewAddressFromPublicKeyHash(w[2].Data, true)
			if err != nil {
				return nil
			}
			return &Authorization{Address: addr.AddressString}
		}
	}

	return nil
}

// DecodeAuthorizations decodes a batch of scripts. Scripts matching neither
// template contribute no entry, so the result is not index-aligned with the
// input slice.
func DecodeAuthorizations(scripts []*script.Script) []*Authorization {
	out := make([]*Authorization, 0, len(scripts))
	for _, s := range scripts {
		if auth := DecodeAuthorization(s); auth != nil {
			out = append(out, auth)
		}
	}
	return out
}

// EncodeAuthorizedEnvelope builds the locking script for a token output:
// the cosigner authorization template for the recipient address followed by
// the ordinal envelope carrying the JSON payload under the bsv-20 content
// type. Spending the output and declaring its token state are gated by the
// same script.
func EncodeAuthorizedEnvelope(address string, cosignerPubKey *ec.PublicKey, payload *TokenPayload) (*script.Script, error) {
	if cosignerPubKey == nil {
		return nil, fmt.Errorf("%w: cosigner public key", ErrNilParam)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: payload", ErrNilParam)
	}

	addr, err := script.NewAddressFromString(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, address, err)
	}

	content, err := payload.Bytes()
	if err != nil {
		return nil, err
	}

	s := &script.Script{}
	if err := s.AppendOpcodes(script.OpDUP, script.OpHASH160); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}
	if err := s.AppendPushData([]byte(addr.PublicKeyHash)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}
	if err := s.AppendOpcodes(script.OpEQUALVERIFY, script.OpCHECKSIGVERIFY); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}
	if err := s.AppendPushData(cosignerPubKey.Compressed()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}
	if err := s.AppendOpcodes(script.OpCHECKSIG); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}

	if err := s.AppendOpcodes(script.Op0, script.OpIF); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}
	if err := s.AppendPushData(ordMarker); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}
	if err := s.AppendOpcodes(script.Op1); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}
	if err := s.AppendPushData([]byte(ContentTypeBSV20)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}
	if err := s.AppendOpcodes(script.Op0); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}
	if err := s.AppendPushData(content); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}
	if err := s.AppendOpcodes(script.OpENDIF); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}

	return s, nil
}
