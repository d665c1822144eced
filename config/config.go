// Package config defines the engine configuration supplied to every
// operation. The configuration is an explicit value owned by the caller:
// the engine never caches it and never mutates it.
package config

// Environment identifies which deployment of the token protocol a
// transaction belongs to.
type Environment string

const (
	// Production is the mainnet deployment of the token.
	Production Environment = "production"

	// Sandbox is the staging deployment used for integration testing.
	Sandbox Environment = "sandbox"
)

// Production protocol constants. A transaction is attributed to the
// production environment when its token id, cosigner key, or txid matches
// one of these.
const (
	// ProdGenesisTxID is the txid of the production deploy+mint transaction.
	ProdGenesisTxID = "7a0f1ba34d6b9d3c20fcf6a11ac9441655a4a7ec268b2b9dad06b4b6bde28e7e"

	// ProdTokenID is the production token id (genesis outpoint).
	ProdTokenID = ProdGenesisTxID + "_0"

	// ProdCosignerPubKey is the production cosigner's compressed public key.
	ProdCosignerPubKey = "020a177d6a5e6f3a8689acd2e313bd1cf0dcf5a243d1cc67b7218602aee9e04b2f"
)

// Tier maps a transfer size band to its protocol fee. All values are in
// atomic token units. Tiers are contiguous and non-overlapping by contract
// of the config provider; the engine does not re-validate coverage.
type Tier struct {
	Min uint64 `json:"min" yaml:"min"`
	Max uint64 `json:"max" yaml:"max"`
	Fee uint64 `json:"fee" yaml:"fee"`
}

// Config holds the protocol parameters for one engine operation.
type Config struct {
	Environment    Environment `json:"environment" yaml:"environment"`
	TokenID        string      `json:"token_id" yaml:"token_id"`
	CosignerPubKey string      `json:"cosigner_pubkey" yaml:"cosigner_pubkey"` // 33-byte compressed key, hex
	BurnAddress    string      `json:"burn_address" yaml:"burn_address"`
	FeeAddress     string      `json:"fee_address" yaml:"fee_address"`
	MintAddress    string      `json:"mint_address" yaml:"mint_address"`
	Decimals       int32       `json:"decimals" yaml:"decimals"`
	FeeTiers       []Tier      `json:"fee_tiers" yaml:"fee_tiers"`
}

// InferEnvironment attributes a transaction to production or sandbox by
// comparing the observed token id, cosigner key, and txid against the
// production constants.
func InferEnvironment(tokenID, cosignerPubKey, txid string) Environment {
	if tokenID == ProdTokenID || cosignerPubKey == ProdCosignerPubKey {
		return Production
	}
	if txid != "" && txid == ProdGenesisTxID {
		return Production
	}
	return Sandbox
}
