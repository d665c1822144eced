package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"
)

const (
	// BIP44 path constants.
	PurposeBIP44 = 44
	CoinTypeBSV  = 236

	// Chain indices.
	ExternalChain = 0 // Receive addresses
	InternalChain = 1 // Change addresses

	// BIP32 hardened offset.
	hardened = 0x80000000
)

// Wallet is an HD wallet holding token keys.
type Wallet struct {
	masterKey *bip32.ExtendedKey
}

// KeyPair holds a derived key pair with its address.
type KeyPair struct {
	PrivateKey *ec.PrivateKey `json:"-"`
	PublicKey  *ec.PublicKey  `json:"public_key"`
	Address    string         `json:"address"`
	Path       string         `json:"path"`
}

// NewWallet creates a Wallet from a BIP39 seed.
func NewWallet(seed []byte) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}

	masterKey, err := bip32.NewMaster(seed, &chaincfg.MainNet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}

	return &Wallet{masterKey: masterKey}, nil
}

// DeriveKey derives the key pair at m/44'/236'/account'/chain/index.
func (w *Wallet) DeriveKey(account, chain, index uint32) (*KeyPair, error) {
	if account >= hardened {
		return nil, fmt.Errorf("%w: account %d exceeds BIP32 hardened boundary", ErrDerivationFailed, account)
	}

	purpose, err := w.masterKey.Child(PurposeBIP44 + hardened)
	if err != nil {
		return nil, fmt.Errorf("%w: purpose derivation: %w", ErrDerivationFailed, err)
	}
	coinType, err := purpose.Child(CoinTypeBSV + hardened)
	if err != nil {
		return nil, fmt.Errorf("%w: coin type derivation: %w", ErrDerivationFailed, err)
	}
	accountKey, err := coinType.Child(account + hardened)
	if err != nil {
		return nil, fmt.Errorf("%w: account derivation: %w", ErrDerivationFailed, err)
	}
	chainKey, err := accountKey.Child(chain)
	if err != nil {
		return nil, fmt.Errorf("%w: chain derivation: %w", ErrDerivationFailed, err)
	}
	childKey, err := chainKey.Child(index)
	if err != nil {
		return nil, fmt.Errorf("%w: index derivation: %w", ErrDerivationFailed, err)
	}

	return extKeyToKeyPair(childKey, fmt.Sprintf("m/44'/236'/%d'/%d/%d", account, chain, index))
}

// ReceiveKey derives the receive key at m/44'/236'/0'/0/index.
func (w *Wallet) ReceiveKey(index uint32) (*KeyPair, error) {
	return w.DeriveKey(0, ExternalChain, index)
}

// ChangeKey derives the change key at m/44'/236'/0'/1/index.
func (w *Wallet) ChangeKey(index uint32) (*KeyPair, error) {
	return w.DeriveKey(0, InternalChain, index)
}

// ImportWIF builds a KeyPair from a WIF-encoded private key.
func ImportWIF(wif string) (*KeyPair, error) {
	priv, err := ec.PrivateKeyFromWif(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWIF, err)
	}
	return keyPairFromPrivate(priv, "")
}

// extKeyToKeyPair converts a BIP32 extended key to a KeyPair.
func extKeyToKeyPair(extKey *bip32.ExtendedKey, path string) (*KeyPair, error) {
	privKey, err := extKey.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: extract EC private key: %w", ErrDerivationFailed, err)
	}
	return keyPairFromPrivate(privKey, path)
}

func keyPairFromPrivate(priv *ec.PrivateKey, path string) (*KeyPair, error) {
	pub := priv.PubKey()
	addr, err := script.NewAddressFromPublicKey(pub, true)
	if err != nil {
		return nil, fmt.Errorf("%w: address encoding: %w", ErrDerivationFailed, err)
	}

	return &KeyPair{
		PrivateKey: priv,
		PublicKey:  pub,
		Address:    addr.AddressString,
		Path:       path,
	}, nil
}
