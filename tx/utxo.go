package tx

import "fmt"

// TokenUTXO is an unspent token output observed on a prior transaction.
// Amount is the token balance in atomic units, distinct from the satoshi
// value the output carries on the base ledger. A TokenUTXO is never
// mutated; it is either consumed as a transaction input or ignored.
type TokenUTXO struct {
	TxID     string `json:"txid"`
	Vout     uint32 `json:"vout"`
	Address  string `json:"address"`
	Satoshis uint64 `json:"satoshis"`
	Amount   uint64 `json:"amount"` // atomic token units
	TokenID  string `json:"token_id"`
	Op       string `json:"op"`
}

// Outpoint returns the canonical txid_vout form of the output reference.
func (u *TokenUTXO) Outpoint() string {
	return fmt.Sprintf("%s_%d", u.TxID, u.Vout)
}
