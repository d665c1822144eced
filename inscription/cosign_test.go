package inscription

import (
	"encoding/hex"
	"testing"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCosignScript(t *testing.T, hash, pubkey []byte) *script.Script {
	t.Helper()
	s := &script.Script{}
	require.NoError(t, s.AppendOpcodes(script.OpDUP, script.OpHASH160))
	require.NoError(t, s.AppendPushData(hash))
	require.NoError(t, s.AppendOpcodes(script.OpEQUALVERIFY, script.OpCHECKSIGVERIFY))
	require.NoError(t, s.AppendPushData(pubkey))
	require.NoError(t, s.AppendOpcodes(script.OpCHECKSIG))
	return s
}

func buildP2PKHScript(t *testing.T, hash []byte) *script.Script {
	t.Helper()
	s := &script.Script{}
	require.NoError(t, s.AppendOpcodes(script.OpDUP, script.OpHASH160))
	require.NoError(t, s.AppendPushData(hash))
	require.NoError(t, s.AppendOpcodes(script.OpEQUALVERIFY, script.OpCHECKSIG))
	return s
}

func TestDecodeAuthorization_CosignTemplate(t *testing.T) {
	cosigner, _ := testKeyAndAddress(t)
	pubkey := cosigner.PubKey().Compressed()
	hash := make([]byte, 20)
	for i := range hash {
		hash[i] = byte(i)
	}

	auth := DecodeAuthorization(buildCosignScript(t, hash, pubkey))
	require.NotNil(t, auth)

	wantAddr, err := script.NewAddressFromPublicKeyHash(hash, true)
	require.NoError(t, err)
	assert.Equal(t, wantAddr.AddressString, auth.Address)
	assert.Equal(t, hex.EncodeToString(pubkey), auth.CosignerPubKey)
}

func TestDecodeAuthorization_PlainTemplate(t *testing.T) {
	hash := make([]byte, 20)
	hash[0] = 0xab

	auth := DecodeAuthorization(buildP2PKHScript(t, hash))
	require.NotNil(t, auth)

	wantAddr, err := script.NewAddressFromPublicKeyHash(hash, true)
	require.NoError(t, err)
	assert.Equal(t, wantAddr.AddressString, auth.Address)
	assert.Empty(t, auth.CosignerPubKey)
}

func TestDecodeAuthorization_NoMatch(t *testing.T) {
	s := &script.Script{}
	require.NoError(t, s.AppendOpcodes(script.Op0, script.OpRETURN))
	require.NoError(t, s.AppendPushData([]byte("data")))

	assert.Nil(t, DecodeAuthorization(s))
	assert.Nil(t, DecodeAuthorization(nil))
}

func TestDecodeAuthorizations_DropsNonMatching(t *testing.T) {
	cosigner, _ := testKeyAndAddress(t)
	hash := make([]byte, 20)

	opReturn := &script.Script{}
	require.NoError(t, opReturn.AppendOpcodes(script.Op0, script.OpRETURN))

	scripts := []*script.Script{
		buildCosignScript(t, hash, cosigner.PubKey().Compressed()),
		opReturn,
		buildP2PKHScript(t, hash),
	}

	auths := DecodeAuthorizations(scripts)
	// The OP_RETURN script contributes no entry: no index alignment.
	require.Len(t, auths, 2)
	assert.NotEmpty(t, auths[0].CosignerPubKey)
	assert.Empty(t, auths[1].CosignerPubKey)
}

func TestEncodeAuthorizedEnvelope_DecodesBack(t *testing.T) {
	cosigner, _ := testKeyAndAddress(t)
	_, addr := testKeyAndAddress(t)

	payload := NewTransferPayload("deadbeef_0", 123)
	lock, err := EncodeAuthorizedEnvelope(addr, cosigner.PubKey(), payload)
	require.NoError(t, err)

	auth := DecodeAuthorization(lock)
	require.NotNil(t, auth)
	assert.Equal(t, addr, auth.Address)
	assert.Equal(t, hex.EncodeToString(cosigner.PubKey().Compressed()), auth.CosignerPubKey)
}

func TestEncodeAuthorizedEnvelope_Invalid(t *testing.T) {
	cosigner, _ := testKeyAndAddress(t)
	payload := NewTransferPayload("deadbeef_0", 1)

	_, err := EncodeAuthorizedEnvelope("not-an-address", cosigner.PubKey(), payload)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, addr := testKeyAndAddress(t)
	_, err = EncodeAuthorizedEnvelope(addr, nil, payload)
	assert.ErrorIs(t, err, ErrNilParam)

	_, err = EncodeAuthorizedEnvelope(addr, cosigner.PubKey(), nil)
	assert.ErrorIs(t, err, ErrNilParam)
}
