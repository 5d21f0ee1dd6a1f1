package provider

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TransactorFromRaw(t *testing.T) {
	t.Parallel()

	privKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	var (
		hexPrivKey = hex.EncodeToString(crypto.FromECDSA(privKey))
		wantAddr   = crypto.PubkeyToAddress(privKey.PublicKey).Hex()
	)

	tests := []struct {
		name         string
		givePrivKey  string
		giveChainID  *big.Int
		giveOpts     []GeneratorOption
		want         string
		wantGasLimit uint64
		wantErr      string
	}{
		{
			name:        "valid private key",
			givePrivKey: hexPrivKey,
			giveChainID: testChainIDBig,
			want:        wantAddr,
		},
		{
			name:        "valid private key with 0x prefix",
			givePrivKey: "0x" + hexPrivKey,
			giveChainID: testChainIDBig,
			want:        wantAddr,
		},
		{
			name:         "fixed gas limit",
			givePrivKey:  hexPrivKey,
			giveChainID:  testChainIDBig,
			giveOpts:     []GeneratorOption{WithGasLimit(500_000)},
			want:         wantAddr,
			wantGasLimit: 500_000,
		},
		{
			name:        "invalid private key",
			givePrivKey: "invalid",
			giveChainID: testChainIDBig,
			wantErr:     "failed to convert private key to ECDSA",
		},
		{
			name:        "invalid chain ID",
			givePrivKey: hexPrivKey,
			giveChainID: nil,
			wantErr:     "no chain id specified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := TransactorFromRaw(tt.givePrivKey, tt.giveOpts...).Generate(tt.giveChainID)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.From.Hex())
			assert.Equal(t, tt.wantGasLimit, got.GasLimit)
		})
	}
}

func Test_TransactorRandom(t *testing.T) {
	t.Parallel()

	a, err := TransactorRandom().Generate(testChainIDBig)
	require.NoError(t, err)
	b, err := TransactorRandom().Generate(testChainIDBig)
	require.NoError(t, err)
	assert.NotEqual(t, a.From, b.From)

	_, err = TransactorRandom().Generate(nil)
	require.ErrorContains(t, err, "no chain id specified")
}
