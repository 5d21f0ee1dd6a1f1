package provider

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxrp-bridge/omnichain-deployments/chain/evm"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
)

// alwaysFailingTransactorGenerator is a TransactorGenerator that always fails.
type alwaysFailingTransactorGenerator struct{}

func (alwaysFailingTransactorGenerator) Generate(*big.Int) (*bind.TransactOpts, error) {
	return nil, assert.AnError
}

func Test_RPCChainProviderConfig_validate(t *testing.T) {
	t.Parallel()

	rpc := evm.RPC{Name: "test", URL: "http://localhost:8545"}

	tests := []struct {
		name    string
		config  RPCChainProviderConfig
		wantErr string
	}{
		{
			name: "valid config",
			config: RPCChainProviderConfig{
				DeployerTransactorGen: TransactorRandom(),
				RPCs:                  []evm.RPC{rpc},
				ConfirmFunctor:        ConfirmFuncGeth(time.Second),
			},
		},
		{
			name: "read only config",
			config: RPCChainProviderConfig{
				RPCs:           []evm.RPC{rpc},
				ConfirmFunctor: ConfirmFuncGeth(time.Second),
			},
		},
		{
			name: "missing confirm functor",
			config: RPCChainProviderConfig{
				RPCs: []evm.RPC{rpc},
			},
			wantErr: "confirm functor is required",
		},
		{
			name: "missing rpcs",
			config: RPCChainProviderConfig{
				ConfirmFunctor: ConfirmFuncGeth(time.Second),
			},
			wantErr: "at least one RPC is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.validate()
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func Test_RPCChainProvider_Initialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		serveChain uint64
		giveGen    TransactorGenerator
		wantErr    string
		wantDeploy bool
	}{
		{
			name:       "connects with deployer key",
			serveChain: testEndpoint.ChainID,
			giveGen:    TransactorRandom(),
			wantDeploy: true,
		},
		{
			name:       "connects read only",
			serveChain: testEndpoint.ChainID,
		},
		{
			name:       "rpc serves another chain",
			serveChain: 1,
			giveGen:    TransactorRandom(),
			wantErr:    "expects chain id 11155111 but the rpc serves 1",
		},
		{
			name:       "deployer key fails",
			serveChain: testEndpoint.ChainID,
			giveGen:    alwaysFailingTransactorGenerator{},
			wantErr:    "failed to generate deployer key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newFakeRPCServer(t, tt.serveChain)

			p := NewRPCChainProvider(testEndpoint, RPCChainProviderConfig{
				DeployerTransactorGen: tt.giveGen,
				RPCs:                  []evm.RPC{{Name: "fake", URL: srv.URL}},
				ConfirmFunctor:        ConfirmFuncGeth(time.Second),
				Logger:                logger.Test(t),
			})

			got, err := p.Initialize(t.Context())
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testEndpoint, got.Endpoint)
			assert.NotZero(t, got.Selector)
			assert.NotNil(t, got.Client)
			assert.NotNil(t, got.Confirm)
			assert.Equal(t, tt.wantDeploy, got.DeployerKey != nil)
			assert.Same(t, got.Client, p.Chain().Client)

			again, err := p.Initialize(t.Context())
			require.NoError(t, err)
			assert.Same(t, got.Client, again.Client)
		})
	}
}

func Test_RPCChainProvider_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "EVM RPC Chain Provider", (&RPCChainProvider{}).Name())
}
