package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxrp-bridge/omnichain-deployments/migration"
	"github.com/wxrp-bridge/omnichain-deployments/operations/optest"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
)

var adminTarget = migration.Target{
	Kind:     migration.KindAdminRole,
	Endpoint: testEndpoint.ID,
	Contract: contractAddr,
	Role:     migration.DefaultAdminRole,
}

var ownershipTarget = migration.Target{
	Kind:     migration.KindOwnership,
	Endpoint: testEndpoint.ID,
	Contract: contractAddr,
}

func TestNew(t *testing.T) {
	t.Parallel()

	chain := newTestChain(t, newFakeContract())

	l, err := New(chain, adminTarget)
	require.NoError(t, err)
	assert.NotNil(t, l)

	other := adminTarget
	other.Endpoint = 30101
	_, err = New(chain, other)
	require.ErrorContains(t, err, "target on endpoint 30101 cannot be served by chain sepolia (40161)")

	chain.Client = nil
	_, err = New(chain, adminTarget)
	require.ErrorContains(t, err, "has no client")
}

func TestLedger_Reads(t *testing.T) {
	t.Parallel()

	contract := newFakeContract()
	contract.setRole(migration.MinterRole, finalHolder, true)
	contract.owner = finalHolder

	l, err := New(newTestChain(t, contract), adminTarget)
	require.NoError(t, err)

	held, err := l.HasCapability(t.Context(), migration.MinterRole, finalHolder)
	require.NoError(t, err)
	assert.True(t, held)

	held, err = l.HasCapability(t.Context(), migration.BurnerRole, finalHolder)
	require.NoError(t, err)
	assert.False(t, held)

	owner, err := l.CurrentOwner(t.Context())
	require.NoError(t, err)
	assert.Equal(t, finalHolder, owner)

	contract.callErr = errors.New("rpc unavailable")
	_, err = l.HasCapability(t.Context(), migration.MinterRole, finalHolder)
	require.ErrorContains(t, err, "hasRole on "+contractAddr.Hex()+": rpc unavailable")
}

func TestLedger_Revoke(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		giveHolder func(deployer common.Address) common.Address
		want       string
	}{
		{
			name:       "deployer renounces",
			giveHolder: func(deployer common.Address) common.Address { return deployer },
			want:       "renounceRole",
		},
		{
			name:       "other holder is revoked",
			giveHolder: func(common.Address) common.Address { return stranger },
			want:       "revokeRole",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			contract := newFakeContract()
			chain := newTestChain(t, contract)
			holder := tt.giveHolder(chain.From())
			contract.setRole(migration.DefaultAdminRole, chain.From(), true)
			contract.setRole(migration.DefaultAdminRole, stranger, true)

			l, err := New(chain, adminTarget)
			require.NoError(t, err)

			handle, err := l.Revoke(t.Context(), migration.DefaultAdminRole, holder)
			require.NoError(t, err)
			assert.Contains(t, handle.Description, tt.want+"(DEFAULT_ADMIN_ROLE, "+holder.Hex()+")")

			require.NoError(t, l.Await(t.Context(), handle))
			assert.Equal(t, []string{tt.want}, contract.executedCalls())
			assert.False(t, contract.hasRole(migration.DefaultAdminRole, holder))
		})
	}
}

func TestLedger_Await(t *testing.T) {
	t.Parallel()

	contract := newFakeContract()
	chain := newTestChain(t, contract)
	contract.setRole(migration.DefaultAdminRole, chain.From(), true)

	l, err := New(chain, adminTarget, WithLogger(logger.Test(t)))
	require.NoError(t, err)

	err = l.Await(t.Context(), migration.OperationHandle{Ref: "0x01"})
	require.ErrorContains(t, err, "no pending transaction 0x01")

	// A cancelled wait keeps the transaction pending.
	handle, err := l.Grant(t.Context(), migration.MinterRole, finalHolder)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	require.ErrorIs(t, l.Await(ctx, handle), context.Canceled)
	require.NoError(t, l.Await(t.Context(), handle))
	assert.True(t, contract.hasRole(migration.MinterRole, finalHolder))

	// A revert is reported and forgotten.
	contract.revert = "AccessControl: account is missing role"
	handle, err = l.Grant(t.Context(), migration.BurnerRole, finalHolder)
	require.NoError(t, err)
	require.ErrorContains(t, l.Await(t.Context(), handle), "missing role")
	require.ErrorContains(t, l.Await(t.Context(), handle), "no pending transaction")
}

func TestLedger_ReadOnly(t *testing.T) {
	t.Parallel()

	chain := newTestChain(t, newFakeContract())
	chain.DeployerKey = nil

	l, err := New(chain, ownershipTarget)
	require.NoError(t, err)

	_, err = l.TransferOwnership(t.Context(), finalHolder)
	require.ErrorIs(t, err, ErrReadOnly)
}

func TestLedger_Preflight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		giveTarget migration.Target
		giveOpts   []Option
		giveAdmin  common.Address
		wantErr    string
	}{
		{
			name:       "proxy administered by target",
			giveTarget: ownershipTarget,
			giveOpts:   []Option{WithProxyAdminCheck(proxyAddr)},
			giveAdmin:  contractAddr,
		},
		{
			name:       "proxy administered elsewhere",
			giveTarget: ownershipTarget,
			giveOpts:   []Option{WithProxyAdminCheck(proxyAddr)},
			giveAdmin:  stranger,
			wantErr:    "is not administered by ProxyAdmin",
		},
		{
			name:       "no proxy configured",
			giveTarget: ownershipTarget,
			giveAdmin:  stranger,
		},
		{
			name:       "admin role targets skip the check",
			giveTarget: adminTarget,
			giveOpts:   []Option{WithProxyAdminCheck(proxyAddr)},
			giveAdmin:  stranger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			contract := newFakeContract()
			contract.proxyAdmin = tt.giveAdmin

			l, err := New(newTestChain(t, contract), tt.giveTarget, tt.giveOpts...)
			require.NoError(t, err)

			err = l.Preflight(t.Context())
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var perr *migration.PreconditionError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.giveAdmin.Hex(), perr.Observed)
			assert.Contains(t, perr.Reason, tt.wantErr)
		})
	}
}

func TestLedger_Migration(t *testing.T) {
	t.Parallel()

	t.Run("admin role", func(t *testing.T) {
		t.Parallel()

		contract := newFakeContract()
		chain := newTestChain(t, contract)
		contract.setRole(migration.DefaultAdminRole, chain.From(), true)

		l, err := New(chain, adminTarget)
		require.NoError(t, err)

		res, err := migration.NewOrchestrator(optest.NewBundle(t), l, migration.AutoApprove(),
			migration.DefaultConfig(migration.ModeExecute),
		).Run(t.Context(), adminTarget, chain.From(), finalHolder)
		require.NoError(t, err)
		assert.Equal(t, migration.PhaseDone, res.Phase)
		assert.Len(t, res.Mutations, 2)
		assert.Equal(t, []string{"grantRole", "renounceRole"}, contract.executedCalls())
		assert.True(t, contract.hasRole(migration.DefaultAdminRole, finalHolder))
		assert.False(t, contract.hasRole(migration.DefaultAdminRole, chain.From()))
	})

	t.Run("ownership", func(t *testing.T) {
		t.Parallel()

		contract := newFakeContract()
		chain := newTestChain(t, contract)
		contract.owner = chain.From()
		contract.proxyAdmin = contractAddr

		l, err := New(chain, ownershipTarget, WithProxyAdminCheck(proxyAddr))
		require.NoError(t, err)

		res, err := migration.NewOrchestrator(optest.NewBundle(t), l, migration.AutoApprove(),
			migration.DefaultConfig(migration.ModeExecute),
		).Run(t.Context(), ownershipTarget, chain.From(), finalHolder)
		require.NoError(t, err)
		assert.Equal(t, migration.PhaseDoneNoRenounce, res.Phase)
		assert.Equal(t, []string{"transferOwnership"}, contract.executedCalls())
		assert.Equal(t, finalHolder, contract.owner)
	})
}
