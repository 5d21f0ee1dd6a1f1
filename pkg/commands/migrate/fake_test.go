package migrate

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/wxrp-bridge/omnichain-deployments/addressbook"
	"github.com/wxrp-bridge/omnichain-deployments/chain/evm"
	config "github.com/wxrp-bridge/omnichain-deployments/config/env"
	"github.com/wxrp-bridge/omnichain-deployments/config/network"
	"github.com/wxrp-bridge/omnichain-deployments/migration"
	"github.com/wxrp-bridge/omnichain-deployments/operations"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

var (
	tokenAddr      = common.HexToAddress("0x00000000000000000000000000000000000000a0")
	proxyAdminAddr = common.HexToAddress("0x00000000000000000000000000000000000000b0")
	proxyAddr      = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	adapterAddr    = common.HexToAddress("0x00000000000000000000000000000000000000d0")
	stranger       = common.HexToAddress("0x00000000000000000000000000000000000000e0")
	// testnetOwner is the owner of every testnet endpoint in the built-in preset.
	testnetOwner = common.HexToAddress("0xa4B4c951E9Fae331c65700C9BB6A21c236fcF165")
)

// fakeLedger is an in-memory capability ledger whose mutations take effect when awaited.
type fakeLedger struct {
	mu      sync.Mutex
	roles   map[common.Hash]map[common.Address]bool
	owner   common.Address
	pending map[string]func()
	calls   []string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		roles:   map[common.Hash]map[common.Address]bool{},
		pending: map[string]func(){},
	}
}

func (l *fakeLedger) set(role common.Hash, holder common.Address, held bool) {
	if l.roles[role] == nil {
		l.roles[role] = map[common.Address]bool{}
	}
	l.roles[role][holder] = held
}

func (l *fakeLedger) has(role common.Hash, holder common.Address) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.roles[role][holder]
}

func (l *fakeLedger) HasCapability(_ context.Context, role common.Hash, holder common.Address) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.roles[role][holder], nil
}

func (l *fakeLedger) CurrentOwner(context.Context) (common.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.owner, nil
}

func (l *fakeLedger) submit(what string, effect func()) (migration.OperationHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ref := fmt.Sprintf("0x%064x", len(l.calls)+1)
	l.pending[ref] = effect
	l.calls = append(l.calls, what)

	return migration.OperationHandle{Ref: ref, Description: what}, nil
}

func (l *fakeLedger) Grant(_ context.Context, role common.Hash, holder common.Address) (migration.OperationHandle, error) {
	return l.submit("grant "+migration.RoleName(role)+" to "+holder.Hex(), func() { l.set(role, holder, true) })
}

func (l *fakeLedger) Revoke(_ context.Context, role common.Hash, holder common.Address) (migration.OperationHandle, error) {
	return l.submit("revoke "+migration.RoleName(role)+" from "+holder.Hex(), func() { l.set(role, holder, false) })
}

func (l *fakeLedger) TransferOwnership(_ context.Context, holder common.Address) (migration.OperationHandle, error) {
	return l.submit("transfer to "+holder.Hex(), func() { l.owner = holder })
}

func (l *fakeLedger) Await(_ context.Context, handle migration.OperationHandle) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	effect, ok := l.pending[handle.Ref]
	if !ok {
		return fmt.Errorf("unknown operation %s", handle.Ref)
	}
	delete(l.pending, handle.Ref)
	effect()

	return nil
}

func (l *fakeLedger) callLog() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.calls...)
}

// harness wires a migrate command to in-memory dependencies.
type harness struct {
	t      *testing.T
	key    *ecdsa.PrivateKey
	signer common.Address
	ledger *fakeLedger
	book   map[topology.EndpointID]map[string]addressbook.TypeAndVersion

	// answers are returned by the prompt in order; nil proceeds.
	answers []error
	asked   []string

	targets []migration.Target
	proxies []common.Address
	reports []operations.Report[any, any]
	deps    Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	v := *semver.MustParse("1.0.0")
	h := &harness{
		t:      t,
		key:    key,
		signer: crypto.PubkeyToAddress(key.PublicKey),
		ledger: newFakeLedger(),
		book: map[topology.EndpointID]map[string]addressbook.TypeAndVersion{
			topology.EndpointHyperliquidTestnet: {
				tokenAddr.Hex():      addressbook.NewTypeAndVersion(addressbook.TokenContract, v),
				proxyAdminAddr.Hex(): addressbook.NewTypeAndVersion(addressbook.ProxyAdminContract, v),
				proxyAddr.Hex():      addressbook.NewTypeAndVersion(addressbook.ProxyContract, v),
				adapterAddr.Hex():    addressbook.NewTypeAndVersion(addressbook.AdapterContract, v),
			},
		},
	}

	h.deps = Deps{
		ConfigLoader: func(string) (*config.Config, error) {
			return &config.Config{
				Migration: config.MigrationConfig{SettlementTimeout: time.Second, ReadAttempts: 1},
			}, nil
		},
		NetworksLoader: func([]string) (*network.Config, error) {
			return network.Defaults(), nil
		},
		AddressBookLoader: func(string) (*addressbook.AddressBook, error) {
			return addressbook.NewFromMap(h.book)
		},
		ChainLoader: func(_ context.Context, _ logger.Logger, n network.Network, _ *config.Config) (evm.Chain, error) {
			opts, err := bind.NewKeyedTransactorWithChainID(h.key, new(big.Int).SetUint64(n.ChainID))
			if err != nil {
				return evm.Chain{}, err
			}

			return evm.Chain{Endpoint: n.Endpoint(), DeployerKey: opts}, nil
		},
		LedgerFactory: func(
			_ evm.Chain, target migration.Target, proxy common.Address, _ logger.Logger,
		) (migration.CapabilityLedger, error) {
			h.targets = append(h.targets, target)
			h.proxies = append(h.proxies, proxy)

			return h.ledger, nil
		},
		GateFactory: func(*cobra.Command) migration.ConfirmationGate {
			g := NewPromptGate(nil, nil)
			g.run = func(p promptui.Prompt) (string, error) {
				h.asked = append(h.asked, fmt.Sprint(p.Label))
				if len(h.answers) == 0 {
					return "y", nil
				}
				ans := h.answers[0]
				h.answers = h.answers[1:]

				return "", ans
			}

			return g
		},
		ReportWriter: func(_ string, reports []operations.Report[any, any]) error {
			h.reports = reports
			return nil
		},
	}

	return h
}

// run executes cmd built by newCmd with args and returns its output.
func (h *harness) run(newCmd func(Config) (*cobra.Command, error), args ...string) (string, error) {
	h.t.Helper()

	cmd, err := newCmd(Config{Logger: logger.Test(h.t), Deps: h.deps})
	require.NoError(h.t, err)

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SilenceUsage = true
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(h.t.Context())

	return out.String(), err
}
