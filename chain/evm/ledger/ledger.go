// Package ledger reads and mutates capability state of EVM contracts for the migration
// orchestrator.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/wxrp-bridge/omnichain-deployments/chain/evm"
	"github.com/wxrp-bridge/omnichain-deployments/migration"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
)

// ErrReadOnly is returned by mutations on a chain without a deployer key.
var ErrReadOnly = errors.New("chain has no deployer key")

// contractBinding is the subset of *bind.BoundContract used by the ledger.
type contractBinding interface {
	Call(opts *bind.CallOpts, results *[]any, method string, params ...any) error
	Transact(opts *bind.TransactOpts, method string, params ...any) (*types.Transaction, error)
}

var (
	_ migration.CapabilityLedger = (*Ledger)(nil)
	_ migration.Preflighter      = (*Ledger)(nil)
)

// Ledger is the on-chain capability state of one migration target.
type Ledger struct {
	chain    evm.Chain
	target   migration.Target
	contract contractBinding
	// proxy, when set, must be administered by the target ProxyAdmin.
	proxy common.Address
	lggr  logger.Logger

	mu      sync.Mutex
	pending map[string]*types.Transaction
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithProxyAdminCheck makes Preflight verify that proxy is administered by the target contract.
// It only applies to ownership targets.
func WithProxyAdminCheck(proxy common.Address) Option {
	return func(l *Ledger) {
		l.proxy = proxy
	}
}

// WithLogger sets the logger used to report submitted transactions.
func WithLogger(lggr logger.Logger) Option {
	return func(l *Ledger) {
		l.lggr = lggr
	}
}

// New binds the target contract on chain.
func New(chain evm.Chain, target migration.Target, opts ...Option) (*Ledger, error) {
	if chain.Client == nil {
		return nil, fmt.Errorf("chain %s has no client", chain)
	}
	if chain.Endpoint.ID != target.Endpoint {
		return nil, fmt.Errorf("target on endpoint %d cannot be served by chain %s", target.Endpoint, chain)
	}

	bound := bind.NewBoundContract(target.Contract, parsedABI, chain.Client, chain.Client, chain.Client)

	return newLedger(chain, target, bound, opts...), nil
}

func newLedger(chain evm.Chain, target migration.Target, contract contractBinding, opts ...Option) *Ledger {
	l := &Ledger{
		chain:    chain,
		target:   target,
		contract: contract,
		lggr:     logger.Nop(),
		pending:  map[string]*types.Transaction{},
	}
	for _, o := range opts {
		o(l)
	}

	return l
}

// HasCapability calls hasRole(role, holder).
func (l *Ledger) HasCapability(ctx context.Context, role common.Hash, holder common.Address) (bool, error) {
	var out []any
	if err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "hasRole", role, holder); err != nil {
		return false, fmt.Errorf("hasRole on %s: %w", l.target.Contract.Hex(), err)
	}

	held, ok := first(out).(bool)
	if !ok {
		return false, fmt.Errorf("hasRole on %s: unexpected result %v", l.target.Contract.Hex(), out)
	}

	return held, nil
}

// CurrentOwner calls owner().
func (l *Ledger) CurrentOwner(ctx context.Context) (common.Address, error) {
	return l.callAddress(ctx, "owner")
}

// Grant sends grantRole(role, holder).
func (l *Ledger) Grant(ctx context.Context, role common.Hash, holder common.Address) (migration.OperationHandle, error) {
	return l.transact(ctx, fmt.Sprintf("grantRole(%s, %s)", migration.RoleName(role), holder.Hex()),
		"grantRole", role, holder)
}

// Revoke sends renounceRole when the holder is the deployer key and revokeRole otherwise.
func (l *Ledger) Revoke(ctx context.Context, role common.Hash, holder common.Address) (migration.OperationHandle, error) {
	method := "revokeRole"
	if holder == l.chain.From() {
		method = "renounceRole"
	}

	return l.transact(ctx, fmt.Sprintf("%s(%s, %s)", method, migration.RoleName(role), holder.Hex()),
		method, role, holder)
}

// TransferOwnership sends transferOwnership(holder).
func (l *Ledger) TransferOwnership(ctx context.Context, holder common.Address) (migration.OperationHandle, error) {
	return l.transact(ctx, fmt.Sprintf("transferOwnership(%s)", holder.Hex()), "transferOwnership", holder)
}

// Await confirms the transaction behind handle. A reverted transaction is an error.
func (l *Ledger) Await(ctx context.Context, handle migration.OperationHandle) error {
	l.mu.Lock()
	tx, ok := l.pending[handle.Ref]
	l.mu.Unlock()
	if !ok {
		return fmt.Errorf("no pending transaction %s", handle.Ref)
	}

	block, err := l.chain.Confirm(ctx, tx)
	if err != nil {
		// A deadline leaves the transaction pending so it can be awaited again.
		if ctx.Err() == nil {
			l.forget(handle.Ref)
		}

		return err
	}
	l.forget(handle.Ref)
	l.lggr.Infow("Transaction confirmed", "tx", handle.Ref, "block", block, "chain", l.chain.String())

	return nil
}

// Preflight checks that the configured proxy is administered by the target ProxyAdmin.
func (l *Ledger) Preflight(ctx context.Context) error {
	if l.target.Kind != migration.KindOwnership || l.proxy == (common.Address{}) {
		return nil
	}

	admin, err := l.callAddress(ctx, "getProxyAdmin", l.proxy)
	if err != nil {
		return err
	}
	if admin != l.target.Contract {
		return &migration.PreconditionError{
			Phase:    migration.PhaseStart,
			Observed: admin.Hex(),
			Reason: fmt.Sprintf("proxy %s is not administered by ProxyAdmin %s",
				l.proxy.Hex(), l.target.Contract.Hex()),
		}
	}

	return nil
}

func (l *Ledger) callAddress(ctx context.Context, method string, params ...any) (common.Address, error) {
	var out []any
	if err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return common.Address{}, fmt.Errorf("%s on %s: %w", method, l.target.Contract.Hex(), err)
	}

	addr, ok := first(out).(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s on %s: unexpected result %v", method, l.target.Contract.Hex(), out)
	}

	return addr, nil
}

func (l *Ledger) transact(ctx context.Context, description, method string, params ...any) (migration.OperationHandle, error) {
	if l.chain.DeployerKey == nil {
		return migration.OperationHandle{}, fmt.Errorf("%s on %s: %w", method, l.chain, ErrReadOnly)
	}

	opts := *l.chain.DeployerKey
	opts.Context = ctx

	tx, err := l.contract.Transact(&opts, method, params...)
	if err != nil {
		return migration.OperationHandle{}, fmt.Errorf("%s on %s: %w", method, l.target.Contract.Hex(), err)
	}

	handle := migration.OperationHandle{Ref: tx.Hash().Hex(), Description: description}
	l.mu.Lock()
	l.pending[handle.Ref] = tx
	l.mu.Unlock()

	l.lggr.Infow("Transaction sent", "tx", handle.Ref, "call", description,
		"contract", l.target.Contract.Hex(), "chain", l.chain.String())

	return handle, nil
}

func (l *Ledger) forget(ref string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.pending, ref)
}

func first(out []any) any {
	if len(out) == 0 {
		return nil
	}

	return out[0]
}
