package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/wxrp-bridge/omnichain-deployments/chain/evm"
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

// ConfirmFunctor is an interface for creating a confirmation function for transactions on the
// EVM chain.
type ConfirmFunctor interface {
	// Generate returns a function that confirms transactions sent by from on the endpoint's chain.
	Generate(endpoint topology.Endpoint, client evm.OnchainClient, from common.Address) (evm.ConfirmFunc, error)
}

// ConfirmFuncGeth returns a ConfirmFunctor that polls the Geth client for receipts. The wait of a
// single confirmation is bounded by waitMinedTimeout on top of the caller's context; a
// non-positive waitMinedTimeout leaves only the caller's context.
func ConfirmFuncGeth(waitMinedTimeout time.Duration, opts ...func(*confirmFuncGeth)) ConfirmFunctor {
	cf := &confirmFuncGeth{
		tickInterval:     1 * time.Second, // the same value we have in bind.WaitMined hardcoded in "go-ethereum"
		waitMinedTimeout: waitMinedTimeout,
	}
	for _, o := range opts {
		o(cf)
	}

	return cf
}

// WithTickInterval sets the receipt polling interval. Non-positive intervals are ignored.
func WithTickInterval(interval time.Duration) func(*confirmFuncGeth) {
	return func(o *confirmFuncGeth) {
		if interval > 0 {
			o.tickInterval = interval
		}
	}
}

// confirmFuncGeth implements the ConfirmFunctor interface which generates a confirmation function
// for transactions using the Geth client.
type confirmFuncGeth struct {
	tickInterval     time.Duration
	waitMinedTimeout time.Duration
}

// Generate returns a function that confirms transactions using the Geth client.
func (g *confirmFuncGeth) Generate(
	endpoint topology.Endpoint, client evm.OnchainClient, from common.Address,
) (evm.ConfirmFunc, error) {
	if client == nil {
		return nil, fmt.Errorf("no client for endpoint %s", endpoint)
	}

	return func(ctx context.Context, tx *types.Transaction) (uint64, error) {
		if tx == nil {
			return 0, fmt.Errorf("tx was nil, nothing to confirm for endpoint %s", endpoint)
		}

		ctxTimeout, cancel := ctx, context.CancelFunc(func() {})
		if g.waitMinedTimeout > 0 {
			ctxTimeout, cancel = context.WithTimeout(ctx, g.waitMinedTimeout)
		}
		defer cancel()

		receipt, err := WaitMinedWithInterval(ctxTimeout, g.tickInterval, client, tx.Hash())
		if err != nil {
			return 0, fmt.Errorf("tx %s failed to confirm on endpoint %s: %w", tx.Hash().Hex(), endpoint, err)
		}
		if receipt == nil {
			return 0, fmt.Errorf("receipt was nil for tx %s on endpoint %s", tx.Hash().Hex(), endpoint)
		}

		blockNum := receipt.BlockNumber.Uint64()
		if receipt.Status == types.ReceiptStatusFailed {
			reason, err := getErrorReasonFromTx(ctxTimeout, client, from, tx, receipt)
			if err == nil && reason != "" {
				return blockNum, fmt.Errorf("tx %s reverted on endpoint %s: %s", tx.Hash().Hex(), endpoint, reason)
			}

			return blockNum, fmt.Errorf("tx %s reverted on endpoint %s, could not decode error reason",
				tx.Hash().Hex(), endpoint,
			)
		}

		return blockNum, nil
	}, nil
}

// WaitMinedWithInterval is a custom function that allows to get receipts faster for networks with instant blocks
func WaitMinedWithInterval(ctx context.Context, tick time.Duration, b bind.DeployBackend, txHash common.Hash) (*types.Receipt, error) {
	queryTicker := time.NewTicker(tick)
	defer queryTicker.Stop()
	for {
		receipt, err := b.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-queryTicker.C:
		}
	}
}
