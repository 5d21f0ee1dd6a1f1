package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/wxrp-bridge/omnichain-deployments/chain/evm"
	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

var (
	testEndpoint = topology.Endpoint{ID: topology.EndpointSepoliaTestnet, Name: "sepolia", ChainID: 11155111}
	contractAddr = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	proxyAddr    = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	finalHolder  = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	stranger     = common.HexToAddress("0x00000000000000000000000000000000000000e1")
)

// fakeContract executes the capability ABI against in-memory state. Transactions take effect
// when confirmed.
type fakeContract struct {
	mu sync.Mutex

	roles      map[common.Hash]map[common.Address]bool
	owner      common.Address
	proxyAdmin common.Address

	// callErr fails every eth_call.
	callErr error
	// revert makes the next confirmed transaction revert with that reason.
	revert string

	sent     map[common.Hash]*types.Transaction
	executed []string
	nonce    uint64
}

func newFakeContract() *fakeContract {
	return &fakeContract{
		roles: map[common.Hash]map[common.Address]bool{},
		sent:  map[common.Hash]*types.Transaction{},
	}
}

func (c *fakeContract) setRole(role common.Hash, holder common.Address, held bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.roles[role] == nil {
		c.roles[role] = map[common.Address]bool{}
	}
	c.roles[role][holder] = held
}

func (c *fakeContract) hasRole(role common.Hash, holder common.Address) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.roles[role][holder]
}

func (c *fakeContract) executedCalls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.executed...)
}

func (c *fakeContract) call(data []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.callErr != nil {
		return nil, c.callErr
	}
	method, err := parsedABI.MethodById(data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case "hasRole":
		return method.Outputs.Pack(c.roles[toHash(args[0])][args[1].(common.Address)])
	case "owner":
		return method.Outputs.Pack(c.owner)
	case "getProxyAdmin":
		return method.Outputs.Pack(c.proxyAdmin)
	default:
		return nil, fmt.Errorf("%s is not a view", method.Name)
	}
}

// mine applies a sent transaction the way the contract would.
func (c *fakeContract) mine(tx *types.Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sent[tx.Hash()]; !ok {
		return fmt.Errorf("tx %s was never sent", tx.Hash().Hex())
	}
	delete(c.sent, tx.Hash())

	if c.revert != "" {
		reason := c.revert
		c.revert = ""

		return fmt.Errorf("tx %s reverted: %s", tx.Hash().Hex(), reason)
	}

	sender, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return err
	}
	method, err := parsedABI.MethodById(tx.Data()[:4])
	if err != nil {
		return err
	}
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	if err != nil {
		return err
	}
	c.executed = append(c.executed, method.Name)

	set := func(role common.Hash, holder common.Address, held bool) {
		if c.roles[role] == nil {
			c.roles[role] = map[common.Address]bool{}
		}
		c.roles[role][holder] = held
	}

	switch method.Name {
	case "grantRole", "revokeRole":
		role := toHash(args[0])
		if !c.roles[common.Hash{}][sender] {
			return errors.New("AccessControl: sender is missing the admin role")
		}
		set(role, args[1].(common.Address), method.Name == "grantRole")
	case "renounceRole":
		if args[1].(common.Address) != sender {
			return errors.New("AccessControl: can only renounce roles for self")
		}
		set(toHash(args[0]), sender, false)
	case "transferOwnership":
		if c.owner != sender {
			return errors.New("Ownable: caller is not the owner")
		}
		c.owner = args[0].(common.Address)
	default:
		return fmt.Errorf("%s is a view", method.Name)
	}

	return nil
}

func toHash(v any) common.Hash {
	return common.Hash(v.([32]byte))
}

// fakeBackend serves fakeContract over the client interface used by bound contracts. Methods not
// overridden here are not used by the ledger.
type fakeBackend struct {
	evm.OnchainClient

	contract *fakeContract
}

func (b *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	return b.contract.call(msg.Data)
}

func (b *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (b *fakeBackend) PendingCodeAt(context.Context, common.Address) ([]byte, error) {
	return []byte{0x60}, nil
}

func (b *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

func (b *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (b *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 100_000, nil
}

func (b *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	b.contract.mu.Lock()
	defer b.contract.mu.Unlock()

	return b.contract.nonce, nil
}

func (b *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.contract.mu.Lock()
	defer b.contract.mu.Unlock()

	b.contract.sent[tx.Hash()] = tx
	b.contract.nonce++

	return nil
}

// newTestChain returns a chain whose deployer key is a fresh account and whose Confirm mines
// transactions on contract.
func newTestChain(t *testing.T, contract *fakeContract) evm.Chain {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	deployer, err := bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(testEndpoint.ChainID))
	require.NoError(t, err)

	return evm.Chain{
		Endpoint:    testEndpoint,
		Client:      &fakeBackend{contract: contract},
		DeployerKey: deployer,
		Confirm: func(ctx context.Context, tx *types.Transaction) (uint64, error) {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			if err := contract.mine(tx); err != nil {
				return 0, err
			}

			return 2, nil
		},
	}
}
