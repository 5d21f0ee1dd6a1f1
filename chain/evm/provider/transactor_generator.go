package provider

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
)

// TransactorGenerator is an interface for generating geth's *bind.TransactOpts instances. These
// instances are used to sign transactions using geth bindings.
type TransactorGenerator interface {
	Generate(chainID *big.Int) (*bind.TransactOpts, error)
}

var (
	_ TransactorGenerator = (*transactorFromRaw)(nil)
	_ TransactorGenerator = (*transactorRandom)(nil)
)

// GeneratorOption is a function that modifies the generated transactor.
type GeneratorOption func(*bind.TransactOpts)

// WithGasLimit sets a fixed gas limit instead of estimating it per transaction.
func WithGasLimit(gasLimit uint64) GeneratorOption {
	return func(opts *bind.TransactOpts) {
		opts.GasLimit = gasLimit
	}
}

// TransactorFromRaw returns a generator which creates a transactor from a hex encoded private key.
// A 0x prefix is accepted.
func TransactorFromRaw(privKey string, opts ...GeneratorOption) TransactorGenerator {
	return &transactorFromRaw{
		privKey: strings.TrimPrefix(strings.TrimSpace(privKey), "0x"),
		opts:    opts,
	}
}

// transactorFromRaw is a TransactorGenerator that creates a transactor from a private key.
type transactorFromRaw struct {
	privKey string
	opts    []GeneratorOption
}

// Generate parses the hex encoded private key and returns the bind transactor options.
func (g *transactorFromRaw) Generate(chainID *big.Int) (*bind.TransactOpts, error) {
	privKey, err := crypto.HexToECDSA(g.privKey)
	if err != nil {
		return nil, fmt.Errorf("failed to convert private key to ECDSA: %w", err)
	}

	transactor, err := bind.NewKeyedTransactorWithChainID(privKey, chainID)
	if err != nil {
		return nil, err
	}
	for _, o := range g.opts {
		o(transactor)
	}

	return transactor, nil
}

// TransactorRandom is a TransactorGenerator that creates a transactor with a random private key.
func TransactorRandom() TransactorGenerator {
	return &transactorRandom{}
}

// transactorRandom is an TransactorGenerator that creates a transactor from a random keypair.
type transactorRandom struct{}

// Generate generates a random key and returns the bind transactor options.
func (g *transactorRandom) Generate(chainID *big.Int) (*bind.TransactOpts, error) {
	privKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate random private key: %w", err)
	}

	return bind.NewKeyedTransactorWithChainID(privKey, chainID)
}
