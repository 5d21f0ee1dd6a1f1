package ledger

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// capabilityABI covers the access control, ownership and proxy admin functions of the token,
// adapter and ProxyAdmin contracts.
const capabilityABI = `[
	{"type":"function","name":"hasRole","stateMutability":"view",
		"inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],
		"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"grantRole","stateMutability":"nonpayable",
		"inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]},
	{"type":"function","name":"revokeRole","stateMutability":"nonpayable",
		"inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]},
	{"type":"function","name":"renounceRole","stateMutability":"nonpayable",
		"inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]},
	{"type":"function","name":"owner","stateMutability":"view",
		"inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"transferOwnership","stateMutability":"nonpayable",
		"inputs":[{"name":"newOwner","type":"address"}],"outputs":[]},
	{"type":"function","name":"getProxyAdmin","stateMutability":"view",
		"inputs":[{"name":"proxy","type":"address"}],"outputs":[{"name":"","type":"address"}]}
]`

var parsedABI = mustParseABI(capabilityABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}

	return parsed
}
