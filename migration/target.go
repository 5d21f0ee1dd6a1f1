package migration

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

// Kind is the kind of capability being migrated.
type Kind string

const (
	// KindAdminRole is an access control role; several addresses may hold it at once.
	KindAdminRole Kind = "admin-role"
	// KindOwnership is single-holder ownership of a contract.
	KindOwnership Kind = "ownership"
)

// Well known access control roles.
var (
	DefaultAdminRole = common.Hash{}
	MinterRole       = crypto.Keccak256Hash([]byte("MINTER_ROLE"))
	BurnerRole       = crypto.Keccak256Hash([]byte("BURNER_ROLE"))
)

// RoleName returns the conventional name of a well known role, or its hex form.
func RoleName(role common.Hash) string {
	switch role {
	case DefaultAdminRole:
		return "DEFAULT_ADMIN_ROLE"
	case MinterRole:
		return "MINTER_ROLE"
	case BurnerRole:
		return "BURNER_ROLE"
	default:
		return role.Hex()
	}
}

// ParseRole accepts a well known role name or a 32 byte hex role id.
func ParseRole(s string) (common.Hash, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEFAULT_ADMIN_ROLE":
		return DefaultAdminRole, nil
	case "MINTER_ROLE":
		return MinterRole, nil
	case "BURNER_ROLE":
		return BurnerRole, nil
	}

	b, err := hexutil.Decode(strings.TrimSpace(s))
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid role %q: expected a role name or a 32 byte hex id", s)
	}

	return common.BytesToHash(b), nil
}

// Target is one capability whose control is being migrated.
type Target struct {
	Kind     Kind                `json:"kind"`
	Endpoint topology.EndpointID `json:"eid"`
	Contract common.Address      `json:"contract"`
	// Role is only meaningful for KindAdminRole.
	Role common.Hash `json:"role"`
}

// String describes the target for logs and approval prompts.
func (t Target) String() string {
	if t.Kind == KindOwnership {
		return fmt.Sprintf("ownership of %s on endpoint %d", t.Contract.Hex(), t.Endpoint)
	}

	return fmt.Sprintf("%s on %s on endpoint %d", RoleName(t.Role), t.Contract.Hex(), t.Endpoint)
}

func (t Target) validate() error {
	switch t.Kind {
	case KindAdminRole, KindOwnership:
	default:
		return &topology.ConfigurationError{Endpoint: t.Endpoint, Field: "kind", Reason: fmt.Sprintf("unknown capability kind %q", t.Kind)}
	}
	if t.Contract == (common.Address{}) {
		return &topology.ConfigurationError{Endpoint: t.Endpoint, Field: "contract", Reason: "zero address"}
	}

	return nil
}

// Mode selects whether a run may mutate the ledger.
type Mode string

const (
	// ModeDryRun performs every read and stops before the first approval.
	ModeDryRun Mode = "dry-run"
	// ModeExecute performs approved mutations.
	ModeExecute Mode = "execute"
)

// ParseMode parses "dry-run" or "execute".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDryRun, ModeExecute:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid run mode %q: expected %q or %q", s, ModeDryRun, ModeExecute)
	}
}
