// Package addressbook records where the bridge contracts are deployed on each endpoint.
package addressbook

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/ethereum/go-ethereum/common"

	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

var (
	ErrInvalidAddress    = errors.New("invalid address")
	ErrEndpointNotFound  = errors.New("endpoint not found")
	ErrContractNotFound  = errors.New("contract not found")
	ErrAmbiguousContract = errors.New("contract deployed more than once")
)

// ContractType is a simple string type for identifying contract types.
type ContractType string

func (ct ContractType) String() string {
	return string(ct)
}

// Contract types of the bridge deployment.
const (
	TokenContract      ContractType = "WXRPToken"
	ProxyContract      ContractType = "WXRPToken_Proxy"
	ProxyAdminContract ContractType = "WXRPToken_ProxyAdmin"
	AdapterContract    ContractType = topology.AdapterContractName
)

type TypeAndVersion struct {
	Type    ContractType   `json:"Type"`
	Version semver.Version `json:"Version"`
}

func (tv TypeAndVersion) String() string {
	return fmt.Sprintf("%s %s", tv.Type, tv.Version.String())
}

func (tv TypeAndVersion) Equal(other TypeAndVersion) bool {
	return tv.Type == other.Type && tv.Version.Equal(&other.Version)
}

func NewTypeAndVersion(t ContractType, v semver.Version) TypeAndVersion {
	return TypeAndVersion{Type: t, Version: v}
}

// TypeAndVersionFromString parses "<type> <version>".
func TypeAndVersionFromString(s string) (TypeAndVersion, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return TypeAndVersion{}, fmt.Errorf("invalid type and version string: %s", s)
	}
	v, err := semver.NewVersion(parts[1])
	if err != nil {
		return TypeAndVersion{}, err
	}

	return TypeAndVersion{Type: ContractType(parts[0]), Version: *v}, nil
}

// AddressBook stores contract addresses per endpoint. Addresses are stored in EIP55 format and
// every listing is sorted.
type AddressBook struct {
	// Use TreeMap to maintain sorted order automatically
	byEndpoint *treemap.Map // map[topology.EndpointID]*treemap.Map[string]TypeAndVersion
	mtx        sync.RWMutex
}

func endpointComparator(a, b any) int {
	return utils.UInt32Comparator(uint32(a.(topology.EndpointID)), uint32(b.(topology.EndpointID)))
}

// New returns an empty address book.
func New() *AddressBook {
	return &AddressBook{byEndpoint: treemap.NewWith(endpointComparator)}
}

// NewFromMap builds an address book from nested maps, validating every entry.
func NewFromMap(addresses map[topology.EndpointID]map[string]TypeAndVersion) (*AddressBook, error) {
	ab := New()
	for eid, contracts := range addresses {
		for address, tv := range contracts {
			if err := ab.save(eid, address, tv); err != nil {
				return nil, err
			}
		}
	}

	return ab, nil
}

func (ab *AddressBook) save(eid topology.EndpointID, address string, tv TypeAndVersion) error {
	if eid == 0 {
		return errors.New("endpoint id cannot be zero")
	}
	if !common.IsHexAddress(address) {
		return fmt.Errorf("address %q on endpoint %d: %w", address, eid, ErrInvalidAddress)
	}
	addr := common.HexToAddress(address)
	if addr == (common.Address{}) {
		return fmt.Errorf("address cannot be zero on endpoint %d: %w", eid, ErrInvalidAddress)
	}
	if tv.Type == "" {
		return errors.New("type cannot be empty")
	}

	contracts, exists := ab.byEndpoint.Get(eid)
	if !exists {
		contracts = treemap.NewWithStringComparator()
		ab.byEndpoint.Put(eid, contracts)
	}

	m := contracts.(*treemap.Map)
	if _, exists := m.Get(addr.Hex()); exists {
		return fmt.Errorf("address %s already exists for endpoint %d", addr.Hex(), eid)
	}
	m.Put(addr.Hex(), tv)

	return nil
}

// Save records a contract. It errors on an invalid or already recorded address.
func (ab *AddressBook) Save(eid topology.EndpointID, address string, tv TypeAndVersion) error {
	ab.mtx.Lock()
	defer ab.mtx.Unlock()

	return ab.save(eid, address, tv)
}

// Addresses returns every recorded contract by endpoint.
func (ab *AddressBook) Addresses() map[topology.EndpointID]map[string]TypeAndVersion {
	ab.mtx.RLock()
	defer ab.mtx.RUnlock()

	result := make(map[topology.EndpointID]map[string]TypeAndVersion, ab.byEndpoint.Size())
	it := ab.byEndpoint.Iterator()
	for it.Next() {
		result[it.Key().(topology.EndpointID)] = toMap(it.Value().(*treemap.Map))
	}

	return result
}

// AddressesForEndpoint returns the contracts recorded on one endpoint.
func (ab *AddressBook) AddressesForEndpoint(eid topology.EndpointID) (map[string]TypeAndVersion, error) {
	ab.mtx.RLock()
	defer ab.mtx.RUnlock()

	contracts, exists := ab.byEndpoint.Get(eid)
	if !exists {
		return nil, fmt.Errorf("endpoint %d: %w", eid, ErrEndpointNotFound)
	}

	return toMap(contracts.(*treemap.Map)), nil
}

// Endpoints returns the endpoints with at least one contract, in ascending order.
func (ab *AddressBook) Endpoints() []topology.EndpointID {
	ab.mtx.RLock()
	defer ab.mtx.RUnlock()

	out := make([]topology.EndpointID, 0, ab.byEndpoint.Size())
	for _, k := range ab.byEndpoint.Keys() {
		out = append(out, k.(topology.EndpointID))
	}

	return out
}

// Merge copies every contract of other into ab. It errors on an address both books record and
// leaves ab untouched in that case.
func (ab *AddressBook) Merge(other *AddressBook) error {
	addresses := other.Addresses()

	ab.mtx.Lock()
	defer ab.mtx.Unlock()

	for eid, contracts := range addresses {
		existing, ok := ab.byEndpoint.Get(eid)
		if !ok {
			continue
		}
		for address := range contracts {
			if _, dup := existing.(*treemap.Map).Get(address); dup {
				return fmt.Errorf("address %s already exists for endpoint %d", address, eid)
			}
		}
	}
	for eid, contracts := range addresses {
		for address, tv := range contracts {
			if err := ab.save(eid, address, tv); err != nil {
				return err
			}
		}
	}

	return nil
}

// Search returns the single address of a contract type on an endpoint.
func (ab *AddressBook) Search(eid topology.EndpointID, typ ContractType) (common.Address, error) {
	contracts, err := ab.AddressesForEndpoint(eid)
	if err != nil {
		return common.Address{}, err
	}

	var found []string
	for address, tv := range contracts {
		if tv.Type == typ {
			found = append(found, address)
		}
	}

	switch len(found) {
	case 0:
		return common.Address{}, fmt.Errorf("%s on endpoint %d: %w", typ, eid, ErrContractNotFound)
	case 1:
		return common.HexToAddress(found[0]), nil
	default:
		return common.Address{}, fmt.Errorf("%s on endpoint %d at %s: %w",
			typ, eid, strings.Join(found, ", "), ErrAmbiguousContract)
	}
}

// MarshalJSON encodes the book as {"<eid>": {"<address>": {"Type": ..., "Version": ...}}}.
func (ab *AddressBook) MarshalJSON() ([]byte, error) {
	return json.Marshal(ab.Addresses())
}

// UnmarshalJSON replaces the book's content, validating every entry.
func (ab *AddressBook) UnmarshalJSON(data []byte) error {
	var raw map[topology.EndpointID]map[string]TypeAndVersion
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	loaded, err := NewFromMap(raw)
	if err != nil {
		return err
	}

	ab.mtx.Lock()
	defer ab.mtx.Unlock()
	ab.byEndpoint = loaded.byEndpoint

	return nil
}

// Load reads an address book from a JSON file.
func Load(path string) (*AddressBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read address book %s: %w", path, err)
	}

	ab := New()
	if err := json.Unmarshal(data, ab); err != nil {
		return nil, fmt.Errorf("failed to parse address book %s: %w", path, err)
	}

	return ab, nil
}

// Write stores the address book as indented JSON.
func (ab *AddressBook) Write(path string) error {
	data, err := json.MarshalIndent(ab, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func toMap(m *treemap.Map) map[string]TypeAndVersion {
	out := make(map[string]TypeAndVersion, m.Size())
	it := m.Iterator()
	for it.Next() {
		out[it.Key().(string)] = it.Value().(TypeAndVersion)
	}

	return out
}
