package topology

import (
	"fmt"
	"strings"
)

// ExecutorOptionType identifies an executor option as understood by the destination executor.
type ExecutorOptionType uint8

const (
	OptionTypeLzReceive  ExecutorOptionType = 1
	OptionTypeNativeDrop ExecutorOptionType = 2
	OptionTypeCompose    ExecutorOptionType = 3
	OptionTypeOrdered    ExecutorOptionType = 4
)

var optionTypeNames = map[ExecutorOptionType]string{
	OptionTypeLzReceive:  "LZ_RECEIVE",
	OptionTypeNativeDrop: "NATIVE_DROP",
	OptionTypeCompose:    "COMPOSE",
	OptionTypeOrdered:    "ORDERED",
}

func (t ExecutorOptionType) String() string {
	if name, ok := optionTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t ExecutorOptionType) MarshalText() ([]byte, error) {
	if _, ok := optionTypeNames[t]; !ok {
		return nil, fmt.Errorf("unknown executor option type %d", uint8(t))
	}

	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ExecutorOptionType) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	for k, v := range optionTypeNames {
		if v == name {
			*t = k
			return nil
		}
	}

	return fmt.Errorf("unknown executor option type %q", string(text))
}

// EnforcedOption is a destination-side minimum execution parameter applied to one message type.
type EnforcedOption struct {
	MsgType    uint16             `json:"msgType" yaml:"msg_type" toml:"msg_type"`
	OptionType ExecutorOptionType `json:"optionType" yaml:"option_type" toml:"option_type"`
	Gas        uint64             `json:"gas" yaml:"gas" toml:"gas"`
	Value      uint64             `json:"value" yaml:"value" toml:"value"`
	// Index is the compose index, only meaningful for COMPOSE options.
	Index uint16 `json:"index,omitempty" yaml:"index,omitempty" toml:"index,omitempty"`
}

// ValidatorAddress is the address of a validator candidate on one endpoint.
type ValidatorAddress struct {
	Endpoint EndpointID `json:"eid" yaml:"eid" toml:"eid"`
	Address  string     `json:"address" yaml:"address" toml:"address"`
}

// ValidatorCandidate is a named validator that may attest messages on some endpoints.
type ValidatorCandidate struct {
	Name      string             `json:"name" yaml:"name" toml:"name"`
	Addresses []ValidatorAddress `json:"addresses" yaml:"addresses" toml:"addresses"`
}

// AddressOn returns the candidate's address on eid, or "" if it has none.
func (c ValidatorCandidate) AddressOn(eid EndpointID) string {
	for _, a := range c.Addresses {
		if a.Endpoint == eid {
			return strings.TrimSpace(a.Address)
		}
	}

	return ""
}

// ValidatorPool is the ordered collection of validator candidates of a profile set. Iteration
// order is the declaration order.
type ValidatorPool []ValidatorCandidate

// ChainProfile is the per-endpoint configuration record.
type ChainProfile struct {
	Endpoint `yaml:",inline"`
	// Confirmations is the block confirmation depth; nil falls back to the profile set default.
	Confirmations *uint64 `json:"confirmations,omitempty" yaml:"confirmations,omitempty" toml:"confirmations,omitempty"`
	// EnforcedOptions overrides the profile set default when non-nil.
	EnforcedOptions []EnforcedOption `json:"enforcedOptions,omitempty" yaml:"enforced_options,omitempty" toml:"enforced_options,omitempty"`
	// RequiredValidators must all attest a message.
	RequiredValidators []string `json:"requiredValidators,omitempty" yaml:"required_validators,omitempty" toml:"required_validators,omitempty"`
	// Owner is the final controller address of the endpoint's contracts.
	Owner string `json:"owner" yaml:"owner" toml:"owner"`
}

// ProfileSet is the static configuration input of the registry. It is loaded from a file or
// taken from one of the built-in presets.
type ProfileSet struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	// OptionalThreshold applies uniformly to every endpoint's optional validator set.
	OptionalThreshold uint8 `json:"optionalThreshold" yaml:"optional_threshold" toml:"optional_threshold"`
	// DefaultConfirmations is used for endpoints without a confirmation override. When nil, an
	// endpoint without an override is a configuration error.
	DefaultConfirmations   *uint64          `json:"defaultConfirmations,omitempty" yaml:"default_confirmations,omitempty" toml:"default_confirmations,omitempty"`
	DefaultEnforcedOptions []EnforcedOption `json:"defaultEnforcedOptions" yaml:"default_enforced_options" toml:"default_enforced_options"`
	Endpoints              []ChainProfile   `json:"endpoints" yaml:"endpoints" toml:"endpoints"`
	Validators             ValidatorPool    `json:"validators" yaml:"validators" toml:"validators"`
	// Contracts is the ordered list of application contracts the matrix is generated for.
	Contracts []Contract `json:"contracts,omitempty" yaml:"contracts,omitempty" toml:"contracts,omitempty"`
}

func ptr[T any](v T) *T { return &v }
