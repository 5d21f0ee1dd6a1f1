package topology

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ownerPlaceholder is the literal left in profile files for owners that are not decided yet.
const ownerPlaceholder = "TODO"

// Source tags where a looked up value came from.
type Source string

const (
	SourceOverride Source = "override"
	SourceDefault  Source = "default"
)

// Lookup is the result of a two-tier lookup: an endpoint specific override or the profile set
// default.
type Lookup[T any] struct {
	Value  T
	Source Source
}

// Registry answers static per-endpoint questions about a profile set. It is read only and safe
// for concurrent use once constructed.
type Registry struct {
	name                   string
	threshold              uint8
	defaultConfirmations   *uint64
	defaultEnforcedOptions []EnforcedOption
	order                  []EndpointID
	profiles               map[EndpointID]ChainProfile
	pool                   ValidatorPool
}

// NewRegistry indexes the profile set. It rejects duplicate or zero endpoint ids and validator
// references to undeclared endpoints; everything else is checked lazily by the lookups.
func NewRegistry(set ProfileSet) (*Registry, error) {
	r := &Registry{
		name:                   set.Name,
		threshold:              set.OptionalThreshold,
		defaultConfirmations:   set.DefaultConfirmations,
		defaultEnforcedOptions: set.DefaultEnforcedOptions,
		profiles:               make(map[EndpointID]ChainProfile, len(set.Endpoints)),
		pool:                   set.Validators,
	}

	for _, p := range set.Endpoints {
		if p.ID == 0 {
			return nil, configErr(0, "endpoints", "endpoint %q has no id", p.Name)
		}
		if _, dup := r.profiles[p.ID]; dup {
			return nil, configErr(p.ID, "endpoints", "declared more than once")
		}
		r.profiles[p.ID] = p
		r.order = append(r.order, p.ID)
	}

	for _, c := range set.Validators {
		if strings.TrimSpace(c.Name) == "" {
			return nil, configErr(0, "validators", "validator candidate without a name")
		}
		for _, a := range c.Addresses {
			if _, ok := r.profiles[a.Endpoint]; !ok {
				return nil, configErr(a.Endpoint, "validators", "candidate %s references an undeclared endpoint", c.Name)
			}
		}
	}

	return r, nil
}

// Name returns the profile set name.
func (r *Registry) Name() string { return r.name }

// OptionalThreshold returns the threshold applied to every endpoint's optional validator set.
func (r *Registry) OptionalThreshold() uint8 { return r.threshold }

// Endpoints returns the declared endpoints in declaration order.
func (r *Registry) Endpoints() []Endpoint {
	out := make([]Endpoint, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.profiles[id].Endpoint)
	}

	return out
}

// Endpoint returns the endpoint declared under id.
func (r *Registry) Endpoint(id EndpointID) (Endpoint, error) {
	p, err := r.profile(id)
	if err != nil {
		return Endpoint{}, err
	}

	return p.Endpoint, nil
}

func (r *Registry) profile(id EndpointID) (ChainProfile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return ChainProfile{}, configErr(id, "endpoint", "not declared in profile set %q", r.name)
	}

	return p, nil
}

// RequiredValidators returns the validators that must all attest messages sent from id.
func (r *Registry) RequiredValidators(id EndpointID) ([]string, error) {
	p, err := r.profile(id)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(p.RequiredValidators))
	for _, v := range p.RequiredValidators {
		addr := strings.TrimSpace(v)
		if !common.IsHexAddress(addr) {
			return nil, configErr(id, "required_validators", "malformed address %q", v)
		}
		out = append(out, addr)
	}

	return out, nil
}

// OptionalValidators returns the address of every pool candidate present on id, in pool order.
// Candidates without an address on id are skipped.
func (r *Registry) OptionalValidators(id EndpointID) ([]string, error) {
	if _, err := r.profile(id); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(r.pool))
	out := make([]string, 0, len(r.pool))
	for _, c := range r.pool {
		addr := c.AddressOn(id)
		if addr == "" {
			continue
		}
		if !common.IsHexAddress(addr) {
			return nil, configErr(id, "validators", "candidate %s has malformed address %q", c.Name, addr)
		}
		key := strings.ToLower(addr)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, addr)
	}

	return out, nil
}

// Confirmations returns the block confirmation depth of id. It fails when neither an override
// nor a profile set default is configured.
func (r *Registry) Confirmations(id EndpointID) (Lookup[uint64], error) {
	p, err := r.profile(id)
	if err != nil {
		return Lookup[uint64]{}, err
	}

	switch {
	case p.Confirmations != nil:
		return Lookup[uint64]{Value: *p.Confirmations, Source: SourceOverride}, nil
	case r.defaultConfirmations != nil:
		return Lookup[uint64]{Value: *r.defaultConfirmations, Source: SourceDefault}, nil
	default:
		return Lookup[uint64]{}, configErr(id, "confirmations", "no override and no profile set default")
	}
}

// EnforcedOptions returns the enforced execution options of id. An endpoint override replaces the
// default list entirely. The returned slice is a copy.
func (r *Registry) EnforcedOptions(id EndpointID) (Lookup[[]EnforcedOption], error) {
	p, err := r.profile(id)
	if err != nil {
		return Lookup[[]EnforcedOption]{}, err
	}

	res := Lookup[[]EnforcedOption]{Value: p.EnforcedOptions, Source: SourceOverride}
	if p.EnforcedOptions == nil {
		if r.defaultEnforcedOptions == nil {
			return Lookup[[]EnforcedOption]{}, configErr(id, "enforced_options", "no override and no profile set default")
		}
		res = Lookup[[]EnforcedOption]{Value: r.defaultEnforcedOptions, Source: SourceDefault}
	}

	for _, opt := range res.Value {
		if err := validateOption(opt); err != nil {
			return Lookup[[]EnforcedOption]{}, configErr(id, "enforced_options", "msg type %d: %v", opt.MsgType, err)
		}
	}
	res.Value = append([]EnforcedOption(nil), res.Value...)

	return res, nil
}

// OwnerAddress returns the final controller address of id's contracts exactly as configured. It
// fails for an empty value, the placeholder, the zero address and anything that is not a hex
// address.
func (r *Registry) OwnerAddress(id EndpointID) (string, error) {
	p, err := r.profile(id)
	if err != nil {
		return "", err
	}

	return p.Owner, checkOwner(id, p.Owner)
}

func checkOwner(id EndpointID, owner string) error {
	trimmed := strings.TrimSpace(owner)
	switch {
	case trimmed == "":
		return configErr(id, "owner", "not set")
	case strings.EqualFold(trimmed, ownerPlaceholder):
		return configErr(id, "owner", "placeholder %q must be replaced", trimmed)
	case !common.IsHexAddress(trimmed):
		return configErr(id, "owner", "malformed address %q", owner)
	case common.HexToAddress(trimmed) == (common.Address{}):
		return configErr(id, "owner", "zero address")
	}

	return nil
}

// SecurityStack composes the security configuration that uses the validator sets of
// validatorsFrom and the confirmation depth of confirmationsFrom.
func (r *Registry) SecurityStack(validatorsFrom, confirmationsFrom EndpointID) (SecurityStackConfig, error) {
	required, err := r.RequiredValidators(validatorsFrom)
	if err != nil {
		return SecurityStackConfig{}, err
	}
	optional, err := r.OptionalValidators(validatorsFrom)
	if err != nil {
		return SecurityStackConfig{}, err
	}
	confs, err := r.Confirmations(confirmationsFrom)
	if err != nil {
		return SecurityStackConfig{}, err
	}

	if int(r.threshold) > len(optional) {
		return SecurityStackConfig{}, configErr(validatorsFrom, "optional_threshold",
			"threshold %d exceeds the %d optional validators available", r.threshold, len(optional))
	}
	if len(required) == 0 && r.threshold == 0 {
		return SecurityStackConfig{}, configErr(validatorsFrom, "validators",
			"no required validators and an optional threshold of 0 leaves messages unverified")
	}

	return SecurityStackConfig{
		Confirmations:      confs.Value,
		RequiredValidators: required,
		OptionalValidators: optional,
		OptionalThreshold:  r.threshold,
	}, nil
}

func validateOption(opt EnforcedOption) error {
	switch opt.OptionType {
	case OptionTypeLzReceive, OptionTypeCompose:
		if opt.Gas == 0 {
			return fmt.Errorf("%s option requires a non-zero gas limit", opt.OptionType)
		}
	case OptionTypeOrdered:
	case OptionTypeNativeDrop:
		return fmt.Errorf("%s cannot be enforced", opt.OptionType)
	default:
		return fmt.Errorf("unknown option type %d", uint8(opt.OptionType))
	}

	return nil
}
