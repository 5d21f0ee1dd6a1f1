package topology

import "slices"

// SecurityStackConfig is the validator and confirmation configuration of one path direction.
type SecurityStackConfig struct {
	Confirmations      uint64   `json:"confirmations" yaml:"confirmations"`
	RequiredValidators []string `json:"requiredDVNs" yaml:"required_dvns"`
	OptionalValidators []string `json:"optionalDVNs" yaml:"optional_dvns"`
	OptionalThreshold  uint8    `json:"optionalDVNThreshold" yaml:"optional_dvn_threshold"`
}

// ConnectionEdge is the configuration of messages flowing From -> To.
type ConnectionEdge struct {
	From Contract `json:"from" yaml:"from"`
	To   Contract `json:"to" yaml:"to"`
	// EnforcedOptions are the destination's options.
	EnforcedOptions []EnforcedOption    `json:"enforcedOptions" yaml:"enforced_options"`
	EncodedOptions  []EncodedOption     `json:"encodedOptions" yaml:"encoded_options"`
	Send            SecurityStackConfig `json:"sendConfig" yaml:"send_config"`
	Receive         SecurityStackConfig `json:"receiveConfig" yaml:"receive_config"`
}

// ContractConfig is the per-contract part of the generated document.
type ContractConfig struct {
	Contract Contract `json:"contract" yaml:"contract"`
	Owner    string   `json:"owner" yaml:"owner"`
	Delegate string   `json:"delegate" yaml:"delegate"`
}

// Document is the full declarative topology artifact.
type Document struct {
	Profile     string           `json:"profile" yaml:"profile"`
	Contracts   []ContractConfig `json:"contracts" yaml:"contracts"`
	Connections []ConnectionEdge `json:"connections" yaml:"connections"`
}

type endpointFacts struct {
	options []EnforcedOption
	encoded []EncodedOption
}

// GenerateConnections returns one edge for every ordered pair of distinct contracts: N*(N-1) edges,
// outer loop over sources and inner loop over destinations. Any configuration problem fails the
// whole generation.
//
// The receive configuration of A -> B uses the destination's confirmation depth with the source's
// validator sets.
func GenerateConnections(reg *Registry, contracts []Contract) ([]ConnectionEdge, error) {
	if err := checkContracts(reg, contracts); err != nil {
		return nil, err
	}

	facts := make(map[EndpointID]endpointFacts, len(contracts))
	for _, c := range contracts {
		opts, err := reg.EnforcedOptions(c.Endpoint)
		if err != nil {
			return nil, err
		}
		encoded, err := EncodeOptions(opts.Value)
		if err != nil {
			return nil, configErr(c.Endpoint, "enforced_options", "%v", err)
		}
		facts[c.Endpoint] = endpointFacts{options: opts.Value, encoded: encoded}
	}

	edges := make([]ConnectionEdge, 0, len(contracts)*(len(contracts)-1))
	for i, from := range contracts {
		for j, to := range contracts {
			if i == j {
				continue
			}

			send, err := reg.SecurityStack(from.Endpoint, from.Endpoint)
			if err != nil {
				return nil, err
			}
			receive, err := reg.SecurityStack(from.Endpoint, to.Endpoint)
			if err != nil {
				return nil, err
			}

			dst := facts[to.Endpoint]
			edges = append(edges, ConnectionEdge{
				From:            from,
				To:              to,
				EnforcedOptions: slices.Clone(dst.options),
				EncodedOptions:  cloneEncoded(dst.encoded),
				Send:            send,
				Receive:         receive,
			})
		}
	}

	return edges, nil
}

// GenerateDocument produces the contract ownership section and the connection matrix. The
// delegate of each contract is its owner.
func GenerateDocument(reg *Registry, contracts []Contract) (Document, error) {
	if err := checkContracts(reg, contracts); err != nil {
		return Document{}, err
	}

	doc := Document{Profile: reg.Name(), Contracts: make([]ContractConfig, 0, len(contracts))}
	for _, c := range contracts {
		owner, err := reg.OwnerAddress(c.Endpoint)
		if err != nil {
			return Document{}, err
		}
		doc.Contracts = append(doc.Contracts, ContractConfig{Contract: c, Owner: owner, Delegate: owner})
	}

	edges, err := GenerateConnections(reg, contracts)
	if err != nil {
		return Document{}, err
	}
	doc.Connections = edges

	return doc, nil
}

func checkContracts(reg *Registry, contracts []Contract) error {
	seen := make(map[EndpointID]struct{}, len(contracts))
	for _, c := range contracts {
		if _, err := reg.Endpoint(c.Endpoint); err != nil {
			return err
		}
		if c.ContractName == "" {
			return configErr(c.Endpoint, "contracts", "contract name is empty")
		}
		if _, dup := seen[c.Endpoint]; dup {
			return configErr(c.Endpoint, "contracts", "endpoint listed more than once")
		}
		seen[c.Endpoint] = struct{}{}
	}

	return nil
}

func cloneEncoded(opts []EncodedOption) []EncodedOption {
	if opts == nil {
		return nil
	}
	out := make([]EncodedOption, len(opts))
	for i, o := range opts {
		out[i] = EncodedOption{MsgType: o.MsgType, Options: slices.Clone(o.Options)}
	}

	return out
}
