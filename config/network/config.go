package network

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/wxrp-bridge/omnichain-deployments/topology"
)

// Manifest is the YAML representation of network configuration.
type Manifest struct {
	// A YAML array of networks.
	Networks []Network `yaml:"networks"`
}

// Config represents the configuration of a collection of networks. This is loaded from the YAML
// manifest file/s.
type Config struct {
	// networks is keyed by endpoint id so that every endpoint is configured at most once.
	networks map[topology.EndpointID]Network
}

// NewConfig creates a new config from a slice of networks. Any duplicate endpoint ids will be
// overwritten.
func NewConfig(networks []Network) *Config {
	nmap := make(map[topology.EndpointID]Network)

	for _, network := range networks {
		nmap[network.EID] = network
	}

	return &Config{
		networks: nmap,
	}
}

// Validate ensures that all networks are valid.
func (c *Config) Validate() error {
	for _, network := range c.Networks() {
		if err := network.Validate(); err != nil {
			return fmt.Errorf("network %d: %w", network.EID, err)
		}
	}

	return nil
}

// Networks returns all networks in the config ordered by endpoint id.
func (c *Config) Networks() []Network {
	networks := make([]Network, 0, len(c.networks))
	for _, eid := range c.EndpointIDs() {
		networks = append(networks, c.networks[eid])
	}

	return networks
}

// NetworkByEndpoint retrieves a network by its endpoint id. If the network is not found, an
// error is returned.
func (c *Config) NetworkByEndpoint(eid topology.EndpointID) (Network, error) {
	network, ok := c.networks[eid]
	if !ok {
		return Network{}, fmt.Errorf("network with endpoint id %d not found in configuration", eid)
	}

	return network, nil
}

// EndpointIDs returns the sorted endpoint ids of the Config.
func (c *Config) EndpointIDs() []topology.EndpointID {
	ids := make([]topology.EndpointID, 0, len(c.networks))
	for id := range c.networks {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// Endpoints returns the topology endpoints of every network, ordered by endpoint id.
func (c *Config) Endpoints() []topology.Endpoint {
	endpoints := make([]topology.Endpoint, 0, len(c.networks))
	for _, n := range c.Networks() {
		endpoints = append(endpoints, n.Endpoint())
	}

	return endpoints
}

// Merge merges another config into the current config.
// It overwrites any networks with the same endpoint id.
func (c *Config) Merge(other *Config) {
	maps.Copy(c.networks, other.networks)
}

// MarshalYAML implements the yaml.Marshaler interface for the Config struct.
// It converts the internal map structure to a YAML format with a top-level "networks" key.
func (c *Config) MarshalYAML() (any, error) {
	node := Manifest{
		Networks: c.Networks(),
	}

	return node, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for the Config struct.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	node := Manifest{}

	if err := value.Decode(&node); err != nil {
		return err
	}

	*c = *NewConfig(node.Networks)

	return nil
}

// NetworkFilter defines a function type that filters networks based on certain criteria.
type NetworkFilter func(Network) bool

// FilterWith returns a new Config containing only Networks that pass all provided filter functions.
func (c *Config) FilterWith(filters ...NetworkFilter) *Config {
	networks := c.Networks()

	for _, filter := range filters {
		networks = slices.DeleteFunc(networks, func(network Network) bool {
			return !filter(network)
		})
	}

	return NewConfig(networks)
}

// TypesFilter returns a filter function that matches networks with the specified network types.
func TypesFilter(networkTypes ...NetworkType) NetworkFilter {
	return func(network Network) bool {
		return slices.Contains(networkTypes, network.Type)
	}
}

// EndpointFilter returns a filter function that matches networks with any of the endpoint ids.
func EndpointFilter(eids ...topology.EndpointID) NetworkFilter {
	return func(network Network) bool {
		return slices.Contains(eids, network.EID)
	}
}

// transformHTTPURLs transforms the HTTP URLs of the networks in the config.
func (c *Config) transformHTTPURLs(transform URLTransformer) {
	for k, n := range c.networks {
		rpcs := make([]RPC, len(n.RPCs))
		for i, rpc := range n.RPCs {
			rpc.HTTPURL = transform(rpc.HTTPURL)
			rpcs[i] = rpc
		}
		n.RPCs = rpcs

		c.networks[k] = n
	}
}

// Load loads configuration from the specified file paths, and merges them into a single Config.
// With no paths the built-in networks are returned.
func Load(filePaths []string, opts ...LoadOption) (*Config, error) {
	loadCfg := &loadConfig{}
	for _, opt := range opts {
		opt(loadCfg)
	}

	cfg := NewConfig([]Network{})
	if len(filePaths) == 0 {
		cfg = Defaults()
	}

	for _, fp := range filePaths {
		data, err := os.ReadFile(fp)
		if err != nil {
			return nil, fmt.Errorf("failed to read networks file: %w", err)
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal networks YAML: %w", err)
		}

		cfg.Merge(&fileCfg)
	}

	if loadCfg.HTTPURLTransformer != nil {
		cfg.transformHTTPURLs(loadCfg.HTTPURLTransformer)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate networks configuration: %w", err)
	}

	return cfg, nil
}

// LoadOption defines a function which modifies the load configuration.
type LoadOption func(*loadConfig)

// loadConfig holds the configuration for loading the config.
type loadConfig struct {
	HTTPURLTransformer URLTransformer
}

// URLTransformer is a function that transforms a URL.
type URLTransformer func(string) string

// WithHTTPURLTransformer transforms the HTTP URLs of the networks RPCs after loading.
func WithHTTPURLTransformer(t URLTransformer) LoadOption {
	return func(opts *loadConfig) {
		opts.HTTPURLTransformer = t
	}
}
