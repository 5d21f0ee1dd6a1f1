package topology

// AdapterContractName is the application contract deployed on every endpoint.
const AdapterContractName = "WXRPMintBurnOFTAdapter"

// Message types of the adapter.
const (
	MsgTypeSend        uint16 = 1
	MsgTypeSendAndCall uint16 = 2
)

// TestnetProfiles returns the Sepolia <-> HyperEVM testnet profile set.
func TestnetProfiles() ProfileSet {
	return ProfileSet{
		Name:              "testnet",
		OptionalThreshold: 2,
		DefaultEnforcedOptions: []EnforcedOption{
			{MsgType: MsgTypeSend, OptionType: OptionTypeLzReceive, Gas: 120_000},
		},
		Endpoints: []ChainProfile{
			{
				Endpoint:      Endpoint{ID: EndpointSepoliaTestnet, Name: "sepolia-testnet", ChainID: 11155111},
				Confirmations: ptr[uint64](2),
				Owner:         "0xa4B4c951E9Fae331c65700C9BB6A21c236fcF165",
			},
			{
				Endpoint:      Endpoint{ID: EndpointHyperliquidTestnet, Name: "hyperliquid-testnet", ChainID: 998},
				Confirmations: ptr[uint64](1),
				Owner:         "0xa4B4c951E9Fae331c65700C9BB6A21c236fcF165",
			},
		},
		Validators: ValidatorPool{
			{Name: "LAYERZERO_LABS", Addresses: []ValidatorAddress{
				{Endpoint: EndpointSepoliaTestnet, Address: "0x8eebf8b423b73bfca51a1db4b7354aa0bfca9193"},
				{Endpoint: EndpointHyperliquidTestnet, Address: "0x91e698871030d0e1b6c9268c20bb57e2720618dd"},
			}},
			{Name: "MANTLE01", Addresses: []ValidatorAddress{
				{Endpoint: EndpointSepoliaTestnet, Address: "0x6943872cfc48f6b18f8b81d57816733d4545eca3"},
				{Endpoint: EndpointHyperliquidTestnet, Address: "0x003bd8adc7ba8a7353b950541904b61011e38dae"},
			}},
			{Name: "P2P", Addresses: []ValidatorAddress{
				{Endpoint: EndpointSepoliaTestnet, Address: "0x9efba56c8598853e5b40fd9a66b54a6c163742d7"},
				{Endpoint: EndpointHyperliquidTestnet, Address: "0x4c90f152707c6eab6cd801e326d25b0591e449a2"},
			}},
		},
		Contracts: []Contract{
			{Endpoint: EndpointSepoliaTestnet, ContractName: AdapterContractName},
			{Endpoint: EndpointHyperliquidTestnet, ContractName: AdapterContractName},
		},
	}
}

// MainnetProfiles returns the Ethereum <-> HyperEVM mainnet profile set.
func MainnetProfiles() ProfileSet {
	return ProfileSet{
		Name:              "mainnet",
		OptionalThreshold: 2,
		DefaultEnforcedOptions: []EnforcedOption{
			{MsgType: MsgTypeSend, OptionType: OptionTypeLzReceive, Gas: 100_000},
			{MsgType: MsgTypeSendAndCall, OptionType: OptionTypeLzReceive, Gas: 100_000},
		},
		Endpoints: []ChainProfile{
			{
				Endpoint:      Endpoint{ID: EndpointEthereumMainnet, Name: "ethereum-mainnet", ChainID: 1},
				Confirmations: ptr[uint64](15),
				Owner:         "0xfA633B67b1d9371eBa32cf3476F275D75C75ce77",
			},
			{
				Endpoint:      Endpoint{ID: EndpointHyperliquidMainnet, Name: "hyperliquid-mainnet", ChainID: 999},
				Confirmations: ptr[uint64](1),
				Owner:         "0xfA633B67b1d9371eBa32cf3476F275D75C75ce77",
			},
		},
		Validators: ValidatorPool{
			{Name: "CANARY", Addresses: []ValidatorAddress{
				{Endpoint: EndpointEthereumMainnet, Address: "0xa4fe5a5b9a846458a70cd0748228aed3bf65c2cd"},
				{Endpoint: EndpointHyperliquidMainnet, Address: "0x83342ec538df0460e730a8f543fe63063e2d44c4"},
			}},
			{Name: "DEUTSCHE_TELEKOM", Addresses: []ValidatorAddress{
				{Endpoint: EndpointEthereumMainnet, Address: "0x373a6e5c0c4e89e24819f00aa37ea370917aaff4"},
				{Endpoint: EndpointHyperliquidMainnet, Address: "0x32ffd21260172518a8844fec76a88c8f239c384b"},
			}},
			{Name: "LUGANODES", Addresses: []ValidatorAddress{
				{Endpoint: EndpointEthereumMainnet, Address: "0x58249a2ec05c1978bf21df1f5ec1847e42455cf4"},
				{Endpoint: EndpointHyperliquidMainnet, Address: "0x9e451905f65ef78d62b93dac3513486da8429d0a"},
			}},
			{Name: "P2P", Addresses: []ValidatorAddress{
				{Endpoint: EndpointEthereumMainnet, Address: "0x06559ee34d85a88317bf0bfe307444116c631b67"},
				{Endpoint: EndpointHyperliquidMainnet, Address: "0xc7423626016bc40375458bc0277f28681ec91c8e"},
			}},
		},
		Contracts: []Contract{
			{Endpoint: EndpointEthereumMainnet, ContractName: AdapterContractName},
			{Endpoint: EndpointHyperliquidMainnet, ContractName: AdapterContractName},
		},
	}
}

// Preset returns the built-in profile set with the given name.
func Preset(name string) (ProfileSet, bool) {
	switch name {
	case "testnet":
		return TestnetProfiles(), true
	case "mainnet":
		return MainnetProfiles(), true
	default:
		return ProfileSet{}, false
	}
}
