package registry_dto

// NetworkTypeRaw defines the network classification as written in the endpoint table.
type NetworkTypeRaw string

// Constants for known network types from raw data.
const (
	NetworkMainnetRaw NetworkTypeRaw = "mainnet"
	NetworkTestnetRaw NetworkTypeRaw = "testnet"
)

// DocumentRaw is the top level of the endpoint table.
type DocumentRaw struct {
	Profiles []ProfileRaw `yaml:"profiles"`
}

// ProfileRaw lists the endpoints of one network.
type ProfileRaw struct {
	Network   NetworkTypeRaw `yaml:"network"`
	Endpoints []EndpointRaw  `yaml:"endpoints"`
}

// EndpointRaw is a single endpoint entry as written in the table.
type EndpointRaw struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}
