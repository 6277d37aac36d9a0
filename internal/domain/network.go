package domain

// SystemNetworks are created by the daemon and can never be removed.
var SystemNetworks = []string{"bridge", "host", "none"}

type NetworkSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Driver string `json:"driver"`
	Scope  string `json:"scope,omitempty"`
}

type NetworkContainerRef struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	IPv4Address *string `json:"ipv4_address"`
}

type NetworkDetail struct {
	NetworkSummary
	Labels     map[string]string     `json:"labels"`
	Containers []NetworkContainerRef `json:"containers"`
}

type NetworkCreateRequest struct {
	Name       string `json:"name"`
	Driver     string `json:"driver"`
	Internal   *bool  `json:"internal,omitempty"`
	Attachable *bool  `json:"attachable,omitempty"`
}
