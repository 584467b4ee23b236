package entities

import (
	"fmt"
	"strings"
)

// Implementation is the lightning daemon software a node runs
type Implementation int

// Implementation values
const (
	UnknownImplementation Implementation = iota
	LND
	CLightning
	Sensei
)

var implementationNames = map[Implementation]string{
	LND:        "LND",
	CLightning: "c-lightning",
	Sensei:     "sensei",
}

// Implementations returns all known implementation kinds
func Implementations() []Implementation {
	return []Implementation{LND, CLightning, Sensei}
}

func (i Implementation) String() string {
	if name, ok := implementationNames[i]; ok {
		return name
	}

	return fmt.Sprintf("unknown(%d)", int(i))
}

// ParseImplementation converts the textual name (case insensitive) to Implementation
func ParseImplementation(s string) (Implementation, error) {
	for k, v := range implementationNames {
		if strings.EqualFold(v, s) {
			return k, nil
		}
	}

	return UnknownImplementation, fmt.Errorf("unknown implementation %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (i Implementation) MarshalText() ([]byte, error) {
	if _, ok := implementationNames[i]; !ok {
		return nil, fmt.Errorf("unknown implementation %d", int(i))
	}
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (i *Implementation) UnmarshalText(text []byte) error {
	v, err := ParseImplementation(string(text))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// Status is the lifecycle status of a node process
type Status int

// Status values
const (
	Stopped Status = iota
	Starting
	Started
	Error
)

var statusNames = map[Status]string{
	Stopped:  "Stopped",
	Starting: "Starting",
	Started:  "Started",
	Error:    "Error",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("unknown(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(text []byte) error {
	for k, v := range statusNames {
		if strings.EqualFold(v, string(text)) {
			*s = k
			return nil
		}
	}

	return fmt.Errorf("unknown status %q", string(text))
}

// Ports of a node exposed on the host
type Ports struct {
	REST int `json:"rest,omitempty"`
	GRPC int `json:"grpc,omitempty"`
	P2P  int `json:"p2p,omitempty"`
}

// Credentials is the (read-only) authentication material of a node
type Credentials struct {
	Macaroon []byte
	TLSCert  []byte
	Token    string
}

// NodeDescriptor identifies a running node. It is owned by the orchestration layer and never mutated by the lightning package.
type NodeDescriptor struct {
	Name           string
	Implementation Implementation
	Status         Status
	// Network is the bitcoin network name (mainnet, testnet, regtest, simnet, signet)
	Network     string
	Host        string
	Ports       Ports
	Credentials Credentials
}

// RESTHost returns host:port of the REST endpoint
func (n *NodeDescriptor) RESTHost() string {
	host := n.Host
	if host == "" {
		host = "127.0.0.1"
	}

	return fmt.Sprintf("%s:%d", host, n.Ports.REST)
}

// GetNetwork returns the bitcoin network, regtest when not set
func (n *NodeDescriptor) GetNetwork() string {
	if n.Network == "" {
		return "regtest"
	}
	return n.Network
}
