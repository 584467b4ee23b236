// Package network loads the description of locally running lightning nodes
package network

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bolt-observer/nodectl/entities"
	utils "github.com/bolt-observer/go_common/utils"
)

// Network is a set of nodes described by one network file
type Network struct {
	Name  string
	Nodes []*entities.NodeDescriptor
}

type filePaths struct {
	Macaroon string `json:"macaroon,omitempty"`
	TLSCert  string `json:"tlsCert,omitempty"`
}

type fileNode struct {
	Name           string                  `json:"name"`
	Implementation entities.Implementation `json:"implementation"`
	Status         entities.Status         `json:"status"`
	Network        string                  `json:"network,omitempty"`
	Host           string                  `json:"host,omitempty"`
	Ports          entities.Ports          `json:"ports"`
	Paths          filePaths               `json:"paths"`
	MacaroonHex    string                  `json:"macaroonHex,omitempty"`
	TLSCertBase64  string                  `json:"tlsCertBase64,omitempty"`
	Token          string                  `json:"token,omitempty"`
}

type file struct {
	Name  string     `json:"name"`
	Nodes []fileNode `json:"nodes"`
}

// Load reads the network file, relative credential paths are resolved against its directory
func Load(path string) (*Network, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read network file: %w", err)
	}

	return Parse(content, filepath.Dir(path))
}

// Parse parses network file content, baseDir is used to resolve relative credential paths
func Parse(content []byte, baseDir string) (*Network, error) {
	var f file

	if err := json.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("parse network file: %w", err)
	}

	ret := &Network{Name: f.Name, Nodes: make([]*entities.NodeDescriptor, 0, len(f.Nodes))}
	seen := make(map[string]struct{})

	for _, n := range f.Nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("node without name")
		}
		if _, ok := seen[n.Name]; ok {
			return nil, fmt.Errorf("duplicate node %s", n.Name)
		}
		seen[n.Name] = struct{}{}

		if n.Implementation == entities.UnknownImplementation {
			return nil, fmt.Errorf("node %s has no implementation", n.Name)
		}
		if n.Ports.REST == 0 {
			return nil, fmt.Errorf("node %s has no REST port", n.Name)
		}

		creds, err := loadCredentials(n, baseDir)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.Name, err)
		}

		ret.Nodes = append(ret.Nodes, &entities.NodeDescriptor{
			Name:           n.Name,
			Implementation: n.Implementation,
			Status:         n.Status,
			Network:        n.Network,
			Host:           n.Host,
			Ports:          n.Ports,
			Credentials:    *creds,
		})
	}

	return ret, nil
}

func loadCredentials(n fileNode, baseDir string) (*entities.Credentials, error) {
	ret := &entities.Credentials{Token: n.Token}

	switch {
	case n.MacaroonHex != "":
		mac, err := hex.DecodeString(strings.TrimSpace(n.MacaroonHex))
		if err != nil {
			return nil, fmt.Errorf("invalid macaroonHex: %w", err)
		}
		ret.Macaroon = mac
	case n.Paths.Macaroon != "":
		mac, err := os.ReadFile(entities.ExpandPath(n.Paths.Macaroon, baseDir))
		if err != nil {
			return nil, fmt.Errorf("read macaroon: %w", err)
		}
		ret.Macaroon = decodeIfHex(mac)
	}

	switch {
	case n.TLSCertBase64 != "":
		cert, err := utils.SafeBase64Decode(n.TLSCertBase64)
		if err != nil {
			return nil, fmt.Errorf("invalid tlsCertBase64: %w", err)
		}
		ret.TLSCert = cert
	case n.Paths.TLSCert != "":
		cert, err := os.ReadFile(entities.ExpandPath(n.Paths.TLSCert, baseDir))
		if err != nil {
			return nil, fmt.Errorf("read TLS certificate: %w", err)
		}
		ret.TLSCert = cert
	}

	return ret, nil
}

// decodeIfHex returns the decoded bytes of macaroon files stored as hex text
func decodeIfHex(content []byte) []byte {
	text := strings.TrimSpace(string(content))
	if text == "" || len(text)%2 != 0 {
		return content
	}

	decoded, err := hex.DecodeString(text)
	if err != nil {
		return content
	}

	return decoded
}

// Node returns the node with the given name
func (n *Network) Node(name string) (*entities.NodeDescriptor, error) {
	for _, one := range n.Nodes {
		if one.Name == name {
			return one, nil
		}
	}

	return nil, fmt.Errorf("no node %q in network %s", name, n.Name)
}
