package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeInfo struct
type NodeInfo struct {
	Pubkey              string `json:"pubkey"`
	Alias               string `json:"alias"`
	RPCUrl              string `json:"rpc_url"`
	SyncedToChain       bool   `json:"synced_to_chain"`
	BlockHeight         uint32 `json:"block_height"`
	NumActiveChannels   uint32 `json:"num_active_channels"`
	NumPendingChannels  uint32 `json:"num_pending_channels"`
	NumInactiveChannels uint32 `json:"num_inactive_channels"`
}

// Balances of the on-chain wallet. All amounts are integer satoshis in decimal text.
type Balances struct {
	Total       string `json:"total"`
	Confirmed   string `json:"confirmed"`
	Unconfirmed string `json:"unconfirmed"`
}

// ChannelStatus enum
type ChannelStatus string

// ChannelStatus values
const (
	ChannelOpen    ChannelStatus = "Open"
	ChannelClosed  ChannelStatus = "Closed"
	ChannelPending ChannelStatus = "Pending"
)

// Channel struct. Invariant: LocalBalance + RemoteBalance <= Capacity.
type Channel struct {
	UniqueID      string        `json:"unique_id"`
	ChannelPoint  string        `json:"channel_point"`
	Pubkey        string        `json:"pubkey"`
	Capacity      string        `json:"capacity"`
	LocalBalance  string        `json:"local_balance"`
	RemoteBalance string        `json:"remote_balance"`
	Status        ChannelStatus `json:"status"`
	Pending       bool          `json:"pending"`
	IsPrivate     bool          `json:"is_private"`
}

// Peer struct. Address may be empty when the node does not expose it.
type Peer struct {
	Pubkey  string `json:"pubkey"`
	Address string `json:"address"`
}

// PayReceipt struct
type PayReceipt struct {
	Preimage    string `json:"preimage"`
	Amount      string `json:"amount"`
	Destination string `json:"destination"`
}

// OpenChannelOptions struct
type OpenChannelOptions struct {
	From *NodeDescriptor
	// ToRPCUrl is the pubkey@host:port of the counterparty
	ToRPCUrl  string
	Amount    uint64
	IsPrivate bool
}

// ChannelPoint is the funding transaction id and output index
type ChannelPoint struct {
	TxID  string `json:"txid"`
	Index uint32 `json:"index"`
}

func (c ChannelPoint) String() string {
	return fmt.Sprintf("%s:%d", c.TxID, c.Index)
}

// ParseChannelPoint parses txid:index
func ParseChannelPoint(s string) (*ChannelPoint, error) {
	split := strings.Split(s, ":")
	if len(split) != 2 || split[0] == "" {
		return nil, fmt.Errorf("invalid channel point %q", s)
	}

	idx, err := strconv.ParseUint(split[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid channel point index %q", s)
	}

	return &ChannelPoint{TxID: split[0], Index: uint32(idx)}, nil
}

// CloseReceipt is returned when a channel close was requested
type CloseReceipt struct {
	ChannelPoint string `json:"channel_point"`
	// ClosingTxID is empty when the node does not report it
	ClosingTxID string `json:"closing_txid,omitempty"`
}

// SplitConnectionString splits pubkey@host:port into pubkey and host:port (which may be empty)
func SplitConnectionString(url string) (string, string) {
	pubkey, addr, _ := strings.Cut(url, "@")
	return pubkey, addr
}
