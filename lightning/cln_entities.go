package lightning

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ClnMsat is an msat amount sent either as a number or as "123msat"
type ClnMsat uint64

// UnmarshalJSON implements json.Unmarshaler
func (m *ClnMsat) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseUint(strings.TrimSuffix(s, "msat"), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid msat amount %q", s)
		}
		*m = ClnMsat(v)
		return nil
	}

	var v uint64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = ClnMsat(v)
	return nil
}

// ClnAddress struct
type ClnAddress struct {
	Type    string `json:"type"`
	Address string `json:"address"`
	Port    int    `json:"port"`
}

// ClnGetInfoResponse struct
type ClnGetInfoResponse struct {
	ID                    string       `json:"id"`
	Alias                 string       `json:"alias"`
	NumPeers              uint32       `json:"num_peers"`
	NumPendingChannels    uint32       `json:"num_pending_channels"`
	NumActiveChannels     uint32       `json:"num_active_channels"`
	NumInactiveChannels   uint32       `json:"num_inactive_channels"`
	BlockHeight           uint32       `json:"blockheight"`
	Network               string       `json:"network"`
	Address               []ClnAddress `json:"address"`
	Binding               []ClnAddress `json:"binding"`
	WarningBitcoindSync   string       `json:"warning_bitcoind_sync,omitempty"`
	WarningLightningdSync string       `json:"warning_lightningd_sync,omitempty"`
}

// ClnBalanceResponse struct
type ClnBalanceResponse struct {
	TotalBalance  *uint64 `json:"totalBalance"`
	ConfBalance   uint64  `json:"confBalance"`
	UnconfBalance uint64  `json:"unconfBalance"`
}

// ClnNewAddrResponse struct
type ClnNewAddrResponse struct {
	Address string `json:"address"`
	Bech32  string `json:"bech32"`
}

// ClnChannel struct
type ClnChannel struct {
	ID             string   `json:"id"`
	Connected      bool     `json:"connected"`
	State          string   `json:"state"`
	ShortChannelID string   `json:"short_channel_id"`
	ChannelID      string   `json:"channel_id"`
	FundingTxid    string   `json:"funding_txid"`
	FundingOutnum  uint32   `json:"funding_outnum"`
	Private        bool     `json:"private"`
	MsatoshiToUs   *ClnMsat `json:"msatoshi_to_us,omitempty"`
	MsatoshiTotal  *ClnMsat `json:"msatoshi_total,omitempty"`
	ToUsMsat       *ClnMsat `json:"to_us_msat,omitempty"`
	TotalMsat      *ClnMsat `json:"total_msat,omitempty"`
}

func (c ClnChannel) toUs() uint64 {
	if c.ToUsMsat != nil {
		return uint64(*c.ToUsMsat)
	}
	if c.MsatoshiToUs != nil {
		return uint64(*c.MsatoshiToUs)
	}
	return 0
}

func (c ClnChannel) total() uint64 {
	if c.TotalMsat != nil {
		return uint64(*c.TotalMsat)
	}
	if c.MsatoshiTotal != nil {
		return uint64(*c.MsatoshiTotal)
	}
	return 0
}

// ClnPeer struct
type ClnPeer struct {
	ID        string   `json:"id"`
	Connected bool     `json:"connected"`
	Netaddr   []string `json:"netaddr"`
}

// ClnConnectRequest struct
type ClnConnectRequest struct {
	ID string `json:"id"`
}

// ClnOpenChannelRequest struct
type ClnOpenChannelRequest struct {
	ID       string `json:"id"`
	Satoshis string `json:"satoshis"`
	Announce string `json:"announce"`
}

// ClnOpenChannelResponse struct
type ClnOpenChannelResponse struct {
	Txid      string `json:"txid"`
	ChannelID string `json:"channel_id"`
	Outnum    uint32 `json:"outnum"`
}

// ClnCloseChannelResponse struct
type ClnCloseChannelResponse struct {
	Type string `json:"type"`
	Txid string `json:"txid"`
}

// ClnGenInvoiceRequest struct
type ClnGenInvoiceRequest struct {
	Amount      uint64 `json:"amount"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// ClnGenInvoiceResponse struct
type ClnGenInvoiceResponse struct {
	PaymentHash string `json:"payment_hash"`
	Bolt11      string `json:"bolt11"`
}

// ClnPayRequest struct
type ClnPayRequest struct {
	Invoice string `json:"invoice"`
	Amount  uint64 `json:"amount,omitempty"`
}

// ClnPayResponse struct
type ClnPayResponse struct {
	Destination     string   `json:"destination"`
	PaymentHash     string   `json:"payment_hash"`
	Msatoshi        *ClnMsat `json:"msatoshi,omitempty"`
	AmountMsat      *ClnMsat `json:"amount_msat,omitempty"`
	PaymentPreimage string   `json:"payment_preimage"`
	Status          string   `json:"status"`
}
