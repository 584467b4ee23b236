package lightning

// LND REST sends 64 bit integers as strings

// LndGetInfoResponse struct
type LndGetInfoResponse struct {
	IdentityPubkey      string   `json:"identity_pubkey"`
	Alias               string   `json:"alias"`
	NumPendingChannels  uint32   `json:"num_pending_channels"`
	NumActiveChannels   uint32   `json:"num_active_channels"`
	NumInactiveChannels uint32   `json:"num_inactive_channels"`
	BlockHeight         uint32   `json:"block_height"`
	SyncedToChain       bool     `json:"synced_to_chain"`
	Uris                []string `json:"uris"`
	Version             string   `json:"version"`
}

// LndWalletBalanceResponse struct
type LndWalletBalanceResponse struct {
	TotalBalance       string `json:"total_balance"`
	ConfirmedBalance   string `json:"confirmed_balance"`
	UnconfirmedBalance string `json:"unconfirmed_balance"`
}

// LndNewAddressResponse struct
type LndNewAddressResponse struct {
	Address string `json:"address"`
}

// LndChannel struct
type LndChannel struct {
	Active        bool   `json:"active"`
	RemotePubkey  string `json:"remote_pubkey"`
	ChannelPoint  string `json:"channel_point"`
	ChanID        string `json:"chan_id"`
	Capacity      string `json:"capacity"`
	LocalBalance  string `json:"local_balance"`
	RemoteBalance string `json:"remote_balance"`
	Private       bool   `json:"private"`
	Initiator     bool   `json:"initiator"`
}

// LndListChannelsResponse struct
type LndListChannelsResponse struct {
	Channels []LndChannel `json:"channels"`
}

// LndPendingChannel struct
type LndPendingChannel struct {
	RemoteNodePub string `json:"remote_node_pub"`
	ChannelPoint  string `json:"channel_point"`
	Capacity      string `json:"capacity"`
	LocalBalance  string `json:"local_balance"`
	RemoteBalance string `json:"remote_balance"`
	Private       bool   `json:"private"`
}

// LndPendingChannelsResponse struct
type LndPendingChannelsResponse struct {
	PendingOpenChannels []struct {
		Channel LndPendingChannel `json:"channel"`
	} `json:"pending_open_channels"`
}

// LndPeer struct
type LndPeer struct {
	PubKey  string `json:"pub_key"`
	Address string `json:"address"`
}

// LndListPeersResponse struct
type LndListPeersResponse struct {
	Peers []LndPeer `json:"peers"`
}

// LndLightningAddress struct
type LndLightningAddress struct {
	Pubkey string `json:"pubkey"`
	Host   string `json:"host"`
}

// LndConnectPeerRequest struct
type LndConnectPeerRequest struct {
	Addr LndLightningAddress `json:"addr"`
	Perm bool                `json:"perm"`
}

// LndOpenChannelRequest struct
type LndOpenChannelRequest struct {
	// NodePubkey is base64 of the raw pubkey bytes
	NodePubkey         string `json:"node_pubkey"`
	LocalFundingAmount string `json:"local_funding_amount"`
	Private            bool   `json:"private"`
}

// LndChannelPoint struct
type LndChannelPoint struct {
	// FundingTxidBytes is base64 of the txid in internal (reversed) byte order
	FundingTxidBytes string `json:"funding_txid_bytes"`
	FundingTxidStr   string `json:"funding_txid_str"`
	OutputIndex      uint32 `json:"output_index"`
}

// LndCloseStatusUpdate is the first message of the close channel stream
type LndCloseStatusUpdate struct {
	Result *struct {
		ClosePending *struct {
			Txid        string `json:"txid"`
			OutputIndex uint32 `json:"output_index"`
		} `json:"close_pending"`
	} `json:"result"`
}

// LndAddInvoiceRequest struct
type LndAddInvoiceRequest struct {
	Value string `json:"value"`
	Memo  string `json:"memo"`
}

// LndAddInvoiceResponse struct
type LndAddInvoiceResponse struct {
	PaymentRequest string `json:"payment_request"`
}

// LndSendPaymentRequest struct
type LndSendPaymentRequest struct {
	PaymentRequest string `json:"payment_request"`
	Amt            string `json:"amt,omitempty"`
}

// LndSendPaymentResponse struct
type LndSendPaymentResponse struct {
	PaymentError    string `json:"payment_error"`
	PaymentPreimage string `json:"payment_preimage"`
	PaymentRoute    *struct {
		TotalAmt  string `json:"total_amt"`
		TotalFees string `json:"total_fees"`
		Hops      []struct {
			PubKey string `json:"pub_key"`
		} `json:"hops"`
	} `json:"payment_route"`
}
