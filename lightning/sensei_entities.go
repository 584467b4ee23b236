package lightning

// SenseiNodeInfoResponse struct
type SenseiNodeInfoResponse struct {
	NodeInfo struct {
		Version           string `json:"version"`
		NodePubkey        string `json:"node_pubkey"`
		NumChannels       uint32 `json:"num_channels"`
		NumUsableChannels uint32 `json:"num_usable_channels"`
		NumPeers          uint32 `json:"num_peers"`
		LocalBalanceMsat  uint64 `json:"local_balance_msat"`
	} `json:"node_info"`
}

// SenseiWalletBalanceResponse struct
type SenseiWalletBalanceResponse struct {
	BalanceSatoshis *uint64 `json:"balance_satoshis"`
}

// SenseiAddressResponse struct
type SenseiAddressResponse struct {
	Address string `json:"address"`
}

// SenseiChannel struct
type SenseiChannel struct {
	ChannelID                    string `json:"channel_id"`
	FundingTxid                  string `json:"funding_txid"`
	FundingTxIndex               uint32 `json:"funding_tx_index"`
	ShortChannelID               uint64 `json:"short_channel_id"`
	ChannelValueSatoshis         uint64 `json:"channel_value_satoshis"`
	BalanceMsat                  uint64 `json:"balance_msat"`
	UnspendablePunishmentReserve uint64 `json:"unspendable_punishment_reserve"`
	OutboundCapacityMsat         uint64 `json:"outbound_capacity_msat"`
	InboundCapacityMsat          uint64 `json:"inbound_capacity_msat"`
	ConfirmationsRequired        uint32 `json:"confirmations_required"`
	IsOutbound                   bool   `json:"is_outbound"`
	IsFundingLocked              bool   `json:"is_funding_locked"`
	IsUsable                     bool   `json:"is_usable"`
	IsPublic                     bool   `json:"is_public"`
	CounterpartyPubkey           string `json:"counterparty_pubkey"`
	Alias                        string `json:"alias"`
}

// SenseiChannelsResponse struct
type SenseiChannelsResponse struct {
	Channels   []SenseiChannel `json:"channels"`
	Pagination struct {
		HasMore bool   `json:"has_more"`
		Total   uint64 `json:"total"`
	} `json:"pagination"`
}

// SenseiPeersResponse struct
type SenseiPeersResponse struct {
	Peers []struct {
		NodePubkey string `json:"node_pubkey"`
	} `json:"peers"`
}

// SenseiConnectPeerRequest struct
type SenseiConnectPeerRequest struct {
	NodeConnectionString string `json:"node_connection_string"`
}

// SenseiOpenChannelRequest struct
type SenseiOpenChannelRequest struct {
	NodeConnectionString string `json:"node_connection_string"`
	AmtSatoshis          uint64 `json:"amt_satoshis"`
	Public               bool   `json:"public"`
}

// SenseiOpenChannelsRequest is the batch open body
type SenseiOpenChannelsRequest struct {
	Channels []SenseiOpenChannelRequest `json:"channels"`
}

// SenseiOpenChannelsResponse struct
type SenseiOpenChannelsResponse struct {
	Results []struct {
		TempChannelID string `json:"temp_channel_id"`
		Error         bool   `json:"error"`
		ErrorMessage  string `json:"error_message"`
	} `json:"results"`
}

// SenseiCloseChannelRequest struct
type SenseiCloseChannelRequest struct {
	ChannelID string `json:"channel_id"`
	Force     bool   `json:"force"`
}

// SenseiCreateInvoiceRequest struct
type SenseiCreateInvoiceRequest struct {
	AmtMsat     uint64 `json:"amt_msat"`
	Description string `json:"description"`
}

// SenseiCreateInvoiceResponse struct
type SenseiCreateInvoiceResponse struct {
	Invoice string `json:"invoice"`
}

// SenseiPayInvoiceRequest struct
type SenseiPayInvoiceRequest struct {
	Invoice string `json:"invoice"`
}

// SenseiPayInvoiceResponse struct
type SenseiPayInvoiceResponse struct {
	PaymentPreimage string `json:"payment_preimage"`
	AmtMsat         uint64 `json:"amt_msat"`
	NodeID          string `json:"node_id"`
}
