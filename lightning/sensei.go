package lightning

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/golang/glog"
)

const (
	senseiAlias       = "sensei"
	senseiPageSize    = 100
	senseiMaxChannels = 100000
)

// SenseiService is the adapter for sensei nodes
type SenseiService struct {
	HTTPAPI *HTTPAPI
}

// NewSenseiService returns a new SenseiService
func NewSenseiService(transport *HTTPAPI) *SenseiService {
	return &SenseiService{HTTPAPI: transport}
}

func (s *SenseiService) call(ctx context.Context, node *entities.NodeDescriptor, method string, path string, body any, out any) error {
	if err := checkImplementation(node, entities.Sensei); err != nil {
		return err
	}

	mac, err := macaroonHex(node)
	if err != nil {
		return err
	}

	return s.HTTPAPI.doRequest(ctx, node, request{
		method:  method,
		path:    path,
		headers: map[string]string{"macaroon": mac},
		body:    body,
	}, out)
}

// GetInfo API
func (s *SenseiService) GetInfo(ctx context.Context, node *entities.NodeDescriptor) (*entities.NodeInfo, error) {
	var resp SenseiNodeInfoResponse

	if err := s.call(ctx, node, http.MethodGet, "v1/node/info", nil, &resp); err != nil {
		return nil, decorate(node, "getInfo", err)
	}

	if resp.NodeInfo.NodePubkey == "" {
		return nil, decorate(node, "getInfo", classifyf(ErrProtocol, "missing node_pubkey"))
	}

	info := &entities.NodeInfo{
		Pubkey:            resp.NodeInfo.NodePubkey,
		Alias:             senseiAlias,
		SyncedToChain:     true,
		NumActiveChannels: resp.NodeInfo.NumUsableChannels,
	}
	if resp.NodeInfo.NumChannels > resp.NodeInfo.NumUsableChannels {
		info.NumInactiveChannels = resp.NodeInfo.NumChannels - resp.NodeInfo.NumUsableChannels
	}

	return info, nil
}

// GetBalances API - sensei reports only the total, confirmed and unconfirmed are always zero
func (s *SenseiService) GetBalances(ctx context.Context, node *entities.NodeDescriptor) (*entities.Balances, error) {
	var resp SenseiWalletBalanceResponse

	if err := s.call(ctx, node, http.MethodGet, "v1/node/wallet/balance", nil, &resp); err != nil {
		return nil, decorate(node, "getBalances", err)
	}

	if resp.BalanceSatoshis == nil {
		return nil, decorate(node, "getBalances", classifyf(ErrProtocol, "missing balance_satoshis"))
	}

	return &entities.Balances{
		Total:       formatSats(*resp.BalanceSatoshis),
		Confirmed:   "0",
		Unconfirmed: "0",
	}, nil
}

// GetNewAddress API
func (s *SenseiService) GetNewAddress(ctx context.Context, node *entities.NodeDescriptor) (string, error) {
	var raw json.RawMessage

	if err := s.call(ctx, node, http.MethodGet, "v1/node/wallet/address", nil, &raw); err != nil {
		return "", decorate(node, "getNewAddress", err)
	}

	// Either a bare JSON string or an object
	var address string
	if err := json.Unmarshal(raw, &address); err == nil && address != "" {
		return address, nil
	}

	var resp SenseiAddressResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.Address == "" {
		return "", decorate(node, "getNewAddress", classifyf(ErrProtocol, "no address in %s", truncate(raw, 256)))
	}

	return resp.Address, nil
}

// listChannels returns all channels (inbound and outbound) following pagination
func (s *SenseiService) listChannels(ctx context.Context, node *entities.NodeDescriptor) ([]SenseiChannel, error) {
	ret := make([]SenseiChannel, 0)

	for page := 0; ; page++ {
		var resp SenseiChannelsResponse

		path := fmt.Sprintf("v1/node/channels?page=%d&take=%d", page, senseiPageSize)
		if err := s.call(ctx, node, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}

		ret = append(ret, resp.Channels...)

		if !resp.Pagination.HasMore || len(resp.Channels) == 0 || len(ret) >= senseiMaxChannels {
			break
		}
	}

	return ret, nil
}

func convertSenseiChannel(c SenseiChannel) entities.Channel {
	ch := entities.Channel{
		UniqueID:     c.ChannelID,
		ChannelPoint: entities.ChannelPoint{TxID: c.FundingTxid, Index: c.FundingTxIndex}.String(),
		Pubkey:       c.CounterpartyPubkey,
		Pending:      !c.IsUsable,
		IsPrivate:    !c.IsPublic,
	}

	switch {
	case c.IsUsable:
		ch.Status = entities.ChannelOpen
	case !c.IsFundingLocked:
		ch.Status = entities.ChannelPending
	default:
		ch.Status = entities.ChannelClosed
	}

	setBalances(&ch, btcutil.Amount(c.ChannelValueSatoshis), msatToAmount(c.OutboundCapacityMsat), msatToAmount(c.InboundCapacityMsat))

	return ch
}

// GetChannels API - only outbound channels are returned
func (s *SenseiService) GetChannels(ctx context.Context, node *entities.NodeDescriptor) ([]entities.Channel, error) {
	channels, err := s.listChannels(ctx, node)
	if err != nil {
		return nil, decorate(node, "getChannels", err)
	}

	ret := make([]entities.Channel, 0, len(channels))
	for _, c := range channels {
		if !c.IsOutbound {
			continue
		}
		ret = append(ret, convertSenseiChannel(c))
	}

	return ret, nil
}

// GetPeers API - sensei does not expose peer addresses
func (s *SenseiService) GetPeers(ctx context.Context, node *entities.NodeDescriptor) ([]entities.Peer, error) {
	var resp SenseiPeersResponse

	if err := s.call(ctx, node, http.MethodGet, "v1/node/peers", nil, &resp); err != nil {
		return nil, decorate(node, "getPeers", err)
	}

	ret := make([]entities.Peer, 0, len(resp.Peers))
	for _, p := range resp.Peers {
		ret = append(ret, entities.Peer{Pubkey: p.NodePubkey, Address: ""})
	}

	return ret, nil
}

func (s *SenseiService) connectPeer(ctx context.Context, node *entities.NodeDescriptor, rpcUrl string) error {
	return s.call(ctx, node, http.MethodPost, "v1/node/peers/connect", &SenseiConnectPeerRequest{NodeConnectionString: rpcUrl}, nil)
}

// ConnectPeers API
func (s *SenseiService) ConnectPeers(ctx context.Context, node *entities.NodeDescriptor, rpcUrls []string) error {
	return decorate(node, "connectPeers", connectPeers(ctx, node, rpcUrls, s.GetPeers, s.connectPeer))
}

// OpenChannel API
func (s *SenseiService) OpenChannel(ctx context.Context, options entities.OpenChannelOptions) (*entities.ChannelPoint, error) {
	node := options.From
	if err := checkImplementation(node, entities.Sensei); err != nil {
		return nil, decorate(node, "openChannel", err)
	}

	if err := validateOpenOptions(options); err != nil {
		return nil, decorate(node, "openChannel", err)
	}

	// Add peer if not connected already
	if err := s.ConnectPeers(ctx, node, []string{options.ToRPCUrl}); err != nil {
		return nil, err
	}

	body := &SenseiOpenChannelsRequest{
		Channels: []SenseiOpenChannelRequest{{
			NodeConnectionString: options.ToRPCUrl,
			AmtSatoshis:          options.Amount,
			Public:               !options.IsPrivate,
		}},
	}

	var resp SenseiOpenChannelsResponse
	if err := s.call(ctx, node, http.MethodPost, "v1/node/channels/open", body, &resp); err != nil {
		return nil, decorate(node, "openChannel", rejected(ErrChannelOpen, err))
	}

	if len(resp.Results) == 0 {
		return nil, decorate(node, "openChannel", classifyf(ErrProtocol, "no channel open result"))
	}

	result := resp.Results[0]
	if result.Error {
		return nil, decorate(node, "openChannel", classify(ErrChannelOpen, &NativeAPIError{Message: result.ErrorMessage}))
	}

	return &entities.ChannelPoint{TxID: result.TempChannelID, Index: 0}, nil
}

// CloseChannel API - channelPoint may be txid:index or a sensei channel id
func (s *SenseiService) CloseChannel(ctx context.Context, node *entities.NodeDescriptor, channelPoint string) (*entities.CloseReceipt, error) {
	channelID := channelPoint

	if strings.Contains(channelPoint, ":") {
		channels, err := s.listChannels(ctx, node)
		if err != nil {
			return nil, decorate(node, "closeChannel", err)
		}

		channelID = ""
		for _, c := range channels {
			if convertSenseiChannel(c).ChannelPoint == channelPoint {
				channelID = c.ChannelID
				break
			}
		}

		if channelID == "" {
			return nil, decorate(node, "closeChannel", fmt.Errorf("%w: %s", ErrNoChannel, channelPoint))
		}
	}

	body := &SenseiCloseChannelRequest{ChannelID: channelID, Force: true}
	if err := s.call(ctx, node, http.MethodPost, "v1/node/channels/close", body, nil); err != nil {
		return nil, decorate(node, "closeChannel", err)
	}

	return &entities.CloseReceipt{ChannelPoint: channelPoint}, nil
}

// CreateInvoice API
func (s *SenseiService) CreateInvoice(ctx context.Context, node *entities.NodeDescriptor, amount uint64, memo string) (string, error) {
	if err := checkImplementation(node, entities.Sensei); err != nil {
		return "", decorate(node, "createInvoice", err)
	}

	body := &SenseiCreateInvoiceRequest{
		AmtMsat:     satsToMsat(amount),
		Description: defaultMemo(node, memo),
	}

	var resp SenseiCreateInvoiceResponse
	if err := s.call(ctx, node, http.MethodPost, "v1/node/invoices", body, &resp); err != nil {
		return "", decorate(node, "createInvoice", err)
	}

	if resp.Invoice == "" {
		return "", decorate(node, "createInvoice", classifyf(ErrProtocol, "missing invoice"))
	}

	return resp.Invoice, nil
}

// PayInvoice API - sensei cannot override the invoice amount
func (s *SenseiService) PayInvoice(ctx context.Context, node *entities.NodeDescriptor, invoice string, amount uint64) (*entities.PayReceipt, error) {
	if err := checkImplementation(node, entities.Sensei); err != nil {
		return nil, decorate(node, "payInvoice", err)
	}

	if overrideAmount(node, invoice, amount) > 0 {
		glog.Warningf("Sensei node %s cannot pay a custom amount %d, paying invoice as is", node.Name, amount)
	}

	var resp SenseiPayInvoiceResponse
	if err := s.call(ctx, node, http.MethodPost, "v1/node/invoices/pay", &SenseiPayInvoiceRequest{Invoice: invoice}, &resp); err != nil {
		return nil, decorate(node, "payInvoice", rejected(ErrPayment, err))
	}

	receipt := &entities.PayReceipt{
		Preimage:    resp.PaymentPreimage,
		Destination: resp.NodeID,
	}
	if resp.AmtMsat > 0 {
		receipt.Amount = ToSats(resp.AmtMsat)
	}

	completeReceipt(node, receipt, invoice, 0)

	return receipt, nil
}

// WaitUntilOnline API
func (s *SenseiService) WaitUntilOnline(ctx context.Context, node *entities.NodeDescriptor, interval, timeout time.Duration) error {
	return waitUntilOnline(ctx, s, node, interval, timeout)
}
