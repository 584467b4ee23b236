package lightning

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bolt-observer/nodectl/entities"
)

// Channel states as reported by lightningd
var (
	clnPendingStates = []string{"OPENINGD", "CHANNELD_AWAITING_LOCKIN", "DUALOPEND_OPEN_INIT", "DUALOPEND_AWAITING_LOCKIN"}
	clnOpenStates    = []string{"CHANNELD_NORMAL"}
	clnGoneStates    = []string{"ONCHAIN", "CLOSED"}
)

// CLightningService is the adapter for c-lightning nodes (c-lightning-REST interface)
type CLightningService struct {
	HTTPAPI *HTTPAPI
}

// NewCLightningService returns a new CLightningService
func NewCLightningService(transport *HTTPAPI) *CLightningService {
	return &CLightningService{HTTPAPI: transport}
}

func (c *CLightningService) call(ctx context.Context, node *entities.NodeDescriptor, method string, path string, body any, out any) error {
	if err := checkImplementation(node, entities.CLightning); err != nil {
		return err
	}

	mac, err := macaroonHex(node)
	if err != nil {
		return err
	}

	return c.HTTPAPI.doRequest(ctx, node, request{
		method:  method,
		secure:  len(node.Credentials.TLSCert) > 0,
		path:    path,
		headers: map[string]string{"macaroon": mac, "encodingtype": "hex"},
		body:    body,
	}, out)
}

// GetInfo API
func (c *CLightningService) GetInfo(ctx context.Context, node *entities.NodeDescriptor) (*entities.NodeInfo, error) {
	var resp ClnGetInfoResponse

	if err := c.call(ctx, node, http.MethodGet, "v1/getinfo", nil, &resp); err != nil {
		return nil, decorate(node, "getInfo", err)
	}

	if resp.ID == "" {
		return nil, decorate(node, "getInfo", classifyf(ErrProtocol, "missing id"))
	}

	info := &entities.NodeInfo{
		Pubkey:              resp.ID,
		Alias:               resp.Alias,
		SyncedToChain:       resp.WarningBitcoindSync == "" && resp.WarningLightningdSync == "",
		BlockHeight:         resp.BlockHeight,
		NumActiveChannels:   resp.NumActiveChannels,
		NumPendingChannels:  resp.NumPendingChannels,
		NumInactiveChannels: resp.NumInactiveChannels,
	}
	if len(resp.Address) > 0 {
		addr := resp.Address[0]
		info.RPCUrl = resp.ID + "@" + net.JoinHostPort(addr.Address, strconv.Itoa(addr.Port))
	}

	return info, nil
}

// GetBalances API
func (c *CLightningService) GetBalances(ctx context.Context, node *entities.NodeDescriptor) (*entities.Balances, error) {
	var resp ClnBalanceResponse

	if err := c.call(ctx, node, http.MethodGet, "v1/getBalance", nil, &resp); err != nil {
		return nil, decorate(node, "getBalances", err)
	}

	if resp.TotalBalance == nil {
		return nil, decorate(node, "getBalances", classifyf(ErrProtocol, "missing totalBalance"))
	}

	return &entities.Balances{
		Total:       formatSats(*resp.TotalBalance),
		Confirmed:   formatSats(resp.ConfBalance),
		Unconfirmed: formatSats(resp.UnconfBalance),
	}, nil
}

// GetNewAddress API
func (c *CLightningService) GetNewAddress(ctx context.Context, node *entities.NodeDescriptor) (string, error) {
	var resp ClnNewAddrResponse

	if err := c.call(ctx, node, http.MethodGet, "v1/newaddr?addrType=bech32", nil, &resp); err != nil {
		return "", decorate(node, "getNewAddress", err)
	}

	address := resp.Address
	if address == "" {
		address = resp.Bech32
	}
	if address == "" {
		return "", decorate(node, "getNewAddress", classifyf(ErrProtocol, "missing address"))
	}

	return address, nil
}

func (c *CLightningService) listChannels(ctx context.Context, node *entities.NodeDescriptor) ([]ClnChannel, error) {
	var resp []ClnChannel

	if err := c.call(ctx, node, http.MethodGet, "v1/channel/listChannels", nil, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func convertClnChannel(c ClnChannel) entities.Channel {
	ch := entities.Channel{
		UniqueID:     c.ShortChannelID,
		ChannelPoint: entities.ChannelPoint{TxID: c.FundingTxid, Index: c.FundingOutnum}.String(),
		Pubkey:       c.ID,
		IsPrivate:    c.Private,
	}
	if ch.UniqueID == "" {
		ch.UniqueID = c.ChannelID
	}

	switch {
	case contains(clnOpenStates, c.State):
		ch.Status = entities.ChannelOpen
	case contains(clnPendingStates, c.State):
		ch.Status = entities.ChannelPending
		ch.Pending = true
	default:
		ch.Status = entities.ChannelClosed
	}

	total := c.total()
	toUs := c.toUs()
	remote := uint64(0)
	if total > toUs {
		remote = total - toUs
	}

	setBalances(&ch, msatToAmount(total), msatToAmount(toUs), msatToAmount(remote))

	return ch
}

func contains(list []string, s string) bool {
	for _, one := range list {
		if one == s {
			return true
		}
	}
	return false
}

// GetChannels API - channels already closed on chain are left out
func (c *CLightningService) GetChannels(ctx context.Context, node *entities.NodeDescriptor) ([]entities.Channel, error) {
	channels, err := c.listChannels(ctx, node)
	if err != nil {
		return nil, decorate(node, "getChannels", err)
	}

	ret := make([]entities.Channel, 0, len(channels))
	for _, one := range channels {
		if contains(clnGoneStates, one.State) {
			continue
		}
		ret = append(ret, convertClnChannel(one))
	}

	return ret, nil
}

// GetPeers API - only connected peers
func (c *CLightningService) GetPeers(ctx context.Context, node *entities.NodeDescriptor) ([]entities.Peer, error) {
	var resp []ClnPeer

	if err := c.call(ctx, node, http.MethodGet, "v1/peer/listPeers", nil, &resp); err != nil {
		return nil, decorate(node, "getPeers", err)
	}

	ret := make([]entities.Peer, 0, len(resp))
	for _, p := range resp {
		if !p.Connected {
			continue
		}

		peer := entities.Peer{Pubkey: p.ID}
		if len(p.Netaddr) > 0 {
			peer.Address = p.Netaddr[0]
		}
		ret = append(ret, peer)
	}

	return ret, nil
}

func (c *CLightningService) connectPeer(ctx context.Context, node *entities.NodeDescriptor, rpcUrl string) error {
	return c.call(ctx, node, http.MethodPost, "v1/peer/connect", &ClnConnectRequest{ID: rpcUrl}, nil)
}

// ConnectPeers API
func (c *CLightningService) ConnectPeers(ctx context.Context, node *entities.NodeDescriptor, rpcUrls []string) error {
	return decorate(node, "connectPeers", connectPeers(ctx, node, rpcUrls, c.GetPeers, c.connectPeer))
}

// OpenChannel API
func (c *CLightningService) OpenChannel(ctx context.Context, options entities.OpenChannelOptions) (*entities.ChannelPoint, error) {
	node := options.From
	if err := checkImplementation(node, entities.CLightning); err != nil {
		return nil, decorate(node, "openChannel", err)
	}

	if err := validateOpenOptions(options); err != nil {
		return nil, decorate(node, "openChannel", err)
	}

	// Add peer if not connected already
	if err := c.ConnectPeers(ctx, node, []string{options.ToRPCUrl}); err != nil {
		return nil, err
	}

	pubkey, _ := entities.SplitConnectionString(options.ToRPCUrl)
	body := &ClnOpenChannelRequest{
		ID:       pubkey,
		Satoshis: formatSats(options.Amount),
		Announce: strconv.FormatBool(!options.IsPrivate),
	}

	var resp ClnOpenChannelResponse
	if err := c.call(ctx, node, http.MethodPost, "v1/channel/openChannel", body, &resp); err != nil {
		return nil, decorate(node, "openChannel", rejected(ErrChannelOpen, err))
	}

	if resp.Txid == "" {
		return nil, decorate(node, "openChannel", classifyf(ErrProtocol, "missing txid"))
	}

	return &entities.ChannelPoint{TxID: resp.Txid, Index: resp.Outnum}, nil
}

// CloseChannel API - channelPoint may be txid:index, a short channel id or a channel id
func (c *CLightningService) CloseChannel(ctx context.Context, node *entities.NodeDescriptor, channelPoint string) (*entities.CloseReceipt, error) {
	id := channelPoint

	if strings.Contains(channelPoint, ":") {
		channels, err := c.listChannels(ctx, node)
		if err != nil {
			return nil, decorate(node, "closeChannel", err)
		}

		id = ""
		for _, one := range channels {
			if convertClnChannel(one).ChannelPoint == channelPoint {
				id = one.ChannelID
				break
			}
		}

		if id == "" {
			return nil, decorate(node, "closeChannel", fmt.Errorf("%w: %s", ErrNoChannel, channelPoint))
		}
	}

	var resp ClnCloseChannelResponse
	path := fmt.Sprintf("v1/channel/closeChannel/%s?unilateralTimeout=1", url.PathEscape(id))
	if err := c.call(ctx, node, http.MethodDelete, path, nil, &resp); err != nil {
		return nil, decorate(node, "closeChannel", err)
	}

	return &entities.CloseReceipt{ChannelPoint: channelPoint, ClosingTxID: resp.Txid}, nil
}

// CreateInvoice API
func (c *CLightningService) CreateInvoice(ctx context.Context, node *entities.NodeDescriptor, amount uint64, memo string) (string, error) {
	if err := checkImplementation(node, entities.CLightning); err != nil {
		return "", decorate(node, "createInvoice", err)
	}

	body := &ClnGenInvoiceRequest{
		Amount:      satsToMsat(amount),
		Label:       fmt.Sprintf("lbl-%d-%d", time.Now().UnixNano(), correlationID()),
		Description: defaultMemo(node, memo),
	}

	var resp ClnGenInvoiceResponse
	if err := c.call(ctx, node, http.MethodPost, "v1/invoice/genInvoice", body, &resp); err != nil {
		return "", decorate(node, "createInvoice", err)
	}

	if resp.Bolt11 == "" {
		return "", decorate(node, "createInvoice", classifyf(ErrProtocol, "missing bolt11"))
	}

	return resp.Bolt11, nil
}

// PayInvoice API
func (c *CLightningService) PayInvoice(ctx context.Context, node *entities.NodeDescriptor, invoice string, amount uint64) (*entities.PayReceipt, error) {
	if err := checkImplementation(node, entities.CLightning); err != nil {
		return nil, decorate(node, "payInvoice", err)
	}

	body := &ClnPayRequest{Invoice: invoice}
	override := overrideAmount(node, invoice, amount)
	if override > 0 {
		body.Amount = satsToMsat(override)
	}

	var resp ClnPayResponse
	if err := c.call(ctx, node, http.MethodPost, "v1/pay", body, &resp); err != nil {
		return nil, decorate(node, "payInvoice", rejected(ErrPayment, err))
	}

	if resp.Status != "" && resp.Status != "complete" {
		return nil, decorate(node, "payInvoice", classify(ErrPayment, &NativeAPIError{Message: fmt.Sprintf("payment status %s", resp.Status)}))
	}

	receipt := &entities.PayReceipt{
		Preimage:    resp.PaymentPreimage,
		Destination: resp.Destination,
	}
	switch {
	case resp.AmountMsat != nil:
		receipt.Amount = ToSats(uint64(*resp.AmountMsat))
	case resp.Msatoshi != nil:
		receipt.Amount = ToSats(uint64(*resp.Msatoshi))
	}

	completeReceipt(node, receipt, invoice, override)

	return receipt, nil
}

// WaitUntilOnline API
func (c *CLightningService) WaitUntilOnline(ctx context.Context, node *entities.NodeDescriptor, interval, timeout time.Duration) error {
	return waitUntilOnline(ctx, c, node, interval, timeout)
}
