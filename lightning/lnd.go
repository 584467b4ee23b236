package lightning

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// LndService is the adapter for LND nodes (REST interface)
type LndService struct {
	HTTPAPI *HTTPAPI
}

// NewLndService returns a new LndService
func NewLndService(transport *HTTPAPI) *LndService {
	return &LndService{HTTPAPI: transport}
}

func (l *LndService) call(ctx context.Context, node *entities.NodeDescriptor, r request, out any) error {
	if err := checkImplementation(node, entities.LND); err != nil {
		return err
	}

	mac, err := macaroonHex(node)
	if err != nil {
		return err
	}

	r.secure = true
	r.headers = map[string]string{"Grpc-Metadata-macaroon": mac}

	return l.HTTPAPI.doRequest(ctx, node, r, out)
}

func (l *LndService) get(ctx context.Context, node *entities.NodeDescriptor, path string, out any) error {
	return l.call(ctx, node, request{method: http.MethodGet, path: path}, out)
}

func (l *LndService) post(ctx context.Context, node *entities.NodeDescriptor, path string, body any, out any) error {
	return l.call(ctx, node, request{method: http.MethodPost, path: path, body: body}, out)
}

// GetInfo API
func (l *LndService) GetInfo(ctx context.Context, node *entities.NodeDescriptor) (*entities.NodeInfo, error) {
	var resp LndGetInfoResponse

	if err := l.get(ctx, node, "v1/getinfo", &resp); err != nil {
		return nil, decorate(node, "getInfo", err)
	}

	if resp.IdentityPubkey == "" {
		return nil, decorate(node, "getInfo", classifyf(ErrProtocol, "missing identity_pubkey"))
	}

	info := &entities.NodeInfo{
		Pubkey:              resp.IdentityPubkey,
		Alias:               resp.Alias,
		SyncedToChain:       resp.SyncedToChain,
		BlockHeight:         resp.BlockHeight,
		NumActiveChannels:   resp.NumActiveChannels,
		NumPendingChannels:  resp.NumPendingChannels,
		NumInactiveChannels: resp.NumInactiveChannels,
	}
	if len(resp.Uris) > 0 {
		info.RPCUrl = resp.Uris[0]
	}

	return info, nil
}

// GetBalances API
func (l *LndService) GetBalances(ctx context.Context, node *entities.NodeDescriptor) (*entities.Balances, error) {
	var resp LndWalletBalanceResponse

	if err := l.get(ctx, node, "v1/balance/blockchain", &resp); err != nil {
		return nil, decorate(node, "getBalances", err)
	}

	total, err := parseSats("total_balance", resp.TotalBalance)
	if err != nil {
		return nil, decorate(node, "getBalances", err)
	}
	confirmed, err := parseSats("confirmed_balance", resp.ConfirmedBalance)
	if err != nil {
		return nil, decorate(node, "getBalances", err)
	}
	unconfirmed, err := parseSats("unconfirmed_balance", resp.UnconfirmedBalance)
	if err != nil {
		return nil, decorate(node, "getBalances", err)
	}

	return &entities.Balances{
		Total:       formatAmount(total),
		Confirmed:   formatAmount(confirmed),
		Unconfirmed: formatAmount(unconfirmed),
	}, nil
}

// GetNewAddress API
func (l *LndService) GetNewAddress(ctx context.Context, node *entities.NodeDescriptor) (string, error) {
	var resp LndNewAddressResponse

	if err := l.get(ctx, node, "v1/newaddress", &resp); err != nil {
		return "", decorate(node, "getNewAddress", err)
	}

	if resp.Address == "" {
		return "", decorate(node, "getNewAddress", classifyf(ErrProtocol, "missing address"))
	}

	return resp.Address, nil
}

// GetChannels API - open and pending open channels
func (l *LndService) GetChannels(ctx context.Context, node *entities.NodeDescriptor) ([]entities.Channel, error) {
	var (
		open    LndListChannelsResponse
		pending LndPendingChannelsResponse
	)

	if err := l.get(ctx, node, "v1/channels", &open); err != nil {
		return nil, decorate(node, "getChannels", err)
	}

	if err := l.get(ctx, node, "v1/channels/pending", &pending); err != nil {
		return nil, decorate(node, "getChannels", err)
	}

	ret := make([]entities.Channel, 0, len(open.Channels)+len(pending.PendingOpenChannels))

	for _, c := range open.Channels {
		ch := entities.Channel{
			UniqueID:     c.ChanID,
			ChannelPoint: c.ChannelPoint,
			Pubkey:       c.RemotePubkey,
			Status:       entities.ChannelClosed,
			IsPrivate:    c.Private,
		}
		if c.Active {
			ch.Status = entities.ChannelOpen
		}

		if err := lndBalances(&ch, c.Capacity, c.LocalBalance, c.RemoteBalance); err != nil {
			return nil, decorate(node, "getChannels", err)
		}
		ret = append(ret, ch)
	}

	for _, p := range pending.PendingOpenChannels {
		c := p.Channel
		ch := entities.Channel{
			UniqueID:     c.ChannelPoint,
			ChannelPoint: c.ChannelPoint,
			Pubkey:       c.RemoteNodePub,
			Status:       entities.ChannelPending,
			Pending:      true,
			IsPrivate:    c.Private,
		}

		if err := lndBalances(&ch, c.Capacity, c.LocalBalance, c.RemoteBalance); err != nil {
			return nil, decorate(node, "getChannels", err)
		}
		ret = append(ret, ch)
	}

	return ret, nil
}

func lndBalances(ch *entities.Channel, capacity, local, remote string) error {
	c, err := parseSats("capacity", capacity)
	if err != nil {
		return err
	}
	l, err := parseSats("local_balance", local)
	if err != nil {
		return err
	}
	r, err := parseSats("remote_balance", remote)
	if err != nil {
		return err
	}

	setBalances(ch, c, l, r)
	return nil
}

// GetPeers API
func (l *LndService) GetPeers(ctx context.Context, node *entities.NodeDescriptor) ([]entities.Peer, error) {
	var resp LndListPeersResponse

	if err := l.get(ctx, node, "v1/peers", &resp); err != nil {
		return nil, decorate(node, "getPeers", err)
	}

	ret := make([]entities.Peer, 0, len(resp.Peers))
	for _, p := range resp.Peers {
		ret = append(ret, entities.Peer{Pubkey: p.PubKey, Address: p.Address})
	}

	return ret, nil
}

func (l *LndService) connectPeer(ctx context.Context, node *entities.NodeDescriptor, rpcUrl string) error {
	pubkey, host := entities.SplitConnectionString(rpcUrl)
	if host == "" {
		return fmt.Errorf("no host in %q", rpcUrl)
	}

	body := &LndConnectPeerRequest{Addr: LndLightningAddress{Pubkey: pubkey, Host: host}}
	return l.post(ctx, node, "v1/peers", body, nil)
}

// ConnectPeers API
func (l *LndService) ConnectPeers(ctx context.Context, node *entities.NodeDescriptor, rpcUrls []string) error {
	return decorate(node, "connectPeers", connectPeers(ctx, node, rpcUrls, l.GetPeers, l.connectPeer))
}

// OpenChannel API
func (l *LndService) OpenChannel(ctx context.Context, options entities.OpenChannelOptions) (*entities.ChannelPoint, error) {
	node := options.From
	if err := checkImplementation(node, entities.LND); err != nil {
		return nil, decorate(node, "openChannel", err)
	}

	if err := validateOpenOptions(options); err != nil {
		return nil, decorate(node, "openChannel", err)
	}

	// Add peer if not connected already
	if err := l.ConnectPeers(ctx, node, []string{options.ToRPCUrl}); err != nil {
		return nil, err
	}

	pubkey, _ := entities.SplitConnectionString(options.ToRPCUrl)
	pubkeyBytes, err := hex.DecodeString(pubkey)
	if err != nil {
		return nil, decorate(node, "openChannel", classifyf(ErrConfiguration, "invalid pubkey %q", pubkey))
	}

	body := &LndOpenChannelRequest{
		NodePubkey:         base64.StdEncoding.EncodeToString(pubkeyBytes),
		LocalFundingAmount: formatSats(options.Amount),
		Private:            options.IsPrivate,
	}

	var resp LndChannelPoint
	if err := l.post(ctx, node, "v1/channels", body, &resp); err != nil {
		return nil, decorate(node, "openChannel", rejected(ErrChannelOpen, err))
	}

	txid, err := fundingTxid(resp)
	if err != nil {
		return nil, decorate(node, "openChannel", err)
	}

	return &entities.ChannelPoint{TxID: txid, Index: resp.OutputIndex}, nil
}

// fundingTxid returns the txid in the usual (reversed) hex notation
func fundingTxid(cp LndChannelPoint) (string, error) {
	if cp.FundingTxidStr != "" {
		return cp.FundingTxidStr, nil
	}

	raw, err := base64.StdEncoding.DecodeString(cp.FundingTxidBytes)
	if err != nil {
		return "", classifyf(ErrProtocol, "invalid funding_txid_bytes: %v", err)
	}

	hash, err := chainhash.NewHash(raw)
	if err != nil {
		return "", classifyf(ErrProtocol, "invalid funding_txid_bytes: %v", err)
	}

	return hash.String(), nil
}

// CloseChannel API - always forced
func (l *LndService) CloseChannel(ctx context.Context, node *entities.NodeDescriptor, channelPoint string) (*entities.CloseReceipt, error) {
	cp, err := entities.ParseChannelPoint(channelPoint)
	if err != nil {
		return nil, decorate(node, "closeChannel", classify(ErrConfiguration, err))
	}

	var resp LndCloseStatusUpdate
	r := request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("v1/channels/%s/%d?force=true", cp.TxID, cp.Index),
		stream: true,
	}
	if err := l.call(ctx, node, r, &resp); err != nil {
		return nil, decorate(node, "closeChannel", err)
	}

	receipt := &entities.CloseReceipt{ChannelPoint: channelPoint}
	if resp.Result != nil && resp.Result.ClosePending != nil {
		txid, err := fundingTxid(LndChannelPoint{FundingTxidBytes: resp.Result.ClosePending.Txid})
		if err == nil {
			receipt.ClosingTxID = txid
		}
	}

	return receipt, nil
}

// CreateInvoice API
func (l *LndService) CreateInvoice(ctx context.Context, node *entities.NodeDescriptor, amount uint64, memo string) (string, error) {
	if err := checkImplementation(node, entities.LND); err != nil {
		return "", decorate(node, "createInvoice", err)
	}

	body := &LndAddInvoiceRequest{Value: formatSats(amount), Memo: defaultMemo(node, memo)}

	var resp LndAddInvoiceResponse
	if err := l.post(ctx, node, "v1/invoices", body, &resp); err != nil {
		return "", decorate(node, "createInvoice", err)
	}

	if resp.PaymentRequest == "" {
		return "", decorate(node, "createInvoice", classifyf(ErrProtocol, "missing payment_request"))
	}

	return resp.PaymentRequest, nil
}

// PayInvoice API
func (l *LndService) PayInvoice(ctx context.Context, node *entities.NodeDescriptor, invoice string, amount uint64) (*entities.PayReceipt, error) {
	if err := checkImplementation(node, entities.LND); err != nil {
		return nil, decorate(node, "payInvoice", err)
	}

	body := &LndSendPaymentRequest{PaymentRequest: invoice}
	override := overrideAmount(node, invoice, amount)
	if override > 0 {
		body.Amt = formatSats(override)
	}

	var resp LndSendPaymentResponse
	if err := l.post(ctx, node, "v1/channels/transactions", body, &resp); err != nil {
		return nil, decorate(node, "payInvoice", rejected(ErrPayment, err))
	}

	if resp.PaymentError != "" {
		return nil, decorate(node, "payInvoice", classify(ErrPayment, &NativeAPIError{Message: resp.PaymentError}))
	}

	receipt := &entities.PayReceipt{}

	if resp.PaymentPreimage != "" {
		preimage, err := base64.StdEncoding.DecodeString(resp.PaymentPreimage)
		if err != nil {
			return nil, decorate(node, "payInvoice", classifyf(ErrProtocol, "invalid payment_preimage: %v", err))
		}
		receipt.Preimage = hex.EncodeToString(preimage)
	}

	if route := resp.PaymentRoute; route != nil {
		if len(route.Hops) > 0 {
			receipt.Destination = route.Hops[len(route.Hops)-1].PubKey
		}
		total, err := parseSats("total_amt", route.TotalAmt)
		if err != nil {
			return nil, decorate(node, "payInvoice", err)
		}
		fees, err := parseSats("total_fees", route.TotalFees)
		if err != nil {
			return nil, decorate(node, "payInvoice", err)
		}
		if paid := total - minAmount(fees, total); paid > 0 {
			receipt.Amount = formatAmount(paid)
		}
	}

	completeReceipt(node, receipt, invoice, override)

	return receipt, nil
}

func minAmount(a, b btcutil.Amount) btcutil.Amount {
	if a < b {
		return a
	}
	return b
}

// WaitUntilOnline API
func (l *LndService) WaitUntilOnline(ctx context.Context, node *entities.NodeDescriptor, interval, timeout time.Duration) error {
	return waitUntilOnline(ctx, l, node, interval, timeout)
}
