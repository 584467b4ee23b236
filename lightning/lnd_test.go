package lightning

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lndFixture(t *testing.T) (*LndService, *fakeNode, *entities.NodeDescriptor) {
	fake := newFakeNode(t)
	return NewLndService(fake.transport()), fake, testNode(t, entities.LND)
}

func TestLndGetInfo(t *testing.T) {
	lnd, fake, node := lndFixture(t)
	fake.reply(http.MethodGet, "/v1/getinfo", 200, `{"identity_pubkey":"`+alicePubkey+`","alias":"alice","num_pending_channels":1,
		"num_active_channels":2,"num_inactive_channels":3,"block_height":101,"synced_to_chain":true,"uris":["`+alicePubkey+`@172.17.0.2:9735"]}`)

	info, err := lnd.GetInfo(context.Background(), node)
	require.NoError(t, err)

	assert.Equal(t, &entities.NodeInfo{
		Pubkey:              alicePubkey,
		Alias:               "alice",
		RPCUrl:              alicePubkey + "@172.17.0.2:9735",
		SyncedToChain:       true,
		BlockHeight:         101,
		NumActiveChannels:   2,
		NumPendingChannels:  1,
		NumInactiveChannels: 3,
	}, info)

	fake.reply(http.MethodGet, "/v1/getinfo", 200, `{}`)
	_, err = lnd.GetInfo(context.Background(), node)
	assert.True(t, errors.Is(err, ErrProtocol))
}

func TestLndGetBalances(t *testing.T) {
	lnd, fake, node := lndFixture(t)
	fake.reply(http.MethodGet, "/v1/balance/blockchain", 200, `{"total_balance":"1500","confirmed_balance":"1000","unconfirmed_balance":"500"}`)

	balances, err := lnd.GetBalances(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, &entities.Balances{Total: "1500", Confirmed: "1000", Unconfirmed: "500"}, balances)
}

func TestLndGetBalancesMalformed(t *testing.T) {
	lnd, fake, node := lndFixture(t)

	for _, body := range []string{
		`{"total_balance":"12.5","confirmed_balance":"10","unconfirmed_balance":"2"}`,
		`{"total_balance":"10","confirmed_balance":"x"}`,
		`{"total_balance":"10","confirmed_balance":"10","unconfirmed_balance":"-1"}`,
	} {
		fake.reply(http.MethodGet, "/v1/balance/blockchain", 200, body)

		balances, err := lnd.GetBalances(context.Background(), node)
		assert.Nil(t, balances, body)
		assert.True(t, errors.Is(err, ErrProtocol), body)

		var nodeErr *NodeError
		require.True(t, errors.As(err, &nodeErr))
		assert.Equal(t, "getBalances", nodeErr.Op)
	}
}

func TestLndGetNewAddress(t *testing.T) {
	lnd, fake, node := lndFixture(t)
	fake.reply(http.MethodGet, "/v1/newaddress", 200, `{"address":"bcrt1qlnd"}`)

	address, err := lnd.GetNewAddress(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, "bcrt1qlnd", address)

	fake.reply(http.MethodGet, "/v1/newaddress", 200, `{}`)
	_, err = lnd.GetNewAddress(context.Background(), node)
	assert.True(t, errors.Is(err, ErrProtocol))
}

func TestLndGetChannels(t *testing.T) {
	lnd, fake, node := lndFixture(t)
	fake.reply(http.MethodGet, "/v1/channels", 200, `{"channels":[
		{"active":true,"remote_pubkey":"`+bobPubkey+`","channel_point":"aa:0","chan_id":"1337","capacity":"100000","local_balance":"70000","remote_balance":"26530","private":true},
		{"active":false,"remote_pubkey":"`+bobPubkey+`","channel_point":"bb:1","chan_id":"1338","capacity":"100","local_balance":"90","remote_balance":"90"}]}`)
	fake.reply(http.MethodGet, "/v1/channels/pending", 200, `{"pending_open_channels":[
		{"channel":{"remote_node_pub":"`+bobPubkey+`","channel_point":"cc:0","capacity":"50000","local_balance":"46530","remote_balance":"0"}}]}`)

	channels, err := lnd.GetChannels(context.Background(), node)
	require.NoError(t, err)
	require.Len(t, channels, 3)

	assert.Equal(t, entities.Channel{
		UniqueID:      "1337",
		ChannelPoint:  "aa:0",
		Pubkey:        bobPubkey,
		Capacity:      "100000",
		LocalBalance:  "70000",
		RemoteBalance: "26530",
		Status:        entities.ChannelOpen,
		IsPrivate:     true,
	}, channels[0])

	assert.Equal(t, entities.ChannelClosed, channels[1].Status)
	assert.Equal(t, "90", channels[1].LocalBalance)
	assert.Equal(t, "10", channels[1].RemoteBalance, "clamped to capacity")

	assert.Equal(t, "cc:0", channels[2].ChannelPoint)
	assert.Equal(t, entities.ChannelPending, channels[2].Status)
	assert.True(t, channels[2].Pending)
}

func TestLndGetChannelsMalformed(t *testing.T) {
	tests := map[string]struct {
		open    string
		pending string
	}{
		"capacity": {
			open:    `{"channels":[{"channel_point":"aa:0","capacity":"1e5","local_balance":"1","remote_balance":"1"}]}`,
			pending: `{}`,
		},
		"local balance": {
			open:    `{"channels":[{"channel_point":"aa:0","capacity":"100","local_balance":"x","remote_balance":"1"}]}`,
			pending: `{}`,
		},
		"pending remote balance": {
			open:    `{"channels":[]}`,
			pending: `{"pending_open_channels":[{"channel":{"channel_point":"cc:0","capacity":"100","local_balance":"1","remote_balance":"-3"}}]}`,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			lnd, fake, node := lndFixture(t)
			fake.reply(http.MethodGet, "/v1/channels", 200, tc.open)
			fake.reply(http.MethodGet, "/v1/channels/pending", 200, tc.pending)

			channels, err := lnd.GetChannels(context.Background(), node)
			assert.Nil(t, channels)
			assert.True(t, errors.Is(err, ErrProtocol))
		})
	}
}

func TestLndConnectPeers(t *testing.T) {
	lnd, fake, node := lndFixture(t)
	fake.reply(http.MethodGet, "/v1/peers", 200, `{"peers":[{"pub_key":"`+alicePubkey+`","address":"alice:9735"}]}`)
	fake.reply(http.MethodPost, "/v1/peers", 200, `{}`)

	err := lnd.ConnectPeers(context.Background(), node, []string{alicePubkey + "@alice:9735", bobRPCUrl, "03" + bobPubkey[2:]})
	require.NoError(t, err)

	// The peer without host cannot be connected and is skipped
	assert.Equal(t, 1, fake.count(http.MethodPost, "/v1/peers"))

	var body LndConnectPeerRequest
	require.NoError(t, json.Unmarshal([]byte(fake.last(http.MethodPost, "/v1/peers").Body), &body))
	assert.Equal(t, LndLightningAddress{Pubkey: bobPubkey, Host: "bob:9735"}, body.Addr)
}

func TestLndOpenChannel(t *testing.T) {
	lnd, fake, node := lndFixture(t)

	txid := chainhash.DoubleHashH([]byte("funding"))
	fake.reply(http.MethodGet, "/v1/peers", 200, `{"peers":[{"pub_key":"`+bobPubkey+`"}]}`)
	fake.reply(http.MethodPost, "/v1/channels", 200, `{"funding_txid_bytes":"`+base64.StdEncoding.EncodeToString(txid[:])+`","output_index":1}`)

	point, err := lnd.OpenChannel(context.Background(), entities.OpenChannelOptions{From: node, ToRPCUrl: bobRPCUrl, Amount: 250000})
	require.NoError(t, err)
	assert.Equal(t, &entities.ChannelPoint{TxID: txid.String(), Index: 1}, point)
	assert.Equal(t, 0, fake.count(http.MethodPost, "/v1/peers"), "already connected")

	var body LndOpenChannelRequest
	require.NoError(t, json.Unmarshal([]byte(fake.last(http.MethodPost, "/v1/channels").Body), &body))
	raw, err := base64.StdEncoding.DecodeString(body.NodePubkey)
	require.NoError(t, err)
	assert.Equal(t, bobPubkey, hex.EncodeToString(raw))
	assert.Equal(t, "250000", body.LocalFundingAmount)
	assert.False(t, body.Private)
}

func TestLndOpenChannelRejected(t *testing.T) {
	lnd, fake, node := lndFixture(t)
	fake.reply(http.MethodGet, "/v1/peers", 200, `{"peers":[{"pub_key":"`+bobPubkey+`"}]}`)
	fake.reply(http.MethodPost, "/v1/channels", 500, `{"code":2,"message":"not enough witness outputs to create funding transaction"}`)

	_, err := lnd.OpenChannel(context.Background(), entities.OpenChannelOptions{From: node, ToRPCUrl: bobRPCUrl, Amount: 250000})
	assert.True(t, errors.Is(err, ErrChannelOpen))

	var native *NativeAPIError
	require.True(t, errors.As(err, &native))
	assert.Equal(t, 2, native.Code)
}

func TestLndCloseChannel(t *testing.T) {
	lnd, fake, node := lndFixture(t)

	closing := chainhash.DoubleHashH([]byte("closing"))
	fake.reply(http.MethodDelete, "/v1/channels/aa/1", 200,
		`{"result":{"close_pending":{"txid":"`+base64.StdEncoding.EncodeToString(closing[:])+`","output_index":0}}}`+"\n"+`{"result":{"chan_close":{}}}`)

	receipt, err := lnd.CloseChannel(context.Background(), node, "aa:1")
	require.NoError(t, err)
	assert.Equal(t, &entities.CloseReceipt{ChannelPoint: "aa:1", ClosingTxID: closing.String()}, receipt)
	assert.Equal(t, "force=true", fake.last(http.MethodDelete, "/v1/channels/aa/1").Query)

	_, err = lnd.CloseChannel(context.Background(), node, "not a channel point")
	assert.True(t, IsConfigurationError(err))
}

func TestLndCreateInvoice(t *testing.T) {
	lnd, fake, node := lndFixture(t)
	fake.reply(http.MethodPost, "/v1/invoices", 200, `{"r_hash":"AA==","payment_request":"lnbcrt1lnd","add_index":"1"}`)

	invoice, err := lnd.CreateInvoice(context.Background(), node, 1000, "coffee")
	require.NoError(t, err)
	assert.Equal(t, "lnbcrt1lnd", invoice)

	var body LndAddInvoiceRequest
	require.NoError(t, json.Unmarshal([]byte(fake.last(http.MethodPost, "/v1/invoices").Body), &body))
	assert.Equal(t, LndAddInvoiceRequest{Value: "1000", Memo: "coffee"}, body)
}

func TestLndPayInvoice(t *testing.T) {
	lnd, fake, node := lndFixture(t)
	invoice, _ := testInvoice(t, 0)

	fake.reply(http.MethodPost, "/v1/channels/transactions", 200, `{"payment_error":"","payment_preimage":"AP8=",
		"payment_route":{"total_amt":"1010","total_fees":"10","hops":[{"pub_key":"`+alicePubkey+`"},{"pub_key":"`+bobPubkey+`"}]}}`)

	receipt, err := lnd.PayInvoice(context.Background(), node, invoice, 1000)
	require.NoError(t, err)
	assert.Equal(t, &entities.PayReceipt{Preimage: "00ff", Amount: "1000", Destination: bobPubkey}, receipt)

	var body LndSendPaymentRequest
	require.NoError(t, json.Unmarshal([]byte(fake.last(http.MethodPost, "/v1/channels/transactions").Body), &body))
	assert.Equal(t, LndSendPaymentRequest{PaymentRequest: invoice, Amt: "1000"}, body)
}

func TestLndPayInvoiceWithAmountIgnoresOverride(t *testing.T) {
	lnd, fake, node := lndFixture(t)
	invoice, destination := testInvoice(t, 3000000)
	fake.reply(http.MethodPost, "/v1/channels/transactions", 200, `{"payment_preimage":"AP8="}`)

	receipt, err := lnd.PayInvoice(context.Background(), node, invoice, 1000)
	require.NoError(t, err)
	assert.Equal(t, &entities.PayReceipt{Preimage: "00ff", Amount: "3000", Destination: destination}, receipt)

	var body LndSendPaymentRequest
	require.NoError(t, json.Unmarshal([]byte(fake.last(http.MethodPost, "/v1/channels/transactions").Body), &body))
	assert.Empty(t, body.Amt)
}

func TestLndPayInvoiceFailed(t *testing.T) {
	lnd, fake, node := lndFixture(t)
	fake.reply(http.MethodPost, "/v1/channels/transactions", 200, `{"payment_error":"unable to find a path to destination"}`)

	_, err := lnd.PayInvoice(context.Background(), node, "lnbcrt1", 0)
	assert.True(t, errors.Is(err, ErrPayment))

	var native *NativeAPIError
	require.True(t, errors.As(err, &native))
	assert.Equal(t, "unable to find a path to destination", native.Message)
}

func TestLndPayInvoiceMalformedRoute(t *testing.T) {
	lnd, fake, node := lndFixture(t)
	fake.reply(http.MethodPost, "/v1/channels/transactions", 200, `{"payment_preimage":"AP8=","payment_route":{"total_amt":"10.1","total_fees":"0"}}`)

	_, err := lnd.PayInvoice(context.Background(), node, "lnbcrt1", 0)
	assert.True(t, errors.Is(err, ErrProtocol))
}

func TestLndWrongImplementation(t *testing.T) {
	lnd, fake, _ := lndFixture(t)
	node := testNode(t, entities.CLightning)

	_, err := lnd.GetInfo(context.Background(), node)
	assert.True(t, IsConfigurationError(err))

	_, err = lnd.PayInvoice(context.Background(), node, "lnbcrt1", 0)
	assert.True(t, IsConfigurationError(err))

	assert.Empty(t, fake.called())
}
