package lightning

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/bolt-observer/nodectl/lightning/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiSelection(t *testing.T) {
	registry := NewRegistry(nil)

	for _, impl := range entities.Implementations() {
		service, err := registry.For(testNode(t, impl))
		require.NoError(t, err)

		switch impl {
		case entities.LND:
			assert.IsType(t, &LndService{}, service)
		case entities.CLightning:
			assert.IsType(t, &CLightningService{}, service)
		case entities.Sensei:
			assert.IsType(t, &SenseiService{}, service)
		}
	}

	// Invalid implementation never falls back to a default adapter
	service, err := registry.For(testNode(t, entities.Implementation(500)))
	assert.Nil(t, service)
	assert.True(t, IsConfigurationError(err))

	_, err = registry.For(nil)
	assert.True(t, IsConfigurationError(err))
}

func TestRegistryWith(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockLightningService(ctrl)

	services := map[entities.Implementation]LightningService{entities.Sensei: mock}
	registry := NewRegistryWith(services)

	// Later changes to the map do not leak into the registry
	services[entities.LND] = mock

	node := testNode(t, entities.Sensei)
	mock.EXPECT().GetInfo(gomock.Any(), node).Return(&entities.NodeInfo{Pubkey: alicePubkey}, nil)

	service, err := registry.For(node)
	require.NoError(t, err)
	info, err := service.GetInfo(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, alicePubkey, info.Pubkey)

	_, err = registry.For(testNode(t, entities.LND))
	assert.True(t, IsConfigurationError(err))
}

func TestAdapterRejectsOtherImplementation(t *testing.T) {
	fake := newFakeNode(t)
	registry := NewRegistry(fake.transport())
	ctx := context.Background()

	for _, impl := range entities.Implementations() {
		service, err := registry.For(testNode(t, impl))
		require.NoError(t, err)

		for _, other := range entities.Implementations() {
			if other == impl {
				continue
			}
			node := testNode(t, other)

			_, err := service.GetBalances(ctx, node)
			assert.True(t, IsConfigurationError(err), "%v adapter with %v node", impl, other)

			_, err = service.CreateInvoice(ctx, node, 1, "")
			assert.True(t, IsConfigurationError(err), "%v adapter with %v node", impl, other)
		}
	}

	assert.Empty(t, fake.called())
}

// Every operation surfaces the native error envelope unchanged
func TestErrorEnvelope(t *testing.T) {
	for _, impl := range entities.Implementations() {
		t.Run(impl.String(), func(t *testing.T) {
			fake := newFakeNode(t)
			fake.replyAll(200, `{"error":{"code":42,"message":"boom"}}`)

			node := testNode(t, impl)
			service, err := NewRegistry(fake.transport()).For(node)
			require.NoError(t, err)
			ctx := context.Background()

			calls := map[string]func() error{
				"getInfo":       func() error { _, err := service.GetInfo(ctx, node); return err },
				"getBalances":   func() error { _, err := service.GetBalances(ctx, node); return err },
				"getNewAddress": func() error { _, err := service.GetNewAddress(ctx, node); return err },
				"getChannels":   func() error { _, err := service.GetChannels(ctx, node); return err },
				"getPeers":      func() error { _, err := service.GetPeers(ctx, node); return err },
				"connectPeers":  func() error { return service.ConnectPeers(ctx, node, []string{bobRPCUrl}) },
				"openChannel": func() error {
					_, err := service.OpenChannel(ctx, entities.OpenChannelOptions{From: node, ToRPCUrl: bobRPCUrl, Amount: 1})
					return err
				},
				"closeChannel":  func() error { _, err := service.CloseChannel(ctx, node, "aa:0"); return err },
				"createInvoice": func() error { _, err := service.CreateInvoice(ctx, node, 1, "memo"); return err },
				"payInvoice":    func() error { _, err := service.PayInvoice(ctx, node, "lnbcrt1", 0); return err },
			}

			for name, call := range calls {
				err := call()
				require.Error(t, err, name)

				var native *NativeAPIError
				require.True(t, errors.As(err, &native), name)
				assert.Equal(t, 42, native.Code, name)
				assert.Equal(t, "boom", native.Message, name)

				var nodeErr *NodeError
				require.True(t, errors.As(err, &nodeErr), name)
				assert.Equal(t, "alice", nodeErr.Node, name)
				assert.Equal(t, impl, nodeErr.Implementation, name)
				assert.NotEmpty(t, nodeErr.Op, name)
			}
		})
	}
}

func TestNodeErrorDecoration(t *testing.T) {
	node := testNode(t, entities.LND)
	node.Host = "10.0.0.1"

	err := decorate(node, "getInfo", classify(ErrNetwork, errors.New("connection refused")))

	var nodeErr *NodeError
	require.True(t, errors.As(err, &nodeErr))
	assert.Equal(t, "alice", nodeErr.Node)
	assert.Equal(t, entities.LND, nodeErr.Implementation)
	assert.Equal(t, "10.0.0.1:8080", nodeErr.Endpoint)
	assert.Equal(t, "getInfo", nodeErr.Op)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Contains(t, err.Error(), "connection refused")

	// Decorating twice keeps the innermost operation
	assert.Same(t, err, decorate(node, "waitUntilOnline", err))
	assert.Nil(t, decorate(node, "getInfo", nil))
}

func TestRejected(t *testing.T) {
	native := &NativeAPIError{Code: 1, Message: "no"}
	assert.True(t, errors.Is(rejected(ErrPayment, native), ErrPayment))

	network := classify(ErrNetwork, errors.New("reset"))
	err := rejected(ErrPayment, network)
	assert.False(t, errors.Is(err, ErrPayment))
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestConcurrentCalls(t *testing.T) {
	fake := newFakeNode(t)
	fake.reply(http.MethodGet, "/v1/node/info", 200, `{"node_info":{"node_pubkey":"`+alicePubkey+`"}}`)
	sensei := NewSenseiService(fake.transport())

	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 20; i++ {
		node := testNode(t, entities.Sensei)
		node.Name = fmt.Sprintf("node%d", i)

		wg.Add(1)
		go func(node *entities.NodeDescriptor) {
			defer wg.Done()

			info, err := sensei.GetInfo(context.Background(), node)
			if err == nil && info.Pubkey != alicePubkey {
				err = fmt.Errorf("unexpected pubkey %s", info.Pubkey)
			}
			errs <- err
		}(node)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 20, fake.count(http.MethodGet, "/v1/node/info"))
}
