package lightning

import (
	"context"
	"fmt"
	"time"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/getsentry/sentry-go"
)

//go:generate mockgen -destination=mocks/lightning_service.go -package=mocks . LightningService

// LightningService is the capability set every node implementation adapter provides
type LightningService interface {
	GetInfo(ctx context.Context, node *entities.NodeDescriptor) (*entities.NodeInfo, error)
	GetBalances(ctx context.Context, node *entities.NodeDescriptor) (*entities.Balances, error)
	GetNewAddress(ctx context.Context, node *entities.NodeDescriptor) (string, error)
	// GetChannels returns only channels owned by the node (inbound-only listings are filtered)
	GetChannels(ctx context.Context, node *entities.NodeDescriptor) ([]entities.Channel, error)
	GetPeers(ctx context.Context, node *entities.NodeDescriptor) ([]entities.Peer, error)
	// ConnectPeers is best effort, a peer that fails to connect is logged and skipped
	ConnectPeers(ctx context.Context, node *entities.NodeDescriptor, rpcUrls []string) error
	OpenChannel(ctx context.Context, options entities.OpenChannelOptions) (*entities.ChannelPoint, error)
	// CloseChannel always force closes
	CloseChannel(ctx context.Context, node *entities.NodeDescriptor, channelPoint string) (*entities.CloseReceipt, error)
	CreateInvoice(ctx context.Context, node *entities.NodeDescriptor, amount uint64, memo string) (string, error)
	// PayInvoice pays invoice, amount (when non zero) is used only for invoices without amount
	PayInvoice(ctx context.Context, node *entities.NodeDescriptor, invoice string, amount uint64) (*entities.PayReceipt, error)
	WaitUntilOnline(ctx context.Context, node *entities.NodeDescriptor, interval, timeout time.Duration) error
}

// Compile time check for the interface
var (
	_ LightningService = &LndService{}
	_ LightningService = &CLightningService{}
	_ LightningService = &SenseiService{}
)

// Registry resolves the adapter for a node by its implementation kind
type Registry struct {
	services map[entities.Implementation]LightningService
}

// NewRegistry returns a registry with all adapters sharing the transport
func NewRegistry(transport *HTTPAPI) *Registry {
	if transport == nil {
		transport = NewHTTPAPI()
	}

	return &Registry{
		services: map[entities.Implementation]LightningService{
			entities.LND:        NewLndService(transport),
			entities.CLightning: NewCLightningService(transport),
			entities.Sensei:     NewSenseiService(transport),
		},
	}
}

// NewRegistryWith returns a registry using the given adapters, kinds not present fail to resolve
func NewRegistryWith(services map[entities.Implementation]LightningService) *Registry {
	copied := make(map[entities.Implementation]LightningService, len(services))
	for k, v := range services {
		copied[k] = v
	}

	return &Registry{services: copied}
}

// For returns the adapter for node, it never falls back to a default adapter
func (r *Registry) For(node *entities.NodeDescriptor) (LightningService, error) {
	if node == nil {
		return nil, classifyf(ErrConfiguration, "no node")
	}

	service, ok := r.services[node.Implementation]
	if !ok || service == nil {
		err := decorate(node, "dispatch", classify(ErrConfiguration, fmt.Errorf("unsupported implementation %v", node.Implementation)))
		sentry.CaptureException(err)
		return nil, err
	}

	return service, nil
}

// checkImplementation fails when an adapter is invoked against a node of another kind
func checkImplementation(node *entities.NodeDescriptor, expected entities.Implementation) error {
	if node == nil {
		return classifyf(ErrConfiguration, "no node")
	}

	if node.Implementation != expected {
		return classifyf(ErrConfiguration, "%v adapter cannot be used for %v node %s", expected, node.Implementation, node.Name)
	}

	return nil
}
