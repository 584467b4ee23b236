package lightning

import (
	"context"
	"strconv"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/golang/glog"
	"github.com/lightningnetwork/lnd/lnwire"
)

// ToSats converts millisatoshis to satoshis (decimal text), truncating: ToSats(1999) == "1"
func ToSats(msat uint64) string {
	return formatAmount(msatToAmount(msat))
}

func msatToAmount(msat uint64) btcutil.Amount {
	return lnwire.MilliSatoshi(msat).ToSatoshis()
}

func satsToMsat(sats uint64) uint64 {
	return uint64(lnwire.NewMSatFromSatoshis(btcutil.Amount(sats)))
}

func formatAmount(a btcutil.Amount) string {
	return strconv.FormatInt(int64(a), 10)
}

func formatSats(sats uint64) string {
	return strconv.FormatUint(sats, 10)
}

// parseSats parses decimal satoshi text returned by LND REST (int64 values are sent as strings)
func parseSats(field, str string) (btcutil.Amount, error) {
	if str == "" {
		return 0, nil
	}

	ret, err := strconv.ParseInt(str, 10, 64)
	if err != nil || ret < 0 {
		return 0, classifyf(ErrProtocol, "invalid %s %q", field, str)
	}

	return btcutil.Amount(ret), nil
}

// setBalances fills capacity and balances keeping local + remote <= capacity
func setBalances(ch *entities.Channel, capacity, local, remote btcutil.Amount) {
	if capacity < 0 {
		capacity = 0
	}
	if local < 0 {
		local = 0
	}
	if remote < 0 {
		remote = 0
	}

	if local > capacity {
		glog.Warningf("Channel %s local balance %d exceeds capacity %d", ch.UniqueID, local, capacity)
		local = capacity
	}
	if local+remote > capacity {
		glog.Warningf("Channel %s remote balance %d exceeds remaining capacity %d", ch.UniqueID, remote, capacity-local)
		remote = capacity - local
	}

	ch.Capacity = formatAmount(capacity)
	ch.LocalBalance = formatAmount(local)
	ch.RemoteBalance = formatAmount(remote)
}

// missingPeers returns the requested connection strings whose pubkey is not among current peers
func missingPeers(current []entities.Peer, rpcUrls []string) []string {
	known := make(map[string]struct{}, len(current))
	for _, p := range current {
		known[p.Pubkey] = struct{}{}
	}

	ret := make([]string, 0)
	for _, url := range rpcUrls {
		pubkey, _ := entities.SplitConnectionString(url)
		if _, ok := known[pubkey]; ok {
			continue
		}
		known[pubkey] = struct{}{}
		ret = append(ret, url)
	}

	return ret
}

type peerLister func(ctx context.Context, node *entities.NodeDescriptor) ([]entities.Peer, error)
type peerConnector func(ctx context.Context, node *entities.NodeDescriptor, rpcUrl string) error

// connectPeers connects the peers not connected yet, individual failures are only logged
func connectPeers(ctx context.Context, node *entities.NodeDescriptor, rpcUrls []string, list peerLister, connect peerConnector) error {
	peers, err := list(ctx, node)
	if err != nil {
		return err
	}

	for _, url := range missingPeers(peers, rpcUrls) {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := connect(ctx, node, url); err != nil {
			glog.Warningf("Failed to connect peer %q to %v node %s: %v", url, node.Implementation, node.Name, err)
			continue
		}
		glog.V(2).Infof("Connected peer %q to %v node %s", url, node.Implementation, node.Name)
	}

	return nil
}
