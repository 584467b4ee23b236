package main

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/mitchellh/hashstructure/v2"
	cli "github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/bolt-observer/nodectl/lightning"
	"github.com/bolt-observer/nodectl/network"
)

const maxConcurrentQueries = 8

// nodeSnapshot is the state of one node as shown by status
type nodeSnapshot struct {
	Name           string             `json:"name"`
	Implementation string             `json:"implementation"`
	Status         string             `json:"status"`
	Info           *entities.NodeInfo `json:"info,omitempty"`
	Balances       *entities.Balances `json:"balances,omitempty"`
	Error          string             `json:"error,omitempty"`
}

// collect queries all started nodes concurrently. Nodes that are not started are reported without
// querying them, a failure of a started node is reported in its snapshot.
func collect(ctx context.Context, registry *lightning.Registry, nw *network.Network) []nodeSnapshot {
	ret := make([]nodeSnapshot, len(nw.Nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)

	for i, node := range nw.Nodes {
		ret[i] = nodeSnapshot{
			Name:           node.Name,
			Implementation: node.Implementation.String(),
			Status:         node.Status.String(),
		}

		if node.Status != entities.Started {
			continue
		}

		i, node := i, node
		g.Go(func() error {
			ret[i] = query(gctx, registry, node, ret[i])
			return nil
		})
	}

	_ = g.Wait()

	return ret
}

func query(ctx context.Context, registry *lightning.Registry, node *entities.NodeDescriptor, snap nodeSnapshot) nodeSnapshot {
	service, err := registry.For(node)
	if err != nil {
		snap.Error = err.Error()
		return snap
	}

	info, err := service.GetInfo(ctx, node)
	if err != nil {
		glog.V(1).Infof("Node %s is not reachable: %v", node.Name, err)
		snap.Error = err.Error()
		return snap
	}
	snap.Info = info

	balances, err := service.GetBalances(ctx, node)
	if err != nil {
		snap.Error = err.Error()
		return snap
	}
	snap.Balances = balances

	return snap
}

// changeTracker remembers the last printed snapshot of every node
type changeTracker struct {
	hashes map[string]uint64
}

func newChangeTracker() *changeTracker {
	return &changeTracker{hashes: make(map[string]uint64)}
}

// changed returns the snapshots that differ from the previous call
func (c *changeTracker) changed(snapshots []nodeSnapshot) []nodeSnapshot {
	ret := make([]nodeSnapshot, 0)
	seen := make(map[string]struct{}, len(snapshots))

	for _, snap := range snapshots {
		seen[snap.Name] = struct{}{}

		hash, err := hashstructure.Hash(snap, hashstructure.FormatV2, nil)
		if err != nil {
			glog.Warningf("Could not hash snapshot of %s: %v", snap.Name, err)
			ret = append(ret, snap)
			continue
		}

		if old, ok := c.hashes[snap.Name]; ok && old == hash {
			continue
		}

		c.hashes[snap.Name] = hash
		ret = append(ret, snap)
	}

	for name := range c.hashes {
		if _, ok := seen[name]; !ok {
			delete(c.hashes, name)
		}
	}

	return ret
}

func (n *nodectl) status(cmdCtx *cli.Context) error {
	path := cmdCtx.GlobalString("network")

	nw, err := network.Load(path)
	if err != nil {
		return err
	}

	if !cmdCtx.Bool("watch") {
		ctx, cancel, err := commandContext(cmdCtx, true)
		if err != nil {
			return err
		}
		defer cancel()

		return n.print(collect(ctx, n.registry, nw))
	}

	ctx, cancel, err := commandContext(cmdCtx, false)
	if err != nil {
		return err
	}
	defer cancel()

	interval := cmdCtx.Duration("interval")
	if interval <= 0 {
		interval = 10 * lightning.DefaultPollInterval
	}

	return n.watch(ctx, path, nw, interval)
}

// watch prints changed snapshots on every interval and whenever the network file changes
func (n *nodectl) watch(ctx context.Context, path string, nw *network.Network, interval time.Duration) error {
	changes := make(chan *network.Network, 1)

	go func() {
		err := network.Watch(ctx, path, func(updated *network.Network) {
			// Only the newest network matters
			select {
			case <-changes:
			default:
			}
			changes <- updated
		})
		if err != nil {
			glog.Warningf("Not watching %s: %v", path, err)
		}
	}()

	tracker := newChangeTracker()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := n.printChanged(tracker, collect(ctx, n.registry, nw)); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case updated := <-changes:
			glog.Infof("Network %s reloaded", updated.Name)
			nw = updated
		case <-ticker.C:
		}
	}
}

func (n *nodectl) printChanged(tracker *changeTracker, snapshots []nodeSnapshot) error {
	for _, snap := range tracker.changed(snapshots) {
		if err := n.print(snap); err != nil {
			return err
		}
	}

	return nil
}
