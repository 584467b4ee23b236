package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/bolt-observer/nodectl/lightning"
)

type nodeAction func(ctx context.Context, cmdCtx *cli.Context, node *entities.NodeDescriptor, service lightning.LightningService) (any, error)

// withNode resolves the node, runs the action and prints its result as JSON
func (n *nodectl) withNode(bounded bool, action nodeAction) func(*cli.Context) error {
	return func(cmdCtx *cli.Context) error {
		node, service, err := n.nodeArg(cmdCtx)
		if err != nil {
			return err
		}

		ctx, cancel, err := commandContext(cmdCtx, bounded)
		if err != nil {
			return err
		}
		defer cancel()

		result, err := action(ctx, cmdCtx, node, service)
		if err != nil {
			return err
		}

		return n.print(result)
	}
}

func (n *nodectl) commands() []cli.Command {
	return []cli.Command{
		{
			Name:      "info",
			Usage:     "show node identity and channel counts",
			ArgsUsage: "NODE",
			Action: n.withNode(true, func(ctx context.Context, _ *cli.Context, node *entities.NodeDescriptor, service lightning.LightningService) (any, error) {
				return service.GetInfo(ctx, node)
			}),
		},
		{
			Name:      "balances",
			Usage:     "show on-chain wallet balances",
			ArgsUsage: "NODE",
			Action: n.withNode(true, func(ctx context.Context, _ *cli.Context, node *entities.NodeDescriptor, service lightning.LightningService) (any, error) {
				return service.GetBalances(ctx, node)
			}),
		},
		{
			Name:      "newaddress",
			Usage:     "generate a new on-chain address",
			ArgsUsage: "NODE",
			Action: n.withNode(true, func(ctx context.Context, _ *cli.Context, node *entities.NodeDescriptor, service lightning.LightningService) (any, error) {
				address, err := service.GetNewAddress(ctx, node)
				if err != nil {
					return nil, err
				}
				return map[string]string{"address": address}, nil
			}),
		},
		{
			Name:      "channels",
			Usage:     "list channels",
			ArgsUsage: "NODE",
			Action: n.withNode(true, func(ctx context.Context, _ *cli.Context, node *entities.NodeDescriptor, service lightning.LightningService) (any, error) {
				return service.GetChannels(ctx, node)
			}),
		},
		{
			Name:      "peers",
			Usage:     "list connected peers",
			ArgsUsage: "NODE",
			Action: n.withNode(true, func(ctx context.Context, _ *cli.Context, node *entities.NodeDescriptor, service lightning.LightningService) (any, error) {
				return service.GetPeers(ctx, node)
			}),
		},
		{
			Name:      "connect",
			Usage:     "connect peers that are not connected yet",
			ArgsUsage: "NODE PUBKEY@HOST:PORT...",
			Action: n.withNode(true, func(ctx context.Context, cmdCtx *cli.Context, node *entities.NodeDescriptor, service lightning.LightningService) (any, error) {
				urls := cmdCtx.Args().Tail()
				if len(urls) == 0 {
					return nil, fmt.Errorf("at least one peer is required")
				}
				if err := service.ConnectPeers(ctx, node, urls); err != nil {
					return nil, err
				}
				return service.GetPeers(ctx, node)
			}),
		},
		{
			Name:      "openchannel",
			Usage:     "open a channel (connecting the peer first)",
			ArgsUsage: "NODE PUBKEY@HOST:PORT",
			Flags: []cli.Flag{
				cli.Uint64Flag{Name: "amount", Usage: "channel capacity in satoshis"},
				cli.BoolFlag{Name: "private", Usage: "do not announce the channel"},
			},
			Action: n.withNode(true, func(ctx context.Context, cmdCtx *cli.Context, node *entities.NodeDescriptor, service lightning.LightningService) (any, error) {
				return service.OpenChannel(ctx, entities.OpenChannelOptions{
					From:      node,
					ToRPCUrl:  cmdCtx.Args().Get(1),
					Amount:    cmdCtx.Uint64("amount"),
					IsPrivate: cmdCtx.Bool("private"),
				})
			}),
		},
		{
			Name:      "closechannel",
			Usage:     "force close a channel",
			ArgsUsage: "NODE TXID:INDEX",
			Action: n.withNode(true, func(ctx context.Context, cmdCtx *cli.Context, node *entities.NodeDescriptor, service lightning.LightningService) (any, error) {
				point := cmdCtx.Args().Get(1)
				if point == "" {
					return nil, fmt.Errorf("channel point is required")
				}
				return service.CloseChannel(ctx, node, point)
			}),
		},
		{
			Name:      "createinvoice",
			Usage:     "create a BOLT11 invoice",
			ArgsUsage: "NODE",
			Flags: []cli.Flag{
				cli.Uint64Flag{Name: "amount", Usage: "amount in satoshis"},
				cli.StringFlag{Name: "memo", Usage: "invoice description"},
			},
			Action: n.withNode(true, func(ctx context.Context, cmdCtx *cli.Context, node *entities.NodeDescriptor, service lightning.LightningService) (any, error) {
				invoice, err := service.CreateInvoice(ctx, node, cmdCtx.Uint64("amount"), cmdCtx.String("memo"))
				if err != nil {
					return nil, err
				}
				return map[string]string{"invoice": invoice}, nil
			}),
		},
		{
			Name:      "payinvoice",
			Usage:     "pay a BOLT11 invoice",
			ArgsUsage: "NODE INVOICE",
			Flags: []cli.Flag{
				cli.Uint64Flag{Name: "amount", Usage: "amount in satoshis, only used for invoices without amount"},
			},
			Action: n.withNode(true, func(ctx context.Context, cmdCtx *cli.Context, node *entities.NodeDescriptor, service lightning.LightningService) (any, error) {
				invoice := cmdCtx.Args().Get(1)
				if invoice == "" {
					return nil, fmt.Errorf("invoice is required")
				}
				return service.PayInvoice(ctx, node, invoice, cmdCtx.Uint64("amount"))
			}),
		},
		{
			Name:      "wait",
			Usage:     "wait until the node answers requests",
			ArgsUsage: "NODE",
			Flags: []cli.Flag{
				cli.DurationFlag{Name: "interval", Value: lightning.DefaultPollInterval, Usage: "time between probes"},
				cli.DurationFlag{Name: "timeout", Value: lightning.DefaultPollTimeout, Usage: "give up after"},
			},
			Action: n.withNode(false, func(ctx context.Context, cmdCtx *cli.Context, node *entities.NodeDescriptor, service lightning.LightningService) (any, error) {
				if err := service.WaitUntilOnline(ctx, node, cmdCtx.Duration("interval"), cmdCtx.Duration("timeout")); err != nil {
					return nil, err
				}
				return map[string]string{"node": node.Name, "status": "online"}, nil
			}),
		},
		{
			Name:  "status",
			Usage: "show all started nodes",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "watch", Usage: "keep running and print nodes whose state changed"},
				cli.DurationFlag{Name: "interval", Value: 10 * lightning.DefaultPollInterval, Usage: "refresh interval in watch mode"},
			},
			Action: n.status,
		},
	}
}
