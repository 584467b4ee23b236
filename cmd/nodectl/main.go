package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/golang/glog"
	cli "github.com/urfave/cli"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/bolt-observer/nodectl/lightning"
	"github.com/bolt-observer/nodectl/network"
	utils "github.com/bolt-observer/go_common/utils"
)

var (
	// GitRevision is set with build
	GitRevision = "unknownVersion"

	defaultNetworkFile = utils.GetEnvWithDefault("NODECTL_NETWORK", "network.json")
	defaultTimeout     = utils.GetEnvWithDefault("NODECTL_TIMEOUT", "30s")
)

// nodectl holds what every command needs
type nodectl struct {
	registry *lightning.Registry
	out      io.Writer
}

func getApp(n *nodectl) *cli.App {
	app := cli.NewApp()
	app.Name = "nodectl"
	app.Usage = "Utility to control local lightning nodes"
	app.Version = GitRevision

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "network",
			Value: defaultNetworkFile,
			Usage: "path to the network file describing the nodes",
		},
		cli.StringFlag{
			Name:  "timeout",
			Value: defaultTimeout,
			Usage: "timeout of a single command",
		},
		cli.StringFlag{
			Name:   "sentry-dsn",
			Value:  os.Getenv("SENTRY_DSN"),
			Usage:  "report errors to sentry",
			Hidden: true,
		},
	}
	app.Flags = append(app.Flags, entities.GlogFlags...)

	app.Before = func(cmdCtx *cli.Context) error {
		entities.GlogShim(cmdCtx)

		if dsn := cmdCtx.GlobalString("sentry-dsn"); dsn != "" {
			if err := sentry.Init(sentry.ClientOptions{
				Dsn:              dsn,
				AttachStacktrace: true,
				Release:          GitRevision,
			}); err != nil {
				glog.Warningf("Could not initialize sentry %v", err)
			}
		}

		return nil
	}

	app.Commands = n.commands()

	return app
}

// nodeArg resolves the node named by the first positional argument
func (n *nodectl) nodeArg(cmdCtx *cli.Context) (*entities.NodeDescriptor, lightning.LightningService, error) {
	name := cmdCtx.Args().First()
	if name == "" {
		return nil, nil, fmt.Errorf("node name is required")
	}

	nw, err := network.Load(cmdCtx.GlobalString("network"))
	if err != nil {
		return nil, nil, err
	}

	node, err := nw.Node(name)
	if err != nil {
		return nil, nil, err
	}

	service, err := n.registry.For(node)
	if err != nil {
		return nil, nil, err
	}

	return node, service, nil
}

// commandContext is cancelled on interrupt, bounded commands also get the global timeout
func commandContext(cmdCtx *cli.Context, bounded bool) (context.Context, context.CancelFunc, error) {
	timeout, err := time.ParseDuration(cmdCtx.GlobalString("timeout"))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid timeout %q: %w", cmdCtx.GlobalString("timeout"), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if !bounded || timeout <= 0 {
		return ctx, stop, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}, nil
}

func (n *nodectl) print(v any) error {
	enc := json.NewEncoder(n.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	app := getApp(&nodectl{
		registry: lightning.NewRegistry(lightning.NewHTTPAPI()),
		out:      os.Stdout,
	})

	err := app.Run(os.Args)
	if err != nil {
		glog.Error(err)
		sentry.CaptureException(err)
	}

	sentry.Flush(2 * time.Second)
	glog.Flush()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
