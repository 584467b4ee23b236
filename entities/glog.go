package entities

import (
	"flag"
	"fmt"

	cli "github.com/urfave/cli"
)

// GlogFlags are the glog settings exposed as cli flags
var GlogFlags = []cli.Flag{
	cli.IntFlag{
		Name: "verbosity", Value: 0, Usage: "log level for V logs (2 traces every node request)",
	},
	cli.BoolFlag{
		Name: "logtostderr", Usage: "log to standard error instead of files", Hidden: true,
	},
	cli.BoolFlag{
		Name: "alsologtostderr", Usage: "log to standard error as well as files", Hidden: true,
	},
	cli.IntFlag{
		Name: "stderrthreshold", Usage: "logs at or above this threshold go to stderr", Value: 2, Hidden: true,
	},
	cli.StringFlag{
		Name: "vmodule", Usage: "comma-separated list of pattern=N settings for file-filtered logging", Hidden: true,
	},
	cli.StringFlag{
		Name: "log_dir", Usage: "if non-empty, write log files in this directory", Hidden: true,
	},
}

// GlogShim copies glog related cli flags into the standard flag set glog reads from
func GlogShim(c *cli.Context) {
	_ = flag.CommandLine.Parse([]string{})

	values := map[string]string{
		"v":               fmt.Sprint(c.GlobalInt("verbosity")),
		"logtostderr":     fmt.Sprint(c.GlobalBool("logtostderr")),
		"alsologtostderr": fmt.Sprint(c.GlobalBool("alsologtostderr")),
		"stderrthreshold": fmt.Sprint(c.GlobalInt("stderrthreshold")),
		"vmodule":         c.GlobalString("vmodule"),
		"log_dir":         c.GlobalString("log_dir"),
	}

	flag.VisitAll(func(fl *flag.Flag) {
		if val, ok := values[fl.Name]; ok {
			_ = fl.Value.Set(val)
		}
	})
}
