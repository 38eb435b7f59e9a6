package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version   kong.VersionFlag `short:"v" help:"Show version"`
	Run       RunCmd           `cmd:"" help:"Run a full simulation"`
	SpotCheck SpotCheckCmd     `cmd:"" name:"spot-check" help:"Evaluate one forced scenario across many shoes"`
	Play      PlayCmd          `cmd:"" help:"Play a single round and show its outcome"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjacksim"),
		kong.Description("Deterministic blackjack strategy and card-counting simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
