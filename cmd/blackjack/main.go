package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config    string `short:"c" type:"path" default:"blackjack.hcl" help:"HCL config file (missing file uses built-in defaults)"`
	Debug     bool   `help:"Enable debug logging"`
	LogFormat string `help:"Log format, overrides the config file (text, json, logfmt)"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play at a terminal table"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate bot sessions and report returns"`
	Serve    ServeCmd         `cmd:"" help:"Serve tables over WebSocket"`
	Advise   AdviseCmd        `cmd:"" help:"Show the basic strategy move for a hand"`
	Chart    ChartCmd         `cmd:"" help:"Print the basic strategy chart"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack table with basic strategy bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
