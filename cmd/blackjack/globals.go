package main

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/config"
)

// logger builds the process logger writing to w, with flags overriding the
// config file
func (g *Globals) logger(cfg *config.Config, w io.Writer) (*log.Logger, error) {
	format := cfg.Log.Format
	if g.LogFormat != "" {
		format = g.LogFormat
	}
	return shared.SetupLogger(w, cfg.Log.Level, format, g.Debug)
}

// load reads the config file and builds a logger writing to w
func (g *Globals) load(w io.Writer) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	logger, err := g.logger(cfg, w)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
