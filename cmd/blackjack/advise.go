package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

type AdviseCmd struct {
	Cards   []string `arg:"" help:"Player cards as codes, e.g. TS 6H"`
	Upcard  string   `short:"u" required:"" help:"Dealer upcard as a code, e.g. 7C"`
	NoSplit bool     `help:"Advise as if the pair cannot be split"`
}

func (c *AdviseCmd) Run(g *Globals) error {
	return c.advise(os.Stdout)
}

func (c *AdviseCmd) advise(w io.Writer) error {
	cards, err := deck.ParseCards(c.Cards...)
	if err != nil {
		return err
	}
	upcard, err := deck.ParseCard(c.Upcard)
	if err != nil {
		return err
	}

	total, soft := game.Score(cards)
	hand := game.HandSnapshot{CardList: cards, Points: total, Soft: soft}

	var advice strategy.Advice
	if c.NoSplit {
		advice, err = strategy.AdviseWithoutSplit(hand, upcard)
	} else {
		advice, err = strategy.Advise(hand, upcard)
	}
	if err != nil {
		return err
	}

	kind := "hard"
	if soft {
		kind = "soft"
	}
	fmt.Fprintf(w, "%s: %s %d against %s (%s table)\n",
		advice.Action, kind, total, upcard, advice.Kind)
	return nil
}
