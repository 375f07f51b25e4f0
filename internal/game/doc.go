// Package game implements the blackjack round engine.
//
// The main type is Engine, which owns the seat list, the shoe and the dealer
// hand. Table wraps an Engine and validates player moves before applying
// them; the controller and simulator only ever talk to a Table.
//
// # Basic Usage
//
//	seats := []game.SeatConfig{
//	    {Name: "You", Bankroll: 100, IsUser: true},
//	    {Name: "Bot", Bankroll: 100},
//	}
//	e := game.NewEngine(seats, 2, deck.Random, game.WithRNG(randutil.New(42)))
//	t := game.NewTable(e)
//	_ = t.Bet(0, 10)
//	t.DealInitialCards()
//	_ = t.Hit(0)
//
// # Deterministic Testing
//
// Pass WithRNG with a fixed seed, or WithShoe with a shoe built in
// deck.Tutorial or deck.Fixed mode, to get a reproducible card order.
//
// # Events
//
// Every mutating engine call publishes a StateEvent carrying a snapshot of
// the table on the engine's EventBus. Subscribers see events in call order.
package game
