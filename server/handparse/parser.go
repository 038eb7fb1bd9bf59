package handparse

import (
	"math"
	"strings"
)

const summaryMarker = "*** SUMMARY ***"

// Parser turns one hand's raw history text into a HandState. It is stateless
// and safe for concurrent use; every call allocates its own result.
type Parser struct {
	pats *PatternRegistry
}

// NewParser builds a parser over the default pattern registry.
func NewParser() *Parser { return &Parser{pats: DefaultPatterns()} }

// NewParserWithPatterns builds a parser for a site-specific dialect.
func NewParserWithPatterns(pats *PatternRegistry) *Parser { return &Parser{pats: pats} }

// Parse is the package-level convenience over a default parser.
func Parse(raw string) HandState { return NewParser().Parse(raw) }

// Parse reconstructs the table-state timeline for one hand. Unresolvable
// sub-problems degrade to absent/unknown markers; only genuinely empty input
// short-circuits, to the zeroed HandState.
func (p *Parser) Parse(raw string) HandState {
	empty := HandState{
		Players: []*Player{},
		Board:   []string{},
		Street:  Preflop,
		Actions: []Action{},
	}
	if strings.TrimSpace(raw) == "" {
		return empty
	}

	// The summary section reuses the surface patterns of live-action lines
	// ("Seat 3: Hero collected ...") and must not be double-counted.
	text := raw
	if i := strings.Index(text, summaryMarker); i >= 0 {
		text = text[:i]
	}

	inactive := p.inactiveNames(text)
	players := p.extractSeats(text, inactive)
	declaredBtn, haveDeclaredBtn := p.extractButton(text)
	sb, bb := p.extractStakes(text)
	heroName, heroCards, haveHero := p.extractHeroCards(text)
	shown := p.extractShownCards(text)
	board := p.extractBoard(text)
	street := p.streetReached(text)
	actions := p.extractActions(text)
	pot := p.extractPot(text)

	if len(actions) > 0 && len(players) > 0 {
		btnSeat, haveBtn := p.resolveButtonSeat(players, declaredBtn, haveDeclaredBtn, actions)
		actions = p.reconstructActions(actions, players, btnSeat, haveBtn)
	}

	// Positions must be computed before smart seating rewrites seat indices.
	positions := p.resolvePositions(players, declaredBtn, haveDeclaredBtn, actions)
	for _, pl := range players {
		if pos, ok := positions[pl.Name]; ok {
			pl.Position = pos
		}
	}

	players, dealerSeat := smartSeats(players, actions, heroName)

	folded := foldedPlayers(actions, shown)
	for _, pl := range players {
		if pl.IsHero && haveHero {
			pl.Cards = heroCards
		} else if cards, ok := shown[pl.Name]; ok {
			pl.Cards = cards
		}
		if folded[pl.Name] {
			pl.IsActive = false
		} else if pl.Cards == nil && !pl.IsHero {
			// Display simplification: a non-hero player with unknown cards
			// did not reach showdown and is rendered folded.
			pl.IsActive = false
		}
	}

	normalizeSeatIndices(players, dealerSeat)

	potVal := 0.0
	if pot != nil {
		potVal = *pot
	}
	if bb != nil && *bb > 0 {
		for _, pl := range players {
			if pl.Stack != nil {
				v := roundBB(*pl.Stack / *bb)
				pl.Stack = &v
			}
		}
		potVal = roundBB(potVal / *bb)
	}

	if players == nil {
		players = []*Player{}
	}
	if actions == nil {
		actions = []Action{}
	}
	return HandState{
		Players:    players,
		Board:      board,
		Pot:        potVal,
		Street:     street,
		SB:         sb,
		BB:         bb,
		DealerSeat: dealerSeat,
		Actions:    actions,
	}
}

// foldedPlayers returns everyone out of the hand: explicit folds plus players
// who put money in but never showed a hand.
func foldedPlayers(actions []Action, shown map[string][]string) map[string]bool {
	folded := map[string]bool{}
	for _, a := range actions {
		if a.Type == ActionFold {
			folded[a.Player] = true
		}
	}
	// Raise-to is excluded: an uncalled raise wins the pot without a showdown.
	for _, a := range actions {
		switch a.Type {
		case ActionCall, ActionBet, ActionRaise, ActionAllIn:
			if _, showed := shown[a.Player]; !showed {
				folded[a.Player] = true
			}
		}
	}
	return folded
}

// normalizeSeatIndices shifts seats so the minimum is 0, covering 1-based
// source numbering.
func normalizeSeatIndices(players []*Player, dealerSeat *int) {
	if len(players) == 0 {
		return
	}
	min := players[0].SeatIndex
	for _, pl := range players[1:] {
		if pl.SeatIndex < min {
			min = pl.SeatIndex
		}
	}
	if min <= 0 {
		return
	}
	for _, pl := range players {
		pl.SeatIndex -= min
	}
	if dealerSeat != nil {
		*dealerSeat -= min
	}
}

// roundBB rounds a blind-relative value to one decimal, half away from zero.
func roundBB(v float64) float64 {
	return math.Round(v*10) / 10
}
