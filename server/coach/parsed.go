package coach

import (
	"fmt"
	"strings"

	"leaklens/server/handparse"
)

// PositionMap collects resolved player positions from a parsed hand,
// skipping players whose position stayed unknown.
func PositionMap(h *handparse.HandState) map[string]string {
	out := map[string]string{}
	if h == nil {
		return out
	}
	for _, p := range h.Players {
		if p.Position != "" && p.Position != handparse.PositionUnknown {
			out[p.Name] = p.Position
		}
	}
	return out
}

// BuildParsed flattens the parsed hand into the accuracy-hint object the
// coach API accepts alongside the raw text. Returns nil when neither a hero
// position nor hero cards are known; an empty hint is worse than none.
func BuildParsed(h *handparse.HandState) map[string]any {
	if h == nil {
		return nil
	}

	var hero *handparse.Player
	for _, p := range h.Players {
		if p.IsHero {
			hero = p
			break
		}
	}

	flop, turn, river := "", "", ""
	if len(h.Board) >= 3 {
		flop = strings.Join(h.Board[:3], " ")
	}
	if len(h.Board) >= 4 {
		turn = h.Board[3]
	}
	if len(h.Board) >= 5 {
		river = h.Board[4]
	}

	stakes := ""
	if h.SB != nil && h.BB != nil {
		stakes = fmt.Sprintf("$%g/$%g", *h.SB, *h.BB)
	}

	preflopRaises := 0
	for _, a := range h.Actions {
		if a.Street != handparse.Preflop {
			continue
		}
		if a.Type == handparse.ActionRaise || a.Type == handparse.ActionRaiseTo {
			preflopRaises++
		}
	}
	potType := "single_raised"
	switch {
	case preflopRaises >= 3:
		potType = "4bet"
	case preflopRaises >= 2:
		potType = "3bet"
	}

	parsed := map[string]any{
		"board":          strings.Join(h.Board, " "),
		"flop":           flop,
		"turn":           turn,
		"river":          river,
		"stakes":         stakes,
		"pot":            h.Pot,
		"pot_type":       potType,
		"preflop_raises": preflopRaises,
	}
	position, cards := "", ""
	if hero != nil {
		if hero.Position != handparse.PositionUnknown {
			position = hero.Position
		}
		cards = strings.Join(hero.Cards, " ")
		parsed["hero"] = hero.Name
	}
	parsed["position"] = position
	parsed["cards"] = cards

	if position == "" && cards == "" {
		return nil
	}
	return parsed
}
