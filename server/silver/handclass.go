package silver

import (
	"strings"

	poker "github.com/paulhankin/poker"
)

// HandClass names the hero's made hand at the furthest street, e.g.
// "Two Pair" or "Flush". cards and board are space-joined two-character
// codes as produced by CardsAndBoard. With fewer than five cards total the
// evaluator cannot run; a pocket pair is still recognizable preflop.
func HandClass(cards, board string) (string, bool) {
	hole := parseCards(cards)
	comm := parseCards(board)
	if len(hole) == 0 {
		return "", false
	}

	all := append(append([]poker.Card{}, hole...), comm...)
	if len(all) < 5 {
		if len(hole) == 2 && cardRank(cards, 0) == cardRank(cards, 1) {
			return "Pair", true
		}
		return "", false
	}
	if len(all) > 7 {
		all = all[:7]
	}

	desc, err := poker.Describe(all)
	if err != nil {
		return "", false
	}
	// Describe renders "two pair, kings and fives"; keep the class part only.
	class := desc
	if i := strings.IndexAny(desc, ",("); i >= 0 {
		class = desc[:i]
	}
	return strings.TrimSpace(class), true
}

func parseCards(s string) []poker.Card {
	var out []poker.Card
	for _, tok := range strings.Fields(s) {
		c, ok := parseCard(tok)
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

func parseCard(tok string) (poker.Card, bool) {
	var zero poker.Card
	if len(tok) != 2 {
		return zero, false
	}

	var r poker.Rank
	switch tok[0] {
	case 'A', 'a':
		r = poker.Rank(1) // library aces are low-indexed
	case 'K', 'k':
		r = poker.Rank(13)
	case 'Q', 'q':
		r = poker.Rank(12)
	case 'J', 'j':
		r = poker.Rank(11)
	case 'T', 't':
		r = poker.Rank(10)
	default:
		if tok[0] < '2' || tok[0] > '9' {
			return zero, false
		}
		r = poker.Rank(tok[0] - '0')
	}

	var s poker.Suit
	switch tok[1] {
	case 'c', 'C':
		s = poker.Club
	case 'd', 'D':
		s = poker.Diamond
	case 'h', 'H':
		s = poker.Heart
	case 's', 'S':
		s = poker.Spade
	default:
		return zero, false
	}

	c, err := poker.MakeCard(s, r)
	if err != nil {
		return zero, false
	}
	return c, true
}

func cardRank(s string, i int) byte {
	toks := strings.Fields(s)
	if i >= len(toks) || len(toks[i]) == 0 {
		return 0
	}
	return toks[i][0]
}
