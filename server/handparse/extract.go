package handparse

import (
	"strconv"
	"strings"
	"time"
)

// extractSeats reads all seat lines with their starting stacks, skipping
// players flagged inactive elsewhere in the text and seat lines carrying a
// trailing "is sitting out". Hero flagging here is the naming convention
// only; the "Dealt to" line overrides it later.
func (p *Parser) extractSeats(text string, inactive map[string]bool) []*Player {
	var players []*Player
	idx := p.pats.Seat.FindAllStringSubmatchIndex(text, -1)
	for _, m := range idx {
		seatNum, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		name := strings.TrimSpace(text[m[4]:m[5]])
		if name == "" || inactive[name] {
			continue
		}

		lineEnd := strings.IndexByte(text[m[0]:], '\n')
		if lineEnd == -1 {
			lineEnd = len(text) - m[0]
		}
		if strings.Contains(strings.ToLower(text[m[0]:m[0]+lineEnd]), "sitting out") {
			continue
		}

		stack := 0.0
		if v := parseAmount(text[m[6]:m[7]]); v != nil {
			stack = *v
		}
		players = append(players, &Player{
			Name:      name,
			SeatIndex: seatNum,
			IsHero:    strings.EqualFold(name, "hero"),
			IsActive:  true,
			Stack:     &stack,
			Position:  PositionUnknown,
		})
	}
	return players
}

// extractButton returns the declared dealer seat. Absence is legal: the
// position resolver falls back to blind-post evidence.
func (p *Parser) extractButton(text string) (int, bool) {
	m := p.pats.Button.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p *Parser) extractStakes(text string) (sb, bb *float64) {
	m := p.pats.Stakes.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}
	return parseAmount(m[1]), parseAmount(m[2])
}

// extractHeroCards finds the single "Dealt to" line. The matched name is the
// authoritative hero identity for the hand.
func (p *Parser) extractHeroCards(text string) (name string, cards []string, ok bool) {
	m := p.pats.HeroCards.FindStringSubmatch(text)
	if m == nil {
		return "", nil, false
	}
	return strings.TrimSpace(m[1]), []string{ConvertCard(m[2]), ConvertCard(m[3])}, true
}

func (p *Parser) extractShownCards(text string) map[string][]string {
	shown := map[string][]string{}
	for _, m := range p.pats.ShownCards.FindAllStringSubmatch(text, -1) {
		shown[strings.TrimSpace(m[1])] = []string{ConvertCard(m[2]), ConvertCard(m[3])}
	}
	return shown
}

// extractBoard collects community cards street by street. A later street's
// absence does not invalidate an earlier one.
func (p *Parser) extractBoard(text string) []string {
	board := []string{}
	if m := p.pats.Flop.FindStringSubmatch(text); m != nil {
		board = append(board, ConvertCard(m[1]), ConvertCard(m[2]), ConvertCard(m[3]))
	}
	if m := p.pats.TurnC.FindStringSubmatch(text); m != nil {
		board = append(board, ConvertCard(m[1]))
	}
	if m := p.pats.River.FindStringSubmatch(text); m != nil {
		board = append(board, ConvertCard(m[1]))
	}
	return board
}

// streetReached reports the furthest street the hand got to.
func (p *Parser) streetReached(text string) Street {
	for i := len(p.pats.StreetMarkers) - 1; i >= 0; i-- {
		m := p.pats.StreetMarkers[i]
		if m.Street == Preflop {
			continue
		}
		if m.Pattern.MatchString(text) {
			return m.Street
		}
	}
	return Preflop
}

func (p *Parser) extractPot(text string) *float64 {
	m := p.pats.Pot.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return parseAmount(m[1])
}

// ExtractDate returns the hand's timestamp normalized to
// "2006-01-02 15:04:05", or false when no parseable date is present.
func (p *Parser) ExtractDate(text string) (string, bool) {
	m := p.pats.Date.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	normalized := strings.ReplaceAll(m[1], "-", "/")
	t, err := time.Parse("2006/01/02 15:04:05", normalized)
	if err != nil {
		// Matched the shape but not a real timestamp (e.g. 32:00:00); the
		// store is just as strict, so report absence.
		return "", false
	}
	return t.Format("2006-01-02 15:04:05"), true
}
