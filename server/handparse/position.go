package handparse

import (
	"fmt"
	"sort"
)

// positionLabels returns the canonical label sequence clockwise from the
// button for a table of n active players. Heads-up collapses the combined
// SB/BTN seat into BTN.
func positionLabels(n int) []string {
	switch n {
	case 0:
		return nil
	case 1:
		return []string{"BTN"}
	case 2:
		return []string{"BTN", "BB"}
	case 3:
		return []string{"BTN", "SB", "BB"}
	case 4:
		return []string{"BTN", "SB", "BB", "CO"}
	case 5:
		return []string{"BTN", "SB", "BB", "UTG", "CO"}
	case 6:
		return []string{"BTN", "SB", "BB", "UTG", "HJ", "CO"}
	case 7:
		return []string{"BTN", "SB", "BB", "UTG", "UTG+1", "HJ", "CO"}
	case 8:
		return []string{"BTN", "SB", "BB", "UTG", "UTG+1", "LJ", "HJ", "CO"}
	}
	labels := []string{"BTN", "SB", "BB", "UTG", "UTG+1", "UTG+2", "LJ", "HJ", "CO"}
	for i := 9; i < n; i++ {
		labels = append(labels, fmt.Sprintf("UTG+%d", i-2))
	}
	return labels
}

// resolveButtonSeat picks the seat acting as the button. The declared seat
// wins when an active player occupies it. Otherwise (dead button) the button
// is the active seat immediately preceding the small-blind poster, ring
// wrapped. Reports false when neither signal resolves.
func (p *Parser) resolveButtonSeat(players []*Player, declared int, haveDeclared bool, actions []Action) (int, bool) {
	if len(players) == 0 {
		return 0, false
	}
	occupied := make([]int, 0, len(players))
	nameToSeat := make(map[string]int, len(players))
	for _, pl := range players {
		occupied = append(occupied, pl.SeatIndex)
		nameToSeat[pl.Name] = pl.SeatIndex
	}
	sort.Ints(occupied)

	if haveDeclared {
		for _, s := range occupied {
			if s == declared {
				return declared, true
			}
		}
	}

	for _, a := range actions {
		if a.Type != ActionPostSB {
			continue
		}
		sbSeat, ok := nameToSeat[a.Player]
		if !ok {
			break
		}
		for i, s := range occupied {
			if s == sbSeat {
				return occupied[(i-1+len(occupied))%len(occupied)], true
			}
		}
		break
	}
	return 0, false
}

// resolvePositions maps every active player to a canonical position label.
// An unresolvable button is a recognized degraded case: the mapping comes
// back empty and the hand is still assembled without positional metadata.
func (p *Parser) resolvePositions(players []*Player, declared int, haveDeclared bool, actions []Action) map[string]string {
	positions := map[string]string{}
	if len(players) == 0 {
		return positions
	}

	btnSeat, ok := p.resolveButtonSeat(players, declared, haveDeclared, actions)
	if !ok {
		return positions
	}

	occupied := make([]int, 0, len(players))
	seatToName := make(map[int]string, len(players))
	for _, pl := range players {
		occupied = append(occupied, pl.SeatIndex)
		seatToName[pl.SeatIndex] = pl.Name
	}
	sort.Ints(occupied)

	start := 0
	for i, s := range occupied {
		if s == btnSeat {
			start = i
			break
		}
	}

	labels := positionLabels(len(occupied))
	for i := range occupied {
		seat := occupied[(start+i)%len(occupied)]
		positions[seatToName[seat]] = labels[i]
	}
	return positions
}
