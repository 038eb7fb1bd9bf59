package handparse

import (
	"sort"
	"strings"
)

// Ideal ring offsets relative to the button. Seat index is purely a rendering
// concern; these seeds just need a unique, sortable order.
var roleOffsets = map[string]int{
	"BTN": 0,
	"SB":  1,
	"BB":  2,
	"UTG": 3, "UTG+1": 4, "UTG1": 4,
	"UTG+2": 5, "UTG2": 5, "MP": 5,
	"MP1": 6, "LJ": 6,
	"HJ": 7, "CO": 8,
}

// roleFromName is the last-resort disambiguation: a role suffix embedded in a
// display name. It only applies when blind-post evidence is silent for that
// player.
func roleFromName(name string) (string, bool) {
	switch {
	case strings.Contains(name, "_BTN") || strings.Contains(name, "Button"):
		return "BTN", true
	case strings.Contains(name, "_CO"):
		return "CO", true
	case strings.Contains(name, "_HJ") || strings.Contains(name, "_MP"):
		return "HJ", true
	case strings.Contains(name, "_UTG"):
		return "UTG", true
	case strings.Contains(name, "_SB"):
		return "SB", true
	case strings.Contains(name, "_BB"):
		return "BB", true
	}
	return "", false
}

// smartSeats re-derives a canonical seat ring from resolved roles, replacing
// raw seat numbers that may be absent, non-contiguous, or inconsistent with
// the roles. Every known player name — seated or only appearing in the action
// log — receives a unique seat: role bearers at their ideal offsets with
// collisions advancing to the next free slot, everyone else first-fit.
// Position labels, stacks, hero flags, and cards are preserved untouched.
//
// Returns the reseated player list and the normalized dealer seat (0 when a
// button role exists, unresolved otherwise).
func smartSeats(players []*Player, actions []Action, heroName string) ([]*Player, *int) {
	names := make([]string, 0, len(players))
	seen := map[string]bool{}
	for _, p := range players {
		if !seen[p.Name] {
			names = append(names, p.Name)
			seen[p.Name] = true
		}
	}
	for _, a := range actions {
		if !seen[a.Player] {
			names = append(names, a.Player)
			seen[a.Player] = true
		}
	}

	roles := map[string]string{}
	for _, a := range actions {
		switch a.Type {
		case ActionPostBB:
			roles[a.Player] = "BB"
		case ActionPostSB:
			roles[a.Player] = "SB"
		}
	}
	for _, name := range names {
		if _, ok := roles[name]; ok {
			continue
		}
		if role, ok := roleFromName(name); ok {
			roles[name] = role
		}
	}

	type roleEntry struct {
		name string
		role string
		ord  int
	}
	var entries []roleEntry
	for i, name := range names {
		if role, ok := roles[name]; ok {
			entries = append(entries, roleEntry{name, role, i})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		oi, oki := roleOffsets[entries[i].role]
		oj, okj := roleOffsets[entries[j].role]
		if !oki {
			oi = 100
		}
		if !okj {
			oj = 100
		}
		if oi != oj {
			return oi < oj
		}
		return entries[i].ord < entries[j].ord
	})

	assigned := map[string]int{}
	used := map[int]bool{}
	for _, e := range entries {
		offset, ok := roleOffsets[e.role]
		if !ok {
			continue
		}
		for used[offset] {
			offset++
		}
		assigned[e.name] = offset
		used[offset] = true
	}

	freeSeat := func() int {
		for i := 0; i < 9; i++ {
			if !used[i] {
				return i
			}
		}
		i := 9
		for used[i] {
			i++
		}
		return i
	}

	byName := map[string]*Player{}
	for _, p := range players {
		byName[p.Name] = p
	}

	out := make([]*Player, 0, len(names))
	for _, name := range names {
		seat, ok := assigned[name]
		if !ok {
			seat = freeSeat()
			used[seat] = true
			assigned[name] = seat
		}

		existing := byName[name]
		isHero := (heroName != "" && name == heroName) ||
			(existing != nil && existing.IsHero) ||
			name == "Hero" || strings.Contains(name, "_Hero")

		np := &Player{
			Name:      name,
			SeatIndex: seat,
			IsHero:    isHero,
			IsActive:  true,
			Position:  PositionUnknown,
		}
		if existing != nil {
			np.Stack = existing.Stack
			np.Cards = existing.Cards
			np.Position = existing.Position
		}
		out = append(out, np)
	}

	var dealerSeat *int
	for _, role := range roles {
		if role == "BTN" {
			zero := 0
			dealerSeat = &zero
			break
		}
	}
	return out, dealerSeat
}
