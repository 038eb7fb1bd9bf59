package handparse

import "sort"

type playerStatus int

const (
	statusActive playerStatus = iota
	statusFolded
	statusAllIn
)

// ringState tracks the seat ring and per-player status while walking a hand's
// action stream in turn order.
type ringState struct {
	seats      []int
	seatToName map[int]string
	nameToSeat map[string]int
	status     map[string]playerStatus
}

func newRingState(players []*Player) *ringState {
	r := &ringState{
		seatToName: make(map[int]string, len(players)),
		nameToSeat: make(map[string]int, len(players)),
		status:     make(map[string]playerStatus, len(players)),
	}
	for _, p := range players {
		r.seats = append(r.seats, p.SeatIndex)
		r.seatToName[p.SeatIndex] = p.Name
		r.nameToSeat[p.Name] = p.SeatIndex
		r.status[p.Name] = statusActive
	}
	sort.Ints(r.seats)
	return r
}

// nextActive returns the next still-active seat after from, wrapping around
// the ring. Reports false when nobody is left to act.
func (r *ringState) nextActive(from int) (int, bool) {
	idx := 0
	for i, s := range r.seats {
		if s == from {
			idx = i
			break
		}
	}
	for range r.seats {
		idx = (idx + 1) % len(r.seats)
		seat := r.seats[idx]
		if r.status[r.seatToName[seat]] == statusActive {
			return seat, true
		}
	}
	return 0, false
}

func (r *ringState) apply(a Action) {
	switch a.Type {
	case ActionFold:
		r.status[a.Player] = statusFolded
	case ActionAllIn:
		r.status[a.Player] = statusAllIn
	}
}

type streetChunk struct {
	street  Street
	actions []Action
}

func chunkByStreet(actions []Action) []streetChunk {
	var chunks []streetChunk
	cur := streetChunk{street: Preflop}
	for _, a := range actions {
		if a.Street != cur.street {
			chunks = append(chunks, cur)
			cur = streetChunk{street: a.Street}
		}
		cur.actions = append(cur.actions, a)
	}
	return append(chunks, cur)
}

// reconstructActions inserts synthetic folds for players whose expected turn
// arrived before the next recorded actor's turn and who never act again on the
// same street. Original actions are never removed or reordered; the result is
// an order-preserving superset.
//
// Preflop the expected first actor sits after the big-blind poster; postflop
// it sits after the button. When the button cannot be resolved, postflop
// expectations cannot be computed and those streets pass through unmodified.
func (p *Parser) reconstructActions(actions []Action, players []*Player, buttonSeat int, haveButton bool) []Action {
	if len(actions) == 0 || len(players) == 0 {
		return actions
	}

	ring := newRingState(players)
	final := make([]Action, 0, len(actions))

	for _, chunk := range chunkByStreet(actions) {
		expected, haveExpected := p.firstToAct(chunk, ring, buttonSeat, haveButton)

		for i, action := range chunk.actions {
			// Blind posts precede the orbit; pass them through without
			// moving the cursor.
			if action.Type == ActionPostSB || action.Type == ActionPostBB {
				final = append(final, action)
				continue
			}

			actorSeat, seated := ring.nameToSeat[action.Player]
			if !seated || !haveExpected {
				final = append(final, action)
				ring.apply(action)
				if seated {
					expected, haveExpected = ring.nextActive(actorSeat)
				}
				continue
			}

			// Everyone between the expected seat and the actual actor was
			// skipped -- unless they act later this street, in which case the
			// ring evidence is not trusted enough to fold them.
			for guard := 0; expected != actorSeat && guard < len(ring.seats); guard++ {
				skipped := ring.seatToName[expected]
				if !actsLater(chunk.actions[i:], skipped) {
					final = append(final, Action{
						Player:   skipped,
						Type:     ActionFold,
						Street:   chunk.street,
						Inferred: true,
					})
					ring.status[skipped] = statusFolded
				}
				var ok bool
				expected, ok = ring.nextActive(expected)
				if !ok {
					haveExpected = false
					break
				}
			}

			final = append(final, action)
			ring.apply(action)
			expected, haveExpected = ring.nextActive(actorSeat)
		}
	}
	return final
}

// firstToAct resolves the expected first actor for one street chunk.
func (p *Parser) firstToAct(chunk streetChunk, ring *ringState, buttonSeat int, haveButton bool) (int, bool) {
	if chunk.street == Preflop {
		for _, a := range chunk.actions {
			if a.Type == ActionPostBB {
				if seat, ok := ring.nameToSeat[a.Player]; ok {
					return ring.nextActive(seat)
				}
				break
			}
		}
		// No big-blind post recorded: approximate BB as button+2.
		if haveButton {
			if sbSeat, ok := ring.nextActive(buttonSeat); ok {
				if bbSeat, ok := ring.nextActive(sbSeat); ok {
					return ring.nextActive(bbSeat)
				}
			}
		}
		return 0, false
	}
	if !haveButton {
		return 0, false
	}
	return ring.nextActive(buttonSeat)
}

func actsLater(rest []Action, name string) bool {
	for _, a := range rest {
		if a.Player == name {
			return true
		}
	}
	return false
}
