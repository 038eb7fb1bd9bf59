package handparse

import (
	"encoding/json"
	"reflect"
	"testing"
)

const fixture3Handed = `PokerStars Hand #249876543210:  Hold'em No Limit ($0.10/$0.25 USD) - 2023/10/25 12:00:00 ET
Table 'Belle Rive' 6-max Seat #4 is the button
Seat 2: Hellliga ($25.00 in chips)
Seat 4: KannyThOP ($31.45 in chips)
Seat 5: Arepitarica ($24.10 in chips)
Seat 6: Axel14 ($25.00 in chips) is sitting out
Arepitarica: posts the small blind $0.10
Hellliga: posts the big blind $0.25
*** HOLE CARDS ***
Dealt to KannyThOP [9d Ah]
KannyThOP: raises to $0.70
Arepitarica: raises to $3.00
Hellliga: folds
KannyThOP: folds
Arepitarica collected $1.65 from pot
*** SUMMARY ***
Total pot $1.65 | Rake $0.00
Seat 2: Hellliga (big blind) folded before Flop
Seat 4: KannyThOP (button) folded before Flop
Seat 5: Arepitarica (small blind) collected ($1.65)
`

func findPlayer(t *testing.T, h HandState, name string) *Player {
	t.Helper()
	for _, p := range h.Players {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("player %q not in hand (have %d players)", name, len(h.Players))
	return nil
}

func TestParseThreeHandedButtonHand(t *testing.T) {
	h := Parse(fixture3Handed)

	if len(h.Players) != 3 {
		t.Fatalf("expected 3 active players, got %d", len(h.Players))
	}
	for _, p := range h.Players {
		if p.Name == "Axel14" {
			t.Fatalf("sitting-out player must be excluded from the ring")
		}
	}

	wantPos := map[string]string{
		"KannyThOP":   "BTN",
		"Arepitarica": "SB",
		"Hellliga":    "BB",
	}
	for name, pos := range wantPos {
		if got := findPlayer(t, h, name).Position; got != pos {
			t.Fatalf("position of %s = %q, want %q", name, got, pos)
		}
	}

	hero := findPlayer(t, h, "KannyThOP")
	if !hero.IsHero {
		t.Fatalf("KannyThOP should be hero (Dealt to line)")
	}
	if want := []string{"9♦", "A♥"}; !reflect.DeepEqual(hero.Cards, want) {
		t.Fatalf("hero cards = %v, want %v", hero.Cards, want)
	}

	if h.Street != Preflop {
		t.Fatalf("street reached = %q, want preflop", h.Street)
	}
	if h.SB == nil || *h.SB != 0.10 || h.BB == nil || *h.BB != 0.25 {
		t.Fatalf("stakes = %v/%v, want 0.10/0.25", h.SB, h.BB)
	}

	for _, a := range h.Actions {
		if a.Inferred {
			t.Fatalf("no synthetic folds expected, got one for %s", a.Player)
		}
	}

	// Smart seating keeps the blind roles at their ideal ring offsets.
	if got := findPlayer(t, h, "Arepitarica").SeatIndex; got != 1 {
		t.Fatalf("SB seat = %d, want 1", got)
	}
	if got := findPlayer(t, h, "Hellliga").SeatIndex; got != 2 {
		t.Fatalf("BB seat = %d, want 2", got)
	}

	// Stacks are blind-relative: $31.45 / $0.25.
	if got := *hero.Stack; got != 125.8 {
		t.Fatalf("hero stack = %v, want 125.8", got)
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   \n\t  "} {
		h := Parse(raw)
		if len(h.Players) != 0 || len(h.Actions) != 0 || len(h.Board) != 0 {
			t.Fatalf("empty input must yield the zero HandState, got %+v", h)
		}
		if h.Street != Preflop || h.Pot != 0 {
			t.Fatalf("empty input must yield the zero HandState, got %+v", h)
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	a := Parse(fixture3Handed)
	b := Parse(fixture3Handed)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("parsing the same text twice produced different HandStates")
	}
}

func TestSeatIndicesZeroBased(t *testing.T) {
	h := Parse(fixture3Handed)
	min := 1 << 30
	for _, p := range h.Players {
		if p.SeatIndex < 0 {
			t.Fatalf("negative seat index for %s: %d", p.Name, p.SeatIndex)
		}
		if p.SeatIndex < min {
			min = p.SeatIndex
		}
	}
	if min != 0 {
		t.Fatalf("min seat index = %d, want 0", min)
	}
}

func TestBlindRelativeRounding(t *testing.T) {
	raw := `PokerStars Hand #1:  Hold'em No Limit ($0.10/$0.25 USD)
Table 'x' 6-max Seat #1 is the button
Seat 1: alice ($65.27 in chips)
Seat 2: bob ($25.00 in chips)
alice: posts the small blind $0.10
bob: posts the big blind $0.25
*** HOLE CARDS ***
Dealt to alice [Ah Kh]
alice: folds
`
	h := Parse(raw)
	if got := *findPlayer(t, h, "alice").Stack; got != 261.1 {
		t.Fatalf("normalized stack = %v, want 261.1 (65.27/0.25 rounded to 1 decimal)", got)
	}
}

func TestRoundBB(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{261.08, 261.1},
		{261.04, 261.0},
		{100.0, 100.0},
		{0.05, 0.1}, // half rounds away from zero
	}
	for _, c := range cases {
		if got := roundBB(c.in); got != c.want {
			t.Fatalf("roundBB(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestHandStateJSONShape(t *testing.T) {
	b, err := json.Marshal(Parse(fixture3Handed))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"players", "board", "pot", "street", "sb", "bb", "dealerSeat", "actions"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("serialized HandState missing key %q", key)
		}
	}
	// No button role evidence in this hand, so the dealer seat is unresolved.
	if m["dealerSeat"] != nil {
		t.Fatalf("dealerSeat = %v, want null", m["dealerSeat"])
	}
}

func TestInactiveFlagAccounting(t *testing.T) {
	h := Parse(fixture3Handed)

	explicit := map[string]bool{}
	for _, a := range h.Actions {
		if a.Type == ActionFold && !a.Inferred {
			explicit[a.Player] = true
		}
	}
	synthetic := 0
	for _, a := range h.Actions {
		if a.Inferred {
			synthetic++
		}
	}
	// Every player that went inactive without an explicit fold or showdown
	// must be covered by a synthetic fold. Here: none.
	if synthetic != 0 {
		t.Fatalf("expected 0 synthetic folds, got %d", synthetic)
	}
}
