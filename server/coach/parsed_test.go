package coach

import (
	"testing"

	"leaklens/server/handparse"
)

func fptr(v float64) *float64 { return &v }

func TestBuildParsedHeroAndBoard(t *testing.T) {
	h := &handparse.HandState{
		Players: []*handparse.Player{
			{Name: "villain", Position: "SB"},
			{Name: "heroPlayer", IsHero: true, Position: "BTN", Cards: []string{"A♥", "K♥"}},
		},
		Board: []string{"T♠", "9♥", "8♦", "2♣"},
		Pot:   12.4,
		SB:    fptr(0.1),
		BB:    fptr(0.25),
		Actions: []handparse.Action{
			{Player: "heroPlayer", Type: handparse.ActionRaiseTo, Street: handparse.Preflop},
			{Player: "villain", Type: handparse.ActionRaiseTo, Street: handparse.Preflop},
			{Player: "heroPlayer", Type: handparse.ActionCall, Street: handparse.Preflop},
			{Player: "villain", Type: handparse.ActionBet, Street: handparse.Flop},
		},
	}

	parsed := BuildParsed(h)
	if parsed == nil {
		t.Fatalf("parsed hint is nil")
	}
	if parsed["position"] != "BTN" || parsed["cards"] != "A♥ K♥" {
		t.Fatalf("hero fields = %v / %v", parsed["position"], parsed["cards"])
	}
	if parsed["flop"] != "T♠ 9♥ 8♦" || parsed["turn"] != "2♣" || parsed["river"] != "" {
		t.Fatalf("board fields = %v / %v / %v", parsed["flop"], parsed["turn"], parsed["river"])
	}
	if parsed["stakes"] != "$0.1/$0.25" {
		t.Fatalf("stakes = %v", parsed["stakes"])
	}
	if parsed["pot_type"] != "3bet" || parsed["preflop_raises"] != 2 {
		t.Fatalf("pot type = %v with %v raises", parsed["pot_type"], parsed["preflop_raises"])
	}
	if parsed["hero"] != "heroPlayer" {
		t.Fatalf("hero name = %v", parsed["hero"])
	}
}

func TestBuildParsedPotTypes(t *testing.T) {
	mk := func(raises int) *handparse.HandState {
		h := &handparse.HandState{
			Players: []*handparse.Player{{Name: "h", IsHero: true, Position: "CO"}},
		}
		for i := 0; i < raises; i++ {
			h.Actions = append(h.Actions, handparse.Action{Type: handparse.ActionRaiseTo, Street: handparse.Preflop})
		}
		return h
	}
	cases := map[int]string{0: "single_raised", 1: "single_raised", 2: "3bet", 3: "4bet", 5: "4bet"}
	for raises, want := range cases {
		if got := BuildParsed(mk(raises))["pot_type"]; got != want {
			t.Fatalf("%d raises -> %v, want %s", raises, got, want)
		}
	}
}

func TestBuildParsedNothingKnown(t *testing.T) {
	h := &handparse.HandState{
		Players: []*handparse.Player{{Name: "x", IsHero: true, Position: handparse.PositionUnknown}},
	}
	if got := BuildParsed(h); got != nil {
		t.Fatalf("hint without position or cards = %v", got)
	}
	if got := BuildParsed(nil); got != nil {
		t.Fatalf("nil hand = %v", got)
	}
}
