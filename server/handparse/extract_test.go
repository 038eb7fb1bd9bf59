package handparse

import (
	"reflect"
	"testing"
)

func TestExtractSeatsVariants(t *testing.T) {
	text := `Seat 1: PlayerOne ($50.00)
Seat 3: Hero (1500 in chips)
Seat 5: Lurker ($20.00) is sitting out
SlowGuy sits out
Seat 6: SlowGuy ($12.00)
`
	p := NewParser()
	players := p.extractSeats(text, p.inactiveNames(text))

	if len(players) != 2 {
		t.Fatalf("expected 2 active seats, got %d", len(players))
	}
	if players[0].Name != "PlayerOne" || players[0].SeatIndex != 1 || *players[0].Stack != 50 {
		t.Fatalf("seat 1 = %+v", players[0])
	}
	if players[1].Name != "Hero" || !players[1].IsHero || *players[1].Stack != 1500 {
		t.Fatalf("seat 3 = %+v", players[1])
	}
}

func TestExtractButtonAbsent(t *testing.T) {
	p := NewParser()
	if _, ok := p.extractButton("no button line here"); ok {
		t.Fatalf("button reported present on text without one")
	}
	seat, ok := p.extractButton("Table 'x' 6-max Seat #7 is the button")
	if !ok || seat != 7 {
		t.Fatalf("button = (%d, %v), want (7, true)", seat, ok)
	}
}

func TestExtractHeroCardsOverridesConvention(t *testing.T) {
	name, cards, ok := NewParser().extractHeroCards("Dealt to KannyThOP [7c Ks]")
	if !ok || name != "KannyThOP" {
		t.Fatalf("hero = (%q, %v)", name, ok)
	}
	if want := []string{"7♣", "K♠"}; !reflect.DeepEqual(cards, want) {
		t.Fatalf("cards = %v, want %v", cards, want)
	}
}

func TestConvertCardPassThrough(t *testing.T) {
	cases := map[string]string{
		"Ah": "A♥",
		"Ts": "T♠",
		"9d": "9♦",
		"2c": "2♣",
		"Ax": "Ax", // unknown suit letter passes through
		"":   "",
	}
	for in, want := range cases {
		if got := ConvertCard(in); got != want {
			t.Fatalf("ConvertCard(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractBoardPartialStreets(t *testing.T) {
	p := NewParser()

	flopOnly := "*** FLOP *** [Ts 9h 8d]"
	if got := p.extractBoard(flopOnly); len(got) != 3 {
		t.Fatalf("flop-only board = %v, want 3 cards", got)
	}

	full := `*** FLOP *** [Ts 9h 8d]
*** TURN *** [Ts 9h 8d] [2c]
*** RIVER *** [Ts 9h 8d 2c] [5s]
`
	want := []string{"T♠", "9♥", "8♦", "2♣", "5♠"}
	if got := p.extractBoard(full); !reflect.DeepEqual(got, want) {
		t.Fatalf("board = %v, want %v", got, want)
	}
}

func TestExtractActionsGrammar(t *testing.T) {
	text := `*** HOLE CARDS ***
Villain: raises $10 to $15
Hero: raises to $45
Villain: calls $30
*** FLOP *** [Ts 9h 8d]
Villain: checks
Hero: bets $50
Villain: folds
`
	actions := NewParser().extractActions(text)
	if len(actions) != 6 {
		t.Fatalf("expected 6 actions, got %d", len(actions))
	}

	// "raises $10 to $15" carries the raise-to amount, not the delta.
	if actions[0].Type != ActionRaiseTo || *actions[0].Amount != 15 {
		t.Fatalf("action 0 = %s %v, want raiseTo 15", actions[0].Type, actions[0].Amount)
	}
	if actions[1].Type != ActionRaiseTo || *actions[1].Amount != 45 {
		t.Fatalf("action 1 = %s %v, want raiseTo 45", actions[1].Type, actions[1].Amount)
	}
	if actions[2].Street != Preflop {
		t.Fatalf("action 2 street = %s, want preflop", actions[2].Street)
	}
	for _, a := range actions[3:] {
		if a.Street != Flop {
			t.Fatalf("postflop action on %s, want flop", a.Street)
		}
	}
	if actions[4].Type != ActionBet || *actions[4].Amount != 50 {
		t.Fatalf("action 4 = %s, want bets 50", actions[4].Type)
	}
}

func TestExtractActionsBlindPosts(t *testing.T) {
	text := `Arepitarica posts the small blind $0.10
Hellliga: posts big blind $0.25
`
	actions := NewParser().extractActions(text)
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	if actions[0].Type != ActionPostSB || actions[0].Player != "Arepitarica" {
		t.Fatalf("action 0 = %s by %s, want posts_sb by Arepitarica", actions[0].Type, actions[0].Player)
	}
	if actions[1].Type != ActionPostBB || *actions[1].Amount != 0.25 {
		t.Fatalf("action 1 = %s %v, want posts_bb 0.25", actions[1].Type, actions[1].Amount)
	}
}

func TestStreetReached(t *testing.T) {
	p := NewParser()
	cases := []struct {
		text string
		want Street
	}{
		{"nothing here", Preflop},
		{"*** HOLE CARDS ***", Preflop},
		{"*** FLOP *** [Ts 9h 8d]", Flop},
		{"*** FLOP *** x\n*** TURN *** y", Turn},
		{"*** RIVER *** z", River},
		{"*** SHOW DOWN ***", Showdown},
	}
	for _, c := range cases {
		if got := p.streetReached(c.text); got != c.want {
			t.Fatalf("streetReached(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestExtractDate(t *testing.T) {
	p := NewParser()
	got, ok := p.ExtractDate("PokerStars Hand #1: ($0.10/$0.25) - 2023/10/25 12:00:00 ET")
	if !ok || got != "2023-10-25 12:00:00" {
		t.Fatalf("date = (%q, %v)", got, ok)
	}
	if _, ok := p.ExtractDate("2023/10/25 32:00:00"); ok {
		t.Fatalf("invalid timestamp must report absence")
	}
	if _, ok := p.ExtractDate("no date"); ok {
		t.Fatalf("missing date must report absence")
	}
}

func TestExtractShownCards(t *testing.T) {
	text := `*** SHOW DOWN ***
alice: shows [Ah Kh]
bob: shows [2c 2d]
`
	shown := NewParser().extractShownCards(text)
	if len(shown) != 2 {
		t.Fatalf("shown = %v, want 2 entries", shown)
	}
	if want := []string{"A♥", "K♥"}; !reflect.DeepEqual(shown["alice"], want) {
		t.Fatalf("alice shows %v, want %v", shown["alice"], want)
	}
}
