package handparse

import (
	"strings"
	"testing"
)

func TestSplitHandsOnHeaders(t *testing.T) {
	txt := `PokerStars Hand #100: Hold'em No Limit ($0.10/$0.25)
Seat 1: alice ($25.00)
alice: folds

PokerStars Hand #101: Hold'em No Limit ($0.10/$0.25)
Seat 1: alice ($25.00)
Seat 2: bob ($30.00)
bob: checks
`
	hands := SplitHands(txt)
	if len(hands) != 2 {
		t.Fatalf("expected 2 hands, got %d", len(hands))
	}
	if !strings.HasPrefix(hands[0], "PokerStars Hand #100") {
		t.Fatalf("hand 0 starts with %q", hands[0][:30])
	}
	if !strings.HasPrefix(hands[1], "PokerStars Hand #101") {
		t.Fatalf("hand 1 starts with %q", hands[1][:30])
	}
	if strings.Contains(hands[0], "Hand #101") {
		t.Fatalf("hand 0 bleeds into hand 1")
	}
}

func TestSplitHandsStarHeaderDialect(t *testing.T) {
	txt := `***** Hand History for Game 555001 *****
Seat 1: alice ($25.00)
alice: folds and that is the whole hand
***** Hand History for Game 555002 *****
Seat 1: alice ($25.00)
alice: checks through to the end of it
`
	hands := SplitHands(txt)
	if len(hands) != 2 {
		t.Fatalf("expected 2 hands, got %d", len(hands))
	}
	if !strings.Contains(hands[1], "Game 555002") {
		t.Fatalf("hand 1 = %q", hands[1])
	}
}

func TestSplitHandsBlankLineFallback(t *testing.T) {
	txt := `Seat 1: alice ($25.00)
Seat 2: bob ($30.00)
alice: folds

Seat 1: carol ($25.00)
Seat 2: dave ($30.00)
carol: checks
`
	hands := SplitHands(txt)
	if len(hands) != 2 {
		t.Fatalf("expected 2 blocks via blank-line fallback, got %d", len(hands))
	}
}

func TestSplitHandsDropsShortJunk(t *testing.T) {
	txt := `PokerStars Hand #100: Hold'em No Limit ($0.10/$0.25)
Seat 1: alice ($25.00)
alice: folds
PokerStars Hand #101: junk
`
	hands := SplitHands(txt)
	if len(hands) != 1 {
		t.Fatalf("expected junk trailer filtered, got %d blocks", len(hands))
	}
}

func TestSplitHandsCRLF(t *testing.T) {
	txt := "PokerStars Hand #100: Hold'em No Limit\r\nSeat 1: alice ($25.00)\r\nalice: folds\r\n"
	hands := SplitHands(txt)
	if len(hands) != 1 {
		t.Fatalf("expected 1 hand, got %d", len(hands))
	}
	if strings.Contains(hands[0], "\r") {
		t.Fatalf("carriage returns survived normalization")
	}
}

func TestSplitHandsEmpty(t *testing.T) {
	if got := SplitHands(""); len(got) != 0 {
		t.Fatalf("empty input produced %d blocks", len(got))
	}
	if got := SplitHands("\n\n  \n"); len(got) != 0 {
		t.Fatalf("whitespace input produced %d blocks", len(got))
	}
}
