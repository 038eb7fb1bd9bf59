package silver

import (
	"reflect"
	"testing"
)

func TestBuildRowFromRawTextOnly(t *testing.T) {
	row := BuildRow(HandRow{
		HandID:       7,
		UserID:       3,
		RawText:      rawWonHand,
		GTOStrategy:  "raise 3x",
		LearningTags: []string{"Miss Value River"},
	})

	if row.HandID != 7 || row.UserID != 3 {
		t.Fatalf("ids = %d/%d", row.HandID, row.UserID)
	}
	if row.StakesRaw != "0.10/0.25" || row.SmallBlind == nil || *row.SmallBlind != 0.10 || *row.BigBlind != 0.25 {
		t.Fatalf("stakes = %q %v %v", row.StakesRaw, row.SmallBlind, row.BigBlind)
	}
	if row.Cards != "AH KH" {
		t.Fatalf("cards = %q", row.Cards)
	}
	if row.FlopCards != "TS 9H 8D" || row.TurnCard != "" || row.RiverCard != "" {
		t.Fatalf("board = %q / %q / %q", row.FlopCards, row.TurnCard, row.RiverCard)
	}
	// Heads-up, button on Hero's seat: SB and BTN collapse to BTN.
	if row.HeroPosition != "BTN" || row.PositionNorm != "BTN" {
		t.Fatalf("hero position = %q / %q", row.HeroPosition, row.PositionNorm)
	}
	if row.Site != "ACR" || row.GameType != "cash" {
		t.Fatalf("site/type = %q/%q", row.Site, row.GameType)
	}
	if row.TableSize == nil || *row.TableSize != 6 {
		t.Fatalf("table size = %v", row.TableSize)
	}
	if row.StreetReached != "flop" {
		t.Fatalf("street = %q", row.StreetReached)
	}
	if row.ResultAmount == nil || *row.ResultAmount != 1.95 {
		t.Fatalf("result = %v", row.ResultAmount)
	}
	if !row.PreflopOpen || row.Preflop3Bet || row.AllIn {
		t.Fatalf("flags = %v %v %v", row.PreflopOpen, row.Preflop3Bet, row.AllIn)
	}
	if want := []string{"miss_value_river"}; !reflect.DeepEqual(row.LearningTags, want) {
		t.Fatalf("tags = %v", row.LearningTags)
	}
	if row.ParsedAt.IsZero() {
		t.Fatalf("parsed_at unset")
	}
}

func TestBuildRowPrefersStoredColumns(t *testing.T) {
	row := BuildRow(HandRow{
		Stakes:    "$0.50/$1.00",
		Cards:     "QQ",
		Board:     "AS KD 2C 3H 4S",
		HandClass: "Set",
		RawText:   rawWonHand,
	})
	if row.StakesRaw != "$0.50/$1.00" || *row.BigBlind != 1.0 {
		t.Fatalf("stored stakes lost: %q %v", row.StakesRaw, row.BigBlind)
	}
	if row.Cards != "QQ" || row.HandClass != "Set" {
		t.Fatalf("stored columns lost: %q %q", row.Cards, row.HandClass)
	}
	// Stored board strings get split street by street.
	if row.FlopCards != "AS KD 2C" || row.TurnCard != "3H" || row.RiverCard != "4S" {
		t.Fatalf("board split = %q / %q / %q", row.FlopCards, row.TurnCard, row.RiverCard)
	}
}

func TestBuildRowStalePositionOverridden(t *testing.T) {
	row := BuildRow(HandRow{Position: "UTG", RawText: rawWonHand})
	if row.PositionRaw != "BTN" || row.HeroPosition != "BTN" {
		t.Fatalf("stale position kept: %q / %q", row.PositionRaw, row.HeroPosition)
	}
}

func TestBuildRowEmptyRawText(t *testing.T) {
	row := BuildRow(HandRow{HandID: 1, Position: "cutoff"})
	if row.PositionNorm != "CO" || row.HeroPosition != "CO" {
		t.Fatalf("position fallback = %q / %q", row.PositionNorm, row.HeroPosition)
	}
	if row.Site != "" || row.StreetReached != "preflop" || row.GameType != "cash" {
		t.Fatalf("empty text detections = %q %q %q", row.Site, row.StreetReached, row.GameType)
	}
}
