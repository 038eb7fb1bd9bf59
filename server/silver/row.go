package silver

import (
	"strings"
	"time"

	"leaklens/server/handparse"
)

// HandRow is the bronze-layer hand as read from storage: raw text plus
// whatever the earlier stages already filled in.
type HandRow struct {
	HandID           int64
	UserID           int64
	HandDate         *time.Time
	Stakes           string
	Position         string
	Cards            string
	Board            string
	RawText          string
	HandClass        string
	GTOStrategy      string
	ExploitDeviation string
	LearningTags     []string
}

// Row is one hands_silver record, fully derived and ready to upsert.
type Row struct {
	HandID           int64
	UserID           int64
	HandDate         *time.Time
	StakesRaw        string
	SmallBlind       *float64
	BigBlind         *float64
	PositionRaw      string
	PositionNorm     string
	Cards            string
	FlopCards        string
	TurnCard         string
	RiverCard        string
	Board            string
	HandClass        string
	GTOStrategy      string
	ExploitDeviation string
	LearningTags     []string
	HeroPosition     string
	PreflopCall      bool
	Site             string
	GameType         string
	TableSize        *int
	StreetReached    string
	ResultAmount     *float64
	ResultBB         *float64
	PreflopOpen      bool
	Preflop3Bet      bool
	Preflop4Bet      bool
	AllIn            bool
	Currency         string
	ParsedAt         time.Time
}

// BuildRow derives every silver column from the bronze hand. Pre-filled
// bronze columns win over re-extraction; position inference from the raw
// text wins over the stored label, which can be stale.
func BuildRow(h HandRow) Row {
	stakesRaw := h.Stakes
	var sb, bb *float64
	if stakesRaw == "" {
		stakesRaw, sb, bb = ExtractStakes(h.RawText)
	} else {
		sb, bb = ParseStakes(stakesRaw)
	}

	cards := h.Cards
	flop, turn, river := "", "", ""
	if cards == "" || h.Board == "" {
		ec, ef, et, er := CardsAndBoard(h.RawText)
		if cards == "" {
			cards = ec
		}
		if h.Board == "" {
			flop, turn, river = ef, et, er
		}
	}
	if h.Board != "" && flop == "" && turn == "" && river == "" {
		toks := strings.Fields(h.Board)
		if len(toks) >= 3 {
			flop = strings.Join(toks[:3], " ")
		}
		if len(toks) >= 4 {
			turn = toks[3]
		}
		if len(toks) >= 5 {
			river = toks[4]
		}
	}

	positionRaw := h.Position
	positionNorm, _ := NormalizePosition(positionRaw)
	heroPos := inferHeroPosition(h.RawText)
	if heroPos != "" {
		positionRaw = heroPos
		positionNorm = heroPos
	}
	if heroPos == "" {
		heroPos = positionNorm
	}

	site, _ := DetectSite(h.RawText)
	var tableSize *int
	if n, ok := DetectTableSize(h.RawText); ok {
		tableSize = &n
	}
	open, threeBet, fourBet, allIn := PreflopFlags(h.RawText)
	currency, resultAmount, resultBB := DetectResult(h.RawText, bb)

	handClass := h.HandClass
	if handClass == "" {
		handClass, _ = HandClass(cards, strings.TrimSpace(flop+" "+turn+" "+river))
	}

	return Row{
		HandID:           h.HandID,
		UserID:           h.UserID,
		HandDate:         h.HandDate,
		StakesRaw:        stakesRaw,
		SmallBlind:       sb,
		BigBlind:         bb,
		PositionRaw:      positionRaw,
		PositionNorm:     positionNorm,
		Cards:            cards,
		FlopCards:        flop,
		TurnCard:         turn,
		RiverCard:        river,
		Board:            h.Board,
		HandClass:        handClass,
		GTOStrategy:      h.GTOStrategy,
		ExploitDeviation: h.ExploitDeviation,
		LearningTags:     NormalizeTags(h.LearningTags),
		HeroPosition:     heroPos,
		PreflopCall:      DetectPreflopCall(h.RawText),
		Site:             site,
		GameType:         DetectGameType(h.RawText),
		TableSize:        tableSize,
		StreetReached:    StreetReached(h.RawText),
		ResultAmount:     resultAmount,
		ResultBB:         resultBB,
		PreflopOpen:      open,
		Preflop3Bet:      threeBet,
		Preflop4Bet:      fourBet,
		AllIn:            allIn,
		Currency:         currency,
		ParsedAt:         time.Now().UTC(),
	}
}

// inferHeroPosition replays the seat/button logic over the raw text and
// returns the hero's label, or "" when the button could not be resolved.
func inferHeroPosition(rawText string) string {
	if strings.TrimSpace(rawText) == "" {
		return ""
	}
	h := handparse.Parse(rawText)
	for _, p := range h.Players {
		if p.IsHero && p.Position != handparse.PositionUnknown {
			return p.Position
		}
	}
	return ""
}
