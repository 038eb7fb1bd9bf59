package handparse

// Street is one betting round of a hand.
type Street string

const (
	Preflop  Street = "preflop"
	Flop     Street = "flop"
	Turn     Street = "turn"
	River    Street = "river"
	Showdown Street = "showdown"
)

// ActionType values match the wire strings the replayer consumes.
type ActionType string

const (
	ActionFold    ActionType = "folds"
	ActionCheck   ActionType = "checks"
	ActionCall    ActionType = "calls"
	ActionBet     ActionType = "bets"
	ActionRaiseTo ActionType = "raiseTo"
	ActionRaise   ActionType = "raise"
	ActionAllIn   ActionType = "all-in"
	ActionPostSB  ActionType = "posts_sb"
	ActionPostBB  ActionType = "posts_bb"
)

// PositionUnknown marks a player whose position could not be resolved.
const PositionUnknown = "UNKNOWN"

// Action is one atomic decision by one player on one street. Inferred marks
// folds reconstructed from turn-order evidence; it is kept for tests and never
// serialized, so downstream consumers see inferred folds as ordinary ones.
type Action struct {
	Player   string     `json:"player"`
	Type     ActionType `json:"action"`
	Amount   *float64   `json:"amount"`
	Street   Street     `json:"street"`
	Inferred bool       `json:"-"`
}

// Player is one seat occupant for a single hand. Cards holds two display
// tokens ("A♥") when known, nil otherwise. Stack is nil for players known
// only from the action log.
type Player struct {
	Name      string   `json:"name"`
	SeatIndex int      `json:"seatIndex"`
	IsHero    bool     `json:"isHero"`
	Cards     []string `json:"cards"`
	IsActive  bool     `json:"isActive"`
	Stack     *float64 `json:"stack"`
	Position  string   `json:"position"`
}

// HandState is the assembled output of the engine for one hand. Stacks and
// pot are blind-relative once the big blind is known.
type HandState struct {
	Players    []*Player `json:"players"`
	Board      []string  `json:"board"`
	Pot        float64   `json:"pot"`
	Street     Street    `json:"street"`
	SB         *float64  `json:"sb"`
	BB         *float64  `json:"bb"`
	DealerSeat *int      `json:"dealerSeat"`
	Actions    []Action  `json:"actions"`
}
