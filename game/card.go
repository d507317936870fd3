package game

// Suit of a playing card.
type Suit string

const (
	SuitHearts   Suit = "H"
	SuitClubs    Suit = "C"
	SuitDiamonds Suit = "D"
	SuitSpades   Suit = "S"
)

// Trump is the announced mode for a round: one of the four suits, or the
// all-trump / no-trump variants. The empty value means not announced yet.
type Trump string

const (
	TrumpUnset    Trump = ""
	TrumpHearts   Trump = "H"
	TrumpClubs    Trump = "C"
	TrumpDiamonds Trump = "D"
	TrumpSpades   Trump = "S"
	TrumpAll      Trump = "AT"
	TrumpNone     Trump = "NT"
)

func (t Trump) IsValid() bool {
	switch t {
	case TrumpHearts, TrumpClubs, TrumpDiamonds, TrumpSpades, TrumpAll, TrumpNone:
		return true
	}
	return false
}

// IsSuit reports whether the mode is one of the four plain suits.
func (t Trump) IsSuit() bool {
	switch t {
	case TrumpHearts, TrumpClubs, TrumpDiamonds, TrumpSpades:
		return true
	}
	return false
}

// suitOrder is the fixed global display order of suits, independent of trump.
var suitOrder = []Suit{SuitHearts, SuitClubs, SuitDiamonds, SuitSpades}

// Rank strength orders, strongest first.
var (
	regularOrder = []string{"A", "10", "K", "Q", "J", "9", "8", "7"}
	trumpOrder   = []string{"J", "9", "A", "10", "K", "Q", "8", "7"}
)

var regularPoints = map[string]float64{
	"A": 11, "10": 10, "K": 4, "Q": 3, "J": 2, "9": 0, "8": 0, "7": 0,
}

var trumpPoints = map[string]float64{
	"J": 20, "9": 14, "A": 11, "10": 10, "K": 4, "Q": 3, "8": 0, "7": 0,
}

// Card is one of the 32 cards of the deck, identified by its code, e.g. "10H"
// or "JS". The zero value is "no card".
type Card struct {
	code string
}

// NewCard builds a card from its wire code. Only the 32 known codes are
// accepted.
func NewCard(code string) (Card, error) {
	c := Card{code: code}
	if !c.valid() {
		return Card{}, ErrUnknownCard
	}
	return c, nil
}

func (c Card) valid() bool {
	if len(c.code) < 2 {
		return false
	}
	if rankIndex(regularOrder, c.Rank()) < 0 {
		return false
	}
	switch c.Suit() {
	case SuitHearts, SuitClubs, SuitDiamonds, SuitSpades:
		return true
	}
	return false
}

func (c Card) IsZero() bool {
	return c.code == ""
}

func (c Card) Code() string {
	return c.code
}

func (c Card) Suit() Suit {
	if c.code == "" {
		return ""
	}
	return Suit(c.code[len(c.code)-1:])
}

func (c Card) Rank() string {
	if c.code == "" {
		return ""
	}
	return c.code[:len(c.code)-1]
}

func (c Card) String() string {
	return c.code
}

func (c Card) isTrump(trump Trump) bool {
	return trump == TrumpAll || (trump.IsSuit() && Trump(c.Suit()) == trump)
}

func rankIndex(order []string, rank string) int {
	for i, r := range order {
		if r == rank {
			return i
		}
	}
	return -1
}

// SortValue gives a stable ordering key for hand display: suits grouped in
// the fixed global order, ranks ordered by strength under the applicable
// rank order. Lower sorts first (strongest of a suit first).
func (c Card) SortValue(trump Trump) int {
	order := regularOrder
	if c.isTrump(trump) {
		order = trumpOrder
	}
	suitIdx := 0
	for i, s := range suitOrder {
		if s == c.Suit() {
			suitIdx = i
			break
		}
	}
	return suitIdx*16 + rankIndex(order, c.Rank())
}

// PointValue returns the scoring value of the card under the given trump
// mode. Under all-trump and no-trump the tables are rescaled so that the
// whole deck is worth the same total as under a plain suit.
func (c Card) PointValue(trump Trump) float64 {
	points := regularPoints
	if c.isTrump(trump) {
		points = trumpPoints
	}

	multiplier := 1.0
	switch trump {
	case TrumpAll:
		multiplier = 152.0 / 248.0
	case TrumpNone:
		multiplier = 152.0 / 120.0
	}

	return multiplier * points[c.Rank()]
}

// Overtakes reports whether the card beats other under the given trump mode.
// A zero other always loses (the first card of a trick takes by default).
// A trump beats any non-trump; within the same suit the stronger rank wins;
// a non-trump of a different suit never overtakes.
func (c Card) Overtakes(other Card, trump Trump) bool {
	if other.IsZero() {
		return true
	}

	selfTrump := c.isTrump(trump)
	otherTrump := other.isTrump(trump)

	if selfTrump != otherTrump {
		return selfTrump
	}

	if c.Suit() != other.Suit() {
		return false
	}

	order := regularOrder
	if selfTrump {
		order = trumpOrder
	}
	return rankIndex(order, c.Rank()) < rankIndex(order, other.Rank())
}
