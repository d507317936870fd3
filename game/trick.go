package game

// Trick tracks the up-to-four cards played in one trick (a "pli"). It is
// anchored to the seat that leads and to the fixed clockwise seating, and
// answers legality and winner questions for candidate plays.
type Trick struct {
	players      []*Player
	startingSeat int
	plays        map[string]Card // player ID -> card
}

func NewTrick(players []*Player, startingSeat int) *Trick {
	return &Trick{
		players:      players,
		startingSeat: startingSeat,
		plays:        make(map[string]Card, 4),
	}
}

func (t *Trick) StartingSeat() int {
	return t.startingSeat
}

// orderedSeats lists the four seats in play order for this trick.
func (t *Trick) orderedSeats() [4]int {
	return [4]int{
		(t.startingSeat + 0) % 4,
		(t.startingSeat + 1) % 4,
		(t.startingSeat + 2) % 4,
		(t.startingSeat + 3) % 4,
	}
}

func (t *Trick) seatOf(p *Player) int {
	for i, other := range t.players {
		if other.Same(p) {
			return i
		}
	}
	return -1
}

func (t *Trick) IsEmpty() bool {
	return len(t.plays) == 0
}

func (t *Trick) IsComplete() bool {
	return len(t.plays) == 4
}

// Cards returns the cards played so far, in play order.
func (t *Trick) Cards() []Card {
	cards := make([]Card, 0, len(t.plays))
	for _, seat := range t.orderedSeats() {
		if c, ok := t.plays[t.players[seat].ID]; ok {
			cards = append(cards, c)
		}
	}
	return cards
}

// CardPlayedBy returns the card the player put down in this trick, zero if
// none yet.
func (t *Trick) CardPlayedBy(p *Player) Card {
	if p == nil {
		return Card{}
	}
	return t.plays[p.ID]
}

// IsLegal applies the follow-suit, over-trump and partner-exception rules to
// a candidate card given the player's remaining hand:
//   - an empty trick accepts anything;
//   - holding the required suit restricts to it, and within a trump required
//     suit the player must raise over the current winning card if able;
//   - void of the required suit, a player holding an overtaking trump must
//     play it, unless the provisional winner is their partner.
func (t *Trick) IsLegal(p *Player, card Card, hand []Card, trump Trump) bool {
	if t.IsEmpty() {
		return true
	}

	if _, played := t.plays[p.ID]; played {
		return false
	}

	seat := t.seatOf(p)
	if seat < 0 {
		return false
	}

	requiredSuit := t.Cards()[0].Suit()
	takingSeat := t.TakingSeat(trump)
	takingCard := t.plays[t.players[takingSeat].ID]

	holdsRequired := false
	holdsOvertaking := false
	for _, c := range hand {
		if c.Suit() == requiredSuit {
			holdsRequired = true
		}
		if c.Overtakes(takingCard, trump) {
			holdsOvertaking = true
		}
	}

	if holdsRequired {
		if card.Suit() != requiredSuit {
			return false
		}
		// Within trump one must raise if able.
		if (Trump(requiredSuit) == trump || trump == TrumpAll) && holdsOvertaking {
			return card.Overtakes(takingCard, trump)
		}
		return true
	}

	// Void of the required suit: an overtaking trump is mandatory unless the
	// partner is taking.
	if holdsOvertaking && takingSeat%2 != seat%2 {
		return card.Overtakes(takingCard, trump)
	}

	return true
}

// CanPlay additionally enforces turn order: only the seat following the
// plays so far may act, and a complete trick accepts nothing.
func (t *Trick) CanPlay(p *Player, card Card, hand []Card, trump Trump) bool {
	if t.IsComplete() {
		return false
	}

	currentSeat := t.orderedSeats()[len(t.plays)]
	if !t.players[currentSeat].Same(p) {
		return false
	}

	return t.IsLegal(p, card, hand, trump)
}

// Play records the card for the player. Callers validate via CanPlay first.
func (t *Trick) Play(p *Player, card Card) {
	t.plays[p.ID] = card
}

// TakingSeat returns the seat provisionally winning the trick so far, -1 for
// an empty trick.
func (t *Trick) TakingSeat(trump Trump) int {
	takingSeat := -1
	var takingCard Card
	for _, seat := range t.orderedSeats() {
		c, ok := t.plays[t.players[seat].ID]
		if !ok {
			break
		}
		if c.Overtakes(takingCard, trump) {
			takingCard = c
			takingSeat = seat
		}
	}
	return takingSeat
}

// Winner resolves the completed trick to the winning seat.
func (t *Trick) Winner(trump Trump) (int, error) {
	if !t.IsComplete() {
		return -1, ErrTrickNotDone
	}
	return t.TakingSeat(trump), nil
}

// TotalPoints sums the point values of the cards played so far.
func (t *Trick) TotalPoints(trump Trump) float64 {
	total := 0.0
	for _, c := range t.Cards() {
		total += c.PointValue(trump)
	}
	return total
}
