package game

import "math/rand"

// HandSize is the number of cards dealt to each seat.
const HandSize = 8

// DeckSize is the total card count, 8 ranks times 4 suits.
const DeckSize = 32

// AllCards returns the exhaustive 32-card deck in canonical order.
func AllCards() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, s := range suitOrder {
		for _, r := range regularOrder {
			cards = append(cards, Card{code: r + string(s)})
		}
	}
	return cards
}

// Deck is the reusable pile of 32 cards carried over between rounds. It is
// dealt out entirely at round start and refilled trick by trick, so between
// rounds it holds the previous round's cards in trick-completion order.
type Deck struct {
	pile []Card
	rng  *rand.Rand
}

// NewDeck builds a deck shuffled once with the given source. Subsequent
// rounds only cut the carried pile, never reshuffle.
func NewDeck(seed int64) *Deck {
	d := &Deck{
		pile: AllCards(),
		rng:  rand.New(rand.NewSource(seed)),
	}
	d.rng.Shuffle(len(d.pile), func(i, j int) {
		d.pile[i], d.pile[j] = d.pile[j], d.pile[i]
	})
	return d
}

// Cut splits the pile at a random point and swaps the halves.
func (d *Deck) Cut() {
	if len(d.pile) < 2 {
		return
	}
	at := 1 + d.rng.Intn(len(d.pile)-1)
	cut := make([]Card, 0, len(d.pile))
	cut = append(cut, d.pile[at:]...)
	cut = append(cut, d.pile[:at]...)
	d.pile = cut
}

// Deal empties the pile into four hands of eight, three then two then three
// cards per seat, visiting seats clockwise from startingSeat.
func (d *Deck) Deal(startingSeat int) ([4][]Card, error) {
	if len(d.pile) != DeckSize {
		return [4][]Card{}, ErrShortDeck
	}

	var hands [4][]Card
	next := 0
	for _, batch := range []int{3, 2, 3} {
		for i := 0; i < 4; i++ {
			seat := (startingSeat + i) % 4
			hands[seat] = append(hands[seat], d.pile[next:next+batch]...)
			next += batch
		}
	}
	d.pile = d.pile[:0]
	return hands, nil
}

// Collect appends cards back onto the pile, preserving their order.
func (d *Deck) Collect(cards []Card) {
	d.pile = append(d.pile, cards...)
}

// Size returns the number of cards currently in the pile.
func (d *Deck) Size() int {
	return len(d.pile)
}
