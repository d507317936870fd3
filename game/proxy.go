package game

import (
	"errors"
	"sort"
	"strconv"
)

var ErrBadProxyArgs = errors.New("malformed game status arguments")

// GameProxy is the player-relative snapshot broadcast to one client: seats
// rotated so the receiver sits at position 0, opposing hands stripped,
// scores expressed as own team versus theirs, and the receiver's hand
// annotated with per-card legality. Built fresh on every broadcast, never
// mutated afterwards.
type GameProxy struct {
	State        State
	Trump        Trump
	OwnPoints    float64
	TheirPoints  float64
	StartingSeat int

	// Rotated seat names; empty string for a vacant seat.
	Players [4]string

	// Rotated card codes of the current and previous trick; empty string
	// where a seat has not played.
	Current  [4]string
	Previous [4]string

	// The receiver's own hand, sorted for display, with one legality flag
	// per card.
	Hand  []string
	Legal []bool
}

// ProxyFor projects the game onto the given player's point of view.
func (g *Game) ProxyFor(p *Player) (*GameProxy, error) {
	seat := g.seatOf(p)
	if seat < 0 {
		return nil, ErrUnknownPlayer
	}

	proxy := &GameProxy{
		State:        g.state,
		Trump:        g.trump,
		OwnPoints:    g.points[seat%2],
		TheirPoints:  g.points[(seat+1)%2],
		StartingSeat: ((g.startingSeat-seat)%4 + 4) % 4,
	}

	for i := 0; i < 4; i++ {
		abs := (seat + i) % 4
		if abs >= len(g.players) {
			continue
		}
		other := g.players[abs]
		proxy.Players[i] = other.Name
		if g.current != nil {
			proxy.Current[i] = g.current.CardPlayedBy(other).Code()
		}
		if g.previous != nil {
			proxy.Previous[i] = g.previous.CardPlayedBy(other).Code()
		}
	}

	hand := append([]Card(nil), g.hands[p.ID]...)
	sort.Slice(hand, func(i, j int) bool {
		return hand[i].SortValue(g.trump) < hand[j].SortValue(g.trump)
	})

	proxy.Hand = make([]string, len(hand))
	proxy.Legal = make([]bool, len(hand))
	for i, c := range hand {
		proxy.Hand[i] = c.Code()
		if g.state == StateOngoing && g.current != nil {
			proxy.Legal[i] = g.current.IsLegal(p, c, g.hands[p.ID], g.trump)
		}
	}

	return proxy, nil
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// Args flattens the proxy to its positional wire layout: state, trump,
// own and opposing points, rotated starting seat, four names, four current
// trick codes, four previous trick codes, then the hand size followed by the
// card codes and their legality flags.
func (p *GameProxy) Args() []string {
	args := make([]string, 0, 17+2*len(p.Hand))

	args = append(args,
		p.State.String(),
		string(p.Trump),
		formatPoints(p.OwnPoints),
		formatPoints(p.TheirPoints),
		strconv.Itoa(p.StartingSeat),
	)
	args = append(args, p.Players[:]...)
	args = append(args, p.Current[:]...)
	args = append(args, p.Previous[:]...)

	args = append(args, strconv.Itoa(len(p.Hand)))
	args = append(args, p.Hand...)
	for _, legal := range p.Legal {
		if legal {
			args = append(args, "1")
		} else {
			args = append(args, "0")
		}
	}
	return args
}

// ProxyFromArgs parses the positional layout produced by Args.
func ProxyFromArgs(args []string) (*GameProxy, error) {
	if len(args) < 18 {
		return nil, ErrBadProxyArgs
	}

	proxy := &GameProxy{}
	idx := 0

	state, ok := stateFromName(args[idx])
	if !ok {
		return nil, ErrBadProxyArgs
	}
	proxy.State = state
	idx++

	trump := Trump(args[idx])
	if trump != TrumpUnset && !trump.IsValid() {
		return nil, ErrBadProxyArgs
	}
	proxy.Trump = trump
	idx++

	var err error
	if proxy.OwnPoints, err = strconv.ParseFloat(args[idx], 64); err != nil {
		return nil, ErrBadProxyArgs
	}
	idx++
	if proxy.TheirPoints, err = strconv.ParseFloat(args[idx], 64); err != nil {
		return nil, ErrBadProxyArgs
	}
	idx++
	if proxy.StartingSeat, err = strconv.Atoi(args[idx]); err != nil {
		return nil, ErrBadProxyArgs
	}
	idx++

	copy(proxy.Players[:], args[idx:idx+4])
	idx += 4
	copy(proxy.Current[:], args[idx:idx+4])
	idx += 4
	copy(proxy.Previous[:], args[idx:idx+4])
	idx += 4

	handSize, err := strconv.Atoi(args[idx])
	if err != nil || handSize < 0 || handSize > HandSize {
		return nil, ErrBadProxyArgs
	}
	idx++

	if len(args) != idx+2*handSize {
		return nil, ErrBadProxyArgs
	}

	proxy.Hand = make([]string, handSize)
	copy(proxy.Hand, args[idx:idx+handSize])
	idx += handSize

	proxy.Legal = make([]bool, handSize)
	for i := 0; i < handSize; i++ {
		proxy.Legal[i] = args[idx+i] == "1"
	}

	return proxy, nil
}
