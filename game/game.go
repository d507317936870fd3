package game

import (
	"time"

	"github.com/FlorianDenis/Belote/log"
)

// State of the game lifecycle.
type State int32

const (
	StateWaitingForPlayers State = iota
	StateAnnouncing
	StateOngoing
	StateFinished
)

var stateNames = map[State]string{
	StateWaitingForPlayers: "WAITING_FOR_PLAYERS",
	StateAnnouncing:        "ANNOUNCING",
	StateOngoing:           "ONGOING",
	StateFinished:          "FINISHED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func stateFromName(name string) (State, bool) {
	for s, n := range stateNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// AfterCancelFunc cancels a scheduled callback.
type AfterCancelFunc func()

// Scheduler defers a callback. The callback must run on the same dispatch
// context that mutates the game; the server routes it through its action
// queue.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) AfterCancelFunc
}

// timerScheduler runs callbacks straight off a timer goroutine. Good enough
// for single-threaded use; servers supply their own.
type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) AfterCancelFunc {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

const lastTrickBonus = 10.0

// Options tune round flow. Zero values give a playable default.
type Options struct {
	// TrickDelay is the display delay before a completed trick is cleared
	// and the next one starts.
	TrickDelay time.Duration

	// RoundDelay is the display delay before a finished round is redealt.
	RoundDelay time.Duration

	// RequireReady delays the round start until all four seated players have
	// signaled ready, instead of starting on the fourth join.
	RequireReady bool

	// AllowVariants permits the all-trump / no-trump announcements.
	AllowVariants bool

	// Scheduler drives the delayed transitions.
	Scheduler Scheduler

	// Seed for the one-time deck shuffle.
	Seed int64
}

// Game holds the authoritative state of one table: seated players, the
// carried deck, and the active round. It must only be mutated from a single
// dispatch context; every successful mutation fires the status listener
// exactly once.
type Game struct {
	opts Options

	state        State
	players      []*Player
	hands        map[string][]Card
	deck         *Deck
	startingSeat int
	trump        Trump

	points    [2]float64
	wonTricks [2][]*Trick
	current   *Trick
	previous  *Trick

	pendingResolve AfterCancelFunc

	onStatusChanged func()
}

func NewGame(opts Options) *Game {
	if opts.TrickDelay <= 0 {
		opts.TrickDelay = 2 * time.Second
	}
	if opts.RoundDelay <= 0 {
		opts.RoundDelay = 5 * time.Second
	}
	if opts.Scheduler == nil {
		opts.Scheduler = timerScheduler{}
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return &Game{
		opts:  opts,
		state: StateWaitingForPlayers,
		hands: make(map[string][]Card),
		deck:  NewDeck(opts.Seed),
	}
}

// SetStatusListener registers the single change-notification callback. The
// server owns the one subscription and fans out per-player views.
func (g *Game) SetStatusListener(fn func()) {
	g.onStatusChanged = fn
}

func (g *Game) notify() {
	if g.onStatusChanged != nil {
		g.onStatusChanged()
	}
}

func (g *Game) State() State {
	return g.state
}

func (g *Game) Trump() Trump {
	return g.trump
}

func (g *Game) Players() []*Player {
	return g.players
}

func (g *Game) StartingSeat() int {
	return g.startingSeat
}

func (g *Game) Hand(p *Player) []Card {
	return g.hands[p.ID]
}

func (g *Game) Points(team int) float64 {
	return g.points[(team%2+2)%2]
}

func (g *Game) CurrentTrick() *Trick {
	return g.current
}

func (g *Game) PreviousTrick() *Trick {
	return g.previous
}

func (g *Game) seatOf(p *Player) int {
	for i, other := range g.players {
		if other.Same(p) {
			return i
		}
	}
	return -1
}

// AddPlayer seats a player. When the table fills up (and, with the
// require-ready variant, everyone signaled), a round starts.
func (g *Game) AddPlayer(p *Player) error {
	if g.state != StateWaitingForPlayers {
		return ErrWrongState
	}
	if len(g.players) >= 4 {
		return ErrGameFull
	}
	if g.seatOf(p) >= 0 {
		return ErrAlreadySeated
	}

	g.players = append(g.players, p)
	log.Infof("game: player %s (%s) seated at %d", p.Name, p.ID, len(g.players)-1)

	g.maybeStartRound()
	g.notify()
	return nil
}

// SetReady flags a player ready during the pre-round handshake.
func (g *Game) SetReady(p *Player) error {
	if g.state != StateWaitingForPlayers {
		return ErrWrongState
	}
	if g.seatOf(p) < 0 {
		return ErrUnknownPlayer
	}

	p.Ready = true
	g.maybeStartRound()
	g.notify()
	return nil
}

// RemovePlayer vacates a seat. A round in progress is abandoned: cards are
// gathered back onto the pile, the lead rotates, and the table waits for a
// fourth player again.
func (g *Game) RemovePlayer(p *Player) error {
	seat := g.seatOf(p)
	if seat < 0 {
		return ErrUnknownPlayer
	}

	g.players = append(g.players[:seat], g.players[seat+1:]...)
	log.Infof("game: player %s (%s) left", p.Name, p.ID)

	if g.state != StateWaitingForPlayers {
		log.Warnf("game: player left mid-round, abandoning round")
		g.abandonRound()
	}

	g.notify()
	return nil
}

// PickTrump announces the trump mode. Only the seat leading the round may
// announce, and only while the round awaits one.
func (g *Game) PickTrump(p *Player, trump Trump) error {
	if g.state != StateAnnouncing {
		return ErrWrongState
	}
	seat := g.seatOf(p)
	if seat < 0 {
		return ErrUnknownPlayer
	}
	if seat != g.startingSeat {
		return ErrNotYourTurn
	}
	if !trump.IsValid() {
		return ErrBadTrump
	}
	if !trump.IsSuit() && !g.opts.AllowVariants {
		return ErrBadTrump
	}

	g.trump = trump
	g.state = StateOngoing
	g.current = NewTrick(g.players, g.startingSeat)
	log.Infof("game: trump announced: %s", trump)

	g.notify()
	return nil
}

// PlayCard validates and records one play. A completed trick is resolved
// after the configured display delay; the eighth trick finishes the round.
func (g *Game) PlayCard(p *Player, card Card) error {
	if g.state != StateOngoing {
		return ErrWrongState
	}
	if g.seatOf(p) < 0 {
		return ErrUnknownPlayer
	}

	hand := g.hands[p.ID]
	held := -1
	for i, c := range hand {
		if c == card {
			held = i
			break
		}
	}
	if held < 0 {
		return ErrCardNotInHand
	}

	t := g.current
	if t.IsComplete() || !g.players[t.orderedSeats()[len(t.plays)]].Same(p) {
		return ErrNotYourTurn
	}
	if !t.IsLegal(p, card, hand, g.trump) {
		return ErrIllegalCard
	}

	g.hands[p.ID] = append(hand[:held], hand[held+1:]...)
	t.Play(p, card)
	log.Debugf("game: %s played %s", p.Name, card)

	if t.IsComplete() {
		if len(g.hands[p.ID]) == 0 {
			g.finishRound()
		} else {
			g.pendingResolve = g.opts.Scheduler.AfterFunc(g.opts.TrickDelay, g.resolveTrick)
		}
	}

	g.notify()
	return nil
}

// maybeStartRound starts a round once four players are seated and, when the
// variant asks for it, all of them are ready.
func (g *Game) maybeStartRound() {
	if len(g.players) != 4 {
		return
	}
	if g.opts.RequireReady {
		for _, p := range g.players {
			if !p.Ready {
				return
			}
		}
	}
	g.startRound()
}

// startRound cuts the carried pile and deals a fresh round.
func (g *Game) startRound() {
	g.deck.Cut()
	hands, err := g.deck.Deal(g.startingSeat)
	if err != nil {
		log.Errorf("game: cannot deal: %v", err)
		return
	}

	g.hands = make(map[string][]Card, 4)
	for seat, p := range g.players {
		g.hands[p.ID] = hands[seat]
		p.Ready = false
	}

	g.trump = TrumpUnset
	g.points = [2]float64{}
	g.wonTricks = [2][]*Trick{}
	g.current = nil
	g.previous = nil
	g.state = StateAnnouncing
	log.Infof("game: round dealt, seat %d announces", g.startingSeat)
}

// resolveTrick awards a completed trick and leads the next one from the
// winning seat. Runs from the scheduler on the dispatch context.
func (g *Game) resolveTrick() {
	g.pendingResolve = nil
	if g.state != StateOngoing || g.current == nil || !g.current.IsComplete() {
		return
	}

	winner, err := g.current.Winner(g.trump)
	if err != nil {
		return
	}
	g.awardTrick(winner, 0)
	g.current = NewTrick(g.players, winner)

	g.notify()
}

// finishRound resolves the eighth trick with the last-trick bonus and
// schedules the redeal.
func (g *Game) finishRound() {
	winner, err := g.current.Winner(g.trump)
	if err != nil {
		return
	}
	g.awardTrick(winner, lastTrickBonus)
	g.current = nil
	g.state = StateFinished
	log.Infof("game: round over, points %v / %v", g.points[0], g.points[1])

	g.pendingResolve = g.opts.Scheduler.AfterFunc(g.opts.RoundDelay, g.redeal)
}

// awardTrick scores the current trick for the winning seat's team and moves
// its cards back onto the carried pile, keeping completion order.
func (g *Game) awardTrick(winner int, bonus float64) {
	team := winner % 2
	g.points[team] += g.current.TotalPoints(g.trump) + bonus
	g.wonTricks[team] = append(g.wonTricks[team], g.current)
	g.deck.Collect(g.current.Cards())
	g.previous = g.current
	log.Debugf("game: seat %d takes the trick", winner)
}

// redeal starts the next round after a finished one. Runs from the scheduler
// on the dispatch context.
func (g *Game) redeal() {
	g.pendingResolve = nil
	if g.state != StateFinished || len(g.players) != 4 {
		return
	}

	g.startingSeat = (g.startingSeat + 1) % 4
	g.startRound()
	g.notify()
}

// abandonRound cancels any pending transition and gathers every card back
// onto the pile so the 32-card deck survives the reset.
func (g *Game) abandonRound() {
	if g.pendingResolve != nil {
		g.pendingResolve()
		g.pendingResolve = nil
	}

	if g.current != nil {
		g.deck.Collect(g.current.Cards())
		g.current = nil
	}
	for _, hand := range g.hands {
		g.deck.Collect(hand)
	}
	g.hands = make(map[string][]Card)

	g.previous = nil
	g.trump = TrumpUnset
	g.points = [2]float64{}
	g.wonTricks = [2][]*Trick{}
	g.startingSeat = (g.startingSeat + 1) % 4
	g.state = StateWaitingForPlayers

	for _, p := range g.players {
		p.Ready = false
	}
}
