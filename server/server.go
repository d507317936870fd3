// Package server accepts client connections, maps each to a seated player,
// funnels their commands into the game engine through a single dispatch
// goroutine, and broadcasts a tailored view to every link whenever the game
// changes.
package server

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FlorianDenis/Belote/game"
	"github.com/FlorianDenis/Belote/log"
	"github.com/FlorianDenis/Belote/packet"
	"github.com/FlorianDenis/Belote/transport"
)

type Options struct {
	// TCPAddr is the plain socket listen address, e.g. ":4242".
	TCPAddr string

	// WSAddr optionally serves the same protocol over websocket.
	WSAddr string

	TrickDelay    time.Duration
	RoundDelay    time.Duration
	RequireReady  bool
	AllowVariants bool
	Seed          int64
}

type Server struct {
	opts Options

	game     *game.Game
	links    *LinkGroup
	listener net.Listener

	actQue chan func()
	die    chan struct{}
	wg     sync.WaitGroup

	wsCloser func()
}

func New(opts Options) *Server {
	s := &Server{
		opts:   opts,
		links:  NewLinkGroup(),
		actQue: make(chan func(), 64),
		die:    make(chan struct{}),
	}

	s.game = game.NewGame(game.Options{
		TrickDelay:    opts.TrickDelay,
		RoundDelay:    opts.RoundDelay,
		RequireReady:  opts.RequireReady,
		AllowVariants: opts.AllowVariants,
		Scheduler:     dispatchScheduler{s},
		Seed:          opts.Seed,
	})
	s.game.SetStatusListener(s.broadcast)

	return s
}

// dispatchScheduler defers callbacks back onto the dispatch goroutine, so
// timed game transitions never race with command handling.
type dispatchScheduler struct {
	s *Server
}

func (d dispatchScheduler) AfterFunc(td time.Duration, f func()) game.AfterCancelFunc {
	t := time.AfterFunc(td, func() {
		d.s.Do(f)
	})
	return func() { t.Stop() }
}

// Do queues work for the dispatch goroutine. All game mutations go through
// here.
func (s *Server) Do(f func()) {
	select {
	case <-s.die:
	case s.actQue <- f:
	}
}

// Start binds the listeners and launches the accept and dispatch
// goroutines. It does not block.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.opts.TCPAddr)
	if err != nil {
		return err
	}
	s.listener = listener
	log.Infof("server: listening on %s", listener.Addr())

	s.wg.Add(2)
	go s.dispatchLoop()
	go s.acceptLoop()

	if s.opts.WSAddr != "" {
		if err := s.startWS(); err != nil {
			s.Stop()
			return err
		}
	}
	return nil
}

// Stop closes every connection, unbinds the listeners, and joins the
// internal goroutines.
func (s *Server) Stop() {
	select {
	case <-s.die:
		return
	default:
		close(s.die)
	}

	if s.listener != nil {
		s.listener.Close()
	}
	if s.wsCloser != nil {
		s.wsCloser()
	}

	links := []*Link{}
	s.links.Range(func(l *Link) bool {
		links = append(links, l)
		return true
	})
	for _, l := range links {
		l.Transport.Stop()
		s.links.Remove(l.ID)
	}

	s.wg.Wait()
}

// Addr returns the bound TCP address, useful when listening on port 0.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) dispatchLoop() {
	defer s.wg.Done()

	safecall := func(f func()) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorf("server: panic in dispatch: %v", err)
			}
		}()
		f()
	}

	for {
		select {
		case f := <-s.actQue:
			safecall(f)
		case <-s.die:
			return
		}
	}
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	var tempDelay time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.die:
				return
			default:
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				time.Sleep(tempDelay)
				continue
			}
			log.Errorf("server: accept: %v", err)
			return
		}
		tempDelay = 0

		s.onAccept(transport.NewTCPConn(conn))
	}
}

// onAccept registers a new link for an established connection, regardless of
// which listener produced it.
func (s *Server) onAccept(conn transport.Conn) {
	link := &Link{ID: uuid.NewString()}

	t := transport.New(link.ID, conn)
	t.OnPacket = func(_ *transport.Transport, p *packet.Packet) {
		s.Do(func() { s.handlePacket(link, p) })
	}
	t.OnDrop = func(*transport.Transport) {
		s.Do(func() { s.dropLink(link) })
	}
	link.Transport = t

	s.links.Add(link)
	t.Start()
	log.Infof("server: accepted connection from %s", t.RemoteAddr())
}

// handlePacket runs on the dispatch goroutine. Engine rejections are logged
// no-ops; the offending client simply sees no state change.
func (s *Server) handlePacket(link *Link, p *packet.Packet) {
	if p.Type != packet.TypeCommand {
		log.Warnf("server: unhandled packet: %s", p)
		return
	}

	var err error
	switch p.Opcode {
	case packet.OpCreatePlayer:
		err = s.createPlayer(link, p.Args)

	case packet.OpPlayerReady:
		if link.Player == nil {
			return
		}
		err = s.game.SetReady(link.Player)

	case packet.OpPickTrump:
		if link.Player == nil || len(p.Args) < 1 {
			return
		}
		err = s.game.PickTrump(link.Player, game.Trump(p.Args[0]))

	case packet.OpPlayCard:
		if link.Player == nil || len(p.Args) < 1 {
			return
		}
		var card game.Card
		if card, err = game.NewCard(p.Args[0]); err == nil {
			err = s.game.PlayCard(link.Player, card)
		}
	}

	if err != nil {
		log.Warnf("server: rejected %s from %s: %v", p.Opcode, link.ID, err)
	}
}

func (s *Server) createPlayer(link *Link, args []string) error {
	if link.Player != nil || len(args) < 2 {
		return nil
	}

	id := args[0]
	if id == "" {
		id = uuid.NewString()
	}
	player := game.NewPlayer(id, args[1])

	if err := s.game.AddPlayer(player); err != nil {
		return err
	}
	link.Player = player
	return nil
}

// dropLink runs on the dispatch goroutine when a connection dies.
func (s *Server) dropLink(link *Link) {
	if !s.links.Remove(link.ID) {
		return
	}
	log.Warnf("server: lost connection %s", link.ID)

	if link.Player != nil {
		if err := s.game.RemovePlayer(link.Player); err != nil {
			log.Errorf("server: removing player %s: %v", link.Player.ID, err)
		}
	}
	link.Transport.Stop()
}

// broadcast builds one proxy per seated link and enqueues it. Runs on the
// dispatch goroutine, so every link observes monotonically newer snapshots.
func (s *Server) broadcast() {
	s.links.Range(func(l *Link) bool {
		if l.Player == nil {
			return true
		}
		proxy, err := s.game.ProxyFor(l.Player)
		if err != nil {
			return true
		}
		p := packet.New(packet.TypeNotif, packet.OpGameStatus, proxy.Args()...)
		if err := l.Transport.Send(p); err != nil {
			log.Warnf("server: send to %s: %v", l.ID, err)
		}
		return true
	})
}
