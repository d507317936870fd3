// Package client is the network core of a Belote client: it keeps one
// connection to the server, pushes the player's intents, and hands every
// game status update to the presentation layer. It imposes nothing on
// rendering.
package client

import (
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/FlorianDenis/Belote/game"
	"github.com/FlorianDenis/Belote/log"
	"github.com/FlorianDenis/Belote/packet"
	"github.com/FlorianDenis/Belote/transport"
)

type Options struct {
	// Addr is the server address, host:port.
	Addr string

	// Name is the display name announced to the server.
	Name string

	// OnGameStatus receives every per-player snapshot. Called from the
	// receive goroutine.
	OnGameStatus func(*game.GameProxy)

	// OnDrop reports the connection as lost.
	OnDrop func()

	DialTimeout time.Duration
}

type Client struct {
	opts     Options
	playerID string
	trans    *transport.Transport
}

func New(opts Options) *Client {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}
	return &Client{
		opts:     opts,
		playerID: uuid.NewString(),
	}
}

// PlayerID returns the client-generated opaque identifier.
func (c *Client) PlayerID() string {
	return c.playerID
}

// Connect dials the server, starts the transport pumps, and announces the
// player.
func (c *Client) Connect() error {
	conn, err := net.DialTimeout("tcp", c.opts.Addr, c.opts.DialTimeout)
	if err != nil {
		return err
	}

	t := transport.New(c.playerID, transport.NewTCPConn(conn))
	t.OnPacket = c.onPacket
	t.OnDrop = func(*transport.Transport) {
		if c.opts.OnDrop != nil {
			c.opts.OnDrop()
		}
	}
	c.trans = t
	t.Start()

	return c.send(packet.OpCreatePlayer, c.playerID, c.opts.Name)
}

// Close tears the connection down.
func (c *Client) Close() {
	if c.trans != nil {
		c.trans.Stop()
	}
}

// Ready signals the pre-round handshake flag.
func (c *Client) Ready() error {
	return c.send(packet.OpPlayerReady)
}

// PickTrump announces the trump mode for the round.
func (c *Client) PickTrump(trump game.Trump) error {
	return c.send(packet.OpPickTrump, string(trump))
}

// PlayCard submits one card of the hand by its code.
func (c *Client) PlayCard(code string) error {
	return c.send(packet.OpPlayCard, code)
}

func (c *Client) send(op packet.Opcode, args ...string) error {
	return c.trans.Send(packet.New(packet.TypeCommand, op, args...))
}

func (c *Client) onPacket(_ *transport.Transport, p *packet.Packet) {
	if p.Type != packet.TypeNotif || p.Opcode != packet.OpGameStatus {
		log.Warnf("client: unhandled packet: %s", p)
		return
	}

	proxy, err := game.ProxyFromArgs(p.Args)
	if err != nil {
		log.Warnf("client: bad game status: %v", err)
		return
	}
	if c.opts.OnGameStatus != nil {
		c.opts.OnGameStatus(proxy)
	}
}
