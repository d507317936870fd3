// Package transport pumps packets over a persistent connection with
// independent send and receive goroutines, decoupling socket I/O from
// protocol handling.
package transport

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/FlorianDenis/Belote/log"
	"github.com/FlorianDenis/Belote/packet"
)

var ErrDisconn = errors.New("transport disconnected")

type Status int32

const (
	Disconnected Status = iota
	Connected
)

type OnPacketFunc func(*Transport, *packet.Packet)
type OnDropFunc func(*Transport)

// Transport runs one reader and one writer goroutine over a Conn. Outbound
// packets queue on a channel and leave in order; inbound packets invoke
// OnPacket from the read goroutine. An unrecoverable socket error fires
// OnDrop exactly once; a deliberate Stop never does.
type Transport struct {
	// OnPacket handles every inbound packet. Set before Start.
	OnPacket OnPacketFunc

	// OnDrop reports the connection as unusable. Set before Start.
	OnDrop OnDropFunc

	id   string
	conn Conn

	chSend   chan *packet.Packet
	chClosed chan struct{}
	status   int32
	wg       sync.WaitGroup
}

func New(id string, conn Conn) *Transport {
	return &Transport{
		id:       id,
		conn:     conn,
		chSend:   make(chan *packet.Packet, 32),
		chClosed: make(chan struct{}),
		status:   int32(Connected),
	}
}

func (t *Transport) ID() string {
	return t.id
}

func (t *Transport) RemoteAddr() string {
	if addr := t.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

// Start launches the send and receive pumps.
func (t *Transport) Start() {
	t.wg.Add(2)
	go t.writeLoop()
	go t.readLoop()
}

// Send enqueues a packet for delivery. Packets leave in enqueue order.
func (t *Transport) Send(p *packet.Packet) error {
	if Status(atomic.LoadInt32(&t.status)) != Connected {
		return ErrDisconn
	}
	select {
	case <-t.chClosed:
		return ErrDisconn
	case t.chSend <- p:
		return nil
	}
}

// Stop tears the connection down and joins both pumps. Safe to call more
// than once; must not be called from the pump goroutines themselves.
func (t *Transport) Stop() {
	t.close()
	t.wg.Wait()
}

// close shuts the socket and signals the pumps. Returns true for the one
// caller that performed the transition.
func (t *Transport) close() bool {
	if !atomic.CompareAndSwapInt32(&t.status, int32(Connected), int32(Disconnected)) {
		return false
	}
	t.conn.Close()
	close(t.chClosed)
	return true
}

// dropped is called from a pump that hit a socket error.
func (t *Transport) dropped(err error) {
	if t.close() {
		log.Warnf("transport %s: connection dropped: %v", t.id, err)
		if t.OnDrop != nil {
			t.OnDrop(t)
		}
	}
}

func (t *Transport) writeLoop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.chClosed:
			return
		case p := <-t.chSend:
			if err := t.conn.WritePacket(p); err != nil {
				if errors.Is(err, ErrBadPacket) {
					log.Errorf("transport %s: unsendable packet: %v", t.id, err)
					continue
				}
				t.dropped(err)
				return
			}
			log.Tracef("transport %s: --> %s", t.id, p)
		}
	}
}

func (t *Transport) readLoop() {
	defer t.wg.Done()
	for {
		p, err := t.conn.ReadPacket()
		if err != nil {
			// A bad line is rejected on its own; the stream goes on.
			if errors.Is(err, ErrBadPacket) {
				log.Warnf("transport %s: rejected packet: %v", t.id, err)
				continue
			}
			t.dropped(err)
			return
		}
		log.Tracef("transport %s: <-- %s", t.id, p)
		if t.OnPacket != nil {
			t.OnPacket(t, p)
		}
	}
}
