package transport

import (
	"bufio"
	"errors"
	"fmt"
	"net"

	"github.com/gorilla/websocket"

	"github.com/FlorianDenis/Belote/packet"
)

// ErrBadPacket wraps decode failures that poison a single message but leave
// the connection usable. Anything else returned by ReadPacket drops the
// connection.
var ErrBadPacket = errors.New("bad packet")

// Conn reads and writes whole packets over some stream. Implementations own
// the framing; the Transport owns the pumping.
type Conn interface {
	ReadPacket() (*packet.Packet, error)
	WritePacket(*packet.Packet) error
	Close() error
	RemoteAddr() net.Addr
}

// tcpConn frames packets as newline-terminated lines over a raw stream. The
// buffered reader doubles as the line length cap: a line that overflows it
// has lost framing and kills the connection.
type tcpConn struct {
	conn net.Conn
	r    *bufio.Reader
}

func NewTCPConn(conn net.Conn) Conn {
	return &tcpConn{
		conn: conn,
		r:    bufio.NewReaderSize(conn, packet.MaxLineLen),
	}
}

func (c *tcpConn) ReadPacket() (*packet.Packet, error) {
	line, err := c.r.ReadSlice('\n')
	if err != nil {
		return nil, err
	}
	p, err := packet.Decode(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPacket, err)
	}
	return p, nil
}

func (c *tcpConn) WritePacket(p *packet.Packet) error {
	data, err := p.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadPacket, err)
	}
	_, err = c.conn.Write(data)
	return err
}

func (c *tcpConn) Close() error {
	return c.conn.Close()
}

func (c *tcpConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// wsConn carries one protocol line per websocket text message.
type wsConn struct {
	conn *websocket.Conn
}

func NewWSConn(conn *websocket.Conn) Conn {
	conn.SetReadLimit(packet.MaxLineLen)
	return &wsConn{conn: conn}
}

func (c *wsConn) ReadPacket() (*packet.Packet, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	p, err := packet.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPacket, err)
	}
	return p, nil
}

func (c *wsConn) WritePacket(p *packet.Packet) error {
	data, err := p.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadPacket, err)
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

func (c *wsConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
