// Package packet defines the text wire format exchanged between client and
// server: one UTF-8 line per message, fields separated by '|':
//
//	MESSAGE_TYPE|OPCODE|ARG1|ARG2|...\n
//
// The message and opcode sets are closed; anything else is rejected at the
// transport boundary.
package packet

import (
	"bytes"
	"errors"
	"strings"
)

const (
	// Sep separates fields within a line.
	Sep = "|"

	// MaxLineLen bounds one encoded message, newline included.
	MaxLineLen = 1024
)

var (
	ErrMalformed   = errors.New("malformed packet line")
	ErrTooLong     = errors.New("packet line exceeds maximum length")
	ErrBadType     = errors.New("unknown message type")
	ErrBadOpcode   = errors.New("unknown opcode for message type")
	ErrBadArgument = errors.New("argument contains reserved characters")
)

// MsgType discriminates the two message directions.
type MsgType string

const (
	TypeCommand MsgType = "COMMAND"
	TypeNotif   MsgType = "NOTIF"
)

// Opcode names one operation within a message type.
type Opcode string

const (
	// Commands, client to server.
	OpCreatePlayer Opcode = "CREATE_PLAYER"
	OpPlayerReady  Opcode = "PLAYER_READY"
	OpPickTrump    Opcode = "PICK_TRUMP"
	OpPlayCard     Opcode = "PLAY_CARD"

	// Notifications, server to client.
	OpGameStatus Opcode = "GAME_STATUS"
)

var opcodes = map[MsgType]map[Opcode]bool{
	TypeCommand: {
		OpCreatePlayer: true,
		OpPlayerReady:  true,
		OpPickTrump:    true,
		OpPlayCard:     true,
	},
	TypeNotif: {
		OpGameStatus: true,
	},
}

// Packet is one decoded wire message.
type Packet struct {
	Type   MsgType
	Opcode Opcode
	Args   []string
}

func New(t MsgType, op Opcode, args ...string) *Packet {
	return &Packet{Type: t, Opcode: op, Args: args}
}

func (p *Packet) validate() error {
	ops, ok := opcodes[p.Type]
	if !ok {
		return ErrBadType
	}
	if !ops[p.Opcode] {
		return ErrBadOpcode
	}
	return nil
}

// Encode renders the packet as one newline-terminated line.
func (p *Packet) Encode() ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	fields := make([]string, 0, 2+len(p.Args))
	fields = append(fields, string(p.Type), string(p.Opcode))
	for _, arg := range p.Args {
		if strings.ContainsAny(arg, Sep+"\n") {
			return nil, ErrBadArgument
		}
		fields = append(fields, arg)
	}

	line := strings.Join(fields, Sep) + "\n"
	if len(line) > MaxLineLen {
		return nil, ErrTooLong
	}
	return []byte(line), nil
}

// Decode parses one line, with or without its trailing newline. Unknown
// types or opcodes are rejected here, once, so the rest of the system only
// ever sees well-formed packets.
func Decode(line []byte) (*Packet, error) {
	if len(line) > MaxLineLen {
		return nil, ErrTooLong
	}

	line = bytes.TrimSuffix(line, []byte("\n"))
	fields := strings.Split(string(line), Sep)
	if len(fields) < 2 {
		return nil, ErrMalformed
	}

	p := &Packet{
		Type:   MsgType(fields[0]),
		Opcode: Opcode(fields[1]),
		Args:   fields[2:],
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Packet) String() string {
	return string(p.Type) + Sep + string(p.Opcode) + Sep + strings.Join(p.Args, Sep)
}
