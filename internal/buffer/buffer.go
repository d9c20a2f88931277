// Package buffer holds one client command on its way through the proxy,
// together with data other components attach to it.
package buffer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-mysql-org/go-mysql/mysql"
)

// HeaderLen is the size of the MySQL packet header: a 3 byte little-endian
// payload length followed by the sequence id.
const HeaderLen = 4

var (
	ErrShortPacket  = errors.New("packet too short")
	ErrPacketLength = errors.New("packet length mismatch")
)

// Slot identifies a kind of data attached to a Buffer.
type Slot int

const (
	// SlotClassification holds the statement classification.
	SlotClassification Slot = iota
)

type attachment struct {
	data    any
	destroy func(any)
}

// Buffer is a single client command: the command byte and, for the text
// protocol commands, the statement text.
type Buffer struct {
	Command byte
	SQL     string

	mu       sync.Mutex
	attached map[Slot]attachment
}

// NewQuery returns a COM_QUERY buffer for sql.
func NewQuery(sql string) *Buffer {
	return &Buffer{Command: mysql.COM_QUERY, SQL: sql}
}

// NewPrepare returns a COM_STMT_PREPARE buffer for sql.
func NewPrepare(sql string) *Buffer {
	return &Buffer{Command: mysql.COM_STMT_PREPARE, SQL: sql}
}

// FromPacket builds a Buffer from one complete MySQL packet, header
// included. The payload length in the header must match the packet.
func FromPacket(pkt []byte) (*Buffer, error) {
	if len(pkt) < HeaderLen+1 {
		return nil, fmt.Errorf("parsing packet: %w: %d bytes", ErrShortPacket, len(pkt))
	}

	length := int(uint32(pkt[0]) | uint32(pkt[1])<<8 | uint32(pkt[2])<<16)
	if HeaderLen+length != len(pkt) {
		return nil, fmt.Errorf("parsing packet: %w: packet size %d, provided buffer is %d",
			ErrPacketLength, HeaderLen+length, len(pkt))
	}

	return &Buffer{
		Command: pkt[HeaderLen],
		SQL:     string(pkt[HeaderLen+1:]),
	}, nil
}

// IsSQL reports whether the command carries statement text.
func (b *Buffer) IsSQL() bool {
	return b.Command == mysql.COM_QUERY || b.Command == mysql.COM_STMT_PREPARE
}

// Attach stores data in slot unless the slot is already taken. destroy, if
// not nil, is called with data by Release. It reports whether data was
// stored.
func (b *Buffer) Attach(slot Slot, data any, destroy func(any)) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.attached[slot]; ok {
		return false
	}
	if b.attached == nil {
		b.attached = make(map[Slot]attachment)
	}
	b.attached[slot] = attachment{data: data, destroy: destroy}
	return true
}

// Attached returns the data stored in slot.
func (b *Buffer) Attached(slot Slot) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.attached[slot]
	return a.data, ok
}

// Release drops all attached data, running the destructors.
func (b *Buffer) Release() {
	b.mu.Lock()
	attached := b.attached
	b.attached = nil
	b.mu.Unlock()

	for _, a := range attached {
		if a.destroy != nil {
			a.destroy(a.data)
		}
	}
}
