// Package framer implements the UDP packet framing layer (spec.md
// §4.5): the flags/sequence/extra-bytes header that wraps every body,
// and the trailing ACK list a packet may carry.
//
// The framer does not know about message schemas; it only knows the
// body starts at offset 6+extra_len and, if the Z flag is set, is
// zero-coded (internal/zerocode decompresses it before a caller hands
// the body to internal/message).
package framer

import (
	"encoding/binary"
	"fmt"
)

// Flag bits within Packet.Flags (spec.md §4.1).
const (
	FlagZeroCoded uint8 = 0x80 // Z: body is zero-coded
	FlagReliable  uint8 = 0x40 // R: sender wants an ACK
	FlagResent    uint8 = 0x20 // S: this is a retransmission
	FlagAcks      uint8 = 0x10 // A: trailing ACK list present
)

// maxAcks is the largest ACK list a single packet can carry; the
// trailing count is one byte.
const maxAcks = 255

// Packet is one framed UDP datagram, header plus body plus any
// appended ACKs — independent of what the body's bytes mean.
type Packet struct {
	Flags    uint8
	Sequence uint32
	Extra    []byte
	Body     []byte
	Acks     []uint32
}

// HasFlag reports whether all bits of flag are set.
func (p *Packet) HasFlag(flag uint8) bool { return p.Flags&flag == flag }

// Encode serializes p into its wire form. The Z/R/S/A bits in p.Flags
// are taken as authoritative; callers must keep them consistent with
// Acks (A set iff len(Acks) > 0) before calling Encode — Circuit does
// this when it drains pending_acks into the packet (spec.md §4.6 step
// 4).
func (p *Packet) Encode() ([]byte, error) {
	if len(p.Acks) > maxAcks {
		return nil, fmt.Errorf("%w: %d", ErrAckListTooLarge, len(p.Acks))
	}
	if len(p.Extra) > 0xFF {
		return nil, fmt.Errorf("framer: extra bytes length %d exceeds 1-byte prefix", len(p.Extra))
	}

	out := make([]byte, 0, 6+len(p.Extra)+len(p.Body)+4*len(p.Acks)+1)
	out = append(out, p.Flags)

	var seq [4]byte
	binary.BigEndian.PutUint32(seq[:], p.Sequence)
	out = append(out, seq[:]...)

	out = append(out, byte(len(p.Extra)))
	out = append(out, p.Extra...)
	out = append(out, p.Body...)

	if p.Flags&FlagAcks != 0 {
		for _, ack := range p.Acks {
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], ack)
			out = append(out, b[:]...)
		}
		out = append(out, byte(len(p.Acks)))
	}
	return out, nil
}

// Decode parses raw into a Packet. The body returned is still
// zero-coded if FlagZeroCoded is set — decompression is the caller's
// job (internal/zerocode), since the framer has no opinion on body
// contents.
func Decode(raw []byte) (*Packet, error) {
	if len(raw) < 6 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedHeader, len(raw))
	}
	p := &Packet{
		Flags:    raw[0],
		Sequence: binary.BigEndian.Uint32(raw[1:5]),
	}
	extraLen := int(raw[5])
	if 6+extraLen > len(raw) {
		return nil, fmt.Errorf("%w: extra_len %d overruns %d-byte packet", ErrTruncatedHeader, extraLen, len(raw))
	}
	extra := make([]byte, extraLen)
	copy(extra, raw[6:6+extraLen])
	p.Extra = extra

	rest := raw[6+extraLen:]
	if p.Flags&FlagAcks == 0 {
		body := make([]byte, len(rest))
		copy(body, rest)
		p.Body = body
		return p, nil
	}

	if len(rest) < 1 {
		return nil, fmt.Errorf("%w: no trailing count byte", ErrTruncatedAckList)
	}
	count := int(rest[len(rest)-1])
	ackBytes := 4 * count
	if len(rest)-1 < ackBytes {
		return nil, fmt.Errorf("%w: declared %d ACKs, only %d bytes remain", ErrTruncatedAckList, count, len(rest)-1)
	}
	bodyLen := len(rest) - 1 - ackBytes
	body := make([]byte, bodyLen)
	copy(body, rest[:bodyLen])
	p.Body = body

	acks := make([]uint32, count)
	for i := 0; i < count; i++ {
		off := bodyLen + i*4
		acks[i] = binary.BigEndian.Uint32(rest[off : off+4])
	}
	p.Acks = acks
	return p, nil
}
