package framer

import "errors"

// ErrTruncatedHeader means fewer than the 6 fixed header bytes were
// present, or extra_len claimed more bytes than remained.
var ErrTruncatedHeader = errors.New("framer: truncated packet header")

// ErrTruncatedAckList means the A flag was set but the trailing ACK
// list's declared count ran past the end of the datagram.
var ErrTruncatedAckList = errors.New("framer: truncated ACK list")

// ErrAckListTooLarge is returned encoding more than 255 ACKs in one
// packet — the trailing count byte cannot represent more.
var ErrAckListTooLarge = errors.New("framer: ACK list exceeds 255 entries")
