package circuit

// Reliability selects whether Send waits for an ACK and retransmits.
type Reliability int

const (
	Unreliable Reliability = iota
	Reliable
)

// HandshakeState tracks progress from a freshly opened circuit to an
// operational one. The machine only moves forward; Landed is terminal
// for the session.
type HandshakeState int

const (
	Connecting HandshakeState = iota
	CircuitOpened
	MovementSent
	Landed
)

func (s HandshakeState) String() string {
	switch s {
	case Connecting:
		return "Connecting"
	case CircuitOpened:
		return "CircuitOpened"
	case MovementSent:
		return "MovementSent"
	case Landed:
		return "Landed"
	default:
		return "Unknown"
	}
}
