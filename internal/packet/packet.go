// Package packet defines the packet record format used by the packet logger
// wire protocol: one CR-terminated line per packet, holding a direction
// digit, a header token and free-form content.
package packet

// Direction tells which way a packet travels, from the server's point of
// view: Outbound packets are sent by the client to the server, Inbound
// packets are injected as if the server had sent them to the client.
type Direction uint8

// Wire direction codes. The single-digit values are part of the wire
// protocol and must not change.
const (
	Inbound  Direction = 0 // server → client ("receive")
	Outbound Direction = 1 // client → server ("send")
)

// String returns the direction name used by the original logger UI.
func (d Direction) String() string {
	switch d {
	case Inbound:
		return "RECEIVE"
	case Outbound:
		return "SEND"
	}
	return "UNKNOWN"
}

// Packet represents one parsed logger line.
type Packet struct {
	Direction Direction // Inbound or Outbound
	Header    string    // first payload token, never contains spaces
	Content   string    // remainder of the line, may contain spaces
}
