package packet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDirection reports a line whose first field is not a valid direction
// digit. It is distinct from the nil-packet "not a packet line" result:
// the line had the right shape but carried a code this protocol does not
// define.
var ErrDirection = errors.New("invalid direction code")

// ParseDirection decodes a wire direction digit.
func ParseDirection(tok string) (Direction, error) {
	switch tok {
	case "0":
		return Inbound, nil
	case "1":
		return Outbound, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrDirection, tok)
}

// Parse decodes one delimiter-stripped logger line into a Packet.
//
// A line with fewer than three space-separated fields is not a packet line;
// Parse returns (nil, nil) and the caller should skip it. A line with three
// fields but an unknown direction digit is malformed and returns an error
// wrapping ErrDirection.
func Parse(line string) (*Packet, error) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 3)
	if len(parts) < 3 {
		return nil, nil
	}

	dir, err := ParseDirection(parts[0])
	if err != nil {
		return nil, err
	}

	return &Packet{
		Direction: dir,
		Header:    parts[1],
		Content:   parts[2],
	}, nil
}
