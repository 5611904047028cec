package packet

import (
	"errors"
	"testing"
)

// TestParse verifies the three-way outcome of Parse: a packet, "not a
// packet line" (nil, nil), or a direction decode error.
func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		line    string
		want    *Packet
		wantErr bool
	}{
		{
			name: "inbound with spaced content",
			line: "0 mv hello world",
			want: &Packet{Direction: Inbound, Header: "mv", Content: "hello world"},
		},
		{
			name: "outbound single content token",
			line: "1 walk 12",
			want: &Packet{Direction: Outbound, Header: "walk", Content: "12"},
		},
		{
			name: "two fields only is absent",
			line: "1 cond",
			want: nil,
		},
		{
			name: "empty line is absent",
			line: "",
			want: nil,
		},
		{
			name: "single token is absent",
			line: "ping",
			want: nil,
		},
		{
			name:    "unknown direction digit",
			line:    "9 x y",
			wantErr: true,
		},
		{
			name:    "non-numeric direction",
			line:    "say 1 312 5 user message",
			wantErr: true,
		},
		{
			name: "surrounding whitespace is trimmed",
			line: "  1 say hello there  ",
			want: &Packet{Direction: Outbound, Header: "say", Content: "hello there"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.line)

			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q): expected error, got %+v", tc.line, got)
				}
				if !errors.Is(err, ErrDirection) {
					t.Fatalf("Parse(%q): error %v does not wrap ErrDirection", tc.line, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tc.line, err)
			}
			if tc.want == nil {
				if got != nil {
					t.Fatalf("Parse(%q): expected no packet, got %+v", tc.line, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Parse(%q): expected %+v, got no packet", tc.line, tc.want)
			}
			if *got != *tc.want {
				t.Errorf("Parse(%q): got %+v, want %+v", tc.line, got, tc.want)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection("0"); err != nil || d != Inbound {
		t.Errorf("ParseDirection(0): got %v, %v", d, err)
	}
	if d, err := ParseDirection("1"); err != nil || d != Outbound {
		t.Errorf("ParseDirection(1): got %v, %v", d, err)
	}
	if _, err := ParseDirection("2"); !errors.Is(err, ErrDirection) {
		t.Errorf("ParseDirection(2): expected ErrDirection, got %v", err)
	}
}

func TestDirectionString(t *testing.T) {
	if got := Inbound.String(); got != "RECEIVE" {
		t.Errorf("Inbound.String() = %q, want RECEIVE", got)
	}
	if got := Outbound.String(); got != "SEND" {
		t.Errorf("Outbound.String() = %q, want SEND", got)
	}
}
