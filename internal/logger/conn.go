// Package logger is the client side of the local packet-logger protocol:
// a TCP connection carrying CR-delimited, Windows-1252 encoded packet lines
// in both directions.
//
// Direction naming follows the wire protocol (the server's point of view):
// Send writes a client→server packet, Receive injects a packet as if the
// server had sent it to the game client.
package logger

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"

	"github.com/MorfSet/NosTale/internal/util"
)

const (
	// BufferSize is the capacity of one raw socket read.
	BufferSize = 8 * 1024

	// Delim terminates every framed packet line. It never appears inside a
	// legitimately framed payload.
	Delim = '\r'
)

// Conn is a client connection to a packet-logger server on localhost.
// It owns its socket for its entire lifetime and is not reusable after
// Close. Send and Receive may be called concurrently with each other and
// with the goroutine draining a LineReader; each frame is written in a
// single serialized write.
type Conn struct {
	port int
	sock net.Conn

	writeMu sync.Mutex
}

// Dial connects to the packet-logger server listening on the given local
// port.
func Dial(port int) (*Conn, error) {
	sock, err := net.Dial("tcp", net.JoinHostPort("localhost", strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to packet logger on port %d: %w", port, err)
	}
	return &Conn{port: port, sock: sock}, nil
}

// Port returns the server port this connection was dialed to.
func (c *Conn) Port() int {
	return c.port
}

// ReadChunk performs one blocking read of up to BufferSize bytes and decodes
// it. It blocks until data arrives, the peer closes the connection, or the
// transport fails; there is no timeout. A closed or failing transport
// surfaces as the returned error.
func (c *Conn) ReadChunk() (string, error) {
	buf := make([]byte, BufferSize)
	n, err := c.sock.Read(buf)
	if n > 0 {
		util.Stats.AddRecv(n)
		return decode(buf[:n]), nil
	}
	if err == nil {
		err = io.EOF
	}
	return "", err
}

// Send writes an outbound (client→server) packet frame.
func (c *Conn) Send(payload string) error {
	return c.writeFrame("1 " + payload)
}

// Receive injects an inbound packet frame, delivered to the game client as
// if the server had sent it.
func (c *Conn) Receive(payload string) error {
	return c.writeFrame("0 " + payload)
}

// writeFrame encodes body, appends the delimiter and writes the whole frame
// in one serialized write so concurrent senders cannot interleave frames.
func (c *Conn) writeFrame(body string) error {
	data, err := encode(body)
	if err != nil {
		return err
	}
	data = append(data, Delim)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	n, err := c.sock.Write(data)
	util.Stats.AddSent(n)
	if err != nil {
		return fmt.Errorf("failed to write packet frame: %w", err)
	}
	util.Stats.AddPacketOut()
	return nil
}

// Lines returns a fresh line reader over this connection. See LineReader for
// the single-consumer contract.
func (c *Conn) Lines() *LineReader {
	return NewLineReader(c)
}

// Close shuts down the underlying socket, unblocking any reader.
func (c *Conn) Close() error {
	return c.sock.Close()
}
