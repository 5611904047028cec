package util

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"
)

// ──────────────────────────────────────────────────────────────────────────────
// Global stats singleton
// ──────────────────────────────────────────────────────────────────────────────

// Stats is the process-wide traffic counter for the logger connection.
var Stats = &stats{}

type stats struct {
	PacketsIn  atomic.Int64 // framed lines yielded by line readers
	PacketsOut atomic.Int64 // frames written by Send/Receive
	BytesRecv  atomic.Int64 // raw bytes read from the logger socket
	BytesSent  atomic.Int64 // raw bytes written to the logger socket
}

func (s *stats) AddPacketIn()  { s.PacketsIn.Add(1) }
func (s *stats) AddPacketOut() { s.PacketsOut.Add(1) }
func (s *stats) AddRecv(n int) { s.BytesRecv.Add(int64(n)) }
func (s *stats) AddSent(n int) { s.BytesSent.Add(int64(n)) }

// ──────────────────────────────────────────────────────────────────────────────
// Periodic reporter
// ──────────────────────────────────────────────────────────────────────────────

// StartStatsReporter launches a goroutine that logs traffic statistics
// every 10 seconds. Quiet intervals are not reported. It stops when ctx is
// cancelled.
func StartStatsReporter(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		var prevIn, prevOut, prevRecv, prevSent int64
		for {
			select {
			case <-ticker.C:
				in := Stats.PacketsIn.Load()
				out := Stats.PacketsOut.Load()
				recv := Stats.BytesRecv.Load()
				sent := Stats.BytesSent.Load()

				recvS := float64(recv-prevRecv) / 10.0
				sentS := float64(sent-prevSent) / 10.0
				inC := in - prevIn
				outC := out - prevOut

				if inC > 0 || outC > 0 {
					pterm.DefaultLogger.Info(formatStats(recvS, sentS, inC, outC))
				}

				prevIn = in
				prevOut = out
				prevRecv = recv
				prevSent = sent

			case <-ctx.Done():
				return
			}
		}
	}()
}

// byteUnits defines the units for formatting byte counts in a human-readable way.
var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// formatBytes formats a byte count into a human-readable string with fixed width (exactly 8 chars)
// for example: "99.0   B", " 1.5 KiB", " 0.1 MiB", "98.9 GiB", etc.
func formatBytes(b float64) string {
	unitIdx := 0

	// to prevent "100.0 KiB", which is 9 chars
	for b > 99 && unitIdx < 5 {
		b /= 1024
		unitIdx++
	}

	return fmt.Sprintf("%4.1f %3s", b, byteUnits[unitIdx])
}

// formatStats returns a formatted string of the current stats for display in the logger.
func formatStats(recvS, sentS float64, inC, outC int64) string {
	return fmt.Sprintf("In: %s/s | Out: %s/s | Pkt: %3d↓ %3d↑",
		formatBytes(recvS),
		formatBytes(sentS),
		inC,
		outC,
	)
}
