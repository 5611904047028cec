// Packetlog — CLI entry point.
//
// This tool attaches to a local packet-logger server over TCP and dumps
// every framed packet line to stdout, optionally parsed into
// direction/header form. It can also inject packets in either direction
// before dumping (-send writes a client→server packet, -receive makes the
// game client believe the server sent one).
//
// It can be launched interactively (no flags) or non-interactively via CLI
// flags (-port, -config, -parse, -send, -receive).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/MorfSet/NosTale/internal/config"
	"github.com/MorfSet/NosTale/internal/logger"
	"github.com/MorfSet/NosTale/internal/packet"
	"github.com/MorfSet/NosTale/internal/registry"
	"github.com/MorfSet/NosTale/internal/util"
)

var version = "dev"

func main() {
	// Root context — cancelled on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// CLI flags.
	portFlag := flag.Int("port", 0, "Packet logger port on localhost, 1~65535")
	configFlag := flag.String("config", "", "Path to a TOML config file")
	parseFlag := flag.Bool("parse", false, "Print parsed DIRECTION/header pairs instead of raw lines")
	sendFlag := flag.String("send", "", "Inject a client→server packet before dumping")
	receiveFlag := flag.String("receive", "", "Inject a server→client packet before dumping")
	debugMode := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debugMode {
		util.EnableDebug()
	}

	pterm.Info.Println(fmt.Sprintf("Packetlog — v%s", version))
	pterm.Println()

	port, err := resolvePort(*portFlag, *configFlag)
	if err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}

	conn, err := logger.Dial(port)
	if err != nil {
		util.LogError("failed to attach to packet logger: %v", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Unblock the dump loop's pending read on Ctrl+C.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	util.StartStatsReporter(ctx)
	util.LogSuccess("attached to packet logger on localhost:%d", port)

	err = registry.With("packetlog/main", conn, func() error {
		if *sendFlag != "" {
			if err := registry.Send("packetlog/main", *sendFlag); err != nil {
				return fmt.Errorf("inject send: %w", err)
			}
		}
		if *receiveFlag != "" {
			if err := registry.Receive("packetlog/main", *receiveFlag); err != nil {
				return fmt.Errorf("inject receive: %w", err)
			}
		}

		dump(conn, *parseFlag)
		return nil
	})
	if err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}

	util.LogInfo("packet stream ended")
}

// dump prints every line from the connection until the stream ends.
func dump(conn *logger.Conn, parsed bool) {
	for line := range conn.Lines().All() {
		if !parsed {
			fmt.Println(line)
			continue
		}

		pkt, err := packet.Parse(line)
		if err != nil {
			if errors.Is(err, packet.ErrDirection) {
				util.LogWarning("malformed packet line: %v", err)
				continue
			}
			util.LogError("%v", err)
			continue
		}
		if pkt == nil {
			// Not a packet line, nothing to show in parsed mode.
			continue
		}
		fmt.Println(pkt.Direction.String(), pkt.Header)
	}
}

// ---------------------------------------------------------------------------
// Helper Functions
// ---------------------------------------------------------------------------

// resolvePort picks the server port from the -port flag, then the config
// file, then an interactive prompt.
func resolvePort(portFlag int, configPath string) (int, error) {
	if portFlag != 0 {
		if portFlag < 1 || portFlag > 65535 {
			return 0, fmt.Errorf("invalid -port %d (must be 1~65535)", portFlag)
		}
		return portFlag, nil
	}

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return 0, err
		}
		return cfg.Port, nil
	}

	return askPort(fmt.Sprintf("Packet logger port (default %d)", config.DefaultPort)), nil
}

// askPort prompts the user for a port number until a valid one is entered.
// An empty answer picks the conventional default port.
func askPort(prompt string) int {
	for {
		raw, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText(prompt).
			Show()

		raw = strings.TrimSpace(raw)
		if raw == "" {
			pterm.Println()
			return config.DefaultPort
		}

		port, err := strconv.Atoi(raw)
		if err == nil && port >= 1 && port <= 65535 {
			pterm.Println()
			return port
		}

		util.LogWarning("invalid port number: must be 1 ~ 65535")
		pterm.Println()
	}
}
