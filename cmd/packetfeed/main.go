// Packetfeed — CLI entry point.
//
// This tool attaches to a local packet-logger server and republishes the
// framed packet stream over WebSocket, so browsers and external tooling can
// subscribe to live traffic at ws://<listen>/feed without speaking the raw
// CR-delimited protocol themselves.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pterm/pterm"

	"github.com/MorfSet/NosTale/internal/config"
	"github.com/MorfSet/NosTale/internal/logger"
	"github.com/MorfSet/NosTale/internal/relay"
	"github.com/MorfSet/NosTale/internal/util"
)

var version = "dev"

func main() {
	// Root context — cancelled on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// CLI flags.
	portFlag := flag.Int("port", 0, "Packet logger port on localhost, 1~65535")
	listenFlag := flag.String("listen", "", "Feed listen address (host:port, port 0 for ephemeral)")
	configFlag := flag.String("config", "", "Path to a TOML config file")
	debugMode := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debugMode {
		util.EnableDebug()
	}

	pterm.Info.Println(fmt.Sprintf("Packetfeed — v%s", version))
	pterm.Println()

	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			util.LogError("%v", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *portFlag != 0 {
		cfg.Port = *portFlag
	}
	if *listenFlag != "" {
		cfg.Listen = *listenFlag
	}
	if err := cfg.Validate(); err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}

	conn, err := logger.Dial(cfg.Port)
	if err != nil {
		util.LogError("failed to attach to packet logger: %v", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Unblock the pump's pending read on Ctrl+C.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	feed := relay.New()
	feedPort, err := feed.Start(cfg.Listen)
	if err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}
	defer feed.Close()

	util.StartStatsReporter(ctx)
	util.LogSuccess("attached to packet logger on localhost:%d", cfg.Port)
	util.LogSuccess("live feed at ws://%s/feed", listenHostPort(cfg.Listen, feedPort))

	feed.Run(ctx, conn.Lines())

	util.LogInfo("packet stream ended")
}

// listenHostPort rewrites the configured listen address with the actually
// bound port (relevant when the config asked for port 0).
func listenHostPort(listen string, port int) string {
	host := "127.0.0.1"
	if i := strings.LastIndex(listen, ":"); i > 0 {
		host = listen[:i]
	}
	return fmt.Sprintf("%s:%d", host, port)
}
