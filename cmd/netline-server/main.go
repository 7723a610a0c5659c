// Package main is the entrypoint for netline-server.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/morezero/netline-server/internal/server"
)

const usage = `Usage: netline-server [command]
       netline-server serve            Start the server (default).
       netline-server client [addr]    Run the interactive demo client (default addr: 127.0.0.1:5050).

Commands:
  serve           (default) Start the newline-delimited JSON server.
  client [addr]   Connect to a running server and send requests from a menu.

Environment: BIND_ADDR, PORT, SERVER_NAME, LOOKUP_BACKEND (file|postgres),
LOOKUP_FILE, DATABASE_URL, EVENTS_ENABLED, COMMS_URL, HTTP_PORT, LOG_LEVEL.
A .env file in the working directory is loaded if present.
`

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	godotenv.Load()

	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}

	switch cmd {
	case "client":
		addr := "127.0.0.1:5050"
		if len(args) > 1 && args[1] != "" {
			addr = args[1]
		}
		if err := runClient(addr); err != nil {
			log.Fatalf("netline-server client: %v", err)
		}
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "serve", "":
		// serve (explicit or default)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("netline-server: %v", err)
	}
}
