package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Forgot(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	History(ctx context.Context, page int) error
	Ping(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Deuce CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the signed-in email (from statusFn) and accepts:
//
//	Not logged in:
//	  - help           - show available commands
//	  - forgot         - reset a forgotten password
//	  - login          - authenticate
//	  - ping           - check the backend
//	  - exit | quit    - leave the program
//
//	Logged in:
//	  - help           - show available commands
//	  - me             - show your profile and DMR
//	  - history [page] - list your matches
//	  - ping           - check the backend
//	  - logout         - log out
//	  - exit | quit    - leave the program
//
// Errors returned by command handlers are ignored here; handlers print their
// own messages. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func(context.Context) string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("deuce%s> ", statusFn(ctx)))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: me, history [page], ping, logout, exit")
			} else {
				printlnFn("Available commands: forgot, login, ping, exit")
			}

		case "forgot":
			_ = a.Forgot(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "me":
			_ = a.Me(ctx)

		case "history":
			page := 1
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					printlnFn("Usage: history [page]")
					continue
				}
				page = n
			}
			_ = a.History(ctx, page)

		case "ping":
			_ = a.Ping(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
