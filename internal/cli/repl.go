package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The App type
// satisfies it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Courses(ctx context.Context) error
	Tutors(ctx context.Context) error
	Messages(ctx context.Context) error
	Downloads(ctx context.Context) error
}

// runREPL reads lines from the scanner, parses the first token as the
// command, and dispatches. It exits on EOF or "exit"/"quit". Handler errors
// are printed, never fatal; the loop itself stays resilient.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cv> %s ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		var err error
		switch parts[0] {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: courses, tutors, messages, downloads, logout, exit")
			} else {
				printlnFn("Available commands: courses, tutors, downloads, register, login, exit")
			}
		case "courses":
			err = a.Courses(ctx)
		case "tutors":
			err = a.Tutors(ctx)
		case "downloads":
			err = a.Downloads(ctx)
		case "messages":
			err = a.Messages(ctx)
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn(fmt.Sprintf("Unknown command %q, type 'help' for commands", parts[0]))
		}
		if err != nil {
			printlnFn(fmt.Sprintf("Error: %v", err))
		}
	}
}
