package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Ls(ctx context.Context) error
	Cd(ctx context.Context, name string) error
	Up(ctx context.Context) error
	Pwd(ctx context.Context) error
	Mkdir(ctx context.Context, name string) error
	Upload(ctx context.Context, paths []string) error
	Rename(ctx context.Context, name, newName string) error
	Remove(ctx context.Context, name string) error
	Select(ctx context.Context, name string) error
	Share(ctx context.Context) error
	Details(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the wayplan CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("wp> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: ls, cd <folder>, up, pwd, mkdir <name>, upload <path...>, rename [<name>] <new>, rm [<name>], sel <name>, share, details, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "ls", "l":
			_ = a.Ls(ctx)

		case "cd":
			if len(args) != 1 {
				printlnFn("Usage: cd <folder>")
				continue
			}
			_ = a.Cd(ctx, args[0])

		case "up", "..":
			_ = a.Up(ctx)

		case "pwd":
			_ = a.Pwd(ctx)

		case "mkdir":
			if len(args) != 1 {
				printlnFn("Usage: mkdir <name>")
				continue
			}
			_ = a.Mkdir(ctx, args[0])

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path...>")
				continue
			}
			_ = a.Upload(ctx, args)

		case "rename":
			// One arg renames the selected file, two args rename by name.
			switch len(args) {
			case 1:
				_ = a.Rename(ctx, "", args[0])
			case 2:
				_ = a.Rename(ctx, args[0], args[1])
			default:
				printlnFn("Usage: rename [<name>] <new>")
			}

		case "rm":
			// Without an argument the current selection is deleted.
			switch len(args) {
			case 0:
				_ = a.Remove(ctx, "")
			case 1:
				_ = a.Remove(ctx, args[0])
			default:
				printlnFn("Usage: rm [<name>]")
			}

		case "sel", "select":
			if len(args) != 1 {
				printlnFn("Usage: sel <name>")
				continue
			}
			_ = a.Select(ctx, args[0])

		case "share":
			_ = a.Share(ctx)

		case "details":
			_ = a.Details(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
