package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/oasrecord"
	"github.com/erraggy/oasrecord/cmd/oasrecord/commands"
	"github.com/erraggy/oasrecord/internal/mcpserver"
)

// commandNames lists the sub-commands, used for typo suggestions.
var commandNames = []string{"render", "records", "name", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oasrecord v%s\n", oasrecord.Version())
		if len(os.Args) > 2 && os.Args[2] == "-l" {
			fmt.Println(oasrecord.BuildInfo())
		}
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "render":
		err = commands.HandleRender(os.Args[2:])
	case "records":
		err = commands.HandleRecords(os.Args[2:])
	case "name":
		err = commands.HandleName(os.Args[2:])
	case "mcp":
		err = runMCP()
	default:
		_, _ = fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			_, _ = fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		_, _ = fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runMCP serves MCP over stdio until the client disconnects or a signal arrives.
func runMCP() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

// suggestCommand returns the closest command within edit distance 2, or "".
func suggestCommand(input string) string {
	best := ""
	bestDist := 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Print(`oasrecord - OpenAPI schemas from record definitions

Usage:
  oasrecord <command> [flags]

Commands:
  render    Render an OpenAPI document from a record definition
  records   List the records declared by a definition
  name      Print the schema name a record subset resolves to
  mcp       Serve the MCP tools over stdio
  version   Show version information (-l for build details)
  help      Show this help message

Run 'oasrecord <command> -h' for command flags.
`)
}
