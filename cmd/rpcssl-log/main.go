// Command rpcssl-log views and analyzes rpcssl protocol log files.
//
// Log files are written by rpcssl-probe with the -protocol-log flag, or by
// any program that sets a log.FileLogger as sslconn.Config.ProtocolLogger.
//
// Usage:
//
//	rpcssl-log <command> [flags] <file.rlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View only handshake events
//	rpcssl-log view -category handshake probe.rlog
//
//	# View failures only
//	rpcssl-log view -errors probe.rlog
//
//	# Export to CSV
//	rpcssl-log export -format csv -o probe.csv probe.rlog
//
//	# Keep one connection
//	rpcssl-log filter -conn-id 1b4e28ba -o one.rlog probe.rlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rpcssl/rpcssl-go/cmd/rpcssl-log/commands"
)

const usage = `rpcssl-log - rpcssl Protocol Log Analyzer

Usage:
  rpcssl-log <command> [flags] <file.rlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "rpcssl-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// selection registers the flags shared by view and filter.
type selection struct {
	connID     *string
	role       *string
	category   *string
	direction  *string
	remoteAddr *string
	timeStart  *string
	timeEnd    *string
	errorsOnly *bool
}

func addSelectionFlags(fs *flag.FlagSet) *selection {
	return &selection{
		connID:     fs.String("conn-id", "", "Filter by connection ID (prefix)"),
		role:       fs.String("role", "", "Filter by role (initiator, responder)"),
		category:   fs.String("category", "", "Filter by category (state, handshake, io, verify, error)"),
		direction:  fs.String("direction", "", "Filter IO events by direction (in, out)"),
		remoteAddr: fs.String("remote", "", "Filter by remote address"),
		timeStart:  fs.String("time-start", "", "Filter by start time (RFC3339)"),
		timeEnd:    fs.String("time-end", "", "Filter by end time (RFC3339)"),
		errorsOnly: fs.Bool("errors", false, "Only failures (errors, failed handshakes, rejections)"),
	}
}

func (s *selection) options() commands.FilterOptions {
	return commands.FilterOptions{
		ConnID:     *s.connID,
		Role:       *s.role,
		Category:   *s.category,
		Direction:  *s.direction,
		RemoteAddr: *s.remoteAddr,
		TimeStart:  *s.timeStart,
		TimeEnd:    *s.timeEnd,
		ErrorsOnly: *s.errorsOnly,
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `rpcssl-log view - View log file in human-readable format

Usage:
  rpcssl-log view [flags] <file.rlog>

Flags:
`)
		fs.PrintDefaults()
	}
	sel := addSelectionFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunView(path, sel.options(), os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `rpcssl-log export - Export log file to JSONL or CSV format

Usage:
  rpcssl-log export [flags] <file.rlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `rpcssl-log filter - Filter log file and write to new file

Usage:
  rpcssl-log filter [flags] <file.rlog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	sel := addSelectionFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	opts := sel.options()
	opts.Output = *output
	count, err := commands.RunFilter(path, opts)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", count, *output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `rpcssl-log stats - Show statistics about the log file

Usage:
  rpcssl-log stats <file.rlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
