package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/ramborogers/bandlock/eventlog"
	"github.com/ramborogers/bandlock/identity"
	"github.com/ramborogers/bandlock/lock"
	"github.com/ramborogers/bandlock/radio"
	"github.com/ramborogers/bandlock/views"
	"github.com/ramborogers/bandlock/web"
)

const (
	version = "0.1.0"
	debug   = false // Default debug setting, can be overridden by -debug flag
)

// options holds the parsed command line
type options struct {
	debug    bool
	version  bool
	iface    string
	port     int
	token    string
	interval time.Duration
	command  string
}

var (
	errUnknownCommand = errors.New("unknown command")
	errBadInterval    = errors.New("-interval must be positive")
)

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "bandlock %s - keep your Wi-Fi on 5GHz\n\n", version)
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  bandlock [options]          Connect to 5GHz (reads %s)\n", displayConfigPath())
	fmt.Fprintf(w, "  bandlock [options] setup    Interactive setup: enter SSID, password, discover 5GHz BSSID\n")
	fmt.Fprintf(w, "  bandlock [options] status   Show current Wi-Fi band, channel, and link speed\n")
	fmt.Fprintf(w, "  bandlock [options] serve    Serve status as JSON, websocket and Prometheus metrics\n")
	fmt.Fprintf(w, "  bandlock help               Show this message\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func displayConfigPath() string {
	path, err := identity.DefaultPath()
	if err != nil {
		return "~/.config/bandlock/config.toml"
	}
	return path
}

func newFlagSet(opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("bandlock", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&opts.debug, "debug", debug, "Enable debug mode (generates debug.log in current directory)")
	fs.BoolVar(&opts.version, "version", false, "Display version information and exit")
	fs.StringVar(&opts.iface, "iface", "", "Wi-Fi device to use (default: first Wi-Fi device)")
	fs.IntVar(&opts.port, "port", 7433, "Port for the serve command")
	fs.StringVar(&opts.token, "token", "", "Auth token required by the serve command (default: none)")
	fs.DurationVar(&opts.interval, "interval", web.DefaultInterval, "How often serve pushes status to websocket clients")
	return fs
}

// parseArgs reads flags followed by at most one command.
func parseArgs(args []string) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := newFlagSet(opts)
	if err := fs.Parse(args); err != nil {
		return opts, fs, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.command = fs.Arg(0)
	default:
		return opts, fs, fmt.Errorf("unexpected argument '%s'", fs.Arg(1))
	}

	if opts.interval <= 0 {
		return opts, fs, fmt.Errorf("%w: %s", errBadInterval, opts.interval)
	}

	switch opts.command {
	case "", "setup", "status", "serve", "help", "--help", "-h":
		return opts, fs, nil
	}
	return opts, fs, fmt.Errorf("%w '%s'", errUnknownCommand, opts.command)
}

func setupDebugLog(enabled bool) {
	if !enabled {
		// Disable logging when debug is false
		log.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile("debug.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening debug.log: %v", err)
	}
	log.SetOutput(f)
}

func newStore() (*identity.Store, error) {
	path, err := identity.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrConfigInvalid, err)
	}
	return identity.NewStore(path), nil
}

func opener(iface string) lock.Opener {
	return func() (radio.Gateway, error) {
		return radio.NewNMCLI(iface)
	}
}

// reconnectExitCode maps a reconnection error to the process exit code.
// Only a missing identity or a missing Wi-Fi device fail the process; scan
// and association failures have been logged and are retried by running
// bandlock again.
func reconnectExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, identity.ErrConfigInvalid), errors.Is(err, radio.ErrInterfaceUnavailable):
		return 1
	default:
		return 0
	}
}

func runReconnect(opts *options) int {
	elog := eventlog.Open(eventlog.DefaultPath(), os.Stdout)
	defer elog.Close()

	store, err := newStore()
	if err != nil {
		elog.Printf("No config found. Run 'bandlock setup' first. (%v)", err)
		return 1
	}

	out, err := lock.Reconnect(store, opener(opts.iface), elog)
	log.Printf("DEBUG: reconnect finished in state %s: %v", out.State, err)
	return reconnectExitCode(err)
}

func runStatus(opts *options) int {
	gw, err := radio.NewNMCLI(opts.iface)
	if err != nil {
		fmt.Println("No WiFi interface found")
		return 1
	}

	snap, err := lock.TakeSnapshot(gw)
	if err != nil {
		fmt.Printf("Could not read Wi-Fi status: %v\n", err)
		return 1
	}

	v := views.NewStatusView(views.NewStyles())
	v.SetSnapshot(snap)
	fmt.Println(v.Render())
	return 0
}

func runSetup(opts *options) int {
	store, err := newStore()
	if err != nil {
		fmt.Printf("Setup failed: %v\n", err)
		return 1
	}

	m := newSetupModel(store, opener(opts.iface))
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		fmt.Printf("Error running program: %v\n", err)
		return 1
	}
	return final.(*setupModel).exitCode()
}

func runServe(opts *options) int {
	gw, err := radio.NewNMCLI(opts.iface)
	if err != nil {
		fmt.Printf("No WiFi interface found: %v\n", err)
		return 1
	}

	// Server logs go to the terminal even without -debug
	log.SetOutput(os.Stderr)
	if opts.token == "" {
		log.Printf("Warning: serving without an auth token")
	}

	s := web.NewServer(gw, opts.port, opts.token, version, opts.interval)
	if err := s.Start(); err != nil {
		log.Printf("Server stopped: %v", err)
		return 1
	}
	return 0
}

func run(args []string) int {
	// Paths may be set in a .env file next to the binary's working directory
	_ = godotenv.Load()

	opts, fs, err := parseArgs(args)
	if errors.Is(err, flag.ErrHelp) {
		usage(os.Stdout, fs)
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		usage(os.Stderr, fs)
		return 1
	}

	if opts.version {
		fmt.Printf("bandlock %s\n", version)
		return 0
	}

	setupDebugLog(opts.debug)

	switch opts.command {
	case "setup":
		return runSetup(opts)
	case "status":
		return runStatus(opts)
	case "serve":
		return runServe(opts)
	case "help", "--help", "-h":
		usage(os.Stdout, fs)
		return 0
	default:
		return runReconnect(opts)
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}
