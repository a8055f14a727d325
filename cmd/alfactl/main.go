// Command alfactl is a command-line client for the Alfa API.
//
//	alfactl register -email a@x.com -name Ana
//	alfactl login -email a@x.com
//	alfactl progress add -level 3 -score 80
//	alfactl progress list
//	alfactl ranking -limit 5
//	alfactl activities -level 2
//
// Passwords are prompted without echo when stdin is a terminal and read as
// one line otherwise. The token from login is cached under the user config dir.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/alfa-api/internal/client"
)

const defaultServerURL = "http://localhost:8080"

// errUsage marks a command-line mistake; run reports it with exit code 2.
var errUsage = errors.New("usage error")

// app carries the CLI's I/O and connection so tests can drive it.
type app struct {
	stdin     *bufio.Reader
	stdinFD   int
	stdout    io.Writer
	stderr    io.Writer
	tokenFile string
	client    *client.Client
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, int(os.Stdin.Fd()), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses global flags, dispatches the command, and returns the exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdinFD int, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("alfactl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	serverURL := fs.String("server", envOr("ALFA_SERVER_URL", defaultServerURL), "API base URL")
	tokenFile := fs.String("token-file", "", "token cache file (default: user config dir)")
	timeout := fs.Duration("timeout", client.DefaultTimeout, "per-request timeout")
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	a := &app{
		stdin:     bufio.NewReader(stdin),
		stdinFD:   stdinFD,
		stdout:    stdout,
		stderr:    stderr,
		tokenFile: *tokenFile,
	}
	if a.tokenFile == "" {
		path, err := defaultTokenFile()
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		a.tokenFile = path
	}

	token, err := loadToken(a.tokenFile)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	a.client = client.New(*serverURL,
		client.WithToken(token),
		client.WithHTTPClient(&http.Client{Timeout: *timeout}),
	)

	if err := a.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
			return 2
		}
		if errors.Is(err, client.ErrNoToken) {
			fmt.Fprintln(stderr, "error: not logged in; run 'alfactl login' first")
			return 1
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: alfactl [flags] <command> [command flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  register -email E -name N   create an account")
	fmt.Fprintln(w, "  login -email E              log in and cache the token")
	fmt.Fprintln(w, "  logout                      forget the cached token")
	fmt.Fprintln(w, "  me                          show the logged-in identity")
	fmt.Fprintln(w, "  progress add -level L -score S")
	fmt.Fprintln(w, "  progress list")
	fmt.Fprintln(w, "  ranking [-limit N]")
	fmt.Fprintln(w, "  activities [-level N]")
	fmt.Fprintln(w, "  health")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags:")
	fs.PrintDefaults()
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
