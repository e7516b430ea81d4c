package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/google/uuid"

	accountservice "github.com/narwhalmedia/reelscout/internal/account/service"
	catalogservice "github.com/narwhalmedia/reelscout/internal/catalog/service"
	sessiondomain "github.com/narwhalmedia/reelscout/internal/session/domain"
	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/models"
)

// Sessions is the part of the auth service a single local user needs.
type Sessions interface {
	Login(ctx context.Context, username, password string) (*sessiondomain.LoginResult, error)
	Current(ctx context.Context) (*sessiondomain.CurrentUser, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
}

// Command is one CLI subcommand.
type Command struct {
	Name        string
	Usage       string
	Description string
	Execute     func(ctx context.Context, args []string) error
}

// App runs subcommands against the services.
type App struct {
	catalog  catalogservice.CatalogServiceInterface
	sessions Sessions
	account  accountservice.AccountServiceInterface

	stdout   io.Writer
	stderr   io.Writer
	commands map[string]Command
}

// NewApp creates an App with every command registered.
func NewApp(catalog catalogservice.CatalogServiceInterface, sessions Sessions, account accountservice.AccountServiceInterface, stdout, stderr io.Writer) *App {
	a := &App{
		catalog:  catalog,
		sessions: sessions,
		account:  account,
		stdout:   stdout,
		stderr:   stderr,
		commands: map[string]Command{},
	}
	a.registerSessionCommands()
	a.registerCatalogCommands()
	a.registerAccountCommands()
	return a
}

// Register adds cmd, replacing any command with the same name.
func (a *App) Register(cmd Command) {
	a.commands[cmd.Name] = cmd
}

// Run executes args[0] with the remaining arguments and returns the process
// exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		a.usage()
		return 0
	}

	cmd, ok := a.commands[args[0]]
	if !ok {
		fmt.Fprintf(a.stderr, "unknown command %q\n", args[0])
		a.usage()
		return 1
	}

	if err := cmd.Execute(ctx, args[1:]); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(a.stderr, errors.Display(err))
		return 1
	}
	return 0
}

func (a *App) usage() {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.stderr, "Usage: reelscout-cli <command> [arguments]")
	fmt.Fprintln(a.stderr, "\nAvailable Commands:")
	for _, name := range names {
		cmd := a.commands[name]
		fmt.Fprintf(a.stderr, "  %-40s %s\n", cmd.Usage, cmd.Description)
	}
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseArgs parses flags that may appear between positional arguments and
// returns the positional ones.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func expectArgs(usage string, args []string, n int) error {
	if len(args) != n {
		return errors.BadRequest("usage: " + usage)
	}
	return nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest(fmt.Sprintf("invalid id %q", s))
	}
	return id, nil
}

// parseMediaType accepts movie and tv, plus their plural list forms.
func parseMediaType(s string) (models.MediaType, error) {
	switch s {
	case "movie", "movies":
		return models.MediaTypeMovie, nil
	case "tv", "show", "shows":
		return models.MediaTypeTV, nil
	default:
		return "", errors.BadRequest(fmt.Sprintf("invalid media type %q, expected movie or tv", s))
	}
}

func parseTypedID(usage string, args []string) (models.MediaType, int, error) {
	if err := expectArgs(usage, args, 2); err != nil {
		return "", 0, err
	}
	mediaType, err := parseMediaType(args[0])
	if err != nil {
		return "", 0, err
	}
	id, err := parseID(args[1])
	if err != nil {
		return "", 0, err
	}
	return mediaType, id, nil
}
