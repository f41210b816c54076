package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mihotel/internal/auth"
	"github.com/wolfeidau/mihotel/internal/client"
	"github.com/wolfeidau/mihotel/internal/config"
	"github.com/wolfeidau/mihotel/internal/guard"
	"github.com/wolfeidau/mihotel/internal/logger"
	"github.com/wolfeidau/mihotel/internal/session"
	"github.com/wolfeidau/mihotel/internal/telemetry"
	"github.com/wolfeidau/mihotel/internal/views"
	"golang.org/x/text/message"
)

type Globals struct {
	Debug      bool
	Version    string
	APIURL     string
	SessionDir string
	Cache      bool
	CacheDir   string
	Lang       string
	Tracing    bool
	Yes        bool

	// Out and In default to stdout and stdin.
	Out io.Writer
	In  io.Reader
}

// app is the state shared by a single command invocation.
type app struct {
	cfg      config.Config
	sessions *session.Store
	client   *client.Client
	printer  *message.Printer
	out      io.Writer
	in       *bufio.Reader
	yes      bool
	shutdown telemetry.ShutdownFunc
}

func (g *Globals) open(ctx context.Context) (*app, error) {
	cfg, err := config.Config{
		APIURL:     g.APIURL,
		SessionDir: g.SessionDir,
		Cache:      g.Cache,
		CacheDir:   g.CacheDir,
		Lang:       g.Lang,
	}.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration: %w", err)
	}

	lg := logger.Setup(g.Debug)
	log.Logger = lg

	storage, err := session.NewDirStorage(cfg.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	sessions := session.NewStore(storage)
	if err := sessions.Init(); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	a := &app{
		cfg:      cfg,
		sessions: sessions,
		printer:  views.NewPrinter(cfg.Lang),
		out:      g.Out,
		yes:      g.Yes,
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	in := g.In
	if in == nil {
		in = os.Stdin
	}
	a.in = bufio.NewReader(in)

	a.client, err = client.New(cfg.Client(&lg), sessions, client.NavigatorFunc(a.redirect))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if g.Tracing {
		a.shutdown, err = telemetry.Init(ctx, "mihotel", g.Version)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
	}

	log.Debug().
		Str("api", cfg.APIURL).
		Str("session", cfg.SessionDir).
		Str("lang", cfg.Lang).
		Bool("cache", cfg.Cache).
		Msg("configured")

	return a, nil
}

func (a *app) close() {
	if a.shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown telemetry")
	}
}

// redirect navigates by telling the user which command to run next. Being
// sent to the login route ends the current command.
func (a *app) redirect(path string) error {
	if path == auth.RouteLogin {
		fmt.Fprintln(a.out, "You are not signed in. Run: mihotel login")
		return client.ErrLoginRequired
	}
	fmt.Fprintf(a.out, "Run: mihotel %s\n", strings.TrimPrefix(path, "/"))
	return nil
}

// confirm asks a yes/no question on the terminal.
func (a *app) confirm(_ context.Context, prompt string) (bool, error) {
	if a.yes {
		return true, nil
	}
	fmt.Fprintf(a.out, "%s [y/N]: ", prompt)

	response, err := a.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(response) {
	case "y", "yes", "s", "si", "sí":
		return true, nil
	}
	fmt.Fprintln(a.out, "Aborted.")
	return false, nil
}

// prompt reads a value from the terminal when it was not given as a flag.
func (a *app) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(a.out, "%s: ", label)
	return a.readLine()
}

func (a *app) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// guarded runs render behind the route guard.
func (a *app) guarded(ctx context.Context, g guard.Guard, render guard.RenderFunc) error {
	g.Out = a.out
	g.Printer = a.printer
	return g.Run(ctx, a.sessions, client.NavigatorFunc(a.redirect), render)
}
