package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/mihotel/cmd/mihotel/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login        commands.LoginCmd        `cmd:"" help:"Sign in to the hotel management API"`
		Register     commands.RegisterCmd     `cmd:"" help:"Create an account and its organization"`
		Logout       commands.LogoutCmd       `cmd:"" help:"Sign out and clear the stored session"`
		Whoami       commands.WhoamiCmd       `cmd:"" help:"Show the signed in user and permissions"`
		Status       commands.StatusCmd       `cmd:"" help:"Check the API is reachable"`
		Routes       commands.RoutesCmd       `cmd:"" help:"List sections and whether you can open them"`
		Dashboard    commands.DashboardCmd    `cmd:"" help:"Show the dashboard summary"`
		Properties   commands.PropertiesCmd   `cmd:"" set:"kind=property" help:"Manage properties"`
		Rooms        commands.RoomsCmd        `cmd:"" set:"kind=room" help:"Manage rooms"`
		Reservations commands.ReservationsCmd `cmd:"" set:"kind=reservation" help:"Manage reservations"`
		Guests       commands.GuestsCmd       `cmd:"" set:"kind=guest" help:"Manage guests"`
		Payments     commands.PaymentsCmd     `cmd:"" set:"kind=payment" help:"Manage payments"`
		Users        commands.UsersCmd        `cmd:"" set:"kind=user" help:"Manage users"`

		Debug      bool   `help:"Enable debug mode."`
		APIURL     string `name:"api-url" help:"API base URL." env:"MIHOTEL_API_URL"`
		SessionDir string `help:"Directory holding the session." env:"MIHOTEL_SESSION_DIR"`
		Cache      bool   `help:"Cache API responses per organization."`
		CacheDir   string `help:"Directory for cached responses." env:"MIHOTEL_CACHE_DIR"`
		Lang       string `help:"Language for messages (en, es)." env:"MIHOTEL_LANG"`
		Tracing    bool   `help:"Export traces and metrics over OTLP."`
		Yes        bool   `short:"y" help:"Answer yes to confirmation prompts."`
		Version    kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("mihotel"),
		kong.Description("Administer hotels, rooms, reservations and guests."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:      cli.Debug,
		Version:    version,
		APIURL:     cli.APIURL,
		SessionDir: cli.SessionDir,
		Cache:      cli.Cache,
		CacheDir:   cli.CacheDir,
		Lang:       cli.Lang,
		Tracing:    cli.Tracing,
		Yes:        cli.Yes,
	})
	cmd.FatalIfErrorf(err)
}
