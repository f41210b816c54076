package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfeidau/mihotel/internal/auth"
	"github.com/wolfeidau/mihotel/internal/client"
	"github.com/wolfeidau/mihotel/internal/models"
)

type LoginCmd struct {
	Email    string `help:"Account email" env:"MIHOTEL_EMAIL"`
	Password string `help:"Account password" env:"MIHOTEL_PASSWORD"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	email, err := a.prompt("Email", l.Email)
	if err != nil {
		return err
	}
	password, err := a.prompt("Password", l.Password)
	if err != nil {
		return err
	}

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	return a.printLoginResult(res)
}

type RegisterCmd struct {
	Name       string `help:"Your name" required:""`
	Email      string `help:"Account email" required:""`
	Password   string `help:"Account password" env:"MIHOTEL_PASSWORD"`
	TenantName string `name:"organization" help:"Organization name" required:""`
	TenantType string `name:"type" help:"Organization type" enum:"hotel,airbnb,posada" default:"hotel"`
}

func (r *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	password, err := a.prompt("Password", r.Password)
	if err != nil {
		return err
	}

	res, err := a.client.Register(ctx, client.RegisterRequest{
		Name:       r.Name,
		Email:      r.Email,
		Password:   password,
		TenantName: r.TenantName,
		TenantType: models.TenantType(r.TenantType),
	})
	if err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}

	return a.printLoginResult(res)
}

func (a *app) printLoginResult(res *client.LoginResult) error {
	if !res.OK {
		fmt.Fprintln(a.out, res.Message)
		for _, fe := range res.FieldErrors {
			fmt.Fprintf(a.out, "  %s: %s\n", fe.Field, fe.Message)
		}
		return errors.New("sign in rejected")
	}

	fmt.Fprint(a.out, "Signed in")
	if user := res.Session.User; user != nil {
		fmt.Fprintf(a.out, " as %s (%s)", user.Name, user.Role)
	}
	if t := res.Session.Tenant; t != nil && t.Name != "" {
		fmt.Fprintf(a.out, " at %s", t.Name)
	}
	fmt.Fprintln(a.out)
	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.client.Logout(ctx); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}

	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

type WhoamiCmd struct {
	Refresh bool `help:"Fetch the profile from the API before printing"`
}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if !a.sessions.IsAuthenticated() {
		return a.client.RedirectToLogin()
	}

	if w.Refresh {
		if _, err := a.client.Profile(ctx); err != nil {
			return fmt.Errorf("failed to fetch profile: %w", err)
		}
	}

	user := a.sessions.User()
	if user == nil {
		return a.client.RedirectToLogin()
	}

	fmt.Fprintf(a.out, "User:         %s <%s>\n", user.Name, user.Email)
	fmt.Fprintf(a.out, "Role:         %s\n", user.Role)
	if t := a.sessions.Tenant(); t != nil {
		fmt.Fprintf(a.out, "Organization: %s (%s, %s plan)\n", t.Name, t.Type, t.Plan)
	}

	if exp, ok := a.sessions.TokenExpiry(); ok {
		state := "valid"
		if time.Now().After(exp) {
			state = "expired"
		}
		fmt.Fprintf(a.out, "Session:      %s until %s\n", state, exp.Local().Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintln(a.out, "Permissions:")
	for _, perm := range auth.AllPermissions {
		mark := " "
		if auth.HasPermission(user, perm) {
			mark = "x"
		}
		fmt.Fprintf(a.out, "  [%s] %s\n", mark, perm)
	}

	fmt.Fprintf(a.out, "Sections:     %s\n", strings.Join(auth.AccessibleRoutes(user), " "))
	return nil
}
