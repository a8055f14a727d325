package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout()
	case "me":
		return a.me(ctx)
	case "progress":
		if len(args) == 0 {
			return fmt.Errorf("%w: progress needs a subcommand: add or list", errUsage)
		}
		switch args[0] {
		case "add":
			return a.progressAdd(ctx, args[1:])
		case "list":
			return a.progressList(ctx)
		default:
			return fmt.Errorf("%w: unknown progress subcommand %q", errUsage, args[0])
		}
	case "ranking":
		return a.ranking(ctx, args)
	case "activities":
		return a.activities(ctx, args)
	case "health":
		return a.health(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// newFlagSet returns a flag set whose parse errors come back as errUsage.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := a.newFlagSet("register")
	email := fs.String("email", "", "email address")
	name := fs.String("name", "", "display name")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *email == "" || *name == "" {
		return fmt.Errorf("%w: register needs -email and -name", errUsage)
	}

	password, err := a.readSecret("Password: ")
	if err != nil {
		return err
	}

	identity, err := a.client.Register(ctx, *email, password, *name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "registered %s <%s>\n", identity.DisplayName, identity.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.newFlagSet("login")
	email := fs.String("email", "", "email address")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("%w: login needs -email", errUsage)
	}

	password, err := a.readSecret("Password: ")
	if err != nil {
		return err
	}

	token, err := a.client.Login(ctx, *email, password)
	if err != nil {
		return err
	}
	if err := saveToken(a.tokenFile, token.Token); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "logged in; token expires %s\n", token.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

func (a *app) logout() error {
	if err := removeToken(a.tokenFile); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "logged out")
	return nil
}

func (a *app) me(ctx context.Context) error {
	identity, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s <%s>\nid: %s\nsince: %s\n",
		identity.DisplayName, identity.Email, identity.ID, identity.CreatedAt.Format(time.DateOnly))
	return nil
}

func (a *app) progressAdd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("progress add")
	level := fs.Int("level", 0, "activity level (> 0)")
	score := fs.Int("score", 0, "score obtained")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	entry, err := a.client.AppendProgress(ctx, *level, *score)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "recorded level %d score %d at %s\n",
		entry.Level, entry.Score, entry.RecordedAt.Local().Format(time.RFC3339))
	return nil
}

func (a *app) progressList(ctx context.Context) error {
	entries, err := a.client.ListProgress(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.stdout, "no progress recorded yet")
		return nil
	}

	tw := newTable(a.stdout)
	fmt.Fprintln(tw, "#\tLEVEL\tSCORE\tRECORDED")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", i+1, e.Level, e.Score, e.RecordedAt.Local().Format(time.RFC3339))
	}
	return tw.Flush()
}

func (a *app) ranking(ctx context.Context, args []string) error {
	fs := a.newFlagSet("ranking")
	limit := fs.Int("limit", 0, "number of entries (server default when 0)")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	ranking, err := a.client.Ranking(ctx, *limit)
	if err != nil {
		return err
	}

	tw := newTable(a.stdout)
	fmt.Fprintln(tw, "#\tNAME\tTOTAL\tENTRIES")
	for i, r := range ranking {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", i+1, r.DisplayName, r.TotalScore, r.Entries)
	}
	return tw.Flush()
}

func (a *app) activities(ctx context.Context, args []string) error {
	fs := a.newFlagSet("activities")
	level := fs.Int("level", 0, "activity level (server default when 0)")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	list, err := a.client.Activities(ctx, *level)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "level %d: %d activities\n", list.Level, list.Total)
	tw := newTable(a.stdout)
	fmt.Fprintln(tw, "ID\tKIND\tCONTENT\tAUDIO")
	for _, act := range list.Activities {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", act.ID, act.Kind, act.Content, act.AudioURL)
	}
	return tw.Flush()
}

func (a *app) health(ctx context.Context) error {
	h, err := a.client.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s (database %s)\n", h.Status, h.Database)
	if h.Status != "healthy" {
		return fmt.Errorf("server is %s", h.Status)
	}
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
