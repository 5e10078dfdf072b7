package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/gitswitch/internal/app"
	"github.com/edvin/gitswitch/internal/backend"
	"github.com/edvin/gitswitch/internal/config"
	"github.com/edvin/gitswitch/internal/logging"
	"github.com/edvin/gitswitch/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		cmdList()
	case "current":
		cmdCurrent()
	case "add":
		cmdAdd(os.Args[2:])
	case "switch":
		cmdSwitch(os.Args[2:])
	case "remove":
		cmdRemove(os.Args[2:])
	case "remove-all":
		cmdRemoveAll()
	case "show-key":
		cmdShowKey(os.Args[2:])
	case "watch":
		os.Exit(cmdWatch())
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: gitswitch-cli <command> [options]

Commands:
  list                     List all accounts
  current                  Show the active account
  add -name N -email E     Add an account
  switch <email>           Switch the active account
  remove <email>           Remove an account
  remove-all               Remove every account
  show-key <email>         Show an account's SSH public key
  watch                    Follow account changes until interrupted`)
}

// printNotifier is the toast boundary for the terminal.
type printNotifier struct{}

func (printNotifier) Notify(n app.Notice) {
	out := os.Stdout
	if n.Destructive {
		out = os.Stderr
	}
	fmt.Fprintln(out, n.Title)
	if n.Description != "" {
		fmt.Fprintf(out, "  %s\n", n.Description)
	}
}

func newApp() (*app.App, *store.Store, *config.Config, zerolog.Logger) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate("gitswitch-cli"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)
	st := store.New()
	client := backend.NewClient(cfg.BackendURL, logger)
	return app.New(st, client, printNotifier{}, logger), st, cfg, logger
}

func cmdList() {
	a, st, _, _ := newApp()
	if err := a.Refresh(context.Background()); err != nil {
		os.Exit(1)
	}

	accounts := st.Accounts()
	if len(accounts) == 0 {
		fmt.Println("No accounts added yet")
		return
	}

	fmt.Printf("%-20s %-35s %s\n", "NAME", "EMAIL", "STATUS")
	for _, acct := range accounts {
		status := "inactive"
		if acct.IsActive {
			status = "active"
		}
		fmt.Printf("%-20s %-35s %s\n", acct.Name, acct.Email, status)
	}
}

func cmdCurrent() {
	a, st, _, _ := newApp()
	if err := a.Refresh(context.Background()); err != nil {
		os.Exit(1)
	}

	current := st.CurrentUser()
	if current == nil {
		fmt.Println("No active account")
		return
	}
	fmt.Printf("%s (%s)\n", current.Name, current.Email)
}

func cmdAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "Account name (required)")
	email := fs.String("email", "", "Account email (required)")
	fs.Parse(args)

	a, _, _, _ := newApp()
	err := a.AddAccount(context.Background(), app.FormDraft{Name: *name, Email: *email})

	var verr *app.ValidationError
	if errors.As(err, &verr) {
		for field, msg := range verr.Fields {
			fmt.Fprintf(os.Stderr, "Error: %s: %s\n", field, msg)
		}
		os.Exit(1)
	}
	if err != nil {
		os.Exit(1)
	}
}

func cmdSwitch(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gitswitch-cli switch <email>")
		os.Exit(1)
	}

	a, _, _, _ := newApp()
	if err := a.SwitchAccount(context.Background(), args[0]); err != nil {
		os.Exit(1)
	}
}

func cmdRemove(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gitswitch-cli remove <email>")
		os.Exit(1)
	}

	a, _, _, _ := newApp()
	if err := a.RemoveAccount(context.Background(), args[0]); err != nil {
		os.Exit(1)
	}
}

func cmdRemoveAll() {
	a, _, _, _ := newApp()
	if err := a.RemoveAllAccounts(context.Background()); err != nil {
		os.Exit(1)
	}
}

func cmdShowKey(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gitswitch-cli show-key <email>")
		os.Exit(1)
	}

	a, _, _, _ := newApp()
	if err := a.RevealSSHKey(context.Background(), args[0], true); err != nil {
		os.Exit(1)
	}
	fmt.Println(a.RevealState(args[0]).Key)
}

// cmdWatch returns an exit code instead of calling os.Exit so the event
// subscription is always released on the way out.
func cmdWatch() int {
	a, st, cfg, logger := newApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	es, err := backend.SubscribeEvents(ctx, cfg.BackendURL, st, logger)
	if err != nil {
		// Degraded mode: refreshes still work, pushes don't.
		fmt.Fprintf(os.Stderr, "Warning: event subscription failed, showing snapshots only: %v\n", err)
	} else {
		defer es.Close()
	}

	if err := a.Refresh(ctx); err != nil {
		return 1
	}
	printSnapshot(st)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	last := st.Accounts()
	for {
		select {
		case <-quit:
			return 0
		case <-ticker.C:
			now := st.Accounts()
			if !reflect.DeepEqual(now, last) {
				last = now
				printSnapshot(st)
			}
		}
	}
}

func printSnapshot(st *store.Store) {
	accounts := st.Accounts()
	fmt.Printf("--- %d account(s)\n", len(accounts))
	for _, acct := range accounts {
		marker := " "
		if acct.IsActive {
			marker = "*"
		}
		fmt.Printf("%s %s <%s>\n", marker, acct.Name, acct.Email)
	}
}
