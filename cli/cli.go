package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"falcon-scn/config"
	"falcon-scn/core/state"
	"falcon-scn/core/storage"
	"falcon-scn/core/store"
	"falcon-scn/core/utils"
)

// Run dispatches the operator subcommands. Each opens the store against the
// configured medium, performs one operation, and flushes on close.
func Run() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOut := exportCmd.String("o", "", "output file (default: stdout)")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importIn := importCmd.String("f", "", "state file to import")

	resetCmd := flag.NewFlagSet("reset", flag.ExitOnError)
	resetYes := resetCmd.Bool("yes", false, "confirm wiping all state")

	if len(os.Args) < 2 {
		fmt.Println("commands: init, export, import, reset, usage, verify")
		return
	}

	switch os.Args[1] {
	case "init":
		ses := open()
		defer ses.close()
		if !ses.store.IsFirstRun() && ses.store.CredentialsShown(context.Background()) {
			fmt.Println("already initialized")
			return
		}
		fmt.Println("network provisioned")
		fmt.Printf("default admin: %s / %s\n", state.DefaultAdmin.Username, state.DefaultAdmin.Password)
		fmt.Println("change this password after first login")
		ses.store.MarkCredentialsShown(context.Background())
	case "export":
		_ = exportCmd.Parse(os.Args[2:])
		ses := open()
		defer ses.close()
		doc := ses.store.ExportState()
		if *exportOut == "" {
			fmt.Println(doc)
			return
		}
		if err := os.WriteFile(*exportOut, []byte(doc), 0o600); err != nil {
			ses.logger.Fatalf("write export: %v", err)
		}
		fmt.Println("state exported to", *exportOut)
	case "import":
		_ = importCmd.Parse(os.Args[2:])
		if *importIn == "" {
			fmt.Println("usage: import -f <file>")
			os.Exit(2)
		}
		raw, err := os.ReadFile(*importIn)
		if err != nil {
			utils.NewLogger().Fatalf("read import: %v", err)
		}
		ses := open()
		defer ses.close()
		res := ses.store.ImportState(context.Background(), string(raw))
		fmt.Println(res.Message)
		if !res.OK {
			ses.close()
			os.Exit(1)
		}
	case "reset":
		_ = resetCmd.Parse(os.Args[2:])
		if !*resetYes {
			fmt.Println("refusing to reset without -yes")
			os.Exit(2)
		}
		ses := open()
		defer ses.close()
		ses.store.ResetSystem(context.Background())
		fmt.Println("state reset to defaults")
	case "usage":
		ses := open()
		defer ses.close()
		u := ses.store.GetStorageUsage(context.Background())
		fmt.Printf("storage: %d / %d bytes (%d%%)\n", u.Used, u.Total, u.Percentage)
	case "verify":
		// Opening the store runs shape validation, corruption recovery and
		// the admin-existence guarantee; report what it found.
		ses := open()
		defer ses.close()
		snap := ses.store.Snapshot()
		stats := ses.store.StatsSnapshot()
		fmt.Printf("document version %s: %d users, %d channels, %d messages, %d posts, %d audit entries\n",
			snap.Version, len(snap.Users), len(snap.Channels), len(snap.Messages), len(snap.Posts), len(snap.Logs))
		if stats.RecoveriesTotal > 0 {
			fmt.Printf("recoveries performed on load: %d\n", stats.RecoveriesTotal)
		} else {
			fmt.Println("document loaded clean")
		}
	default:
		fmt.Println("unknown command")
	}
}

type session struct {
	store  *store.CommandStore
	medium storage.Medium
	logger *utils.Logger
	closed bool
}

func open() *session {
	cfg, err := config.Load()
	logger := utils.NewLogger()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	medium, err := storage.OpenSQLite(context.Background(), cfg.StatePath, logger)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}
	s, err := store.New(context.Background(), cfg, medium, logger)
	if err != nil {
		logger.Fatalf("store: %v", err)
	}
	return &session{store: s, medium: medium, logger: logger}
}

func (s *session) close() {
	if s.closed {
		return
	}
	s.closed = true
	if err := s.store.Close(context.Background()); err != nil {
		s.logger.Errorf("close: %v", err)
	}
	if err := s.medium.Close(); err != nil {
		s.logger.Errorf("storage close: %v", err)
	}
}
