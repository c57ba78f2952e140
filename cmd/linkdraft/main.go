package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"linkdraft/internal/browser"
	"linkdraft/internal/bus"
	"linkdraft/internal/domain"
	"linkdraft/internal/engine"
	"linkdraft/internal/extract"
	"linkdraft/internal/gateway"
	"linkdraft/internal/provider"
	"linkdraft/internal/selector"
	"linkdraft/internal/settings"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	logger  *slog.Logger

	dbPath       string // overridable via --db flag
	profileDir   string // overridable via --profile-dir flag
	selectorsDir string // overridable via --selectors flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "linkdraft",
		Short: "LinkDraft: context-aware LinkedIn message drafting",
		Long:  "LinkDraft extracts conversation and post context from LinkedIn pages and drafts replies, outreach messages and comments with an AI completion service.",
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "", "path to settings database (default: ~/.linkdraft/linkdraft.db)")
	root.PersistentFlags().StringVar(&profileDir, "profile-dir", "", "Chrome profile directory (default: ~/.linkdraft/chrome-profiles/default)")
	root.PersistentFlags().StringVar(&selectorsDir, "selectors", "", "directory with selector override YAML files (default: ~/.linkdraft/selectors)")

	root.AddCommand(serveCmd())
	root.AddCommand(loginCmd())
	root.AddCommand(snapshotCmd())
	root.AddCommand(extractCmd())
	root.AddCommand(configCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func resolveDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(homeDir(), ".linkdraft", "linkdraft.db")
}

func resolveSelectorsDir() string {
	if selectorsDir != "" {
		return selectorsDir
	}
	return filepath.Join(homeDir(), ".linkdraft", "selectors")
}

func openStore() (*settings.SQLiteStore, error) {
	return settings.NewSQLiteStore(resolveDBPath(), logger)
}

func newBridge(headless bool) *browser.Bridge {
	return browser.NewBridge(browser.BridgeConfig{
		ProfileDir: profileDir,
		Headless:   headless,
		Logger:     logger,
	})
}

// loadTable builds the selector table with any YAML overrides applied.
func loadTable() *selector.Table {
	table := selector.DefaultTable()
	if err := selector.LoadOverrides(table, resolveSelectorsDir(), logger); err != nil {
		logger.Warn("selector overrides not loaded", "dir", resolveSelectorsDir(), "err", err)
	}
	return table
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local generation gateway",
		Long:  "Starts the HTTP gateway serving the generate, extract, health and metrics endpoints. Press Ctrl+C to stop.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := openStore()
			if err != nil {
				return fmt.Errorf("open settings store: %w", err)
			}
			defer store.Close()

			apiKey, err := store.Get(ctx, domain.KeyAPIKey)
			if err != nil {
				return fmt.Errorf("read api key: %w", err)
			}
			if apiKey == "" {
				logger.Warn("api_key is not configured; generation requests will fail until it is set")
			}

			if addr == "" {
				addr, _ = store.Get(ctx, domain.KeyGatewayAddr)
			}
			if addr == "" {
				addr = gateway.DefaultAddr
			}

			svc := provider.NewAnthropic(provider.Config{APIKey: apiKey, Logger: logger})
			eventBus := bus.NewEventBus(logger)
			eng := engine.New(engine.Config{
				Provider: svc,
				Settings: store,
				Bus:      eventBus,
				Logger:   logger,
			})

			srv := gateway.NewServer(gateway.Config{
				Addr:   addr,
				Engine: eng,
				Bridge: newBridge(true),
				Events: eventBus,
				Table:  loadTable(),
				Logger: logger,
			})
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: gateway_addr setting, else "+gateway.DefaultAddr+")")
	return cmd
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Open a browser window to sign in to LinkedIn",
		Long:  "Opens a visible Chrome window for you to log in. Cookies are saved in the profile directory for later headless captures.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return newBridge(false).Login(ctx)
		},
	}
}

func snapshotCmd() *cobra.Command {
	var url, out string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture a page snapshot for offline extraction",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			snap, err := newBridge(true).Snapshot(ctx, url)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(map[string]any{
				"url":       snap.URL,
				"html":      snap.PageHTML,
				"fragments": snap.Fragments,
			}, "", "  ")
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			logger.Info("snapshot written", "file", out, "bytes", len(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "https://www.linkedin.com/messaging/", "page to capture")
	cmd.Flags().StringVar(&out, "out", "", "output file (default: stdout)")
	return cmd
}

func extractCmd() *cobra.Command {
	var file, url string
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Run context extraction against a page and print the result",
		Long:  "Extracts the conversation and post context from a saved HTML file or a live page capture. Debugging aid for selector drift.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if (file == "") == (url == "") {
				return fmt.Errorf("set exactly one of --file or --url")
			}

			var pageHTML string
			var fragments []string
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read page file: %w", err)
				}
				pageHTML = string(data)
			} else {
				snap, err := newBridge(true).Snapshot(ctx, url)
				if err != nil {
					return err
				}
				pageHTML = snap.PageHTML
				fragments = snap.Fragments
			}

			ex, err := extract.FromHTML(pageHTML, loadTable(), logger, fragments...)
			if err != nil {
				return fmt.Errorf("parse page: %w", err)
			}

			result := map[string]any{"conversation": ex.Conversation()}
			if post, ok := ex.Post(); ok {
				result["post"] = post
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "saved HTML file to extract from")
	cmd.Flags().StringVar(&url, "url", "", "live page to capture and extract from")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage settings (api_key, tone, user_context, ...)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [key]",
		Short: "Print one setting value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			value, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a setting value (e.g. tone casual)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Set(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			logger.Info("setting updated", "key", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			all, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			// Credentials stay out of terminal scrollback.
			if _, ok := all[domain.KeyAPIKey]; ok {
				all[domain.KeyAPIKey] = "***"
			}
			data, _ := json.MarshalIndent(all, "", "  ")
			fmt.Println(string(data))
			return nil
		},
	})

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("linkdraft v%s\n", version)
		},
	}
}
