package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"linkdraft/internal/domain"
	"linkdraft/internal/gateway"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostic checks on your LinkDraft installation",
		Long: `Verifies that LinkDraft's settings database, credentials, Chrome profile
and gateway port are correctly set up. Reports pass/fail for each check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("LinkDraft Doctor v%s\n", version)
			fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

			passed := 0
			failed := 0
			warned := 0

			// 1. Settings database writable
			db := resolveDBPath()
			if err := checkDatabase(db); err != nil {
				printFail("Settings database", err.Error())
				failed++
			} else {
				printPass("Settings database", db)
				passed++
			}

			// 2. API key configured
			store, err := openStore()
			if err != nil {
				printFail("Settings store", err.Error())
				failed++
			} else {
				defer store.Close()
				apiKey, _ := store.Get(cmd.Context(), domain.KeyAPIKey)
				if apiKey == "" {
					printWarn("API key", "not configured; run 'linkdraft config set api_key <key>'")
					warned++
				} else {
					printPass("API key", "configured")
					passed++
				}
			}

			// 3. Chrome profile directory writable
			profile := profileDir
			if profile == "" {
				profile = filepath.Join(homeDir(), ".linkdraft", "chrome-profiles", "default")
			}
			if err := os.MkdirAll(profile, 0o755); err != nil {
				printFail("Chrome profile", fmt.Sprintf("cannot create %s: %v", profile, err))
				failed++
			} else {
				printPass("Chrome profile", profile)
				passed++
			}

			// 4. Selector overrides directory (optional)
			overrides := resolveSelectorsDir()
			if info, err := os.Stat(overrides); err != nil {
				printWarn("Selector overrides", fmt.Sprintf("none found at %s (defaults apply)", overrides))
				warned++
			} else if !info.IsDir() {
				printFail("Selector overrides", fmt.Sprintf("not a directory: %s", overrides))
				failed++
			} else {
				printPass("Selector overrides", overrides)
				passed++
			}

			// 5. Gateway port available
			addr := gateway.DefaultAddr
			if store != nil {
				if configured, _ := store.Get(cmd.Context(), domain.KeyGatewayAddr); configured != "" {
					addr = configured
				}
			}
			if err := checkAddr(addr); err != nil {
				printWarn("Gateway address", fmt.Sprintf("%s may be in use: %v", addr, err))
				warned++
			} else {
				printPass("Gateway address", addr+" available")
				passed++
			}

			// Summary
			fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
			fmt.Printf("Results: %d passed, %d warnings, %d failed\n", passed, warned, failed)
			if failed > 0 {
				fmt.Printf("\nPlease fix the failed checks before running LinkDraft.\n")
				return fmt.Errorf("%d check(s) failed", failed)
			}
			if warned > 0 {
				fmt.Printf("\nLinkDraft should work but consider fixing the warnings.\n")
			} else {
				fmt.Printf("\nAll checks passed! LinkDraft is ready to run.\n")
			}
			return nil
		},
	}
}

func checkDatabase(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("cannot create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("cannot open: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("cannot ping: %w", err)
	}

	// Try a write.
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS _doctor_test (id INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	db.ExecContext(ctx, "DROP TABLE IF EXISTS _doctor_test")

	return nil
}

func checkAddr(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	ln.Close()
	return nil
}

func printPass(check, detail string) {
	fmt.Printf("  [PASS] %-20s %s\n", check, detail)
}

func printFail(check, detail string) {
	fmt.Printf("  [FAIL] %-20s %s\n", check, detail)
}

func printWarn(check, detail string) {
	fmt.Printf("  [WARN] %-20s %s\n", check, detail)
}
