package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/api"
	"github.com/SPR1NGQAQ/Emoji-password-prototype/internal/config"
	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage"
	bboltstorage "github.com/SPR1NGQAQ/Emoji-password-prototype/storage/bbolt"
	memorystorage "github.com/SPR1NGQAQ/Emoji-password-prototype/storage/memory"
	"github.com/SPR1NGQAQ/Emoji-password-prototype/web"
)

var (
	configPath   string
	port         int
	dataDir      string
	csvPath      string
	attemptLimit int
	maxGlyphs    int
	memoryStore  bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the study web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = port
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDir
		}
		if cmd.Flags().Changed("csv") {
			cfg.CSVPath = csvPath
		}
		if cmd.Flags().Changed("attempt-limit") {
			cfg.LoginAttemptLimit = attemptLimit
		}
		if cmd.Flags().Changed("max-glyphs") {
			cfg.MaxSecretGlyphs = maxGlyphs
		}

		var repo storage.Repository
		if memoryStore {
			repo = memorystorage.NewRepository()
			fmt.Println("Using in-memory storage: study data is lost on exit")
		} else {
			if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			store, err := bboltstorage.NewRepositoryFromFile(filepath.Join(cfg.DataDir, "study.db"), nil)
			if err != nil {
				return fmt.Errorf("failed to open study storage: %w", err)
			}
			defer store.Close()
			repo = store
		}

		if cfg.CSVPath != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.CSVPath), 0o700); err != nil {
				return fmt.Errorf("failed to create csv directory: %w", err)
			}
		}

		renderer, err := web.NewRenderer()
		if err != nil {
			return err
		}

		a := api.New(repo, renderer,
			api.WithAttemptLimit(cfg.LoginAttemptLimit),
			api.WithMaxSecretGlyphs(cfg.MaxSecretGlyphs),
			api.WithCSVPath(cfg.CSVPath),
		)

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		appRouter, err := a.Router()
		if err != nil {
			return err
		}
		r.Mount("/", appRouter)

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		printBanner()
		fmt.Printf("Starting server on port %d (data: %s)...\n", cfg.Port, cfg.DataDir)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	serverCmd.Flags().IntVarP(&port, "port", "p", 8600, "Port to listen on")
	serverCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Directory for persistent data")
	serverCmd.Flags().StringVar(&csvPath, "csv", "./data/data.csv", "Dataset CSV file appended on completion")
	serverCmd.Flags().IntVar(&attemptLimit, "attempt-limit", 3, "Login attempts before the flow fails")
	serverCmd.Flags().IntVar(&maxGlyphs, "max-glyphs", 0, "Password length cap in grapheme clusters (0 disables)")
	serverCmd.Flags().BoolVar(&memoryStore, "memory", false, "Use in-memory storage instead of bbolt")
}
