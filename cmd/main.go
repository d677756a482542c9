package main

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/spf13/cobra"

	"euromillions/internal/config"
	"euromillions/internal/fetch"
	"euromillions/internal/handlers"
	"euromillions/internal/models"
	"euromillions/internal/services"
	"euromillions/internal/store"
)

//go:embed all:templates
var templateFS embed.FS

func main() {
	lg := logger.Init("euromillions", true, false, io.Discard)
	defer lg.Close()

	root := &cobra.Command{
		Use:           "euromillions",
		Short:         "Fetch, reconcile and publish EuroMillions draw results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(updateCmd(), serveCmd())

	if err := root.Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func loadTemplates() *template.Template {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}
	return templates
}

func newService(cfg *config.Config) *services.ResultService {
	client := fetch.New(fetch.WithTimeout(cfg.FetchTimeout))
	return services.NewResultService(client, models.SourceURLs{
		Scrape: cfg.ScrapeURL,
		API:    cfg.APIURL,
	})
}

// updateCmd runs the pipeline once and writes the JSON artifacts plus the
// static status page.
func updateCmd() *cobra.Command {
	var outDir, apiURL string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Run the pipeline once and write the artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("out-dir") {
				cfg.OutDir = outDir
			}
			if cmd.Flags().Changed("api") {
				cfg.APIURL = apiURL
			}

			svc := newService(cfg)
			snap, err := svc.Refresh(cmd.Context())
			if err != nil {
				return err
			}

			writer := store.NewWriter(cfg.OutDir, loadTemplates())
			if err := writer.Write(snap); err != nil {
				return err
			}
			logger.Infof("Wrote euromillions.json, latest.json and %s",
				filepath.Join(cfg.OutDir, "site", "index.html"))
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory to write the artifacts into")
	cmd.Flags().StringVar(&apiURL, "api", config.DefaultAPIURL, "draws API endpoint")
	return cmd
}

// serveCmd runs the HTTP surface with a background periodic refresh.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the status page and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			svc := newService(cfg)
			templates := loadTemplates()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// First snapshot before traffic arrives; the server still comes
			// up when the sources are down and retries on the next tick.
			if _, err := svc.Refresh(ctx); err != nil {
				logger.Errorf("Initial refresh failed: %v", err)
			}
			go svc.RunPeriodic(ctx, cfg.RefreshInterval)

			httpHandler := handlers.NewHTTPHandler(svc, templates)
			r := gin.Default()
			httpHandler.RegisterRoutes(r)

			srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
			errCh := make(chan error, 1)
			go func() {
				logger.Infof("Server starting on %s", cfg.ListenAddr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				logger.Infof("Received shutdown signal, shutting down gracefully...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}
}
