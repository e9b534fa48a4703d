package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aditasap/bizscope/internal/scrape"
	"github.com/aditasap/bizscope/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scrape HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		scraper, st, err := initScraper(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		}))
		registerRoutes(r, scraper, st)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// registerRoutes wires the API handlers. Split out so tests can mount the
// routes on a bare router.
func registerRoutes(r chi.Router, scraper *scrape.Scraper, st store.Store) {
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/scrape", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			URL     string `json:"url"`
			Profile string `json:"profile"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if body.URL == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
			return
		}
		if body.Profile == "" {
			body.Profile = "business"
		}

		report, err := scraper.Scrape(req.Context(), body.URL, body.Profile, scrape.DefaultOptions())
		if err != nil {
			zap.L().Error("serve: scrape failed",
				zap.String("url", body.URL),
				zap.Error(err),
			)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": eris.ToString(err, false)})
			return
		}

		if st != nil {
			if data, merr := json.Marshal(report); merr == nil {
				if _, serr := st.SaveReport(req.Context(), report.URL, report.Profile, data); serr != nil {
					zap.L().Warn("serve: failed to persist report", zap.Error(serr))
				}
			}
		}

		writeJSON(w, http.StatusOK, report)
	})

	r.Get("/reports", func(w http.ResponseWriter, req *http.Request) {
		if st == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no store configured"})
			return
		}
		records, err := st.ListReports(req.Context(), store.ReportFilter{
			Profile: req.URL.Query().Get("profile"),
			URL:     req.URL.Query().Get("url"),
			Limit:   50,
		})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list reports failed"})
			return
		}
		writeJSON(w, http.StatusOK, records)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
