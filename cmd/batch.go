package main

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aditasap/bizscope/internal/scrape"
)

var (
	batchProfile string
	batchOutput  string
	batchFile    string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Scrape multiple websites from a URL list",
	Long:  "Reads one URL per line from the input file and scrapes each independently. A failed URL is logged and skipped; it never aborts the batch.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		urls, err := readURLList(batchFile)
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			return eris.Errorf("no urls found in %s", batchFile)
		}

		scraper, st, err := initScraper(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}

		maxConcurrent := cfg.Batch.MaxConcurrent
		if maxConcurrent <= 0 {
			maxConcurrent = 5
		}

		var (
			mu      sync.Mutex
			reports []*scrape.Report
		)

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrent)
		for _, u := range urls {
			g.Go(func() error {
				report, err := scraper.Scrape(gCtx, u, batchProfile, scrape.DefaultOptions())
				if err != nil {
					zap.L().Warn("batch: scrape failed",
						zap.String("url", u),
						zap.Error(err),
					)
					return nil
				}
				if st != nil {
					if data, merr := json.Marshal(report); merr == nil {
						if _, serr := st.SaveReport(gCtx, report.URL, report.Profile, data); serr != nil {
							zap.L().Warn("batch: failed to persist report", zap.String("url", u), zap.Error(serr))
						}
					}
				}
				mu.Lock()
				reports = append(reports, report)
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		zap.L().Info("batch complete",
			zap.Int("requested", len(urls)),
			zap.Int("scraped", len(reports)),
		)
		return writeReports(batchOutput, reports)
	},
}

// readURLList reads one URL per line, skipping blanks and # comments.
func readURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, eris.Wrapf(sc.Err(), "read %s", path)
}

func init() {
	batchCmd.Flags().StringVarP(&batchFile, "input", "i", "urls.txt", "file with one URL per line")
	batchCmd.Flags().StringVarP(&batchProfile, "profile", "p", "business", "business profile for all URLs")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output file (.json/.csv/.xlsx); default stdout")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}
