package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aditasap/bizscope/internal/export"
	"github.com/aditasap/bizscope/internal/scrape"
)

var (
	scrapeProfile      string
	scrapeOutput       string
	scrapeCustomFields []string
	scrapeNoColors     bool
	scrapeNoLogo       bool
	scrapeNoFonts      bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape a single website",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		scraper, st, err := initScraper(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}

		if len(scrapeCustomFields) > 0 {
			s, err := loadSchema()
			if err != nil {
				return err
			}
			for _, name := range scrapeCustomFields {
				if s.ByName(name) == nil {
					return eris.Errorf("unknown field %q (see `bizscope fields`)", name)
				}
			}
		}

		opts := scrape.Options{
			Colors:       !scrapeNoColors,
			Logo:         !scrapeNoLogo,
			Fonts:        !scrapeNoFonts,
			CustomFields: scrapeCustomFields,
		}

		report, err := scraper.Scrape(ctx, args[0], scrapeProfile, opts)
		if err != nil {
			return err
		}

		if st != nil {
			data, merr := json.Marshal(report)
			if merr != nil {
				return eris.Wrap(merr, "marshal report")
			}
			id, serr := st.SaveReport(ctx, report.URL, report.Profile, data)
			if serr != nil {
				zap.L().Warn("failed to persist report", zap.Error(serr))
			} else {
				zap.L().Info("report persisted", zap.String("id", id))
			}
		}

		return writeReports(scrapeOutput, []*scrape.Report{report})
	},
}

// writeReports routes reports to stdout (JSON) or to a file whose extension
// picks the format: .json, .csv, or .xlsx.
func writeReports(output string, reports []*scrape.Report) error {
	switch {
	case output == "" || output == "-":
		return export.WriteJSON(os.Stdout, reports)
	case strings.HasSuffix(output, ".json"):
		return export.JSONFile(output, reports)
	case strings.HasSuffix(output, ".csv"):
		return export.CSVFile(output, reports)
	case strings.HasSuffix(output, ".xlsx"):
		return export.XLSXFile(output, reports)
	default:
		return eris.Errorf("unsupported output format: %s (want .json, .csv, or .xlsx)", output)
	}
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeProfile, "profile", "p", "business", "business profile (law_firm, doctor, business, custom)")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "output file (.json/.csv/.xlsx); default stdout")
	scrapeCmd.Flags().StringSliceVar(&scrapeCustomFields, "fields", nil, "field names for the custom profile")
	scrapeCmd.Flags().BoolVar(&scrapeNoColors, "no-colors", false, "skip dominant color extraction")
	scrapeCmd.Flags().BoolVar(&scrapeNoLogo, "no-logo", false, "skip logo extraction")
	scrapeCmd.Flags().BoolVar(&scrapeNoFonts, "no-fonts", false, "skip font identification")
	rootCmd.AddCommand(scrapeCmd)
}
