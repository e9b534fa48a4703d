package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/aditasap/bizscope/internal/store"
)

var (
	reportsProfile string
	reportsURL     string
	reportsLimit   int
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List persisted scrape reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return eris.New("no store configured (set store.driver)")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		records, err := st.ListReports(ctx, store.ReportFilter{
			Profile: reportsProfile,
			URL:     reportsURL,
			Limit:   reportsLimit,
		})
		if err != nil {
			return err
		}

		for _, rec := range records {
			fmt.Printf("%s\t%s\t%s\t%s\n",
				rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"), rec.Profile, rec.URL)
		}
		return nil
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "report <id>",
	Short: "Print one persisted report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return eris.New("no store configured (set store.driver)")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		rec, err := st.GetReport(ctx, args[0])
		if err != nil {
			return err
		}
		if rec == nil {
			return eris.Errorf("report %s not found", args[0])
		}

		var pretty json.RawMessage = rec.Report
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return eris.Wrap(enc.Encode(pretty), "encode report")
	},
}

func init() {
	reportsCmd.Flags().StringVarP(&reportsProfile, "profile", "p", "", "filter by profile")
	reportsCmd.Flags().StringVar(&reportsURL, "url", "", "filter by URL")
	reportsCmd.Flags().IntVarP(&reportsLimit, "limit", "n", 50, "max reports to list")
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(reportShowCmd)
}
