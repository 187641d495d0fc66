package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadscout/internal/analyzer"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/pipeline"
	"github.com/sells-group/leadscout/internal/source"
)

var searchFlags struct {
	city     string
	state    string
	country  string
	category string
	count    int
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one lead search from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		query := model.SearchQuery{
			City:      searchFlags.city,
			State:     searchFlags.state,
			Country:   searchFlags.country,
			Category:  searchFlags.category,
			LeadCount: searchFlags.count,
		}
		if err := query.Validate(); err != nil {
			return err
		}

		orch := pipeline.New(
			source.DefaultRegistry(),
			analyzer.New(cfg.Analyzer),
			pipeline.Options{
				Deadline:    cfg.Pipeline.Deadline(),
				RecordDelay: cfg.Pipeline.RecordDelay(),
			},
		)

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "BUSINESS\tSCORE\tSTATUS\tWEBSITE\tISSUES")

		var searchErr error
		for evt := range orch.Run(ctx, query) {
			switch evt.Type {
			case pipeline.EventProgress:
				fmt.Fprintln(os.Stderr, evt.Message)
			case pipeline.EventResult:
				lead := evt.Lead
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\n",
					lead.BusinessName,
					lead.Analysis.Score,
					lead.Analysis.Status,
					lead.Website,
					len(lead.Analysis.Issues),
				)
			case pipeline.EventComplete:
				fmt.Fprintln(os.Stderr, evt.Message)
			case pipeline.EventError:
				searchErr = eris.New(evt.Message)
			}
		}

		if err := tw.Flush(); err != nil {
			return eris.Wrap(err, "search: flush output")
		}
		return searchErr
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchFlags.city, "city", "", "city to search (required)")
	searchCmd.Flags().StringVar(&searchFlags.state, "state", "", "state or region")
	searchCmd.Flags().StringVar(&searchFlags.country, "country", "", "country to search (required)")
	searchCmd.Flags().StringVar(&searchFlags.category, "category", "", "business category (required)")
	searchCmd.Flags().IntVar(&searchFlags.count, "count", 10, "number of leads to return (1-100)")
	_ = searchCmd.MarkFlagRequired("city")
	_ = searchCmd.MarkFlagRequired("country")
	_ = searchCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(searchCmd)
}
