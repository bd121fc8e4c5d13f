package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"sjsage522/livehsworker/services/sink"
)

var filter sink.Filter

var rootCmd = &cobra.Command{
	Use:   "schedules",
	Short: "Prints persisted broadcast schedules.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}

		store, err := sink.NewPostgresSink(cmd.Context(), dsn)
		if err != nil {
			return err
		}
		defer store.Close()

		rows, err := store.ListSchedules(cmd.Context(), filter)
		if err != nil {
			return err
		}
		render(cmd.OutOrStdout(), rows)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&filter.Category, "category", "", "only this category label")
	rootCmd.Flags().StringVar(&filter.Channel, "channel", "", "only this channel name")
	rootCmd.Flags().StringVar(&filter.Date, "date", "", "only this YYYYMMDD date")
	rootCmd.Flags().StringVar(&filter.RunID, "run", "", "only this run id")
	rootCmd.Flags().IntVar(&filter.Limit, "limit", 200, "maximum rows, 0 for all")
}

func render(out io.Writer, rows []sink.ScheduleRow) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No data found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Date", "Day", "Time", "Channel", "Type", "Category", "Product", "Link"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Date, r.Day, r.Time, r.Channel, r.ChannelType, r.Category, r.Product, r.ProductLink})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "Total", len(rows)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func main() {
	godotenv.Load()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
