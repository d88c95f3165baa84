package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/ayusman/fitassess/internal/app"
	"github.com/ayusman/fitassess/internal/config"
	"github.com/ayusman/fitassess/internal/recording"
	"github.com/ayusman/fitassess/internal/store"
)

func newReplayCmd(cfg *config.Config) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "replay <recording.jsonl>",
		Short: "Score a recorded landmark stream",
		Long: `replay feeds a JSON lines recording made with "run --record" through the
exercise trackers, prints the scores and, with --save, stores them like a
live session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], save)
		},
	}

	cmd.Flags().BoolVar(&save, "save", true, "save results to CSV, history and exporters")
	return cmd
}

func runReplay(ctx context.Context, out io.Writer, cfg *config.Config, path string, save bool) error {
	ctx, cancel := signalContext(ctx)
	defer cancel()

	entries, err := recording.ReadFile(path)
	if err != nil {
		return err
	}

	var st *store.Store
	if save {
		st, err = openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	a, err := newApp(cfg, st, nil)
	if err != nil {
		return err
	}

	bar := pb.StartNew(len(entries))
	err = a.Replay(ctx, entries, time.Now(), func() { bar.Increment() })
	bar.Finish()
	if err != nil {
		return err
	}

	var res app.SaveResult
	if save {
		res = a.Save(ctx)
	}
	report(out, a.Status(), res)
	return nil
}

// report prints one line per exercise and the save destinations.
func report(out io.Writer, st app.Status, res app.SaveResult) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXERCISE\tCOMPONENT\tREPS\tDURATION\tSCORE")
	for _, ex := range st.Exercises {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1fs\t%.1f\n", ex.Name, ex.Component, ex.Reps, ex.Duration, ex.Score)
	}
	tw.Flush()
	fmt.Fprintf(out, "\nOverall score: %.1f/100\n", st.Overall)

	if res.CSV.Message != "" {
		fmt.Fprintln(out, res.CSV.Message)
	}
	if res.SessionID != "" {
		fmt.Fprintf(out, "Session %s saved\n", res.SessionID)
	}
	if res.StoreErr != "" {
		fmt.Fprintf(out, "History not saved: %s\n", res.StoreErr)
	}
	for _, e := range res.Exports {
		if e.OK {
			fmt.Fprintf(out, "Exported with %s\n", e.Plugin)
		} else {
			fmt.Fprintf(out, "Export with %s failed: %s\n", e.Plugin, e.Error)
		}
	}
}
