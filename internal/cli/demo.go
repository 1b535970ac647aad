package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kroneus/kroneus-site/internal/model"
	"github.com/kroneus/kroneus-site/internal/scenario"
	"github.com/kroneus/kroneus-site/internal/sequencer"
)

var (
	demoCatalog  string
	demoLive     bool
	demoJSON     bool
	demoInterval time.Duration
)

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.AddCommand(demoPlayCmd)
	demoPlayCmd.Flags().StringVar(&demoCatalog, "catalog", "", "Catalog file (defaults to the built-in catalog)")
	demoPlayCmd.Flags().BoolVar(&demoLive, "live", false, "Play in real time instead of printing the whole run")
	demoPlayCmd.Flags().BoolVar(&demoJSON, "json", false, "Output the playthrough as JSON")
	demoPlayCmd.Flags().DurationVar(&demoInterval, "interval", sequencer.DefaultInterval, "Tick interval for --live")
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the layered-defense demo in the terminal",
}

var demoPlayCmd = &cobra.Command{
	Use:   "play <scenario-id>",
	Short: "Play one scenario through the six demo layers",
	Args:  cobra.ExactArgs(1),
	RunE:  runDemoPlay,
}

func runDemoPlay(cmd *cobra.Command, args []string) error {
	c, err := scenario.Load(demoCatalog)
	if err != nil {
		return err
	}
	s, err := c.Get(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if demoLive {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return playLive(ctx, out, s, demoInterval)
	}

	pt := sequencer.Play(s)
	if demoJSON {
		data, err := json.MarshalIndent(pt, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "%s (%s)\n\n", s.Name, s.Industry)
	last := sequencer.Idle
	for _, f := range pt.Frames {
		if f.Cursor != last {
			printFrame(out, f.Cursor, f.Layer)
			last = f.Cursor
		}
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, pt.Panel.Text())
	return nil
}

func printFrame(out io.Writer, cursor int, layer string) {
	fmt.Fprintf(out, "  [%d/%d] %s\n", cursor+1, model.LayerCount, layer)
}

// playLive drives a Player on a real timer and prints each layer as it activates.
func playLive(ctx context.Context, out io.Writer, s model.Scenario, interval time.Duration) error {
	p := sequencer.NewPlayer(interval)
	defer p.Stop()

	updates := p.Subscribe(model.LayerCount + 2)
	p.Select(s)
	if err := p.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (%s)\n\n", s.Name, s.Industry)
	last := sequencer.Idle
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\ninterrupted")
			return nil
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			if snap.Cursor != last && snap.Layer != nil {
				printFrame(out, snap.Cursor, snap.Layer.Name)
				last = snap.Cursor
			}
			if snap.OutcomeShown && snap.Panel != nil {
				fmt.Fprintln(out)
				fmt.Fprint(out, snap.Panel.Text())
				return nil
			}
		}
	}
}
