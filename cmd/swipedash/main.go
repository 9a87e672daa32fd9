// Command swipedash is a touch-driven dashboard. Horizontal swipes switch between panels, and pulling the
// notification list down refreshes it.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"honnef.co/go/swipedash/gesture"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "swipedash:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "swipedash",
		Short: "A touch-driven dashboard",
		Long: `swipedash shows metrics, notifications and recent activity on three panels.
Swipe left or right to switch panels, pull the notification list down to refresh it.`,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.Bool("debug", false, "enable debug logging")
	pf.Float32("min-swipe-distance", gesture.DefaultMinSwipeDistance, "distance in pixels a swipe has to exceed")
	pf.Float32("pull-threshold", gesture.DefaultPullThreshold, "distance in pixels a pull has to exceed to refresh")
	pf.Bool("prevent-scroll", true, "stop lists from scrolling during horizontal swipes")
	pf.Bool("mouse", true, "recognize gestures made with the primary mouse button")
	pf.Duration("refresh-latency", 1200*time.Millisecond, "simulated backend latency")
	pf.Float64("failure-rate", 0.1, "probability of a simulated refresh failing")

	run := newRunCmd()
	root.AddCommand(run, newReplayCmd())
	// Running the dashboard is the default.
	root.Flags().String("record", "", "record pointer input to `file`")
	root.Args = cobra.NoArgs
	root.RunE = run.RunE
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runApp(cfg, newLogger(os.Stderr, cfg.Debug))
		},
	}
	cmd.Flags().String("record", "", "record pointer input to `file`")
	return cmd
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay file",
		Short: "Play a recorded touch log back through the gesture recognizers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			log := newLogger(os.Stderr, cfg.Debug)

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			stats, err := replay(f, cfg, log)
			if err != nil {
				return fmt.Errorf("replay %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}
