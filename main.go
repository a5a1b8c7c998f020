package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"library-lending/library"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config{}
	var channel string

	root := &cobra.Command{
		Use:   "lending",
		Short: "Library lending desk: borrow, extend, reserve and return books",
		Long: "Runs an interactive lending session. Use --channel to pick the kiosk,\n" +
			"the staffed counter or the web front-end.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := cfg.engine(cmd.ErrOrStderr(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return runSession(cmd.Context(), engine, channel, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cfg.bindFlags(root.PersistentFlags())
	root.Flags().StringVar(&channel, "channel", envOr("LENDING_CHANNEL", channelKiosk),
		"front-end to use: kiosk, counter or web")

	root.AddCommand(newSearchCmd(cfg), newFineCmd())
	return root
}

func newSearchCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "search <substring>",
		Short: "List books and periodicals whose title contains the substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := cfg.engine(cmd.ErrOrStderr(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			printSearch(cmd.OutOrStdout(), engine, args[0])
			return nil
		},
	}
}

func newFineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fine <overdue>",
		Short: "Show the fine for a book overdue by the given time (e.g. 9d, 36h, 90m)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overdue, err := parseOverdue(args[0])
			if err != nil {
				return err
			}
			due := time.Now()
			fmt.Fprintf(cmd.OutOrStdout(), "Fine for %s overdue: %d\n", args[0], library.CalculateFine(due, due.Add(overdue)))
			return nil
		},
	}
}

// maxOverdueDays is the longest whole-day span a time.Duration can hold.
const maxOverdueDays = int64(math.MaxInt64 / (24 * time.Hour))

// parseOverdue accepts Go durations plus a whole-day "Nd" form.
func parseOverdue(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseInt(days, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid overdue %q", s)
		}
		if n > maxOverdueDays || n < -maxOverdueDays {
			return 0, fmt.Errorf("overdue %q is out of range (at most %d days)", s, maxOverdueDays)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid overdue %q: %w", s, err)
	}
	return d, nil
}

func printSearch(w io.Writer, engine *library.LendingEngine, query string) {
	books := engine.SearchBook(query)
	periodicals := engine.SearchPeriodical(query)
	if len(books) == 0 && len(periodicals) == 0 {
		fmt.Fprintf(w, "No books or periodicals found matching '%s'.\n", query)
		return
	}

	if len(books) > 0 {
		fmt.Fprintf(w, "Found %d book(s) matching '%s':\n", len(books), query)
		fmt.Fprintf(w, "%-30s %-25s %-6s %-9s %s\n", "Title", "Author", "Year", "Kind", "Status")
		fmt.Fprintln(w, strings.Repeat("-", 90))
		for _, b := range books {
			shown := b
			shown.Title = truncateString(b.Title, 30)
			shown.Author = truncateString(b.Author, 25)
			fmt.Fprintln(w, library.PrettyBook(&shown))
		}
	}
	if len(periodicals) > 0 {
		fmt.Fprintf(w, "Found %d periodical(s) matching '%s':\n", len(periodicals), query)
		for _, p := range periodicals {
			fmt.Fprintln(w, library.PrettyPeriodical(&p))
		}
	}
}

// consoleNotifier prints notifications where the member can see them.
type consoleNotifier struct {
	out io.Writer
}

func (n consoleNotifier) Notify(_ context.Context, msg library.Notification) error {
	_, err := fmt.Fprintf(n.out, "Email notification sent to %s: %s\n", msg.To, msg.Message)
	return err
}

func truncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}
