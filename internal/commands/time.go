package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/balkashynov/studyclock/internal/chronometer"
	"github.com/balkashynov/studyclock/internal/timeacct"
	"github.com/balkashynov/studyclock/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [subject]",
	Short: "Start studying a subject",
	Long: `Start (or pick up) a study session for a subject. Opens the interactive timer
by default, use --no-ui for a headless timer that prints the elapsed time.

An open session on the server is always recovered as running. Leaving the
timer keeps the session open; end it with 'studyclock stop'.

Examples:
  studyclock start "Linear Algebra"
  studyclock start "Linear Algebra" --no-ui --notes "chapter 4"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		subject, err := resolveSubject(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		notes, _ := cmd.Flags().GetString("notes")
		noUI, _ := cmd.Flags().GetBool("no-ui")
		out := cmd.OutOrStdout()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if !noUI {
			chrono := newRegistry(client, chronometer.Hooks{}).For(subject.ID)
			return tui.RunTimerTUI(ctx, chrono, *subject, notes)
		}

		// Headless: print every time update on one line
		chrono := newRegistry(client, chronometer.Hooks{
			SessionStarted: func(sessionID, subjectID string) {
				fmt.Fprintf(out, "⏱️  Started session %s for %s\n", sessionID, subject.Name)
			},
			TimeUpdated: func(elapsed int64) {
				fmt.Fprintf(out, "\r%s studying %s ", timeacct.FormatDuration(elapsed), subject.Name)
			},
		}).For(subject.ID)

		if err := recoverOrStart(cmd.Context(), out, chrono, notes); err != nil {
			return err
		}

		chrono.Run(ctx, time.Second)
		fmt.Fprintf(out, "\n💡 Session for %s is still open. Use 'studyclock stop %s' to end it.\n", subject.Name, args[0])
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop [subject]",
	Short: "End the open session of a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		subject, err := resolveSubject(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		notes, _ := cmd.Flags().GetString("notes")
		out := cmd.OutOrStdout()

		chrono := newRegistry(client, chronometer.Hooks{}).For(subject.ID)
		adopted, err := chrono.Recover(cmd.Context())
		if err != nil {
			return err
		}
		if !adopted {
			fmt.Fprintf(out, "No open session for %s\n", subject.Name)
			return nil
		}

		summary, err := chrono.Stop(cmd.Context(), notes)
		if err != nil {
			return fmt.Errorf("%w (run 'studyclock stop %s' again to retry)", err, args[0])
		}
		fmt.Fprintf(out, "⏹️  Ended session for %s\n", subject.Name)
		fmt.Fprintf(out, "Studied: %s  Break: %s\n",
			timeacct.FormatDuration(summary.StudySeconds),
			timeacct.FormatDuration(int64(summary.Session.BreakDurationSeconds)))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [subject]",
	Short: "Show the open session of a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		subject, err := resolveSubject(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		chrono := newRegistry(client, chronometer.Hooks{}).For(subject.ID)
		adopted, err := chrono.Recover(cmd.Context())
		if err != nil {
			return err
		}
		if !adopted {
			fmt.Fprintf(out, "No open session for %s\n", subject.Name)
			return nil
		}

		snap := chrono.Snapshot(time.Now())
		fmt.Fprintf(out, "⏱️  Studying %s (session %s)\n", subject.Name, snap.SessionID)
		fmt.Fprintf(out, "Started at: %s\n", snap.SessionStart.Local().Format("15:04:05"))
		fmt.Fprintf(out, "Elapsed: %s  Break: %s\n",
			timeacct.FormatDuration(snap.ElapsedSeconds),
			timeacct.FormatDuration(snap.BreakSeconds))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List ended sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			return fmt.Errorf("--days must be positive")
		}
		to := time.Now()
		from := to.AddDate(0, 0, -days)

		sessions, err := newClient().ListSessions(cmd.Context(), from, to)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintf(out, "No sessions in the last %d days\n", days)
			return nil
		}

		fmt.Fprintf(out, "%-17s %-24s %-9s %-9s %s\n", "STARTED", "SUBJECT", "STUDY", "BREAK", "NOTES")
		fmt.Fprintln(out, strings.Repeat("-", 80))
		for _, s := range sessions {
			name := s.SubjectID
			if s.Subject != nil {
				name = s.Subject.Name
			}
			name = runewidth.FillRight(runewidth.Truncate(name, 22, "..."), 24)
			var study int64
			if s.EndTime != nil {
				study = int64(s.EndTime.Sub(s.StartTime)/time.Second) - int64(s.BreakDurationSeconds)
			}
			fmt.Fprintf(out, "%-17s %s %-9s %-9s %s\n",
				s.StartTime.Local().Format("Jan 02 15:04"),
				name,
				timeacct.FormatDuration(study),
				timeacct.FormatDuration(int64(s.BreakDurationSeconds)),
				s.Notes)
		}
		return nil
	},
}

// recoverOrStart adopts an open session or starts a new one
func recoverOrStart(ctx context.Context, out io.Writer, chrono *chronometer.Chronometer, notes string) error {
	adopted, err := chrono.Recover(ctx)
	if err != nil && !chronometer.IsKind(err, chronometer.RecoveryFailed) {
		return err
	}
	if err != nil {
		fmt.Fprintln(out, "⚠️  Could not check for an open session, starting a new one")
	}
	if adopted {
		fmt.Fprintln(out, "↩️  Picked up the open session")
		return nil
	}

	if err := chrono.Start(ctx, notes); err != nil {
		return fmt.Errorf("%w (run start again to retry)", err)
	}
	return nil
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "Run the timer without the interactive UI")
	startCmd.Flags().String("notes", "", "Notes for the session")
	stopCmd.Flags().String("notes", "", "Closing notes for the session")
	historyCmd.Flags().Int("days", 7, "How many days back to list")
}
