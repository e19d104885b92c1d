package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/marcus/rangepick/internal/dateformat"
	"github.com/marcus/rangepick/internal/db"
	"github.com/marcus/rangepick/internal/models"
	"github.com/marcus/rangepick/internal/output"
	"github.com/marcus/rangepick/internal/selection"
	"github.com/marcus/rangepick/pkg/picker"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently picked ranges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		jsonOutput, _ := cmd.Flags().GetBool("json")

		database, err := db.Open(baseDir)
		if errors.Is(err, db.ErrNoHistory) {
			if jsonOutput {
				return output.JSON([]models.Pick{})
			}
			fmt.Println("No picks recorded yet")
			return nil
		}
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		if clearAll, _ := cmd.Flags().GetBool("clear"); clearAll {
			n, err := database.ClearPicks()
			if err != nil {
				output.Error("failed to clear history: %v", err)
				return err
			}
			output.Success("removed %d picks", n)
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		picks, err := database.ListPicks(limit)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if jsonOutput {
			return output.JSON(picks)
		}
		if len(picks) == 0 {
			fmt.Println("No picks recorded yet")
			return nil
		}
		writeHistoryTable(os.Stdout, picks)
		if limit > 0 && len(picks) == limit {
			total, err := database.CountPicks()
			if err != nil {
				slog.Debug("count picks", "err", err)
			} else if footer := historyFooter(len(picks), total); footer != "" {
				fmt.Println(output.Muted(footer))
			}
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one recorded pick",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if errors.Is(err, db.ErrNoHistory) {
			err = fmt.Errorf("pick not found: %s", args[0])
		}
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		p, err := database.GetPick(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(p)
		}
		writePickDetail(os.Stdout, p)
		return nil
	},
}

// historyFooter notes how much of the history a limited listing left out.
func historyFooter(shown, total int) string {
	if total <= shown {
		return ""
	}
	return fmt.Sprintf("showing %d of %d picks (--limit 0 for all)", shown, total)
}

func writePickDetail(w io.Writer, p *models.Pick) {
	pattern := dateformat.PatternFor(p.DateTime)
	source := output.FormatSource(p.Source)
	if p.Preset != "" {
		source += " " + p.Preset
	}
	fmt.Fprintf(w, "ID:      %s\n", p.ID)
	fmt.Fprintf(w, "Range:   %s\n", picker.FormatRange(selection.Selection{Start: p.Start, End: p.End}, pattern))
	fmt.Fprintf(w, "Start:   %s\n", formatPickTime(p.Start, pattern))
	fmt.Fprintf(w, "End:     %s\n", formatPickTime(p.End, pattern))
	if p.Complete() {
		fmt.Fprintf(w, "Days:    %d\n", p.Days())
	}
	fmt.Fprintf(w, "Source:  %s\n", source)
	fmt.Fprintf(w, "Picked:  %s (%s)\n", p.CreatedAt.Local().Format("2006-01-02 15:04"), output.FormatTimeAgo(p.CreatedAt))
}

func writeHistoryTable(w io.Writer, picks []models.Pick) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Start", "End", "Days", "Source", "Picked"})
	table.SetAutoWrapText(false)
	for _, p := range picks {
		pattern := dateformat.PatternFor(p.DateTime)
		source := output.FormatSource(p.Source)
		if p.Preset != "" {
			source += " " + p.Preset
		}
		table.Append([]string{
			p.ID,
			formatPickTime(p.Start, pattern),
			formatPickTime(p.End, pattern),
			strconv.Itoa(p.Days()),
			source,
			output.FormatTimeAgo(p.CreatedAt),
		})
	}
	table.Render()
}

func formatPickTime(t *time.Time, pattern string) string {
	if t == nil {
		return "-"
	}
	return dateformat.Format(*t, pattern)
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyCmd.Flags().Int("limit", 20, "Maximum number of picks to show (0 for all)")
	historyCmd.Flags().Bool("clear", false, "Delete all recorded picks")
	historyCmd.Flags().Bool("json", false, "JSON output")
	historyShowCmd.Flags().Bool("json", false, "JSON output")
}
