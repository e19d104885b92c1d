package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/marcus/rangepick/internal/config"
	"github.com/marcus/rangepick/internal/models"
	"github.com/marcus/rangepick/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or edit .rangepick/config.json interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		cfg, err := config.Load(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		form, apply := configForm(cfg)
		if err := form.Run(); err != nil {
			output.Error("%v", err)
			return err
		}
		apply()
		if err := config.Validate(cfg); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := config.Save(baseDir, cfg); err != nil {
			output.Error("failed to save config: %v", err)
			return err
		}

		output.Success("wrote %s", config.Path(baseDir))
		return nil
	},
}

// configForm builds the settings form. Most answers land in cfg directly;
// apply copies the rest once the form is done.
func configForm(cfg *models.Config) (form *huh.Form, apply func()) {
	if cfg.ColorScheme == "" {
		cfg.ColorScheme = models.DefaultColorScheme
	}
	if cfg.WeekStart == "" {
		cfg.WeekStart = "sunday"
	}
	history := !cfg.DisableHistory

	pageOptions := []huh.Option[int]{huh.NewOption("Automatic", 0)}
	for n := 1; n <= 3; n++ {
		pageOptions = append(pageOptions, huh.NewOption(strconv.Itoa(n), n))
	}

	schemes := make([]huh.Option[string], 0, len(models.ColorSchemes))
	for _, s := range models.ColorSchemes {
		schemes = append(schemes, huh.NewOption(s, s))
	}

	limit := strconv.Itoa(cfg.EffectiveHistoryLimit())

	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Months shown side by side").
				Description("Automatic shows two for dates and one for date-times").
				Options(pageOptions...).
				Value(&cfg.Pages),
			huh.NewSelect[string]().
				Title("First day of the week").
				Options(
					huh.NewOption("Sunday", "sunday"),
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Saturday", "saturday"),
				).
				Value(&cfg.WeekStart),
			huh.NewSelect[string]().
				Title("Color scheme").
				Options(schemes...).
				Value(&cfg.ColorScheme),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Pick times as well as days by default?").
				Value(&cfg.DateTime),
			huh.NewConfirm().
				Title("Accept relative input such as today or +7d?").
				Value(&cfg.RelativeInput),
			huh.NewConfirm().
				Title("Record picked ranges in history?").
				Value(&history),
			huh.NewInput().
				Title("History size").
				Value(&limit).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(s); err != nil || n < 1 {
						return fmt.Errorf("enter a positive number")
					}
					return nil
				}),
		),
	).WithShowHelp(true)

	apply = func() {
		cfg.DisableHistory = !history
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			cfg.HistoryLimit = n
		}
	}
	return form, apply
}

func init() {
	rootCmd.AddCommand(initCmd)
}
