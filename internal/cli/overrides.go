package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/spoolworks/labelpress/calstore"
)

func newOverridesCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Inspect or clear stored calibration overrides",
	}
	cmd.AddCommand(newOverridesListCmd(cfg), newOverridesRmCmd(cfg))
	return cmd
}

func newOverridesListCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the overrides of every station and stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := calstore.OpenSQLite(cfg.CalibrationDB)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			overrides, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(overrides) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), styleDim.Render("no calibration overrides stored"))
				return nil
			}

			rows := make([][]string, 0, len(overrides))
			for _, o := range overrides {
				rows = append(rows, []string{
					o.StationID,
					o.ProfileID,
					fmt.Sprintf("%.4f", o.ScaleX),
					fmt.Sprintf("%.4f", o.ScaleY),
					fmt.Sprintf("%+.2f mm", o.OffsetXMm),
					fmt.Sprintf("%+.2f mm", o.OffsetYMm),
					o.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Station", "Profile", "Scale X", "Scale Y", "Offset X", "Offset Y", "Updated").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle.Padding(0, 1)
					}
					base := lipgloss.NewStyle().Padding(0, 1)
					if col >= 2 && col <= 5 {
						return base.Foreground(colorYellow)
					}
					if col == 6 {
						return base.Foreground(colorDim)
					}
					return base
				})
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func newOverridesRmCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <station> <profile>",
		Short: "Delete the override of one station and stock",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := calstore.OpenSQLite(cfg.CalibrationDB)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Delete(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render(fmt.Sprintf("%s removed override %s / %s", iconSuccess, args[0], args[1])))
			return nil
		},
	}
}
