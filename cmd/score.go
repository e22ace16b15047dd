package cmd

import (
	"encoding/json"
	"fmt"

	statusadapter "github.com/bnema/persona-cli/internal/adapters/render/status"
	"github.com/bnema/persona-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newScoreCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "score <character-id>",
		Short: "Score a character definition's coherence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := app.characters.GetByID(cmd.Context(), domain.CharacterID(args[0]))
			if err != nil {
				return err
			}

			report := domain.ScoreCoherence(ch)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			rendered, err := app.coherenceRenderer(report, statusadapter.RenderOptions{CharacterName: ch.Name})
			if err != nil {
				return fmt.Errorf("render coherence: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw report as JSON")

	return cmd
}
