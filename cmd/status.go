package cmd

import (
	"encoding/json"
	"fmt"

	statusadapter "github.com/bnema/persona-cli/internal/adapters/render/status"
	"github.com/bnema/persona-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status <character-id>",
		Short: "Show a character's derived state from the persisted session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := app.characters.GetByID(cmd.Context(), domain.CharacterID(args[0]))
			if err != nil {
				return err
			}

			session, err := app.snapshots.LoadSession(cmd.Context(), string(ch.ID))
			if err != nil {
				return err
			}

			profile := domain.ComputeProfile(ch, session.Messages, session.Clock.Now())

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(profile)
			}

			rendered, err := app.profileRenderer(profile, statusadapter.RenderOptions{
				CharacterName: ch.Name,
				VirtualTime:   session.Clock.Now(),
				Working:       session.IsWorking(),
			})
			if err != nil {
				return fmt.Errorf("render profile: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw profile as JSON")

	return cmd
}
