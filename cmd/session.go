package cmd

import (
	"fmt"
	"time"

	"github.com/bnema/persona-cli/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage persisted sessions",
	}

	cmd.AddCommand(
		newSessionRestartCmd(app),
		newSessionCheckpointCmd(app),
		newSessionDeliveryCmd(app),
	)

	return cmd
}

func newSessionRestartCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restart <character-id>",
		Short: "Reset a session to its scenario start",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := app.characters.GetByID(cmd.Context(), domain.CharacterID(args[0]))
			if err != nil {
				return err
			}

			session, err := app.snapshots.OpenSession(cmd.Context(), ch)
			if err != nil {
				return err
			}

			if err := app.sim.Restart(cmd.Context(), ch, session, app.now()); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "session restarted at %s\n",
				session.Clock.Now().Time().Format(time.RFC3339))
			return err
		},
	}
}

func newSessionCheckpointCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkpoint <character-id>",
		Short: "Archive a manual checkpoint of the session",
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

			id, err := app.snapshots.Checkpoint(cmd.Context(), session, false)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "checkpoint %s\n", id)
			return err
		},
	}
}

func newSessionDeliveryCmd(app *app) *cobra.Command {
	var (
		item    string
		minutes int
	)

	cmd := &cobra.Command{
		Use:   "deliver <character-id>",
		Short: "Queue a delivery due after a virtual delay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := app.characters.GetByID(cmd.Context(), domain.CharacterID(args[0]))
			if err != nil {
				return err
			}

			session, err := app.snapshots.OpenSession(cmd.Context(), ch)
			if err != nil {
				return err
			}

			delivery := domain.Delivery{
				ID:          uuid.NewString(),
				ItemName:    item,
				ArrivalTime: session.Clock.Now().Add(time.Duration(minutes) * time.Minute),
			}
			if err := app.sim.QueueDelivery(cmd.Context(), session, delivery); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "delivery %q due at %s\n",
				item, delivery.ArrivalTime.Time().Format("15:04"))
			return err
		},
	}

	cmd.Flags().StringVar(&item, "item", "package", "item name")
	cmd.Flags().IntVar(&minutes, "minutes", 10, "virtual minutes until arrival")

	return cmd
}
