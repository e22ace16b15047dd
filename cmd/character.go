package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCharacterCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "character",
		Short: "Manage character definitions",
	}

	cmd.AddCommand(
		newCharacterListCmd(app),
	)

	return cmd
}

func newCharacterListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured characters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			characters, err := app.characters.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, ch := range characters {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ch.ID, ch.Name)
			}

			return nil
		},
	}
}
