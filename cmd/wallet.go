package cmd

import (
	"fmt"

	"github.com/bnema/persona-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newWalletCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Inspect character wallets",
	}

	cmd.AddCommand(
		newWalletBalanceCmd(app),
	)

	return cmd
}

func newWalletBalanceCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <character-id>",
		Short: "Show a character's balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := app.wallet.Balance(cmd.Context(), domain.CharacterID(args[0]))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d\n", balance)
			return err
		},
	}
}
