package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "persona",
		Short:         "persona: companion chat with a simulated world clock",
		Long:          "persona runs companion-chat sessions on a virtual clock: characters go to work, deliveries arrive, and their psychological state drifts with the conversation and the hour of the simulated day.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newCharacterCmd(app),
		newChatCmd(app),
		newScoreCmd(app),
		newStatusCmd(app),
		newSessionCmd(app),
		newWalletCmd(app),
	)

	return rootCmd
}
