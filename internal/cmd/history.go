package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nextgenai/nextgen/internal/output"
	"github.com/nextgenai/nextgen/internal/prefs"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved ideas",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved ideas, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := output.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		store, done, err := openPrefsFromConfig(cmd)
		if err != nil {
			return err
		}
		defer done()

		ideas, err := store.ListIdeas(cmd.Context())
		if err != nil {
			return err
		}
		rendered, err := output.FormatIdeas(format, ideas)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved idea",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := output.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		store, done, err := openPrefsFromConfig(cmd)
		if err != nil {
			return err
		}
		defer done()

		idea, err := store.GetIdea(cmd.Context(), strings.TrimSpace(args[0]))
		if errors.Is(err, prefs.ErrIdeaNotFound) {
			return fmt.Errorf("no saved idea with id %q", args[0])
		}
		if err != nil {
			return err
		}
		rendered, err := output.NewFormatter(format).FormatResult(idea.Result)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(rendered, "\n"))
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved ideas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := openPrefsFromConfig(cmd)
		if err != nil {
			return err
		}
		defer done()

		n, err := store.ClearIdeas(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d saved idea(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyClearCmd)

	historyListCmd.Flags().String("format", "table", "Output format: table, json")
	historyShowCmd.Flags().String("format", "markdown", "Output format: markdown, table, json")
}
