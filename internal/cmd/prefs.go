package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nextgenai/nextgen/internal/output"
	"github.com/nextgenai/nextgen/internal/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change local preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show stored preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, done, err := openPrefsFromConfig(cmd)
		if err != nil {
			return err
		}
		defer done()

		p, err := store.Load(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), output.PreferencesTable(p))
		return nil
	},
}

var prefsUsernameCmd = &cobra.Command{
	Use:   "username <name>",
	Short: "Set the display name (empty string clears it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updatePrefs(cmd, func(p *prefs.Preferences) error {
			p.Username = strings.TrimSpace(args[0])
			return nil
		})
	},
}

var prefsConsentCmd = &cobra.Command{
	Use:       "consent accept|decline",
	Short:     "Record the cookie-consent choice",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"accept", "decline"},
	RunE: func(cmd *cobra.Command, args []string) error {
		consent, err := prefs.ParseConsent(args[0])
		if err != nil {
			return err
		}
		return updatePrefs(cmd, func(p *prefs.Preferences) error {
			p.CookieConsent = consent
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsShowCmd, prefsUsernameCmd, prefsConsentCmd)
}

func openPrefsFromConfig(cmd *cobra.Command) (prefs.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return openPrefs(cmd.Context(), cfg)
}

// updatePrefs loads, edits and saves preferences, then prints them.
func updatePrefs(cmd *cobra.Command, edit func(*prefs.Preferences) error) error {
	store, done, err := openPrefsFromConfig(cmd)
	if err != nil {
		return err
	}
	defer done()

	p, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := edit(&p); err != nil {
		return err
	}
	if err := store.Save(cmd.Context(), p); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), output.PreferencesTable(p))
	return nil
}
