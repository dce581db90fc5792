package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nextgenai/nextgen/internal/composer"
	"github.com/nextgenai/nextgen/internal/output"
	"github.com/nextgenai/nextgen/internal/studio"
)

var generateCmd = &cobra.Command{
	Use:   "generate <theme>",
	Short: "Generate a content package for a video idea",
	Long: `Generate a script, title, description, tags, hashtags and thumbnail idea
for a theme. The request goes to the proxy at client.base_url unless --local
is set, in which case the gateway is called directly with this machine's key.`,
	Example: `  nextgen generate "Minecraft funny short" --tone funny --platform Shorts
  nextgen generate "morning routine" --platform Blog --save`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("tone", "t", string(studio.DefaultTone), "Tone: "+joinEnum(studio.Tones))
	generateCmd.Flags().StringP("platform", "p", string(studio.DefaultPlatform), "Platform: "+joinEnum(studio.Platforms))
	generateCmd.Flags().String("format", "markdown", "Output format: markdown, table, json")
	generateCmd.Flags().Bool("json", false, "Output the raw JSON result (same as --format json)")
	generateCmd.Flags().Bool("save", false, "Save the result to local history")
	generateCmd.Flags().Bool("local", false, "Call the AI gateway in-process instead of the proxy")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	theme := strings.TrimSpace(strings.Join(args, " "))
	tone, _ := cmd.Flags().GetString("tone")
	platform, _ := cmd.Flags().GetString("platform")
	formatFlag, _ := cmd.Flags().GetString("format")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetBool("save")
	local, _ := cmd.Flags().GetBool("local")

	if jsonOutput {
		formatFlag = string(output.FormatJSON)
	}
	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg, local)
	if err != nil {
		return err
	}

	conv := composer.NewConversation(gen, writerNotifier{w: cmd.ErrOrStderr()})
	result, err := conv.Submit(cmd.Context(), theme, tone, platform)
	if err != nil {
		return err
	}

	rendered, err := output.NewFormatter(format).FormatResult(*result)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(rendered, "\n"))

	if !save {
		return nil
	}
	ex, _ := conv.Last()
	store, closeStore, err := openPrefs(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer closeStore()
	idea, err := saveExchange(cmd.Context(), store, ex)
	if err != nil {
		return fmt.Errorf("save idea: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved as %s\n", idea.ID)
	return nil
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
