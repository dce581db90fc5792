package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nextgenai/nextgen/internal/composer"
	"github.com/nextgenai/nextgen/internal/config"
	"github.com/nextgenai/nextgen/internal/prefs"
	"github.com/nextgenai/nextgen/internal/studio"
)

const chatHelp = `Type a video idea and press enter.
  /tone <tone>          change tone (%s)
  /platform <platform>  change platform (%s)
  /reset                clear the conversation
  /save                 save the last result to history
  /quit                 leave`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive content studio",
	Long:  "Start an interactive session. Each line you type is sent as a theme with the current tone and platform.",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("tone", "t", string(studio.DefaultTone), "Initial tone")
	chatCmd.Flags().StringP("platform", "p", string(studio.DefaultPlatform), "Initial platform")
	chatCmd.Flags().Bool("local", false, "Call the AI gateway in-process instead of the proxy")
}

// chatSession holds the state of one interactive session.
type chatSession struct {
	conv     *composer.Conversation
	tone     studio.Tone
	platform studio.Platform
	out      io.Writer
	cfg      *config.Config

	store      prefs.Store
	closeStore func()
}

func runChat(cmd *cobra.Command, args []string) error {
	toneFlag, _ := cmd.Flags().GetString("tone")
	platformFlag, _ := cmd.Flags().GetString("platform")
	local, _ := cmd.Flags().GetBool("local")

	tone, err := studio.ParseTone(toneFlag)
	if err != nil {
		return err
	}
	platform, err := studio.ParsePlatform(platformFlag)
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

	s := &chatSession{
		conv:     composer.NewConversation(gen, writerNotifier{w: cmd.ErrOrStderr()}),
		tone:     tone,
		platform: platform,
		out:      cmd.OutOrStdout(),
		cfg:      cfg,
	}
	defer s.close()

	s.greet(cmd.Context())
	return s.run(cmd.Context(), cmd.InOrStdin())
}

func (s *chatSession) greet(ctx context.Context) {
	name := "creator"
	if store, err := s.prefs(ctx); err == nil {
		if p, err := store.Load(ctx); err == nil && p.Username != "" {
			name = p.Username
		}
	}
	fmt.Fprintf(s.out, "Hi %s! "+chatHelp+"\n\n", name, joinEnum(studio.Tones), joinEnum(studio.Platforms))
}

func (s *chatSession) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(s.out, "[%s · %s] > ", s.tone, s.platform)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := s.command(ctx, line); quit {
				return nil
			}
			continue
		}

		if _, err := s.conv.Submit(ctx, line, string(s.tone), string(s.platform)); err != nil {
			// The notifier has already reported it.
			if errors.Is(err, context.Canceled) {
				return err
			}
			continue
		}
		msgs := s.conv.Messages()
		fmt.Fprintf(s.out, "\n%s\n", msgs[len(msgs)-1].Content)
	}
}

func (s *chatSession) command(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true
	case "/tone":
		tone, err := studio.ParseTone(arg)
		if err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
			return false
		}
		s.tone = tone
	case "/platform":
		platform, err := studio.ParsePlatform(arg)
		if err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
			return false
		}
		s.platform = platform
	case "/reset":
		s.conv.Reset()
		fmt.Fprintln(s.out, "Conversation cleared.")
	case "/save":
		s.save(ctx)
	case "/help":
		fmt.Fprintf(s.out, chatHelp+"\n", joinEnum(studio.Tones), joinEnum(studio.Platforms))
	default:
		fmt.Fprintf(s.out, "unknown command %s (try /help)\n", name)
	}
	return false
}

func (s *chatSession) save(ctx context.Context) {
	ex, ok := s.conv.Last()
	if !ok {
		fmt.Fprintln(s.out, "Nothing to save yet.")
		return
	}
	store, err := s.prefs(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "open history: %v\n", err)
		return
	}
	idea, err := saveExchange(ctx, store, ex)
	if err != nil {
		fmt.Fprintf(s.out, "save idea: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Saved as %s\n", idea.ID)
}

// prefs opens the store on first use.
func (s *chatSession) prefs(ctx context.Context) (prefs.Store, error) {
	if s.store != nil {
		return s.store, nil
	}
	store, closeStore, err := openPrefs(ctx, s.cfg)
	if err != nil {
		return nil, err
	}
	s.store, s.closeStore = store, closeStore
	return store, nil
}

func (s *chatSession) close() {
	if s.closeStore != nil {
		s.closeStore()
	}
}
