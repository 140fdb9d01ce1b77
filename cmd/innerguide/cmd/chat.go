package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/innerguide/internal/app/companion"
	"github.com/PabloGalante/innerguide/internal/config"
	"github.com/PabloGalante/innerguide/internal/domain"
	"github.com/PabloGalante/innerguide/internal/observability"
)

var chatUser string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the companion in the terminal",
	Long: `Starts an interactive conversation. History is kept per user in the
configured storage backend and in the local store.

Commands:
  /personality <id>   switch personality
  /clear              delete the conversation
  /quit               leave`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatUser, "user", "", "user id (defaults to INNERGUIDE_DEV_USER)")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	observability.Init(os.Stderr, "error")

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	userID := domain.UserID(cfg.DevUserID)
	if chatUser != "" {
		userID = domain.UserID(chatUser)
	}
	c := a.companions.Get(ctx, userID)
	out := cmd.OutOrStdout()

	snap := c.Conversation.Snapshot()
	fmt.Fprintf(out, "%s %s. Type /quit to leave.\n", color.CyanString("Talking to"), snap.Personality.Name)
	for _, m := range snap.Messages {
		printMessage(out, m)
	}

	crisisShown := false
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, color.HiBlackString("> "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/clear":
			c.Conversation.Clear(ctx)
			fmt.Fprintln(out, color.YellowString("conversation cleared"))
			continue
		case strings.HasPrefix(line, "/personality"):
			p := c.Conversation.ChangePersonality(strings.TrimSpace(strings.TrimPrefix(line, "/personality")))
			fmt.Fprintf(out, "%s %s\n", color.CyanString("Now talking to"), p.Name)
			continue
		}

		res, err := c.Conversation.SendMessage(ctx, line)
		if err != nil {
			fmt.Fprintln(out, color.RedString("error: %v", err))
			continue
		}
		printMessage(out, res.Assistant)

		if c.Conversation.CrisisDetected() && !crisisShown {
			crisisShown = true
			printSupport(out, a, c)
		}
	}
}

func printMessage(w io.Writer, m *domain.Message) {
	if m.Role == domain.RoleUser {
		fmt.Fprintf(w, "%s %s\n", color.BlueString("you:"), m.Content)
		return
	}
	fmt.Fprintf(w, "%s %s\n", color.GreenString("guide:"), m.Content)
}

func printSupport(w io.Writer, a *app, c *companion.Companion) {
	fmt.Fprintln(w, color.RedString("You don't have to go through this alone."))
	for _, n := range a.feed.List(c.UserID) {
		fmt.Fprintf(w, "  %s %s\n", color.YellowString(n.Title+":"), n.Message)
	}
	fmt.Fprintf(w, "  Emergency: %s\n", a.helplines.Emergency().General)
	for _, h := range a.helplines.ByType(domain.HelplineCrisis) {
		fmt.Fprintf(w, "  %s %s %s\n", color.CyanString(h.Name), h.Phone, color.HiBlackString(h.Hours))
	}
}
