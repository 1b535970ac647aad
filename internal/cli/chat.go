package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kroneus/kroneus-site/internal/chat"
)

var chatRules string

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatRules, "rules", "", "Chat rules file (defaults to chat.rules_path, then the built-in rules)")
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the site assistant a question",
	Long:  "Answers one message, or starts an interactive session when no message is given.",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	path := chatRules
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Chat.RulesPath
	}
	router, err := chat.Load(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) > 0 {
		return answer(out, router, strings.Join(args, " "))
	}
	return chatSession(cmd.InOrStdin(), out, router)
}

func answer(out io.Writer, router *chat.Router, msg string) error {
	reply, err := router.Reply(msg)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, reply.Text)
	if reply.Action == chat.ActionNavigateContact {
		fmt.Fprintln(out, "-> contact form: /#contact")
	}
	return nil
}

func chatSession(in io.Reader, out io.Writer, router *chat.Router) error {
	fmt.Fprintln(out, router.Greeting())
	for _, s := range router.Suggestions() {
		fmt.Fprintf(out, "  * %s\n", s)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := answer(out, router, line); err != nil && !errors.Is(err, chat.ErrEmptyMessage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}
