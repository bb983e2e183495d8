package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docchat/internal/backend"
	"github.com/ziadkadry99/docchat/internal/chat"
	"github.com/ziadkadry99/docchat/internal/render"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question about previously uploaded documents",
	Long: `Sends a single question to the backend. Use --doc once per document to
restrict the answer to those documents; without --doc the backend decides.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringArray("doc", nil, "document filename to ask about (repeatable)")
	askCmd.Flags().Bool("json", false, "print the backend response as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	docs, _ := cmd.Flags().GetStringArray("doc")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question is empty")
	}

	_, log, client, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer client.Close()

	resp, err := client.Ask(cmd.Context(), backend.AskRequest{Question: question, Documents: docs})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	render.NewTerminal(os.Stdout, false).RenderMessage(chat.Message{
		Role:    chat.RoleBot,
		Text:    resp.Answer,
		Sources: resp.Sources,
	})
	return nil
}
