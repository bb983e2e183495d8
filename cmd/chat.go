package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/backend"
	"github.com/ziadkadry99/docchat/internal/chat"
	"github.com/ziadkadry99/docchat/internal/picker"
	"github.com/ziadkadry99/docchat/internal/progress"
	"github.com/ziadkadry99/docchat/internal/render"
)

const chatHelp = `Commands:
  /upload <pattern>...  upload PDFs (replaces the document list)
  /docs                 show the document list
  /toggle <name>        select or deselect one document
  /select               pick documents interactively
  /help                 show this help
  /quit                 exit
Anything else is asked as a question about the selected documents.`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Upload documents and ask questions interactively",
	Long: `Starts an interactive session. Upload PDFs with /upload, then type questions.
Questions are answered concurrently; answers print as they arrive.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Bool("no-color", false, "disable colored output")
	rootCmd.AddCommand(chatCmd)
}

// chatSession is one interactive terminal session.
type chatSession struct {
	ctrl     *chat.Controller
	term     *render.Terminal
	log      *zap.Logger
	inflight sync.WaitGroup
}

func runChat(cmd *cobra.Command, args []string) error {
	noColor, _ := cmd.Flags().GetBool("no-color")

	_, log, client, err := setup(backend.WithProgress(progress.NewReporter()))
	if err != nil {
		return err
	}
	defer log.Sync()
	defer client.Close()

	term := render.NewTerminal(os.Stdout, noColor)
	s := &chatSession{ctrl: chat.NewController(client, term, log), term: term, log: log}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	color.New(color.Bold).Printf("docchat %s\n", Version)
	fmt.Printf("Backend: %s. Type /help for commands.\n\n", client.BaseURL())

	prompt := promptui.Prompt{Label: ">"}
	for {
		line, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}
		if quit := s.handleLine(ctx, line); quit {
			break
		}
	}

	s.inflight.Wait()
	return nil
}

// handleLine runs one line of input. It reports whether the session should
// end.
func (s *chatSession) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		s.ask(ctx, line)
		return false
	}

	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch command {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Println(chatHelp)
	case "/docs":
		s.term.RenderDocuments(s.ctrl.Documents())
	case "/upload":
		s.upload(ctx, strings.Fields(rest))
	case "/toggle":
		if rest == "" {
			fmt.Println("Usage: /toggle <name>")
			break
		}
		if err := s.ctrl.Toggle(rest); err != nil {
			fmt.Println(err)
		}
	case "/select":
		if err := s.pick(); err != nil {
			fmt.Println(err)
		}
	default:
		fmt.Printf("Unknown command %s. Type /help for commands.\n", command)
	}
	return false
}

// ask dispatches a question as an independent task.
func (s *chatSession) ask(ctx context.Context, question string) {
	s.log.Debug("question dispatched", zap.Int("chars", len(question)))
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		// Failures are already shown as bot messages and logged.
		_, _ = s.ctrl.HandleAsk(ctx, question)
	}()
}

func (s *chatSession) upload(ctx context.Context, patterns []string) {
	if len(patterns) == 0 {
		fmt.Println("Usage: /upload <pattern>...")
		return
	}

	paths, err := picker.Expand(patterns)
	if err != nil {
		fmt.Println(err)
		return
	}
	listLocalFiles(paths)

	files, closeFiles, err := picker.Open(paths)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer closeFiles()

	_ = s.ctrl.HandleUpload(ctx, files)
}

// pick shows the document list in a selector; choosing a row toggles it
// until Done is chosen.
func (s *chatSession) pick() error {
	const done = "Done"
	cursor := 0
	for {
		docs := s.ctrl.Documents()
		if len(docs) == 0 {
			fmt.Println("No documents uploaded yet.")
			return nil
		}

		items := make([]string, 0, len(docs)+1)
		for _, d := range docs {
			mark := "[ ]"
			if d.Selected {
				mark = "[x]"
			}
			items = append(items, mark+" "+d.Filename)
		}
		items = append(items, done)

		sel := promptui.Select{
			Label:     "Toggle documents",
			Items:     items,
			Size:      10,
			CursorPos: cursor,
		}
		i, _, err := sel.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) {
				return nil
			}
			return err
		}
		if i == len(docs) {
			return nil
		}
		if err := s.ctrl.Toggle(docs[i].Filename); err != nil {
			return err
		}
		cursor = i
	}
}
