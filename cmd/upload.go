package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docchat/internal/backend"
	"github.com/ziadkadry99/docchat/internal/chat"
	"github.com/ziadkadry99/docchat/internal/picker"
	"github.com/ziadkadry99/docchat/internal/progress"
	"github.com/ziadkadry99/docchat/internal/render"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [pattern...]",
	Short: "Upload PDF documents to the backend",
	Long: `Expands the given paths, directories and glob patterns (** supported),
uploads the files in one request and prints the documents the backend processed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().Bool("json", false, "print the backend response as JSON")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	_, log, client, err := setup(backend.WithProgress(progress.NewReporter()))
	if err != nil {
		return err
	}
	defer log.Sync()
	defer client.Close()

	paths, err := picker.Expand(args)
	if err != nil {
		return err
	}
	listLocalFiles(paths)

	files, closeFiles, err := picker.Open(paths)
	if err != nil {
		return err
	}
	defer closeFiles()

	if jsonOutput {
		resp, err := client.Upload(cmd.Context(), files)
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	term := render.NewTerminal(os.Stdout, false)
	ctrl := chat.NewController(client, term, log)
	return ctrl.HandleUpload(cmd.Context(), files)
}

// listLocalFiles prints what is about to be uploaded to stderr.
func listLocalFiles(paths []string) {
	fmt.Fprintf(os.Stderr, "Uploading %d file(s):\n", len(paths))
	for _, p := range paths {
		info, err := picker.Inspect(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s  (%v)\n", p, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "  %s\n", info)
	}
}
