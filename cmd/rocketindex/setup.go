package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rocket-tycoon/rocketindex/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup [EDITOR]",
	Short: "Scaffold a starter .rocketindex config and an editor LSP client snippet",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSetup,
}

var starterConfig = `exclude: []
max_depth: 64
languages: []
extractor_command: []
`

func runSetup(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	wroteConfig := false
	if !config.Exists(root) {
		path := filepath.Join(root, config.FileName+".yaml")
		if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		wroteConfig = true
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
		}
	}

	snippet := ""
	if len(args) == 1 {
		s, err := editorSnippet(args[0])
		if err != nil {
			return err
		}
		snippet = s
	}

	return emit(map[string]any{"config_written": wroteConfig, "editor_snippet": snippet}, func() {
		if snippet != "" {
			fmt.Println(snippet)
		}
	})
}

func editorSnippet(editor string) (string, error) {
	switch editor {
	case "nvim":
		return `vim.lsp.start({
  name = 'rocketindex',
  cmd = { 'rocketindex', 'lsp' },
  root_dir = vim.fn.getcwd(),
})`, nil
	case "vscode":
		return `{
  "rocketindex.serverPath": "rocketindex",
  "rocketindex.serverArgs": ["lsp"]
}`, nil
	case "helix":
		return `[language-server.rocketindex]
command = "rocketindex"
args = ["lsp"]`, nil
	default:
		return "", fmt.Errorf("unknown editor %q (expected nvim, vscode, or helix)", editor)
	}
}
