package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rocket-tycoon/rocketindex/internal/config"
	"github.com/rocket-tycoon/rocketindex/internal/errs"
	"github.com/rocket-tycoon/rocketindex/internal/refresh"
	"github.com/rocket-tycoon/rocketindex/internal/typecache"
)

var (
	flagExtractOutput  string
	flagExtractVerbose bool
)

var extractTypesCmd = &cobra.Command{
	Use:   "extract-types PROJECT",
	Short: "Shell out to the configured external type extractor and merge its output",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtractTypes,
}

func init() {
	extractTypesCmd.Flags().StringVar(&flagExtractOutput, "output", "", "directory to write the extractor's cache.json into")
	extractTypesCmd.Flags().BoolVar(&flagExtractVerbose, "verbose", false, "stream the extractor's stderr")
}

func runExtractTypes(cmd *cobra.Command, args []string) error {
	project, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving project path: %w", err)
	}

	root, err := resolveRoot()
	if err != nil {
		return err
	}
	cfg := loadConfig(root)

	disk, err := openExistingIndex(root)
	if err != nil {
		return err
	}
	defer disk.Close()

	engine := refresh.New(disk, root, cfg.MaxDepth)
	n, err := runExtractTypesInto(engine, project, cfg)
	if err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "Merged types for %d symbols\n", n)
	}
	return emit(map[string]int{"updated": n}, func() {
		fmt.Printf("Updated %d symbol types\n", n)
	})
}

// runExtractTypesInto invokes cfg.ExtractorCommand against project,
// capturing its JSON output to the configured type-cache path, then
// merges it into engine's disk and live indexes. A failed extractor
// invocation is reported as an External error but never fatal to the
// enclosing build.
func runExtractTypesInto(engine *refresh.Engine, project string, cfg *config.Config) (int, error) {
	if len(cfg.ExtractorCommand) == 0 {
		return 0, fmt.Errorf("%w: no extractor_command configured", errs.External)
	}

	outputDir := flagExtractOutput
	if outputDir == "" {
		outputDir = filepath.Dir(cfg.ResolveTypeCachePath(project))
		if outputDir == "." || outputDir == "" {
			outputDir = project
		}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, fmt.Errorf("%w: creating %s: %v", errs.External, outputDir, err)
	}
	outputPath := filepath.Join(outputDir, "cache.json")

	argv := append([]string{}, cfg.ExtractorCommand...)
	argv = append(argv, project, "--output", outputPath)

	ctx := context.Background()
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	c.Stderr = &stderr
	if flagExtractVerbose {
		c.Stderr = os.Stderr
	}
	if err := c.Run(); err != nil {
		return 0, fmt.Errorf("%w: running extractor: %v: %s", errs.External, err, stderr.String())
	}

	cache, err := typecache.Load(outputPath)
	if err != nil {
		return 0, fmt.Errorf("%w: loading extractor output: %v", errs.External, err)
	}

	updated, err := engine.MergeTypeCache(cache)
	if err != nil {
		return updated, fmt.Errorf("merging type cache: %w", err)
	}
	return updated, nil
}

var typeInfoCmd = &cobra.Command{
	Use:   "type-info [SYMBOL]",
	Short: "Interrogate the loaded type cache",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTypeInfo,
}

var flagMembersOf string

func init() {
	typeInfoCmd.Flags().StringVar(&flagMembersOf, "members-of", "", "list members of a type instead of a symbol's own type")
}

func runTypeInfo(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	cfg := loadConfig(root)

	disk, err := openExistingIndex(root)
	if err != nil {
		return err
	}
	defer disk.Close()

	if flagMembersOf != "" {
		members, err := disk.GetMembers(flagMembersOf)
		if err != nil {
			return fmt.Errorf("get members of %s: %w", flagMembersOf, err)
		}
		if len(members) == 0 {
			return newNotFound("no members recorded for type %s", flagMembersOf)
		}
		return emit(members, func() {
			for _, m := range members {
				fmt.Printf("%s.%s : %s (%s)\n", flagMembersOf, m.Member, m.MemberType, m.Kind)
			}
		})
	}

	if len(args) == 0 {
		return fmt.Errorf("requires a SYMBOL argument or --members-of")
	}

	typ, err := disk.GetSymbolType(args[0])
	if err != nil {
		return fmt.Errorf("get type of %s: %w", args[0], err)
	}
	if typ == "" {
		return newNotFound("no recorded type for %s", args[0])
	}

	return emit(map[string]string{"symbol": args[0], "type": typ}, func() {
		fmt.Printf("%s : %s\n", args[0], typ)
	})
}
