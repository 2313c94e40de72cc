package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rocket-tycoon/rocketindex/internal/diskindex"
	"github.com/rocket-tycoon/rocketindex/internal/gitutil"
	"github.com/rocket-tycoon/rocketindex/internal/liveindex"
	"github.com/rocket-tycoon/rocketindex/internal/resolve"
	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

var (
	flagContext bool
	flagGit     bool
)

var defCmd = &cobra.Command{
	Use:   "def SYMBOL",
	Short: "Goto-definition for a qualified or bare symbol name",
	Args:  cobra.ExactArgs(1),
	RunE:  runDef,
}

func init() {
	defCmd.Flags().BoolVar(&flagContext, "context", false, "include the source line")
	defCmd.Flags().BoolVar(&flagGit, "git", false, "include git blame provenance for the definition line")
}

// cliLocation is the CLI's rendering of a symbol definition: one
// resolved hit plus the optional source line and blame info the
// `def`/`refs` flags request.
type cliLocation struct {
	Name      string `json:"name"`
	Qualified string `json:"qualified"`
	Kind      string `json:"kind"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Context   string `json:"context,omitempty"`
	Author    string `json:"blame_author,omitempty"`
	Commit    string `json:"blame_commit,omitempty"`
}

func runDef(cmd *cobra.Command, args []string) error {
	root, disk, live, solver, err := openForResolution()
	if err != nil {
		return err
	}
	defer disk.Close()

	sym := solver.Resolve(args[0], "")
	if sym == nil {
		if suggestions := solver.Suggest(args[0], 0, 0); len(suggestions) > 0 {
			return newNotFound("symbol %q not found; did you mean %s?", args[0], suggestions[0].Name)
		}
		return newNotFound("symbol %q not found", args[0])
	}

	loc := live.MakeLocationAbsolute(sym.Location)
	result := cliLocation{Name: sym.Name, Qualified: sym.Qualified, Kind: sym.Kind.String(), File: loc.File, Line: loc.Line, Column: loc.Column}

	if flagContext {
		result.Context = sourceLine(loc.File, loc.Line)
	}
	if flagGit {
		annotateBlame(root, &result)
	}

	return emit(result, func() {
		printCLILocation(result)
	})
}

var refsCmd = &cobra.Command{
	Use:   "refs",
	Short: "Uses of a symbol, or references within a file",
	RunE:  runRefs,
}

var (
	flagRefsSymbol string
	flagRefsFile   string
)

func init() {
	refsCmd.Flags().StringVar(&flagRefsSymbol, "symbol", "", "find references to this qualified symbol")
	refsCmd.Flags().StringVar(&flagRefsFile, "file", "", "list references made within this file")
	refsCmd.Flags().BoolVar(&flagContext, "context", false, "include the source line per reference")
}

func runRefs(cmd *cobra.Command, args []string) error {
	_, disk, live, solver, err := openForResolution()
	if err != nil {
		return err
	}
	defer disk.Close()

	var refs []schema.Reference
	switch {
	case flagRefsSymbol != "":
		sym := solver.Resolve(flagRefsSymbol, "")
		if sym == nil {
			return newNotFound("symbol %q not found", flagRefsSymbol)
		}
		refs = live.FindReferences(sym.Qualified)
	case flagRefsFile != "":
		refs = live.ReferencesInFile(flagRefsFile)
	default:
		return fmt.Errorf("requires --symbol or --file")
	}

	if len(refs) == 0 {
		return newNotFound("no references found")
	}

	results := make([]cliLocation, 0, len(refs))
	for _, ref := range refs {
		loc := live.MakeLocationAbsolute(ref.Location)
		r := cliLocation{Name: ref.Name, File: loc.File, Line: loc.Line, Column: loc.Column}
		if flagContext {
			r.Context = sourceLine(loc.File, loc.Line)
		}
		results = append(results, r)
	}

	return emit(results, func() {
		for _, r := range results {
			printCLILocation(r)
		}
	})
}

var (
	flagSpiderDepth   int
	flagSpiderReverse bool
)

var spiderCmd = &cobra.Command{
	Use:   "spider SYMBOL",
	Short: "Forward or reverse breadth-first call-graph traversal",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpider,
}

func init() {
	spiderCmd.Flags().IntVar(&flagSpiderDepth, "depth", 2, "traversal depth")
	spiderCmd.Flags().BoolVar(&flagSpiderReverse, "reverse", false, "walk callers instead of callees")
}

func runSpider(cmd *cobra.Command, args []string) error {
	_, disk, _, solver, err := openForResolution()
	if err != nil {
		return err
	}
	defer disk.Close()

	var result resolve.SpiderResult
	if flagSpiderReverse {
		result = solver.ReverseSpider(args[0], flagSpiderDepth)
	} else {
		result = solver.Spider(args[0], flagSpiderDepth)
	}

	if len(result.Nodes) == 0 {
		return newNotFound("no traversal results for %q", args[0])
	}

	return emit(result, func() {
		for _, n := range result.Nodes {
			fmt.Printf("%*s%s (%s) %s:%d\n", n.Depth*2, "", n.Symbol.Qualified, n.Symbol.Kind, n.Symbol.Location.File, n.Symbol.Location.Line)
		}
		for _, u := range result.Unresolved {
			fmt.Printf("  ? %s (unresolved)\n", u)
		}
	})
}

var callersCmd = &cobra.Command{
	Use:   "callers SYMBOL",
	Short: "Direct callers of a symbol (spider --reverse --depth 1)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, disk, _, solver, err := openForResolution()
		if err != nil {
			return err
		}
		defer disk.Close()

		result := solver.Callers(args[0])
		if len(result.Nodes) == 0 {
			return newNotFound("no callers found for %q", args[0])
		}
		return emit(result, func() {
			for _, n := range result.Nodes {
				fmt.Printf("%s (%s) %s:%d\n", n.Symbol.Qualified, n.Symbol.Kind, n.Symbol.Location.File, n.Symbol.Location.Line)
			}
		})
	},
}

var subclassesCmd = &cobra.Command{
	Use:   "subclasses PARENT",
	Short: "Types that implement or extend a parent type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, disk, _, solver, err := openForResolution()
		if err != nil {
			return err
		}
		defer disk.Close()

		syms, err := solver.Subclasses(args[0])
		if err != nil {
			return fmt.Errorf("subclasses of %s: %w", args[0], err)
		}
		if len(syms) == 0 {
			return newNotFound("no subclasses found for %q", args[0])
		}
		return emit(syms, func() {
			for _, s := range syms {
				fmt.Printf("%s (%s) %s:%d\n", s.Qualified, s.Kind, s.Location.File, s.Location.Line)
			}
		})
	},
}

var (
	flagSymbolsLanguage string
	flagSymbolsFuzzy    bool
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols PATTERN",
	Short: "Search symbols by name",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func init() {
	symbolsCmd.Flags().StringVar(&flagSymbolsLanguage, "language", "", "restrict to a single language")
	symbolsCmd.Flags().BoolVar(&flagSymbolsFuzzy, "fuzzy", false, "edit-distance search instead of glob/prefix match")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}
	disk, err := openExistingIndex(root)
	if err != nil {
		return err
	}
	defer disk.Close()

	if flagSymbolsFuzzy {
		scored, err := disk.FuzzySearch(args[0], 3, 20, flagSymbolsLanguage)
		if err != nil {
			return fmt.Errorf("fuzzy search: %w", err)
		}
		if len(scored) == 0 {
			return newNotFound("no symbols matched %q", args[0])
		}
		return emit(scored, func() {
			for _, s := range scored {
				fmt.Printf("%s (%s) dist=%d %s:%d\n", s.Symbol.Qualified, s.Symbol.Kind, s.Distance, s.Symbol.Location.File, s.Symbol.Location.Line)
			}
		})
	}

	syms, err := disk.SearchFTS(args[0], 50, flagSymbolsLanguage)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if len(syms) == 0 {
		return newNotFound("no symbols matched %q", args[0])
	}
	return emit(syms, func() {
		for _, s := range syms {
			fmt.Printf("%s (%s) %s:%d\n", s.Qualified, s.Kind, s.Location.File, s.Location.Line)
		}
	})
}

// openForResolution opens the disk index, rebuilds a live index over it,
// and wraps both in a resolver — the shared setup for every resolution
// subcommand (def/refs/spider/callers/subclasses).
func openForResolution() (root string, disk *diskindex.Index, live *liveindex.Index, solver *resolve.Resolver, err error) {
	root, err = resolveRoot()
	if err != nil {
		return "", nil, nil, nil, err
	}

	d, err := openExistingIndex(root)
	if err != nil {
		return "", nil, nil, nil, err
	}

	l, err := loadLive(d, root)
	if err != nil {
		d.Close()
		return "", nil, nil, nil, err
	}

	return root, d, l, resolve.New(l, d), nil
}

func sourceLine(path string, line int) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	n := 0
	for scanner.Scan() {
		n++
		if n == line {
			return strings.TrimRight(scanner.Text(), "\r\n")
		}
	}
	return ""
}

func annotateBlame(root string, loc *cliLocation) {
	repo, err := gitutil.Open(root)
	if err != nil {
		return
	}
	lines, err := repo.Blame(loc.File)
	if err != nil || loc.Line < 1 || loc.Line > len(lines) {
		return
	}
	bl := lines[loc.Line-1]
	loc.Author = bl.Author
	loc.Commit = bl.Commit
}

func printCLILocation(r cliLocation) {
	fmt.Printf("%s:%d:%d", r.File, r.Line, r.Column)
	if r.Qualified != "" {
		fmt.Printf(" %s (%s)", r.Qualified, r.Kind)
	} else {
		fmt.Printf(" %s", r.Name)
	}
	fmt.Println()
	if r.Context != "" {
		fmt.Printf("    %s\n", r.Context)
	}
	if r.Author != "" {
		fmt.Printf("    blame: %s (%s)\n", r.Author, r.Commit)
	}
}
