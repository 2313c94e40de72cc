package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rocket-tycoon/rocketindex/internal/config"
	"github.com/rocket-tycoon/rocketindex/internal/diskindex"
	"github.com/rocket-tycoon/rocketindex/internal/extract"
)

// doctorReport is the health check doctorCmd renders: index presence,
// schema, symbol count, extractor staleness, ungrammared languages, and
// whether a type cache is configured and loads.
type doctorReport struct {
	Root                string   `json:"root"`
	ConfigPresent       bool     `json:"config_present"`
	IndexPresent        bool     `json:"index_present"`
	SchemaVersion       int      `json:"schema_version,omitempty"`
	SymbolCount         int      `json:"symbol_count,omitempty"`
	ExtractorConfigured bool     `json:"extractor_configured"`
	ExtractorStale      bool     `json:"extractor_stale,omitempty"`
	UngrammaredLangs    []string `json:"ungrammared_languages,omitempty"`
	TypeCacheConfigured bool     `json:"type_cache_configured"`
	TypeCacheLoads      bool     `json:"type_cache_loads,omitempty"`
	Problems            []string `json:"problems,omitempty"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report on the health of the workspace's index and configuration",
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	report := doctorReport{Root: root, ConfigPresent: config.Exists(root)}
	cfg := loadConfig(root)
	report.ExtractorConfigured = len(cfg.ExtractorCommand) > 0
	report.TypeCacheConfigured = cfg.TypeCachePath != ""

	if !report.ConfigPresent {
		report.Problems = append(report.Problems, "no .rocketindex config file found; run 'rocketindex setup'")
	}

	for _, lang := range extract.SupportedLanguages() {
		if !extract.GrammarRegistered(lang) {
			report.UngrammaredLangs = append(report.UngrammaredLangs, lang)
			report.Problems = append(report.Problems, fmt.Sprintf("%s: extractor present, grammar unregistered", lang))
		}
	}

	path := dbPath(root)
	if _, statErr := os.Stat(path); statErr == nil {
		report.IndexPresent = true
		disk, openErr := diskindex.Open(path)
		if openErr != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("index file present but failed to open: %v", openErr))
		} else {
			defer disk.Close()
			if v, vErr := disk.GetSchemaVersion(); vErr == nil {
				report.SchemaVersion = v
			}
			if n, cErr := disk.CountSymbols(); cErr == nil {
				report.SymbolCount = n
				if n == 0 {
					report.Problems = append(report.Problems, "index has zero symbols; run 'rocketindex index'")
				}
			}
			if persisted, mErr := disk.GetMetadata("extractor_command"); mErr == nil {
				current := strings.Join(cfg.ExtractorCommand, " ")
				if persisted != current {
					report.ExtractorStale = true
					report.Problems = append(report.Problems, "extractor_command changed since last index; run 'rocketindex index --extract-types' to refresh types")
				}
			}
		}
	} else {
		report.Problems = append(report.Problems, "no index built yet; run 'rocketindex index'")
	}

	if report.TypeCacheConfigured {
		if _, loadErr := os.Stat(cfg.ResolveTypeCachePath(root)); loadErr == nil {
			report.TypeCacheLoads = true
		} else {
			report.Problems = append(report.Problems, fmt.Sprintf("type_cache_path configured but unreadable: %v", loadErr))
		}
	}

	return emit(report, func() {
		fmt.Printf("root:            %s\n", report.Root)
		fmt.Printf("config present:  %v\n", report.ConfigPresent)
		fmt.Printf("index present:   %v\n", report.IndexPresent)
		if report.IndexPresent {
			fmt.Printf("schema version:  %d\n", report.SchemaVersion)
			fmt.Printf("symbol count:    %d\n", report.SymbolCount)
			fmt.Printf("extractor stale: %v\n", report.ExtractorStale)
		}
		if len(report.UngrammaredLangs) > 0 {
			fmt.Printf("no grammar:      %s\n", strings.Join(report.UngrammaredLangs, ", "))
		}
		fmt.Printf("extractor cmd:   %v\n", report.ExtractorConfigured)
		fmt.Printf("type cache:      configured=%v loads=%v\n", report.TypeCacheConfigured, report.TypeCacheLoads)
		for _, p := range report.Problems {
			fmt.Printf("! %s\n", p)
		}
	})
}
