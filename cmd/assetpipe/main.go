package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"assetpipe/internal"
	"assetpipe/internal/config"
	"assetpipe/internal/pipeline"
	"assetpipe/internal/rules"
	"assetpipe/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ruleSet, err := rules.Load(cfg.RulesPath)
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	svc := pipeline.NewService(db, cfg, ruleSet)

	cmd := os.Args[1]
	switch cmd {
	case "clean":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "raw inventory file (csv or xlsx)")
		out := fs.String("out", "", "cleaned csv path (defaults under OUTPUT_DIR)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		result, err := svc.Clean(*input, *out)
		must(err)
		fmt.Printf("clean done read=%d deduped=%d out=%s\n", result.Read, result.Deduped, result.OutputPath)
	case "index":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "cleaned csv path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		count, err := svc.Index(*input)
		must(err)
		fmt.Printf("index done loaded=%d\n", count)
	case "enrich":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		asOf := fs.String("as-of", "", "reference date YYYY-MM-DD (defaults to REFERENCE_DATE or today)")
		_ = fs.Parse(os.Args[2:])
		reference, err := resolveReference(cfg, *asOf)
		must(err)
		count, err := svc.Enrich(reference)
		must(err)
		fmt.Printf("enrich done records=%d asOf=%s\n", count, reference.Format(internal.DateLayout))
	case "prune":
		removed, err := svc.Prune()
		must(err)
		retained, err := db.CountAssets()
		must(err)
		fmt.Printf("prune done removed=%d retained=%d\n", removed, retained)
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "raw inventory file (csv or xlsx)")
		out := fs.String("out", "", "cleaned csv path")
		asOf := fs.String("as-of", "", "reference date YYYY-MM-DD")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		reference, err := resolveReference(cfg, *asOf)
		must(err)
		result, err := svc.Run(*input, *out, reference)
		must(err)
		fmt.Printf("run done read=%d deduped=%d indexed=%d enriched=%d pruned=%d retained=%d\n",
			result.Clean.Read, result.Clean.Deduped, result.Indexed, result.Enriched, result.Pruned, result.Retained)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}
		records, err := db.ListAssets()
		must(err)
		if len(records) == 0 {
			must(fmt.Errorf("store is empty, nothing to export"))
		}
		must(pipeline.ExportXLSX(records, *out))
		fmt.Printf("exported %d records to %s\n", len(records), *out)
	case "stats":
		for _, column := range []string{internal.ColRiskLevel, internal.ColLifecycle, internal.ColProvider, internal.ColCountry} {
			counts, err := db.CountByField(column)
			must(err)
			fmt.Printf("%s:\n", column)
			printCounts(counts)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func resolveReference(cfg config.Config, asOf string) (time.Time, error) {
	if strings.TrimSpace(asOf) != "" {
		return time.Parse(internal.DateLayout, strings.TrimSpace(asOf))
	}
	return cfg.ReferenceTime()
}

func printCounts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		label := k
		if label == "" {
			label = "(not enriched)"
		}
		fmt.Printf("  %-24s %d\n", label, counts[k])
	}
}

func usage() {
	fmt.Println("usage: assetpipe <command>")
	fmt.Println("commands:")
	fmt.Println("  clean  --input=inventory.csv [--out=cleaned.csv]")
	fmt.Println("  index  --input=cleaned.csv")
	fmt.Println("  enrich [--as-of=YYYY-MM-DD]")
	fmt.Println("  prune")
	fmt.Println("  run    --input=inventory.csv [--out=cleaned.csv] [--as-of=YYYY-MM-DD]")
	fmt.Println("  export:xlsx --out=./out/assets.xlsx")
	fmt.Println("  stats")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
