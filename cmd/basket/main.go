package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"go-basket-analytics/internal/engine"
	"go-basket-analytics/internal/export"
	"go-basket-analytics/internal/ingest"
	"go-basket-analytics/internal/model"
)

// One-shot CLI: load a dataset snapshot, run one bought-together analysis
// and print (and optionally export) the ranked results.
func main() {
	var (
		snapshotPath = flag.String("snapshot", "data/orders.json", "dataset snapshot path")
		mode         = flag.String("mode", model.ModePairs, "analysis mode: pairs | bundles")
		bundleSize   = flag.Int("k", model.DefaultBundleSize, "maximum itemset size")
		minCount     = flag.Int("min-count", model.DefaultMinCount, "minimum itemset support")
		sortKey      = flag.String("sort", model.SortBySupport, "sort key: support | supportPct | lift | confidence")
		labelFilter  = flag.String("filter", "", "case-insensitive label substring filter")
		limit        = flag.Int("top", 25, "limit output to the top N results (0 = all)")
		statuses     = flag.String("statuses", "", "comma-separated accepted order statuses (default: completed)")
		from         = flag.String("from", "", "inclusive start date, YYYY-MM-DD")
		to           = flag.String("to", "", "inclusive end date, YYYY-MM-DD")
		groupsPath   = flag.String("groups", "", "path to a JSON consolidation policy file")
		outPath      = flag.String("out", "", "export results to this file (.csv or .json)")
	)
	flag.Parse()

	req := model.AnalysisRequest{
		BundleSize:  *bundleSize,
		MinCount:    *minCount,
		SortKey:     *sortKey,
		LabelFilter: *labelFilter,
		Limit:       *limit,
		Mode:        *mode,
	}
	if *statuses != "" {
		req.Eligibility.Statuses = strings.Split(*statuses, ",")
	}
	if t, ok := parseDay(*from); ok {
		req.Eligibility.DateFrom = &t
	}
	if t, ok := parseDay(*to); ok {
		end := t.Add(24*time.Hour - time.Second)
		req.Eligibility.DateTo = &end
	}
	if *groupsPath != "" {
		policy, err := loadConsolidationPolicy(*groupsPath)
		if err != nil {
			log.Fatalf("failed to load consolidation policy: %v", err)
		}
		req.Consolidation = policy
	}

	orders, err := ingest.LoadSnapshot(*snapshotPath)
	if err != nil {
		log.Fatalf("failed to load snapshot: %v", err)
	}

	result, err := engine.New(model.DefaultLimits).Analyze(orders, req)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	fmt.Printf("📊 %d orders, %d eligible, %d outliers skipped (%dms)\n",
		result.TotalOrders, result.EligibleOrders, result.SkippedOutliers, result.DurationMS)
	printResult(result)

	if *outPath != "" {
		rows, err := export.WriteResultFile(*outPath, "cli", result)
		if err != nil {
			log.Fatalf("export failed: %v", err)
		}
		fmt.Printf("💾 %d rows written to %s\n", rows, *outPath)
	}
}

func printResult(result *model.AnalysisResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if result.Mode == model.ModeBundles {
		fmt.Fprintln(w, "ITEMSET\tSIZE\tCOUNT\tSUPPORT%")
		for _, b := range result.Bundles {
			fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\n", b.Label, b.Size, b.Count, b.SupportPct)
		}
		return
	}

	fmt.Fprintln(w, "ITEM A\tITEM B\tSUPPORT\tSUPPORT%\tCONF A→B\tCONF B→A\tLIFT")
	for _, p := range result.Pairs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.3f\t%.3f\t%.3f\n",
			p.ItemA, p.ItemB, p.Support, p.SupportPct, p.ConfidenceAToB, p.ConfidenceBToA, p.Lift)
	}
}

func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		log.Fatalf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, true
}

func loadConsolidationPolicy(path string) (model.ConsolidationPolicy, error) {
	var policy model.ConsolidationPolicy
	data, err := os.ReadFile(path)
	if err != nil {
		return policy, err
	}
	if err := json.Unmarshal(data, &policy); err != nil {
		return policy, err
	}
	return policy, nil
}
