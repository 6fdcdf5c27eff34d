package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/workforce-intel/internal/analysis"
	"github.com/sells-group/workforce-intel/internal/census"
	"github.com/sells-group/workforce-intel/internal/config"
	"github.com/sells-group/workforce-intel/internal/ingest"
	"github.com/sells-group/workforce-intel/internal/model"
)

type analyzeOptions struct {
	Claims         string
	Pharmacy       string
	LargeClaimants string
	Utilization    string

	Company        string
	Industry       string
	FundingType    string
	WellnessFund   string
	ConsideringASO bool

	ReferenceDate string
	Format        string // json or yaml
	Output        string
	Report        string // html, json or empty for none
	ReportDir     string
	Concurrency   int
}

var analyzeOpts analyzeOptions

// analyzeResult is one census file's output.
type analyzeResult struct {
	File     string           `json:"file"`
	Analysis *analysis.Result `json:"analysis"`
	Report   string           `json:"report,omitempty"`
}

// sharedInputs are loaded once and attached to every census file.
type sharedInputs struct {
	claims         []model.Row
	pharmacy       []model.Row
	largeClaimants []model.Row
	utilization    []model.RawRow
	clientInfo     model.Row
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <census-file> [census-file...]",
	Short: "Analyze census files offline",
	Long: `Computes the workforce analysis for each census file (CSV, TSV, XLSX or JSON).

Claims, pharmacy, large-claimant and utilization files apply to every census.

Examples:
  # Analysis only, printed as YAML
  workforce-intel analyze census.xlsx --funding-type ASO --format yaml

  # Several clients at once, with an HTML report per file
  workforce-intel analyze a.csv b.csv --claims claims.csv --report html --report-dir out/`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("analyze", analyzeOpts.Report != ""); err != nil {
			return err
		}

		w := io.Writer(os.Stdout)
		if analyzeOpts.Output != "" {
			f, err := os.Create(analyzeOpts.Output)
			if err != nil {
				return eris.Wrap(err, "analyze: create output file")
			}
			defer f.Close() //nolint:errcheck
			w = f
		}

		return runAnalyze(cmd.Context(), cfg, analyzeOpts, args, w)
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeOpts.Claims, "claims", "", "claims file applied to every census")
	f.StringVar(&analyzeOpts.Pharmacy, "pharmacy", "", "pharmacy file applied to every census")
	f.StringVar(&analyzeOpts.LargeClaimants, "large-claimants", "", "large claimant file applied to every census")
	f.StringVar(&analyzeOpts.Utilization, "utilization", "", "utilization metrics file applied to every census")
	f.StringVar(&analyzeOpts.Company, "company", "", "company name")
	f.StringVar(&analyzeOpts.Industry, "industry", "", "industry")
	f.StringVar(&analyzeOpts.FundingType, "funding-type", "", "current funding type, e.g. \"Fully Insured\" or \"ASO\"")
	f.StringVar(&analyzeOpts.WellnessFund, "wellness-fund", "", "wellness/innovation fund amount (ignored when fully insured)")
	f.BoolVar(&analyzeOpts.ConsideringASO, "considering-aso", false, "client is considering self-funding")
	f.StringVar(&analyzeOpts.ReferenceDate, "reference-date", "", "YYYY-MM-DD date ages are computed against (default from config)")
	f.StringVar(&analyzeOpts.Format, "format", "json", "output format: json or yaml")
	f.StringVarP(&analyzeOpts.Output, "output", "o", "", "write analysis to file (default: stdout)")
	f.StringVar(&analyzeOpts.Report, "report", "", "also generate a report per file: html or json")
	f.StringVar(&analyzeOpts.ReportDir, "report-dir", ".", "directory for generated reports")
	f.IntVar(&analyzeOpts.Concurrency, "concurrency", 4, "max census files processed concurrently")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(ctx context.Context, c *config.Config, opts analyzeOptions, paths []string, w io.Writer) error {
	if opts.Format != "json" && opts.Format != "yaml" {
		return eris.Errorf("analyze: unknown format %q", opts.Format)
	}
	reportFormat := model.Format(opts.Report)
	if opts.Report != "" && !reportFormat.Valid() {
		return eris.Errorf("analyze: unknown report format %q", opts.Report)
	}

	refDate := opts.ReferenceDate
	if refDate == "" {
		refDate = c.Analysis.ReferenceDate
	}
	ref, err := census.ParseReferenceDate(refDate)
	if err != nil {
		return err
	}

	shared, err := loadShared(ctx, opts)
	if err != nil {
		return err
	}

	if opts.Report != "" {
		seen := make(map[string]string, len(paths))
		for _, path := range paths {
			dst := reportPath(opts.ReportDir, path, reportFormat)
			if prev, ok := seen[dst]; ok {
				return eris.Errorf("analyze: %s and %s would both write %s", prev, path, dst)
			}
			seen[dst] = path
		}
		if err := os.MkdirAll(opts.ReportDir, 0o755); err != nil {
			return eris.Wrap(err, "analyze: create report dir")
		}
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	results := make([]analyzeResult, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			rows, err := ingest.Load(gCtx, path)
			if err != nil {
				return eris.Wrapf(err, "analyze: load %s", path)
			}
			if len(rows) == 0 {
				return eris.Errorf("analyze: %s has no census rows", path)
			}

			res := analysis.Run(shared.request(rows), ref)
			zap.L().Info("analyze: census analyzed",
				zap.String("file", path),
				zap.Int("enrolled", res.Census.EnrolledEmployees),
				zap.Int("risk_score", res.Risk.Score),
				zap.String("risk_category", string(res.Risk.Category)),
			)
			results[i] = analyzeResult{File: path, Analysis: res}

			if opts.Report == "" {
				return nil
			}
			out, err := writeReport(gCtx, c, res, path, reportFormat, opts.ReportDir)
			if err != nil {
				return err
			}
			results[i].Report = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return writeAnalysis(w, opts.Format, results)
}

func loadShared(ctx context.Context, opts analyzeOptions) (*sharedInputs, error) {
	s := &sharedInputs{clientInfo: model.Row{}}

	var err error
	for _, src := range []struct {
		path string
		dst  *[]model.Row
	}{
		{opts.Claims, &s.claims},
		{opts.Pharmacy, &s.pharmacy},
		{opts.LargeClaimants, &s.largeClaimants},
	} {
		if src.path == "" {
			continue
		}
		if *src.dst, err = ingest.Load(ctx, src.path); err != nil {
			return nil, eris.Wrapf(err, "analyze: load %s", src.path)
		}
	}
	if opts.Utilization != "" {
		if s.utilization, err = ingest.LoadRaw(ctx, opts.Utilization); err != nil {
			return nil, eris.Wrapf(err, "analyze: load %s", opts.Utilization)
		}
	}

	for key, v := range map[string]string{
		"company_name":  opts.Company,
		"industry":      opts.Industry,
		"funding_type":  opts.FundingType,
		"wellness_fund": opts.WellnessFund,
	} {
		if v != "" {
			s.clientInfo[key] = v
		}
	}
	if opts.ConsideringASO {
		s.clientInfo["considering_aso"] = true
	}
	return s, nil
}

func (s *sharedInputs) request(rows []model.Row) *model.AnalyzeRequest {
	return &model.AnalyzeRequest{
		Census:         rows,
		Claims:         s.claims,
		Pharmacy:       s.pharmacy,
		LargeClaimants: s.largeClaimants,
		Utilization:    s.utilization,
		ClientInfo:     s.clientInfo,
	}
}

// writeReport generates one report and writes it next to the other reports
// as <census-name>.report.<ext>. It returns the written path.
func writeReport(ctx context.Context, c *config.Config, res *analysis.Result, censusPath string, format model.Format, dir string) (string, error) {
	gen, err := generatorFactory(ctx, c)
	if err != nil {
		return "", err
	}
	out, err := gen.Generate(ctx, res, format)
	if err != nil {
		return "", eris.Wrapf(err, "analyze: report for %s", censusPath)
	}

	dst := reportPath(dir, censusPath, format)

	var body []byte
	if format == model.FormatHTML {
		body = []byte(out.HTML)
	} else {
		body, err = json.MarshalIndent(struct {
			Findings   json.RawMessage `json:"findings,omitempty"`
			ParseError bool            `json:"parse_error,omitempty"`
			RawExcerpt string          `json:"raw_excerpt,omitempty"`
		}{out.Findings, out.ParseError, out.RawExcerpt}, "", "  ")
		if err != nil {
			return "", eris.Wrap(err, "analyze: encode findings")
		}
	}
	if out.ParseError {
		zap.L().Warn("analyze: report findings unparseable", zap.String("file", censusPath))
	}

	if err := os.WriteFile(dst, body, 0o644); err != nil {
		return "", eris.Wrapf(err, "analyze: write %s", dst)
	}
	zap.L().Info("analyze: report written", zap.String("path", dst))
	return dst, nil
}

func reportPath(dir, censusPath string, format model.Format) string {
	base := strings.TrimSuffix(filepath.Base(censusPath), filepath.Ext(censusPath))
	return filepath.Join(dir, base+".report."+string(format))
}

// writeAnalysis encodes results as indented JSON or block-style YAML. YAML is
// produced from the JSON encoding so both formats share field names.
func writeAnalysis(w io.Writer, format string, results []analyzeResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return eris.Wrap(err, "analyze: encode results")
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(json.RawMessage(data))
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return eris.Wrap(err, "analyze: convert results to yaml")
	}
	resetStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return eris.Wrap(err, "analyze: encode yaml")
	}
	return enc.Close()
}

// resetStyle drops the flow and quoting styles the JSON source left behind.
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		resetStyle(child)
	}
}
