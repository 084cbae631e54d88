package batch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/contractkit/internal/errors"
	"github.com/ariel-frischer/contractkit/internal/generator"
	"github.com/ariel-frischer/contractkit/internal/git"
	"github.com/ariel-frischer/contractkit/internal/validation"
)

// Report file names written by WriteReports.
const (
	ReportJSON    = "validation_report.json"
	ReportYAML    = "validation_report.yaml"
	ReportSummary = "validation_summary.md"
)

// ValidationReport is the outcome of one validation run. Unlike generated
// artifacts it carries per-run data (run id, timestamp, revision).
type ValidationReport struct {
	RunID         string                         `json:"run_id" yaml:"run_id"`
	GeneratedAt   time.Time                      `json:"generated_at" yaml:"generated_at"`
	ContractsDir  string                         `json:"contracts_dir,omitempty" yaml:"contracts_dir,omitempty"`
	Revision      *git.Revision                  `json:"revision,omitempty" yaml:"revision,omitempty"`
	SchemaVersion string                         `json:"schema_version" yaml:"schema_version"`
	CatalogPath   string                         `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Threshold     int                            `json:"score_threshold" yaml:"score_threshold"`
	Summary       Summary                        `json:"summary" yaml:"summary"`
	Results       []*validation.ValidationResult `json:"results" yaml:"results"`
	Catalog       []*validation.ValidationError  `json:"catalog_violations,omitempty" yaml:"catalog_violations,omitempty"`
}

// Summary aggregates a report.
type Summary struct {
	Total             int     `json:"total" yaml:"total"`
	Passed            int     `json:"passed" yaml:"passed"`
	Failed            int     `json:"failed" yaml:"failed"`
	BelowThreshold    int     `json:"below_threshold" yaml:"below_threshold"`
	Warnings          int     `json:"warnings" yaml:"warnings"`
	CatalogViolations int     `json:"catalog_violations" yaml:"catalog_violations"`
	AverageScore      float64 `json:"average_score" yaml:"average_score"`
}

func summarize(results []*validation.ValidationResult, catalog []*validation.ValidationError, threshold int) Summary {
	s := Summary{Total: len(results), CatalogViolations: len(catalog)}
	total := 0
	for _, r := range results {
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		if r.BelowThreshold(threshold) {
			s.BelowThreshold++
		}
		s.Warnings += len(r.Warnings)
		total += r.Score
	}
	if len(results) > 0 {
		s.AverageScore = float64(total*10/len(results)) / 10
	}
	return s
}

// OK reports whether every contract passed and the catalog is clean. In
// strict mode results below the score threshold fail too.
func (r *ValidationReport) OK(strict bool) bool {
	if r.Summary.Failed > 0 || r.Summary.CatalogViolations > 0 {
		return false
	}
	return !strict || r.Summary.BelowThreshold == 0
}

// Finding is one reportable line: a module, a code and a message.
type Finding struct {
	Module  string
	Code    string
	Message string
	Path    string
	Line    int
	Warning bool
}

// Findings lists errors and warnings in result order, then catalog
// violations.
func (r *ValidationReport) Findings() []Finding {
	var out []Finding
	add := func(module string, v *validation.ValidationError, warning bool) {
		if v.Module != "" {
			module = v.Module
		}
		out = append(out, Finding{Module: module, Code: v.Code, Message: v.Message, Path: v.Path, Line: v.Line, Warning: warning})
	}
	for _, res := range r.Results {
		for _, e := range res.Errors {
			add(res.Module, e, false)
		}
		for _, w := range res.Warnings {
			add(res.Module, w, true)
		}
	}
	for _, v := range r.Catalog {
		add("catalog", v, false)
	}
	return out
}

// WriteReports writes the JSON, YAML and Markdown reports into dir and
// returns their paths.
func WriteReports(dir string, report *ValidationReport) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating reports directory %s", dir)
	}

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding json report")
	}
	var yamlData bytes.Buffer
	enc := yaml.NewEncoder(&yamlData)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return nil, errors.Wrap(err, "encoding yaml report")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding yaml report")
	}

	outputs := []struct {
		name string
		data []byte
	}{
		{ReportJSON, append(jsonData, '\n')},
		{ReportYAML, yamlData.Bytes()},
		{ReportSummary, []byte(MarkdownSummary(report))},
	}
	paths := make([]string, 0, len(outputs))
	for _, o := range outputs {
		path := filepath.Join(dir, o.name)
		if err := writeFileAtomic(path, o.data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeFileAtomic writes through a temporary file in the same directory so
// readers never see a truncated report.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "writing %s", path)
}

// MarkdownSummary renders the human-readable summary report.
func MarkdownSummary(r *ValidationReport) string {
	var b strings.Builder
	b.WriteString("# Contract validation summary\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	if r.ContractsDir != "" {
		fmt.Fprintf(&b, "- Contracts: `%s`", r.ContractsDir)
		if r.Revision != nil {
			fmt.Fprintf(&b, " at `%s` (%s)", r.Revision.Short(), r.Revision.Branch)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "- Schema version: %s\n", r.SchemaVersion)
	fmt.Fprintf(&b, "- Score threshold: %d\n\n", r.Threshold)

	b.WriteString("| Module | Result | Score | Errors | Warnings |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, res := range r.Results {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %d |\n",
			mdCell(res.Module), verdict(res, r.Threshold), res.Score, len(res.Errors), len(res.Warnings))
	}
	s := r.Summary
	fmt.Fprintf(&b, "\nPassed %d of %d, %d below threshold, average score %.1f.\n",
		s.Passed, s.Total, s.BelowThreshold, s.AverageScore)

	for _, res := range r.Results {
		if len(res.Errors) == 0 && len(res.Warnings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", res.Module)
		for _, e := range res.Errors {
			b.WriteString(mdFinding(e, ""))
		}
		for _, w := range res.Warnings {
			b.WriteString(mdFinding(w, "warning: "))
		}
	}

	if r.CatalogPath != "" {
		fmt.Fprintf(&b, "\n## Catalog\n\n")
		if len(r.Catalog) == 0 {
			fmt.Fprintf(&b, "`%s` is in sync with the contracts.\n", filepath.Base(r.CatalogPath))
		}
		for _, v := range r.Catalog {
			b.WriteString(mdFinding(v, ""))
		}
	}
	return b.String()
}

func verdict(res *validation.ValidationResult, threshold int) string {
	switch {
	case !res.Passed:
		return "FAIL"
	case res.BelowThreshold(threshold):
		return "LOW"
	default:
		return "PASS"
	}
}

func mdFinding(v *validation.ValidationError, prefix string) string {
	loc := ""
	if v.Path != "" {
		loc = " " + v.Path
	}
	if v.Line > 0 {
		loc += fmt.Sprintf(" (line %d)", v.Line)
	}
	return fmt.Sprintf("- %s`%s`%s: %s\n", prefix, v.Code, loc, v.Message)
}

func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func scoreDetail(res *validation.ValidationResult) string {
	if res.Passed {
		return fmt.Sprintf("score %d", res.Score)
	}
	return fmt.Sprintf("score %d, %s", res.Score, joinCodes(res.Codes()))
}

func joinCodes(codes []string) string {
	seen := make(map[string]bool)
	var uniq []string
	for _, c := range codes {
		if !seen[c] {
			seen[c] = true
			uniq = append(uniq, c)
		}
	}
	return strings.Join(uniq, ", ")
}

func changeDetail(set *generator.ArtifactSet) string {
	changed := 0
	for _, a := range set.Artifacts {
		if a.Status != generator.StatusUnchanged {
			changed++
		}
	}
	if changed == 0 {
		return "up to date"
	}
	return fmt.Sprintf("%d file(s) written", changed)
}
