// Package eval measures tagger accuracy against gold annotations.
//
// The harness walks a directory of paired files, <name>.gold.xml and
// <name>.tagged.xml, extracts the text of every <quran> element from both,
// and counts agreements and disagreements. Quotes are compared as exact
// whitespace-trimmed strings, the same criterion the annotation round used.
package eval

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/google/uuid"

	qerrors "github.com/intersame/qurantagger/core/errors"
)

// FileResult holds the counts for one gold/tagged pair.
type FileResult struct {
	Name           string `json:"name"`
	Correct        int    `json:"correct"`
	Missed         int    `json:"missed"`
	FalsePositives int    `json:"false_positives"`
}

// Report aggregates an evaluation run.
type Report struct {
	RunID          string       `json:"run_id"`
	Files          []FileResult `json:"files"`
	Correct        int          `json:"correct"`
	Missed         int          `json:"missed"`
	FalsePositives int          `json:"false_positives"`
}

// Precision is the share of tagged quotes that are in the gold standard.
func (r *Report) Precision() float64 {
	tagged := r.Correct + r.FalsePositives
	if tagged == 0 {
		return 0
	}
	return float64(r.Correct) / float64(tagged)
}

// Recall is the share of gold quotes that the tagger found.
func (r *Report) Recall() float64 {
	gold := r.Correct + r.Missed
	if gold == 0 {
		return 0
	}
	return float64(r.Correct) / float64(gold)
}

// String renders the report the way the evaluation scripts print it.
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "run            = %s\n", r.RunID)
	fmt.Fprintf(&sb, "files          = %d\n", len(r.Files))
	fmt.Fprintf(&sb, "correct        = %d\n", r.Correct)
	fmt.Fprintf(&sb, "not found      = %d\n", r.Missed)
	fmt.Fprintf(&sb, "false positive = %d\n", r.FalsePositives)
	fmt.Fprintf(&sb, "precision      = %.4f\n", r.Precision())
	fmt.Fprintf(&sb, "recall         = %.4f\n", r.Recall())
	return sb.String()
}

const (
	goldSuffix   = ".gold.xml"
	taggedSuffix = ".tagged.xml"
)

// EvaluateDir evaluates every gold/tagged pair in dir. A gold file without
// its tagged counterpart is an error; stray tagged files are ignored.
func EvaluateDir(dir string) (*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, qerrors.Wrap(err, "read evaluation directory")
	}

	report := &Report{RunID: uuid.NewString()}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), goldSuffix) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), goldSuffix)
		fr, err := evaluateFile(dir, name)
		if err != nil {
			return nil, err
		}
		report.Files = append(report.Files, fr)
		report.Correct += fr.Correct
		report.Missed += fr.Missed
		report.FalsePositives += fr.FalsePositives
	}
	if len(report.Files) == 0 {
		return nil, qerrors.NewNotFound("gold files", dir)
	}

	sort.Slice(report.Files, func(i, j int) bool {
		return report.Files[i].Name < report.Files[j].Name
	})
	return report, nil
}

func evaluateFile(dir, name string) (FileResult, error) {
	gold, err := os.Open(filepath.Join(dir, name+goldSuffix))
	if err != nil {
		return FileResult{}, qerrors.Wrap(err, "open gold file")
	}
	defer gold.Close()

	tagged, err := os.Open(filepath.Join(dir, name+taggedSuffix))
	if err != nil {
		return FileResult{}, qerrors.Wrapf(err, "no tagged counterpart for %s", name+goldSuffix)
	}
	defer tagged.Close()

	correct, missed, falsePos, err := EvaluatePair(gold, tagged)
	if err != nil {
		return FileResult{}, qerrors.Wrapf(err, "evaluate %s", name)
	}
	return FileResult{Name: name, Correct: correct, Missed: missed, FalsePositives: falsePos}, nil
}

// EvaluatePair compares one gold document against one tagged document.
func EvaluatePair(gold, tagged io.Reader) (correct, missed, falsePos int, err error) {
	goldQuotes, err := extractQuotes(gold)
	if err != nil {
		return 0, 0, 0, qerrors.Wrap(err, "gold document")
	}
	taggedQuotes, err := extractQuotes(tagged)
	if err != nil {
		return 0, 0, 0, qerrors.Wrap(err, "tagged document")
	}

	for q := range goldQuotes {
		if taggedQuotes[q] {
			correct++
		} else {
			missed++
		}
	}
	for q := range taggedQuotes {
		if !goldQuotes[q] {
			falsePos++
		}
	}
	return correct, missed, falsePos, nil
}

// quranQuery selects the quotation markup in both gold and tagged documents.
var quranQuery = xpath.MustCompile("//quran")

// extractQuotes collects the trimmed text of every <quran> element.
func extractQuotes(r io.Reader) (map[string]bool, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, err
	}
	quotes := make(map[string]bool)
	for _, node := range xmlquery.QuerySelectorAll(doc, quranQuery) {
		text := strings.TrimSpace(node.InnerText())
		if text != "" {
			quotes[text] = true
		}
	}
	return quotes, nil
}
