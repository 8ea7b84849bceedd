package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	typescontract "github.com/smartlex/lexml/pkg/types/contract"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		noPersist bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a contract for risk",
		Long: `Analyze reads contract text from the given file, or from stdin when the
argument is "-" or omitted, and prints the risk report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readContractText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("contract text is empty")
			}

			c, err := opts.newClient()
			if err != nil {
				return err
			}

			report, err := c.Analyze(cmd.Context(), text, !noPersist)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noPersist, "no-persist", false, "do not record the analysis in history")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON report")
	return cmd
}

func readContractText(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

func printReport(w io.Writer, r *typescontract.AnalysisReport) {
	fmt.Fprintf(w, "Classification: %s\n", r.Classification)
	fmt.Fprintf(w, "Risk score:     %d/100\n", r.RiskScore)
	fmt.Fprintf(w, "Strength:       %s\n", r.Strength)
	fmt.Fprintf(w, "Recommendation: %s\n", r.Recommendation)

	if len(r.AmbiguousTerms) > 0 {
		fmt.Fprintln(w, "\nAmbiguous terms:")
		printFindings(w, r.AmbiguousTerms)
	}
	if len(r.WeakIndicators) > 0 {
		fmt.Fprintln(w, "\nWeak indicators:")
		printFindings(w, r.WeakIndicators)
	}
	if len(r.ModalFindings) > 0 {
		fmt.Fprintln(w, "\nModal verbs:")
		verbs := make([]string, 0, len(r.ModalFindings))
		for v := range r.ModalFindings {
			verbs = append(verbs, v)
		}
		sort.Strings(verbs)
		for _, v := range verbs {
			f := r.ModalFindings[v]
			fmt.Fprintf(w, "  %-12s x%d (weight %.1f)\n", v, f.Count, f.Weight)
		}
	}
	if len(r.MissingSections) > 0 {
		fmt.Fprintln(w, "\nMissing sections:")
		for _, s := range r.MissingSections {
			fmt.Fprintf(w, "  %s\n", s.Section)
		}
	}

	fmt.Fprintln(w, "\nCitations:")
	for _, c := range r.CitationTrail {
		fmt.Fprintf(w, "  - %s\n", c)
	}
}

func printFindings(w io.Writer, findings map[string]typescontract.TermFinding) {
	terms := make([]string, 0, len(findings))
	for t := range findings {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	for _, t := range terms {
		fmt.Fprintf(w, "  %-24s x%d\n", t, findings[t].Count)
	}
}
