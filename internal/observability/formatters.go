// Package observability provides formatted output for verbose CLI mode and process metrics.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-selector/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintEvidenceSummary outputs tier counts and the strongest and weakest bullets.
func (p *Printer) PrintEvidenceSummary(scores *types.EvidenceScores) {
	if scores == nil {
		return
	}

	s := scores.Summary
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Bullets:  %d (strong %d, medium %d, weak %d)\n", s.Count, s.Strong, s.Medium, s.Weak))
	sb.WriteString(fmt.Sprintf("Scores:   min %.2f  mean %.2f  max %.2f\n", s.Min, s.Mean, s.Max))
	sb.WriteString(fmt.Sprintf("Rules:    %s\n", scores.RulesVersion))

	if len(s.Top) > 0 {
		sb.WriteString("\nStrongest:\n")
		writeBulletSummaries(&sb, s.Top)
	}
	if len(s.Bottom) > 0 {
		sb.WriteString("\nWeakest:\n")
		writeBulletSummaries(&sb, s.Bottom)
	}

	p.printBox("EVIDENCE SCORES", strings.TrimSuffix(sb.String(), "\n"))
}

func writeBulletSummaries(sb *strings.Builder, bullets []types.BulletScoreSummary) {
	count := min(len(bullets), maxItemsToShow)
	for i := 0; i < count; i++ {
		b := bullets[i]
		sb.WriteString(fmt.Sprintf("  %.2f %-6s %s\n", b.EvidenceScore, b.Tier, b.BulletID))
	}
	if len(bullets) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(bullets)-maxItemsToShow))
	}
}

// PrintRelevanceSummary outputs matrix dimensions and the sampled requirement.
func (p *Printer) PrintRelevanceSummary(summary *types.RelevanceSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Bullets:       %d\n", summary.BulletsCount))
	sb.WriteString(fmt.Sprintf("Requirements:  %d\n", summary.RequirementsCount))
	sb.WriteString(fmt.Sprintf("Min score:     %.2f\n", summary.Thresholds.MinScore))

	if summary.Sample != nil && len(summary.Sample.TopBullets) > 0 {
		sb.WriteString(fmt.Sprintf("\nTop bullets for %s:\n", summary.Sample.ReqID))
		count := min(len(summary.Sample.TopBullets), maxItemsToShow)
		for i := 0; i < count; i++ {
			b := summary.Sample.TopBullets[i]
			sb.WriteString(fmt.Sprintf("  %.3f %s\n", b.Score, b.BulletID))
		}
	}

	p.printBox("RELEVANCE MATRIX", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSelectionPlan outputs coverage, budget use and the selected bullets.
func (p *Printer) PrintSelectionPlan(plan *types.SelectionPlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	cov := plan.Coverage
	sb.WriteString(fmt.Sprintf("Must covered:  %d/%d\n", cov.MustCovered, cov.MustTotal))
	sb.WriteString(fmt.Sprintf("Nice covered:  %d/%d\n", cov.NiceCovered, cov.NiceTotal))
	sb.WriteString(fmt.Sprintf("Experience:    %d/%d bullets\n",
		plan.BudgetsUsed.ExperienceBullets, plan.Config.Budgets.ExperienceBulletsMax))
	sb.WriteString(fmt.Sprintf("Projects:      %d/%d bullets\n",
		plan.BudgetsUsed.ProjectBullets, plan.Config.Budgets.ProjectBulletsMax))

	for _, role := range plan.Selected.WorkExperience {
		sb.WriteString(fmt.Sprintf("\n%s @ %s\n", role.Title, role.Company))
		for _, b := range role.Bullets {
			text := b.OriginalText
			if len(text) > 40 {
				text = text[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", b.RewriteIntent, text))
		}
	}
	for _, proj := range plan.Selected.Projects {
		sb.WriteString(fmt.Sprintf("\n%s\n", proj.Name))
		for _, b := range proj.Bullets {
			text := b.OriginalText
			if len(text) > 40 {
				text = text[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", b.RewriteIntent, text))
		}
	}

	p.printBox("SELECTION PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintUncovered outputs requirements the plan does not satisfy.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintUncovered(plan *types.SelectionPlan) {
	if plan == nil || len(plan.Coverage.UncoveredRequirements) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ ALL REQUIREMENTS COVERED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	uncovered := plan.Coverage.UncoveredRequirements
	sb.WriteString(fmt.Sprintf("%d requirements not covered:\n\n", len(uncovered)))
	for i, u := range uncovered {
		sb.WriteString(fmt.Sprintf("⚠ %s (%s, weight %d)\n", u.ReqID, u.Type, u.Weight))
		sb.WriteString(fmt.Sprintf("  %s\n", u.Reason))
		if i < len(uncovered)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("UNCOVERED REQUIREMENTS", sb.String())
}
