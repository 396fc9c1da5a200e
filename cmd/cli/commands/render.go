package commands

import (
	"fmt"
	"strings"

	"github.com/smartagri/seat-allocator/pkg/core/model"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

func statusColor(status model.Status) string {
	switch status {
	case model.StatusApproved, model.StatusProvisionallyApproved:
		return colorGreen
	case model.StatusWaiting:
		return colorYellow
	case model.StatusRejected:
		return colorRed
	default:
		return colorDim
	}
}

// statusLabel renders a status as upper-case words, e.g. PROVISIONALLY APPROVED
func statusLabel(status model.Status) string {
	return strings.ToUpper(strings.ReplaceAll(string(status), "_", " "))
}

func formatLimit[T int | float64](limit *T, unit string) string {
	if limit == nil {
		return "none"
	}
	return fmt.Sprintf("%v%s", *limit, unit)
}

func printApplicantRow(rank int, a model.Applicant) {
	fmt.Printf("  %3d. %-14s %-24s %-8s %7.2f  %s%s%s\n",
		rank, a.ID, truncate(a.ApplicantName, 24), a.Category, a.ImpactScore,
		statusColor(a.Status), statusLabel(a.Status), colorReset)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
