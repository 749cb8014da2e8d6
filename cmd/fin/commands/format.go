package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/aegis-fin/backend/internal/s1_metrics"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintSectionHeader prints a titled double-line header
func PrintSectionHeader(title string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// metricColumn is one printed row of the metrics table
type metricColumn struct {
	label string
	value func(row s1_metrics.MetricsRow) *float64
}

var metricColumns = []metricColumn{
	{"영업이익률", func(r s1_metrics.MetricsRow) *float64 { return r.Ratios.OperatingProfitRatio }},
	{"순이익률", func(r s1_metrics.MetricsRow) *float64 { return r.Ratios.NetProfitRatio }},
	{"ROE", func(r s1_metrics.MetricsRow) *float64 { return r.Ratios.ROE }},
	{"ROA", func(r s1_metrics.MetricsRow) *float64 { return r.Ratios.ROA }},
	{"부채비율", func(r s1_metrics.MetricsRow) *float64 { return r.Ratios.DebtRatio }},
	{"유동비율", func(r s1_metrics.MetricsRow) *float64 { return r.Ratios.CurrentRatio }},
	{"부채의존도", func(r s1_metrics.MetricsRow) *float64 { return r.Ratios.DebtDependency }},
	{"매출액증가율", func(r s1_metrics.MetricsRow) *float64 {
		if r.Growth == nil {
			return nil
		}
		return r.Growth.RevenueGrowth
	}},
	{"영업이익증가율", func(r s1_metrics.MetricsRow) *float64 {
		if r.Growth == nil {
			return nil
		}
		return r.Growth.OperatingProfitGrowth
	}},
	{"순이익증가율", func(r s1_metrics.MetricsRow) *float64 {
		if r.Growth == nil {
			return nil
		}
		return r.Growth.NetIncomeGrowth
	}},
}

// WriteMetricsTable writes the table with one column per fiscal year
// null 값은 "-"
func WriteMetricsTable(w io.Writer, table *s1_metrics.MetricsTable) {
	const labelWidth = 14
	const colWidth = 10

	fmt.Fprintf(w, "%s", padRight("(%)", labelWidth))
	for _, y := range table.Years() {
		fmt.Fprintf(w, "%*s", colWidth, y)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", labelWidth+colWidth*len(table.Rows)))

	for _, col := range metricColumns {
		fmt.Fprintf(w, "%s", padRight(col.label, labelWidth))
		for _, row := range table.Rows {
			fmt.Fprintf(w, "%*s", colWidth, formatPercent(col.value(row)))
		}
		fmt.Fprintln(w)
	}
}

func formatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

// padRight pads by display width (한글 2칸)
func padRight(s string, width int) string {
	w := 0
	for _, r := range s {
		if r >= 0x1100 {
			w += 2
		} else {
			w++
		}
	}
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
