package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// ===============================
// 输出
// ===============================

// Printer 格式化对比结果，只负责输出文本
type Printer struct {
	out   io.Writer
	sides Sides
	color *colorHelper
}

// NewPrinter 创建 Printer
func NewPrinter(out io.Writer, sides Sides) *Printer {
	return &Printer{
		out:   out,
		sides: sides,
		color: newColorHelper(),
	}
}

// 毫秒转为秒，保留3位小数
func seconds(ms float64) string {
	return fmt.Sprintf("%.3f", ms/1000)
}

// formatStats 输出单侧统计
func (p *Printer) formatStats(label string, s EndpointStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s Performance:\n", label)
	fmt.Fprintf(&b, "  Average Response Time: %s s\n", seconds(s.Mean))
	fmt.Fprintf(&b, "  Min/Max: %s / %s s\n", seconds(s.Min), seconds(s.Max))
	fmt.Fprintf(&b, "  Median: %s s\n", seconds(s.Median))
	fmt.Fprintf(&b, "  Standard Deviation: %s s\n", seconds(s.StdDev))
	rate := fmt.Sprintf("%.1f%% (%d/%d)", s.SuccessRate, s.SuccessfulCalls, s.TotalCalls)
	fmt.Fprintf(&b, "  Success Rate: %s\n", p.color.rate(s, rate))
	return b.String()
}

// PrintComparison 输出一组端点的详细对比结果
func (p *Printer) PrintComparison(r ComparisonResult) {
	fmt.Fprintf(p.out, "\n%s\n", strings.Repeat("-", 60))
	fmt.Fprintf(p.out, "RESULTS FOR: %s\n", r.Name)
	fmt.Fprintf(p.out, "%s\n", strings.Repeat("-", 60))

	fmt.Fprint(p.out, p.formatStats(p.sides.A, r.SideA))
	fmt.Fprint(p.out, p.formatStats(p.sides.B, r.SideB))

	fmt.Fprintf(p.out, "\n🏆 WINNER: %s\n", p.color.winner(r.Winner, p.sides))
	if r.Winner != WinnerTie {
		fmt.Fprintf(p.out, "   Performance improvement: %.1f%%\n", r.ImprovementPct)
	}
}

// PrintSummary 输出汇总统计
func (p *Printer) PrintSummary(results []ComparisonResult) {
	summary := Tally(results)

	fmt.Fprintf(p.out, "\n%s\n📋 SUMMARY\n%s\n", strings.Repeat("=", 60), strings.Repeat("=", 60))
	fmt.Fprintf(p.out, "Total pairs tested: %d\n", summary.Total)
	fmt.Fprintf(p.out, "%s wins: %d\n", p.sides.A, summary.AWins)
	fmt.Fprintf(p.out, "%s wins: %d\n", p.sides.B, summary.BWins)
	fmt.Fprintf(p.out, "Ties: %d\n", summary.Ties)

	if overall := summary.Overall(); overall == WinnerTie {
		fmt.Fprintf(p.out, "\n🤝 Overall Result: %s\n", p.color.winner(overall, p.sides))
	} else {
		fmt.Fprintf(p.out, "\n🏆 Overall Winner: %s\n", p.color.winner(overall, p.sides))
	}

	fmt.Fprintln(p.out, "\n📈 Individual Results:")
	for _, r := range results {
		fmt.Fprintf(p.out, "  %s: %s %ss vs %s %ss → %s wins\n",
			r.Name,
			p.sides.A, seconds(r.SideA.Mean),
			p.sides.B, seconds(r.SideB.Mean),
			r.Winner.Label(p.sides))
	}

	if len(results) > 0 {
		p.printSummaryTable(results)
	}
}

// 打印汇总表格
func (p *Printer) printSummaryTable(results []ComparisonResult) {
	fmt.Fprintln(p.out)

	table := tablewriter.NewTable(p.out,
		tablewriter.WithHeader([]string{
			"Pair",
			p.sides.A + " mean (s)", p.sides.A + " success",
			p.sides.B + " mean (s)", p.sides.B + " success",
			"Winner", "Improvement",
		}),
	)

	for _, r := range results {
		improvement := "-"
		if r.Winner != WinnerTie {
			improvement = fmt.Sprintf("%.1f%%", r.ImprovementPct)
		}

		table.Append([]string{
			r.Name,
			seconds(r.SideA.Mean),
			fmt.Sprintf("%d/%d", r.SideA.SuccessfulCalls, r.SideA.TotalCalls),
			seconds(r.SideB.Mean),
			fmt.Sprintf("%d/%d", r.SideB.SuccessfulCalls, r.SideB.TotalCalls),
			r.Winner.Label(p.sides),
			improvement,
		})
	}

	table.Render()
}
