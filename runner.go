package main

import (
	"context"
)

// Runner 依次对比所有端点组
type Runner struct {
	comparator *Comparator
	printer    *Printer
	logger     *Logger
	calls      int
}

// NewRunner 创建 Runner
func NewRunner(comparator *Comparator, printer *Printer, logger *Logger, calls int) *Runner {
	return &Runner{
		comparator: comparator,
		printer:    printer,
		logger:     logger,
		calls:      calls,
	}
}

// Run 按顺序测试每组端点，单组出错只记录并跳过，不影响后续端点组
func (r *Runner) Run(ctx context.Context, pairs []EndpointPair) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(pairs))

	for _, pair := range pairs {
		result, err := r.comparator.Compare(ctx, pair, r.calls)
		if err != nil {
			r.logger.Error("❌ Error testing pair %s: %v", pair.Name, err)
			continue
		}

		r.printer.PrintComparison(result)
		results = append(results, result)
	}

	r.printer.PrintSummary(results)

	return results
}

// Summary 胜负统计
type Summary struct {
	Total int
	AWins int
	BWins int
	Ties  int
}

// Tally 统计各方胜出次数
func Tally(results []ComparisonResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Winner {
		case WinnerSideA:
			s.AWins++
		case WinnerSideB:
			s.BWins++
		default:
			s.Ties++
		}
	}
	return s
}

// Overall 胜出次数多的一方为总胜者
func (s Summary) Overall() Winner {
	switch {
	case s.AWins > s.BWins:
		return WinnerSideA
	case s.BWins > s.AWins:
		return WinnerSideB
	default:
		return WinnerTie
	}
}
