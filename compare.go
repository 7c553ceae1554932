package main

import (
	"context"
	"fmt"
	"math"
)

// Comparator 依次测试一组端点的 A、B 两侧并判定胜者
type Comparator struct {
	prober *Prober
	sides  Sides
	logger *Logger
}

// NewComparator 创建 Comparator
func NewComparator(prober *Prober, sides Sides, logger *Logger) *Comparator {
	return &Comparator{
		prober: prober,
		sides:  sides,
		logger: logger,
	}
}

// Compare 先完整测试 A 侧，再测试 B 侧
func (c *Comparator) Compare(ctx context.Context, pair EndpointPair, n int) (ComparisonResult, error) {
	c.logger.Section(fmt.Sprintf("Testing Pair: %s", pair.Name))

	// 两侧配置都有效才开始测试
	if err := validateDescriptor(pair.SideA); err != nil {
		return ComparisonResult{}, fmt.Errorf("%s: %w", c.sides.A, err)
	}
	if err := validateDescriptor(pair.SideB); err != nil {
		return ComparisonResult{}, fmt.Errorf("%s: %w", c.sides.B, err)
	}

	c.logger.Printf("\nTesting %s endpoint:\n", c.sides.A)
	a, err := c.prober.Probe(ctx, pair.SideA, n)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("%s: %w", c.sides.A, err)
	}

	c.logger.Printf("\nTesting %s endpoint:\n", c.sides.B)
	b, err := c.prober.Probe(ctx, pair.SideB, n)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("%s: %w", c.sides.B, err)
	}

	winner, improvement := decideWinner(a.Mean, b.Mean)

	return ComparisonResult{
		Name:           pair.Name,
		SideA:          a,
		SideB:          b,
		Winner:         winner,
		ImprovementPct: improvement,
	}, nil
}

// decideWinner 按平均延迟判定胜者
// 两侧都没有成功样本时均值都为 +Inf，判为平局
func decideWinner(meanA, meanB float64) (Winner, float64) {
	switch {
	case meanA < meanB:
		return WinnerSideA, improvement(meanA, meanB)
	case meanB < meanA:
		return WinnerSideB, improvement(meanB, meanA)
	default:
		return WinnerTie, 0
	}
}

// improvement 胜出方相对落后方减少的延迟百分比
func improvement(winner, loser float64) float64 {
	// 落后方没有成功样本
	if math.IsInf(loser, 1) {
		return 100
	}
	return (loser - winner) / loser * 100
}
