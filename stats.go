package main

import (
	"math"

	"github.com/montanaflynn/stats"
)

// ===============================
// 统计计算
// ===============================

// 没有成功样本时的统计结果
func emptyStats(total, failed int) EndpointStats {
	inf := math.Inf(1)
	return EndpointStats{
		Mean:        inf,
		Min:         inf,
		Max:         inf,
		Median:      inf,
		StdDev:      inf,
		FailedCalls: failed,
		TotalCalls:  total,
	}
}

// 计算汇总统计
// total 为配置的调用次数，成功率以它为分母
func calculateStats(total int, outcomes []CallOutcome) EndpointStats {
	var samples stats.Float64Data
	failed := 0

	for _, o := range outcomes {
		if !o.Success() {
			failed++
			continue
		}
		samples = append(samples, o.ElapsedMs())
	}

	if len(samples) == 0 {
		return emptyStats(total, failed)
	}

	// samples 非空，以下调用不会返回错误
	mean, _ := stats.Mean(samples)
	minV, _ := stats.Min(samples)
	maxV, _ := stats.Max(samples)
	median, _ := stats.Median(samples)

	var stdDev float64
	if len(samples) > 1 {
		stdDev, _ = stats.StandardDeviationSample(samples)
	}

	result := EndpointStats{
		Mean:            mean,
		Min:             minV,
		Max:             maxV,
		Median:          median,
		StdDev:          stdDev,
		SuccessfulCalls: len(samples),
		FailedCalls:     failed,
		TotalCalls:      total,
	}
	if total > 0 {
		result.SuccessRate = float64(len(samples)) / float64(total) * 100
	}

	return result
}
