package main

import (
	"fmt"
	"math"
	"time"
)

// Method HTTP 方法
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Valid 是否为支持的方法
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	default:
		return false
	}
}

// HasBody 只有 POST/PUT 携带请求体
func (m Method) HasBody() bool {
	return m == MethodPost || m == MethodPut
}

// EndpointDescriptor 单个待测请求的定义
type EndpointDescriptor struct {
	Method  Method
	URL     string
	Body    string
	Headers map[string]string
}

// EndpointPair 同一接口在两套部署上的请求
type EndpointPair struct {
	Name  string
	SideA EndpointDescriptor
	SideB EndpointDescriptor
}

// Sides 两套部署的显示名称
type Sides struct {
	A string
	B string
}

// 单次请求的结果
type CallOutcome struct {
	Index      int           // 请求序号（从1开始）
	StatusCode int           // HTTP状态码（传输错误时为0）
	Elapsed    time.Duration // 发出请求到收到响应头的耗时
	Proto      string        // 实际协议版本
	Reused     bool          // 是否复用连接
	Err        error         // 失败原因，成功时为 nil
}

// Success 是否成功
func (o CallOutcome) Success() bool {
	return o.Err == nil
}

// ElapsedMs 耗时（毫秒）
func (o CallOutcome) ElapsedMs() float64 {
	return float64(o.Elapsed.Microseconds()) / 1000.0
}

// EndpointStats 单个端点 N 次调用的汇总统计，延迟单位均为毫秒
type EndpointStats struct {
	Mean   float64
	Min    float64
	Max    float64
	Median float64
	StdDev float64

	SuccessfulCalls int
	FailedCalls     int
	TotalCalls      int     // 配置的调用次数
	SuccessRate     float64 // 百分比
}

// NoSamples 没有成功样本时延迟字段为 +Inf
func (s EndpointStats) NoSamples() bool {
	return math.IsInf(s.Mean, 1)
}

// Winner 对比结果
type Winner int

const (
	WinnerTie Winner = iota
	WinnerSideA
	WinnerSideB
)

// Label 根据部署名称返回显示文本
func (w Winner) Label(sides Sides) string {
	switch w {
	case WinnerSideA:
		return sides.A
	case WinnerSideB:
		return sides.B
	default:
		return "Tie"
	}
}

func (w Winner) String() string {
	return w.Label(Sides{A: "SideA", B: "SideB"})
}

// ComparisonResult 一组端点的对比结果
type ComparisonResult struct {
	Name           string
	SideA          EndpointStats
	SideB          EndpointStats
	Winner         Winner
	ImprovementPct float64 // 胜出方相对落后方的延迟优势，平局为0
}

// StatusError 非 2xx 响应
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("HTTP %s", e.Status)
	}
	return fmt.Sprintf("HTTP %d", e.Code)
}
