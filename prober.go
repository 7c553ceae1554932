package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"
)

var (
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
	ErrInvalidURL        = errors.New("invalid URL")
	ErrInvalidCallCount  = errors.New("invalid call count")
)

// Prober 对单个端点顺序发起 N 次请求并统计延迟
type Prober struct {
	client Doer
	logger *Logger
	now    func() time.Time
}

// NewProber 创建 Prober
func NewProber(client Doer, logger *Logger) *Prober {
	return &Prober{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// validateDescriptor 在发出任何请求前检查配置
func validateDescriptor(desc EndpointDescriptor) error {
	if !desc.Method.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, desc.Method)
	}

	u, err := url.Parse(desc.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, desc.URL)
	}

	return nil
}

// Probe 顺序执行 n 次请求，返回统计结果
// 失败的请求不重试，只计入失败次数
func (p *Prober) Probe(ctx context.Context, desc EndpointDescriptor, n int) (EndpointStats, error) {
	if err := validateDescriptor(desc); err != nil {
		return EndpointStats{}, err
	}
	if n < 0 {
		return EndpointStats{}, fmt.Errorf("%w: %d", ErrInvalidCallCount, n)
	}

	p.logger.Printf("  Testing %s %s\n", desc.Method, desc.URL)
	p.logger.Printf("  Making %d calls...\n", n)

	outcomes := make([]CallOutcome, 0, n)
	for i := 1; i <= n; i++ {
		outcome := measureCall(ctx, p.client, p.now, desc)
		outcome.Index = i
		outcomes = append(outcomes, outcome)
		p.logOutcome(outcome)
	}

	return calculateStats(n, outcomes), nil
}

// 输出单次请求结果
func (p *Prober) logOutcome(o CallOutcome) {
	if o.Success() {
		p.logger.Debug("call %d: %d in %.2fms [%s, reused=%t]",
			o.Index, o.StatusCode, o.ElapsedMs(), o.Proto, o.Reused)
		return
	}

	var statusErr *StatusError
	switch {
	case errors.As(o.Err, &statusErr):
		p.logger.Printf("    Call %d: %s\n", o.Index, statusErr)
	case isTimeout(o.Err):
		p.logger.Printf("    Call %d: Timeout - %v\n", o.Index, o.Err)
	default:
		p.logger.Printf("    Call %d: Failed - %v\n", o.Index, o.Err)
	}
}
