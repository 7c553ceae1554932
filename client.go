package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"strings"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
)

// ===============================
// HTTP 客户端
// ===============================

// Doer 发送 HTTP 请求（*http.Client 满足该接口）
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Protocol 协议类型
type Protocol int

const (
	HTTP1 Protocol = iota
	HTTP2
	HTTP3
)

func (p Protocol) String() string {
	switch p {
	case HTTP1:
		return "HTTP/1.1"
	case HTTP2:
		return "HTTP/2"
	case HTTP3:
		return "HTTP/3"
	default:
		return "Unknown"
	}
}

var ErrUnknownProtocol = errors.New("unknown protocol")

// parseProtocol 解析协议字符串，空字符串为 HTTP/1.1
func parseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "http/1.1", "http1", "h1":
		return HTTP1, nil
	case "http/2", "http2", "h2":
		return HTTP2, nil
	case "http/3", "http3", "h3":
		return HTTP3, nil
	default:
		return HTTP1, fmt.Errorf("%w: %q", ErrUnknownProtocol, s)
	}
}

// newHTTPClient 按协议创建客户端
// fresh 为 true 时每次请求都新建连接（仅 HTTP/1.1 和 HTTP/2）
func newHTTPClient(p Protocol, timeout time.Duration, fresh bool) *http.Client {
	switch p {
	case HTTP2:
		return createHTTP2Client(timeout, fresh)
	case HTTP3:
		return createHTTP3Client(timeout)
	default:
		return createHTTP1Client(timeout, fresh)
	}
}

// 创建 HTTP/1.1 客户端
func createHTTP1Client(timeout time.Duration, fresh bool) *http.Client {
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext: dialer.DialContext,
		TLSClientConfig: &tls.Config{
			// 不进行 HTTP/2 ALPN 协商
			NextProtos: []string{"http/1.1"},
		},
		ForceAttemptHTTP2:   false,
		DisableKeepAlives:   fresh,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// 创建 HTTP/2 客户端
func createHTTP2Client(timeout time.Duration, fresh bool) *http.Client {
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext: dialer.DialContext,
		TLSClientConfig: &tls.Config{
			NextProtos: []string{"h2"},
		},
		ForceAttemptHTTP2:   true,
		DisableKeepAlives:   fresh,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// 创建 HTTP/3 客户端
func createHTTP3Client(timeout time.Duration) *http.Client {
	transport := &http3.RoundTripper{
		TLSClientConfig: &tls.Config{},
		QUICConfig: &quic.Config{
			HandshakeIdleTimeout: timeout,
		},
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// ===============================
// 单次请求
// ===============================

// newRequest 构造请求，只有 POST/PUT 携带请求体
func newRequest(ctx context.Context, desc EndpointDescriptor) (*http.Request, error) {
	var body io.Reader
	if desc.Method.HasBody() && desc.Body != "" {
		body = strings.NewReader(desc.Body)
	}

	req, err := http.NewRequestWithContext(ctx, string(desc.Method), desc.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range desc.Headers {
		req.Header.Set(k, v)
	}
	// Host 头需要单独设置
	if host, ok := desc.Headers["Host"]; ok {
		req.Host = host
	}

	return req, nil
}

// measureCall 执行单次请求并测量耗时
// 计时截止于收到响应头，响应体在计时后读取并丢弃
func measureCall(ctx context.Context, client Doer, now func() time.Time, desc EndpointDescriptor) CallOutcome {
	var outcome CallOutcome

	req, err := newRequest(ctx, desc)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			outcome.Reused = info.Reused
		},
	}
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), trace))

	start := now()
	resp, err := client.Do(req)
	elapsed := now().Sub(start)
	if err != nil {
		outcome.Err = fmt.Errorf("request failed: %w", err)
		return outcome
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	outcome.StatusCode = resp.StatusCode
	outcome.Proto = resp.Proto
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome.Err = &StatusError{Code: resp.StatusCode, Status: resp.Status}
		return outcome
	}

	outcome.Elapsed = elapsed
	return outcome
}

// isTimeout 判断是否为超时错误
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
