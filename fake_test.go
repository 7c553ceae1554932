package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// fakeClock 只在 fakeDoer 处理请求时前进
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	return c.t
}

// fakeReply 单次请求的模拟结果
type fakeReply struct {
	status  int
	latency time.Duration
	err     error
}

type recordedRequest struct {
	method  string
	url     string
	body    string
	headers http.Header
	host    string
}

// fakeDoer 按 handler 返回结果并推进时钟
type fakeDoer struct {
	clock    *fakeClock
	handler  func(req *http.Request, call int) fakeReply
	requests []recordedRequest
}

func newFakeDoer(clock *fakeClock, handler func(req *http.Request, call int) fakeReply) *fakeDoer {
	return &fakeDoer{clock: clock, handler: handler}
}

// constantDoer 每次请求都返回相同的状态码和延迟
func constantDoer(clock *fakeClock, status int, latency time.Duration) *fakeDoer {
	return newFakeDoer(clock, func(*http.Request, int) fakeReply {
		return fakeReply{status: status, latency: latency}
	})
}

func (d *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	rec := recordedRequest{
		method:  req.Method,
		url:     req.URL.String(),
		headers: req.Header.Clone(),
		host:    req.Host,
	}
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		rec.body = string(data)
	}
	d.requests = append(d.requests, rec)

	reply := d.handler(req, len(d.requests))
	d.clock.t = d.clock.t.Add(reply.latency)

	if reply.err != nil {
		return nil, reply.err
	}

	return &http.Response{
		StatusCode: reply.status,
		Status:     fmt.Sprintf("%d %s", reply.status, http.StatusText(reply.status)),
		Proto:      "HTTP/1.1",
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("ok")),
		Request:    req,
	}, nil
}

func (d *fakeDoer) calls() int {
	return len(d.requests)
}

func discardLogger() *Logger {
	return NewWriterLogger(io.Discard, logrus.DebugLevel)
}

func newTestProber(doer Doer, clock *fakeClock, logger *Logger) *Prober {
	p := NewProber(doer, logger)
	p.now = clock.now
	return p
}

var testSides = Sides{A: "AKS", B: "Choreo"}
