package main

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ===============================
// 配置加载模块
// ===============================

// 未指定配置文件时使用内置的端点列表
//
//go:embed pairs.yaml
var defaultPairsYAML []byte

const (
	defaultCalls     = 20
	defaultTimeout   = 30 * time.Second
	defaultOutputDir = "./output"
)

// 可在路径、请求头和请求体中引用的环境变量，形如 ${USER_UUID}
var templateEnvVars = []string{"USER_UUID", "ORG_NAME", "AUTH_TOKEN", "FRONTEND_AUTH_TOKEN"}

var (
	ErrNoPairName  = errors.New("pair has no name")
	ErrNoBaseURL   = errors.New("no base_url configured")
	ErrNegativeRun = errors.New("calls must not be negative")
)

// Config 运行时配置
type Config struct {
	Calls            int           // 每个端点调用次数
	Timeout          time.Duration // 单次请求超时
	Protocol         Protocol      // 使用的 HTTP 协议
	FreshConnections bool          // 禁用连接复用

	Sides    Sides
	BaseURLA string
	BaseURLB string

	Pairs    []EndpointPair // 已启用的端点组（按配置顺序）
	Disabled []string       // 已禁用的端点组名称

	// 输出配置
	OutputDir string
	EnableLog bool
}

// ===============================
// YAML 配置结构
// ===============================

type yamlSide struct {
	Label   string `yaml:"label"`
	BaseURL string `yaml:"base_url"`
}

type yamlGraphQL struct {
	Query     string                 `yaml:"query"`
	Variables map[string]interface{} `yaml:"variables"`
}

// 请求模板，端点组级别的字段对两侧都生效，a/b 中的字段覆盖之
type yamlRequest struct {
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
	Body    string            `yaml:"body"`
	JSON    interface{}       `yaml:"json"`
	GraphQL *yamlGraphQL      `yaml:"graphql"`
}

type yamlPair struct {
	Name        string       `yaml:"name"`
	Enabled     *bool        `yaml:"enabled"`
	yamlRequest `yaml:",inline"`
	A           *yamlRequest `yaml:"a"`
	B           *yamlRequest `yaml:"b"`
}

type yamlConfig struct {
	Calls            *int   `yaml:"calls"`
	Timeout          string `yaml:"timeout"`
	Protocol         string `yaml:"protocol"`
	FreshConnections bool   `yaml:"fresh_connections"`
	Sides            struct {
		A yamlSide `yaml:"a"`
		B yamlSide `yaml:"b"`
	} `yaml:"sides"`
	Output struct {
		Dir       string `yaml:"dir"`
		EnableLog bool   `yaml:"enable_log"`
	} `yaml:"output"`
	Pairs []yamlPair `yaml:"pairs"`
}

// LoadConfig 从 YAML 文件加载配置，path 为空时使用内置配置
func LoadConfig(path string) (*Config, error) {
	data := defaultPairsYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return parseConfig(data, os.Getenv)
}

// parseConfig 解析配置，getenv 提供模板变量的值
func parseConfig(data []byte, getenv func(string) string) (*Config, error) {
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := &Config{
		Calls:            defaultCalls,
		Timeout:          defaultTimeout,
		FreshConnections: yc.FreshConnections,
		Sides: Sides{
			A: valueOr(yc.Sides.A.Label, "AKS"),
			B: valueOr(yc.Sides.B.Label, "Choreo"),
		},
		OutputDir: valueOr(yc.Output.Dir, defaultOutputDir),
		EnableLog: yc.Output.EnableLog,
	}

	if yc.Calls != nil {
		if *yc.Calls < 0 {
			return nil, fmt.Errorf("%w: %d", ErrNegativeRun, *yc.Calls)
		}
		cfg.Calls = *yc.Calls
	}

	if yc.Timeout != "" {
		timeout, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = timeout
	}

	protocol, err := parseProtocol(yc.Protocol)
	if err != nil {
		return nil, err
	}
	cfg.Protocol = protocol

	expand := newExpander(getenv)
	cfg.BaseURLA = expand(yc.Sides.A.BaseURL)
	cfg.BaseURLB = expand(yc.Sides.B.BaseURL)

	for i, yp := range yc.Pairs {
		if yp.Name == "" {
			return nil, fmt.Errorf("pairs[%d]: %w", i, ErrNoPairName)
		}
		if yp.Enabled != nil && !*yp.Enabled {
			cfg.Disabled = append(cfg.Disabled, yp.Name)
			continue
		}

		a, err := buildDescriptor(yp.yamlRequest, yp.A, cfg.BaseURLA, expand)
		if err != nil {
			return nil, fmt.Errorf("pair %s: %s: %w", yp.Name, cfg.Sides.A, err)
		}
		b, err := buildDescriptor(yp.yamlRequest, yp.B, cfg.BaseURLB, expand)
		if err != nil {
			return nil, fmt.Errorf("pair %s: %s: %w", yp.Name, cfg.Sides.B, err)
		}

		cfg.Pairs = append(cfg.Pairs, EndpointPair{Name: yp.Name, SideA: a, SideB: b})
	}

	return cfg, nil
}

// mergeRequest side 中非空字段覆盖 common
func mergeRequest(common yamlRequest, side *yamlRequest) yamlRequest {
	if side == nil {
		return common
	}

	merged := common
	if side.Method != "" {
		merged.Method = side.Method
	}
	if side.Path != "" {
		merged.Path = side.Path
	}
	if side.URL != "" {
		merged.URL = side.URL
	}
	if side.Body != "" || side.JSON != nil || side.GraphQL != nil {
		merged.Body = side.Body
		merged.JSON = side.JSON
		merged.GraphQL = side.GraphQL
	}
	if len(side.Headers) > 0 {
		merged.Headers = make(map[string]string, len(common.Headers)+len(side.Headers))
		for k, v := range common.Headers {
			merged.Headers[k] = v
		}
		for k, v := range side.Headers {
			merged.Headers[k] = v
		}
	}

	return merged
}

// buildDescriptor 由请求模板生成一侧的 EndpointDescriptor
// 方法在这里不做校验，不支持的方法在测试该端点组时报错
func buildDescriptor(common yamlRequest, side *yamlRequest, baseURL string, expand func(string) string) (EndpointDescriptor, error) {
	req := mergeRequest(common, side)

	desc := EndpointDescriptor{
		Method:  Method(strings.ToUpper(valueOr(req.Method, string(MethodGet)))),
		Headers: make(map[string]string, len(req.Headers)),
	}

	switch {
	case req.URL != "":
		desc.URL = expand(req.URL)
	case baseURL == "":
		return EndpointDescriptor{}, ErrNoBaseURL
	default:
		desc.URL = strings.TrimRight(baseURL, "/") + expand(req.Path)
	}

	for k, v := range req.Headers {
		desc.Headers[k] = expand(v)
	}

	body, isJSON, err := encodeBody(req, expand)
	if err != nil {
		return EndpointDescriptor{}, err
	}
	desc.Body = body
	if isJSON && !hasHeader(desc.Headers, "Content-Type") {
		desc.Headers["Content-Type"] = "application/json"
	}

	return desc, nil
}

// encodeBody 生成请求体，graphql 和 json 会编码为 JSON
func encodeBody(req yamlRequest, expand func(string) string) (string, bool, error) {
	switch {
	case req.GraphQL != nil:
		payload := struct {
			Query     string      `json:"query"`
			Variables interface{} `json:"variables,omitempty"`
		}{
			Query:     req.GraphQL.Query,
			Variables: expandValue(req.GraphQL.Variables, expand),
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return "", false, fmt.Errorf("encode graphql body: %w", err)
		}
		return string(data), true, nil
	case req.JSON != nil:
		data, err := json.Marshal(expandValue(req.JSON, expand))
		if err != nil {
			return "", false, fmt.Errorf("encode json body: %w", err)
		}
		return string(data), true, nil
	default:
		return expand(req.Body), false, nil
	}
}

// expandValue 递归替换 YAML 值中的字符串
func expandValue(v interface{}, expand func(string) string) interface{} {
	switch t := v.(type) {
	case string:
		return expand(t)
	case map[string]interface{}:
		if t == nil {
			return nil
		}
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = expandValue(val, expand)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = expandValue(val, expand)
		}
		return out
	default:
		return v
	}
}

// newExpander 替换 ${NAME} 形式的模板变量
// 只处理 templateEnvVars 中的变量，GraphQL 中的 $orgName 之类保持原样
func newExpander(getenv func(string) string) func(string) string {
	oldnew := make([]string, 0, len(templateEnvVars)*2)
	for _, name := range templateEnvVars {
		oldnew = append(oldnew, "${"+name+"}", getenv(name))
	}
	r := strings.NewReplacer(oldnew...)
	return r.Replace
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
