package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// 命令行参数
type cliOptions struct {
	configPath string
	calls      int
	timeout    time.Duration
	protocol   string
	fresh      bool
	verbose    bool
	enableLog  bool
	outputDir  string
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api-latency-compare",
		Short: "Compare API response times between two deployments",
		Long: `api-latency-compare calls every configured endpoint pair sequentially,
first on side A and then on side B, and reports which deployment answers faster.

USER_UUID, ORG_NAME, AUTH_TOKEN and FRONTEND_AUTH_TOKEN are read from the
environment (or a .env file) and substituted into ${NAME} placeholders.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default is the built-in pair list)")
	flags.IntVarP(&opts.calls, "calls", "n", defaultCalls, "number of calls per endpoint")
	flags.DurationVar(&opts.timeout, "timeout", defaultTimeout, "per-call timeout")
	flags.StringVar(&opts.protocol, "protocol", "http1", "HTTP protocol: http1, http2 or http3")
	flags.BoolVar(&opts.fresh, "fresh", false, "open a new connection for every call (http1/http2)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&opts.enableLog, "log", false, "also write output to a log file")
	flags.StringVar(&opts.outputDir, "output", defaultOutputDir, "directory for log files")

	return cmd
}

// applyFlags 命令行中显式指定的参数覆盖配置文件
func applyFlags(cmd *cobra.Command, opts *cliOptions, cfg *Config) error {
	flags := cmd.Flags()

	if flags.Changed("calls") {
		if opts.calls < 0 {
			return fmt.Errorf("%w: %d", ErrNegativeRun, opts.calls)
		}
		cfg.Calls = opts.calls
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if flags.Changed("protocol") {
		p, err := parseProtocol(opts.protocol)
		if err != nil {
			return err
		}
		cfg.Protocol = p
	}
	if flags.Changed("fresh") {
		cfg.FreshConnections = opts.fresh
	}
	if flags.Changed("log") {
		cfg.EnableLog = opts.enableLog
	}
	if flags.Changed("output") {
		cfg.OutputDir = opts.outputDir
	}

	return nil
}

func run(cmd *cobra.Command, opts *cliOptions) error {
	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg, err := LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(cmd, opts, cfg); err != nil {
		return err
	}

	logger, err := NewLogger(cfg.OutputDir, cfg.EnableLog, parseLogLevel(os.Getenv("LOG_LEVEL"), opts.verbose))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.Println("🚀 Starting API Performance Comparison")
	logger.LogConfig(*cfg)

	client := newHTTPClient(cfg.Protocol, cfg.Timeout, cfg.FreshConnections)
	prober := NewProber(client, logger)
	comparator := NewComparator(prober, cfg.Sides, logger)
	printer := NewPrinter(logger.Writer(), cfg.Sides)
	runner := NewRunner(comparator, printer, logger, cfg.Calls)

	runner.Run(context.Background(), cfg.Pairs)

	if logger.GetLogPath() != "" {
		logger.Printf("\n📝 Log file: %s\n", logger.GetLogPath())
	}
	logger.Info("finished in %s", time.Since(logger.GetStartTime()).Round(time.Millisecond))

	return nil
}

func main() {
	if err := newRootCmd(&cliOptions{}).Execute(); err != nil {
		os.Exit(1)
	}
}
