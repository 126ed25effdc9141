package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/rpcssl/rpcssl-go/pkg/log"
	"github.com/rpcssl/rpcssl-go/pkg/metrics"
	"github.com/rpcssl/rpcssl-go/pkg/sslconn"
)

// environment holds what every connection of one probe run shares.
type environment struct {
	opts   Options
	level  slog.Level
	logger *slog.Logger

	protocol log.Logger
	fileLog  *log.FileLogger

	metrics       *metrics.Collector
	metricsLn     net.Listener
	metricsServer *http.Server
}

func newEnvironment(opts Options, stderr io.Writer) (*environment, error) {
	level, err := parseLogLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	env := &environment{opts: opts, level: level}
	env.redirectLogs(stderr)

	var loggers []log.Logger
	if opts.ProtocolLog != "" {
		env.fileLog, err = log.NewFileLogger(opts.ProtocolLog)
		if err != nil {
			return nil, fmt.Errorf("open protocol log: %w", err)
		}
		loggers = append(loggers, env.fileLog)
	}
	if opts.MetricsAddr != "" {
		if err := env.serveMetrics(opts.MetricsAddr); err != nil {
			env.Close()
			return nil, err
		}
		loggers = append(loggers, env.metrics)
	}

	switch len(loggers) {
	case 0:
		env.protocol = log.NoopLogger{}
	case 1:
		env.protocol = loggers[0]
	default:
		env.protocol = log.NewMultiLogger(loggers...)
	}
	return env, nil
}

func (e *environment) serveMetrics(addr string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	e.metrics = metrics.NewCollector(reg)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	e.metricsLn = ln
	e.metricsServer = &http.Server{Handler: mux}
	go func() {
		if err := e.metricsServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("metrics server stopped", "error", err)
		}
	}()
	e.logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}

// redirectLogs sends operational logs to w from now on.
func (e *environment) redirectLogs(w io.Writer) {
	e.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: e.level}))
}

// metricsAddr returns the bound metrics address, or "" when disabled.
func (e *environment) metricsAddr() string {
	if e.metricsLn == nil {
		return ""
	}
	return e.metricsLn.Addr().String()
}

// connConfig returns the per-connection engine configuration.
func (e *environment) connConfig() sslconn.Config {
	cfg := e.opts.connConfig()
	cfg.Logger = e.logger
	cfg.ProtocolLogger = e.protocol
	return cfg
}

// Close flushes the protocol log and stops the metrics server.
func (e *environment) Close() error {
	var err error
	if e.metricsServer != nil {
		err = multierr.Append(err, e.metricsServer.Close())
	}
	if e.fileLog != nil {
		err = multierr.Append(err, e.fileLog.Close())
	}
	return err
}
