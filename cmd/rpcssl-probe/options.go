package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rpcssl/rpcssl-go/pkg/poll"
	"github.com/rpcssl/rpcssl-go/pkg/sslconn"
)

// Options holds the probe configuration. The YAML keys match the flag
// names.
type Options struct {
	ConfigFile string `yaml:"-"`

	CA         string `yaml:"ca,omitempty"`
	Cert       string `yaml:"cert,omitempty"`
	Key        string `yaml:"key,omitempty"`
	Ephemeral  string `yaml:"ephemeral,omitempty"`
	ServerName string `yaml:"server-name,omitempty"`
	Insecure   bool   `yaml:"insecure,omitempty"`

	RequireClientCert bool `yaml:"require-client-cert,omitempty"`

	HandshakeTimeout     time.Duration `yaml:"handshake-timeout,omitempty"`
	HandshakeReadTimeout time.Duration `yaml:"handshake-read-timeout,omitempty"`
	ReadTimeout          time.Duration `yaml:"read-timeout,omitempty"`
	WriteTimeout         time.Duration `yaml:"write-timeout,omitempty"`

	Trace       sslconn.TraceLevel `yaml:"trace,omitempty"`
	LogLevel    string             `yaml:"log-level,omitempty"`
	ProtocolLog string             `yaml:"protocol-log,omitempty"`
	MetricsAddr string             `yaml:"metrics-addr,omitempty"`

	// Connect only.
	Data    string `yaml:"data,omitempty"`
	Repeat  int    `yaml:"repeat,omitempty"`
	Retries int    `yaml:"retries,omitempty"`
}

// DefaultOptions returns the flag defaults.
func DefaultOptions() Options {
	return Options{
		HandshakeTimeout:     30 * time.Second,
		HandshakeReadTimeout: poll.Infinite,
		ReadTimeout:          30 * time.Second,
		WriteTimeout:         30 * time.Second,
		Trace:                sslconn.TraceState,
		LogLevel:             "info",
		Repeat:               1,
	}
}

func (o *Options) bind(fs *flag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "YAML configuration file; flags override it")
	fs.StringVar(&o.CA, "ca", o.CA, "PEM file with trusted CA certificates")
	fs.StringVar(&o.Cert, "cert", o.Cert, "PEM certificate chain")
	fs.StringVar(&o.Key, "key", o.Key, "PEM private key")
	fs.StringVar(&o.Ephemeral, "ephemeral", o.Ephemeral, "Throwaway CA file: serve writes it, connect reads it")
	fs.StringVar(&o.ServerName, "server-name", o.ServerName, "Expected server name")
	fs.BoolVar(&o.Insecure, "insecure", o.Insecure, "Skip crypto/tls chain verification")
	fs.BoolVar(&o.RequireClientCert, "require-client-cert", o.RequireClientCert, "Require an initiator certificate")

	fs.DurationVar(&o.HandshakeTimeout, "handshake-timeout", o.HandshakeTimeout, "Handshake budget, negative waits forever")
	fs.DurationVar(&o.HandshakeReadTimeout, "handshake-read-timeout", o.HandshakeReadTimeout, "Cap on each wait for handshake data, zero or negative disables it")
	fs.DurationVar(&o.ReadTimeout, "read-timeout", o.ReadTimeout, "Read budget, negative waits forever")
	fs.DurationVar(&o.WriteTimeout, "write-timeout", o.WriteTimeout, "Write budget, negative waits forever")

	fs.TextVar(&o.Trace, "trace", o.Trace, "Trace level: none, state, handshake, io")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&o.ProtocolLog, "protocol-log", o.ProtocolLog, "Append protocol events to this .rlog file")
	fs.StringVar(&o.MetricsAddr, "metrics-addr", o.MetricsAddr, "Serve Prometheus metrics on this address")

	fs.StringVar(&o.Data, "data", o.Data, "Send this message and print the reply instead of going interactive")
	fs.IntVar(&o.Repeat, "repeat", o.Repeat, "Number of connections, reusing the TLS session cache")
	fs.IntVar(&o.Retries, "retries", o.Retries, "Redial after a refused connection or handshake timeout, with backoff")
}

// parseOptions parses args for the named command. When -config is given
// the file is loaded first and the flags are applied on top of it.
func parseOptions(name string, args []string) (Options, []string, error) {
	opts := DefaultOptions()
	fs := newFlagSet(name, &opts)
	if err := fs.Parse(args); err != nil {
		return Options{}, nil, err
	}
	if opts.ConfigFile == "" {
		return opts, fs.Args(), opts.validate()
	}

	fileOpts, err := loadOptions(opts.ConfigFile)
	if err != nil {
		return Options{}, nil, err
	}
	fs = newFlagSet(name, &fileOpts)
	if err := fs.Parse(args); err != nil {
		return Options{}, nil, err
	}
	return fileOpts, fs.Args(), fileOpts.validate()
}

func newFlagSet(name string, opts *Options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	opts.bind(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: rpcssl-probe %s [flags] <address>\n\nFlags:\n", name)
		fs.PrintDefaults()
	}
	return fs
}

// loadOptions reads a YAML file over DefaultOptions.
func loadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse config %s: %w", path, err)
	}
	return opts, nil
}

func (o Options) validate() error {
	if (o.Cert == "") != (o.Key == "") {
		return fmt.Errorf("-cert and -key must be given together")
	}
	if o.Repeat < 1 {
		return fmt.Errorf("-repeat must be at least 1")
	}
	if o.Retries < 0 {
		return fmt.Errorf("-retries must not be negative")
	}
	if _, err := parseLogLevel(o.LogLevel); err != nil {
		return err
	}
	return nil
}

// connConfig returns the engine configuration shared by every connection.
func (o Options) connConfig() sslconn.Config {
	cfg := sslconn.DefaultConfig()
	cfg.HandshakeTimeout = o.HandshakeTimeout
	cfg.HandshakeReadTimeout = o.HandshakeReadTimeout
	cfg.ReadTimeout = o.ReadTimeout
	cfg.WriteTimeout = o.WriteTimeout
	cfg.TraceLevel = o.Trace
	return cfg
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s (use: debug, info, warn, error)", s)
	}
}
