// Command rpcssl-probe exercises the TLS connection engine against a real
// socket.
//
// Usage:
//
//	rpcssl-probe <command> [flags] <address>
//
// Commands:
//
//	connect   Dial address, run the initiator handshake and exchange data
//	serve     Listen on address and echo application data as responder
//
// Flags shared by both commands:
//
//	-config string                YAML configuration file; flags override it
//	-ca string                    PEM file with trusted CA certificates
//	-cert string                  PEM certificate chain
//	-key string                   PEM private key
//	-ephemeral string             Generate a throwaway CA (serve writes it here, connect reads it)
//	-server-name string           Expected server name (connect)
//	-insecure                     Skip crypto/tls chain verification (connect)
//	-require-client-cert          Ask the initiator for a certificate (serve)
//	-handshake-timeout duration   Handshake budget, negative waits forever
//	-handshake-read-timeout dur   Cap on each wait for handshake data
//	-read-timeout duration        Read budget, negative waits forever
//	-write-timeout duration       Write budget, negative waits forever
//	-trace string                 none, state, handshake or io
//	-log-level string             debug, info, warn or error
//	-protocol-log string          Append protocol events to this .rlog file
//	-metrics-addr string          Serve Prometheus metrics on this address
//
// Connect flags:
//
//	-data string                  Send this message and print the reply instead of going interactive
//	-repeat int                   Number of connections, reusing the TLS session cache
//	-retries int                  Redial after a refused connection or handshake timeout
//
// Examples:
//
//	# Echo server with a throwaway hierarchy
//	rpcssl-probe serve -ephemeral /tmp/probe-ca.pem 127.0.0.1:4433
//
//	# Send one message and print the reply
//	rpcssl-probe connect -ephemeral /tmp/probe-ca.pem -data hello 127.0.0.1:4433
//
//	# Reconnect three times to show session resumption
//	rpcssl-probe connect -ca ca.pem -repeat 3 -data ping server.example:4433
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "connect":
		err = runConnectCmd(ctx, os.Args[2:])
	case "serve":
		err = runServeCmd(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `rpcssl-probe - TLS connection engine probe

Usage:
  rpcssl-probe <command> [flags] <address>

Commands:
  connect   Dial address, run the initiator handshake and exchange data
  serve     Listen on address and echo application data as responder
  help      Show this help

Run 'rpcssl-probe <command> -h' for command flags.`)
}

func runConnectCmd(ctx context.Context, args []string) error {
	opts, rest, err := parseOptions("connect", args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("connect requires exactly one address")
	}

	env, err := newEnvironment(opts, os.Stderr)
	if err != nil {
		return err
	}
	defer env.Close()

	return runConnect(ctx, env, rest[0], os.Stdout)
}

func runServeCmd(ctx context.Context, args []string) error {
	opts, rest, err := parseOptions("serve", args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("serve requires exactly one address")
	}

	env, err := newEnvironment(opts, os.Stderr)
	if err != nil {
		return err
	}
	defer env.Close()

	srv, err := listen(env, rest[0])
	if err != nil {
		return err
	}
	env.logger.Info("listening", "addr", srv.Addr().String())
	return srv.Serve(ctx)
}
