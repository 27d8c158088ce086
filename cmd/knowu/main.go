// Command knowu records a fingerprint of the running host and prints it or
// posts it to a collection endpoint.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/st-keller/knowu"
	"github.com/st-keller/knowu/aggregator"
	"github.com/st-keller/knowu/hostplatform"
	"github.com/st-keller/knowu/logger"
	"github.com/st-keller/knowu/probe"
	"github.com/st-keller/knowu/registry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const endpointEnv = "KNOWU_ENDPOINT"

type options struct {
	endpoint   string
	send       bool
	sendOnLoad bool
	logLevel   string
	pretty     bool
	cert       string
	key        string
	ca         string
	version    bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "knowu: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("knowu", flag.ContinueOnError)
	fs.StringVar(&opts.endpoint, "endpoint", "", "collection endpoint URL (default $"+endpointEnv+")")
	fs.BoolVar(&opts.send, "send", false, "post the fingerprint instead of printing it")
	fs.BoolVar(&opts.sendOnLoad, "send-on-load", false, "post once through the load trigger and wait for it")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.BoolVar(&opts.pretty, "pretty", false, "indent printed JSON")
	fs.StringVar(&opts.cert, "cert", "", "client certificate for mTLS")
	fs.StringVar(&opts.key, "key", "", "client key for mTLS")
	fs.StringVar(&opts.ca, "ca", "", "CA certificate for mTLS")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.endpoint == "" {
		opts.endpoint = os.Getenv(endpointEnv)
	}

	return opts, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	if opts.version {
		_, err := fmt.Fprintf(stdout, "knowu %s\n", version)
		return err
	}

	log, err := logger.New(logger.Config{Level: opts.logLevel})
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := hostplatform.New(
		hostplatform.WithUserAgent(hostplatform.DefaultUserAgent(version)),
		hostplatform.WithLogger(log),
	)

	if !opts.send && !opts.sendOnLoad {
		return printRecord(ctx, host, log, stdout, opts.pretty)
	}

	if opts.endpoint == "" {
		return errors.New("endpoint required: set -endpoint or $" + endpointEnv)
	}

	client, err := knowu.New(knowu.Config{
		EndpointURL: opts.endpoint,
		SendOnLoad:  opts.sendOnLoad,
		CertPath:    opts.cert,
		KeyPath:     opts.key,
		CAPath:      opts.ca,
	}, host, knowu.WithLogger(log))
	if err != nil {
		return err
	}
	defer client.Close()

	if opts.sendOnLoad {
		if err := client.Wait(ctx); err != nil {
			return err
		}
		stats := client.Deliveries()
		log.Info().
			Str("endpoint", opts.endpoint).
			Int("accepted", stats.Accepted).
			Int64("latency_ms", stats.Latency.P50).
			Msg("on-load send finished")
		if stats.Accepted == 0 {
			return errors.New("on-load send was not accepted")
		}
		return nil
	}

	resp, err := client.Send(ctx, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	log.Info().
		Str("endpoint", opts.endpoint).
		Int("status", resp.StatusCode).
		Msg("fingerprint sent")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("endpoint answered %s", resp.Status)
	}

	return nil
}

func printRecord(ctx context.Context, host *hostplatform.Host, log logger.Logger, stdout io.Writer, pretty bool) error {
	reg := registry.New()
	if err := probe.RegisterStandard(reg, host); err != nil {
		return err
	}

	rec := aggregator.New(reg, aggregator.WithLogger(log)).Record(ctx)

	enc := json.NewEncoder(stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rec)
}
