// Package temporal builds the Temporal client shared by the worker and the
// command-line runners. It supports both a local dev server and Temporal
// Cloud via an mTLS certificate pair, installs OTEL tracing and metrics
// interceptors by default, and bridges SDK logs into clue.
package temporal

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	sdkclient "go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
)

// Options configures Dial. The zero value connects to a local dev server on
// the default namespace with instrumentation enabled.
type Options struct {
	// HostPort is the Temporal frontend address. Defaults to the SDK
	// default (localhost:7233).
	HostPort string

	// Namespace is the Temporal namespace. Defaults to "default".
	Namespace string

	// Identity overrides the worker/client identity reported to the server.
	Identity string

	// TLSCertPath and TLSKeyPath hold the mTLS client certificate pair used
	// to reach Temporal Cloud. Both must be set together; leaving both empty
	// connects without TLS.
	TLSCertPath string
	TLSKeyPath  string

	// DisableTracing skips installing the OTEL tracing interceptor.
	DisableTracing bool

	// DisableMetrics skips installing the OTEL metrics handler.
	DisableMetrics bool

	// Instrumentation customizes the OTEL interceptors when enabled.
	Instrumentation InstrumentationOptions
}

// InstrumentationOptions forwards customization to the Temporal OTEL contrib
// interceptors.
type InstrumentationOptions struct {
	TracerOptions  temporalotel.TracerOptions
	MetricsOptions temporalotel.MetricsHandlerOptions
}

// Dial connects to Temporal using opts. The given context carries the clue
// logger used for SDK log output.
func Dial(ctx context.Context, opts Options) (sdkclient.Client, error) {
	clientOpts, err := clientOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	cli, err := sdkclient.Dial(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("temporal client: dial %s: %w", clientOpts.HostPort, err)
	}
	return cli, nil
}

func clientOptions(ctx context.Context, opts Options) (sdkclient.Options, error) {
	clientOpts := sdkclient.Options{
		HostPort:  opts.HostPort,
		Namespace: opts.Namespace,
		Identity:  opts.Identity,
		Logger:    NewLogger(ctx),
	}

	tlsConfig, err := tlsConfigFor(opts)
	if err != nil {
		return sdkclient.Options{}, err
	}
	if tlsConfig != nil {
		clientOpts.ConnectionOptions.TLS = tlsConfig
	}

	inst, err := configureInstrumentation(opts)
	if err != nil {
		return sdkclient.Options{}, err
	}
	applyInstrumentation(&clientOpts, inst)
	return clientOpts, nil
}

func tlsConfigFor(opts Options) (*tls.Config, error) {
	if opts.TLSCertPath == "" && opts.TLSKeyPath == "" {
		return nil, nil
	}
	if opts.TLSCertPath == "" || opts.TLSKeyPath == "" {
		return nil, errors.New("temporal client: TLS cert and key paths must be set together")
	}
	cert, err := tls.LoadX509KeyPair(opts.TLSCertPath, opts.TLSKeyPath)
	if err != nil {
		return nil, fmt.Errorf("temporal client: load TLS key pair: %w", err)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
}

type instrumentation struct {
	tracer  interceptor.Interceptor
	metrics sdkclient.MetricsHandler
}

func configureInstrumentation(opts Options) (*instrumentation, error) {
	inst := &instrumentation{}
	if !opts.DisableTracing {
		tracer, err := temporalotel.NewTracingInterceptor(opts.Instrumentation.TracerOptions)
		if err != nil {
			return nil, fmt.Errorf("temporal client: configure tracing interceptor: %w", err)
		}
		inst.tracer = tracer
	}
	if !opts.DisableMetrics {
		inst.metrics = temporalotel.NewMetricsHandler(opts.Instrumentation.MetricsOptions)
	}
	if inst.tracer == nil && inst.metrics == nil {
		return nil, nil
	}
	return inst, nil
}

func applyInstrumentation(opts *sdkclient.Options, inst *instrumentation) {
	if inst == nil {
		return
	}
	if inst.tracer != nil {
		opts.Interceptors = append(opts.Interceptors, inst.tracer)
	}
	if inst.metrics != nil && opts.MetricsHandler == nil {
		opts.MetricsHandler = inst.metrics
	}
}
