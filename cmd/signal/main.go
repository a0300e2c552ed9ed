// Command signal delivers a lifecycle transition signal to a running order
// workflow.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"goa.design/clue/log"

	"github.com/dishpatch/dishpatch/clients/temporal"
	"github.com/dishpatch/dishpatch/config"
	"github.com/dishpatch/dishpatch/orders"
)

func main() {
	var (
		configF  = flag.String("config", "", "Path to YAML configuration file")
		orderIDF = flag.String("order-id", "", "Order ID of the running workflow")
		signalF  = flag.String("signal", "", "Signal name ("+strings.Join(signalNames(), ", ")+")")
	)
	flag.Parse()

	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))

	if *orderIDF == "" {
		log.Fatal(ctx, fmt.Errorf("-order-id is required"))
	}
	if !validSignal(*signalF) {
		log.Fatal(ctx, fmt.Errorf("invalid signal %q (valid signals: %s)", *signalF, strings.Join(signalNames(), ", ")))
	}

	cfg, err := config.Load(*configF)
	if err != nil {
		log.Fatal(ctx, err)
	}

	cli, err := temporal.Dial(ctx, temporal.Options{
		HostPort:    cfg.Temporal.HostPort,
		Namespace:   cfg.Temporal.Namespace,
		TLSCertPath: cfg.Temporal.TLSCert,
		TLSKeyPath:  cfg.Temporal.TLSKey,
	})
	if err != nil {
		log.Fatal(ctx, err)
	}
	defer cli.Close()

	if err := cli.SignalWorkflow(ctx, *orderIDF, "", *signalF, nil); err != nil {
		log.Fatal(ctx, err)
	}
	log.Print(ctx, log.KV{K: "msg", V: "signal sent"},
		log.KV{K: "order_id", V: *orderIDF},
		log.KV{K: "signal", V: *signalF})
}

func signalNames() []string {
	return orders.TransitionSignals()
}

func validSignal(name string) bool {
	for _, s := range signalNames() {
		if s == name {
			return true
		}
	}
	return false
}
