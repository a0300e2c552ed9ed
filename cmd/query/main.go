// Command query reports the current state of a running order workflow.
package main

import (
	"context"
	"flag"
	"fmt"

	"goa.design/clue/log"

	"github.com/dishpatch/dishpatch/clients/temporal"
	"github.com/dishpatch/dishpatch/config"
	"github.com/dishpatch/dishpatch/orders"
)

func main() {
	var (
		configF  = flag.String("config", "", "Path to YAML configuration file")
		orderIDF = flag.String("order-id", "", "Order ID of the running workflow")
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

	res, err := cli.QueryWorkflow(ctx, *orderIDF, "", orders.QueryOrderState)
	if err != nil {
		log.Fatal(ctx, err)
	}
	var state orders.OrderState
	if err := res.Get(&state); err != nil {
		log.Fatal(ctx, err)
	}
	fmt.Printf("%s: %s\n", state, state.Description())
}
