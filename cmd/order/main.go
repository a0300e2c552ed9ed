// Command order starts an order lifecycle workflow and waits for its final
// state.
package main

import (
	"context"
	"flag"

	"github.com/google/uuid"
	sdkclient "go.temporal.io/sdk/client"
	"goa.design/clue/log"

	"github.com/dishpatch/dishpatch/clients/temporal"
	"github.com/dishpatch/dishpatch/config"
	"github.com/dishpatch/dishpatch/orders"
)

func main() {
	var (
		configF     = flag.String("config", "", "Path to YAML configuration file")
		orderIDF    = flag.String("order-id", "", "Order ID (generated when empty)")
		expirationF = flag.Int("expiration", orders.DefaultExpirationSeconds, "Seconds the vendor has to accept the order")
		dbgF        = flag.Bool("debug", false, "Enable debug logs")
	)
	flag.Parse()

	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))
	if *dbgF {
		ctx = log.Context(ctx, log.WithDebug())
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

	orderID := *orderIDF
	if orderID == "" {
		orderID = uuid.NewString()
	}

	run, err := cli.ExecuteWorkflow(ctx, sdkclient.StartWorkflowOptions{
		ID:        orderID,
		TaskQueue: cfg.Temporal.TaskQueue,
	}, orders.WorkflowName, orders.WorkflowInput{
		OrderID:           orderID,
		ExpirationSeconds: *expirationF,
	})
	if err != nil {
		log.Fatal(ctx, err)
	}
	log.Print(ctx, log.KV{K: "msg", V: "order placed"},
		log.KV{K: "order_id", V: orderID},
		log.KV{K: "run_id", V: run.GetRunID()})

	var final orders.OrderState
	if err := run.Get(ctx, &final); err != nil {
		log.Fatal(ctx, err)
	}
	log.Print(ctx, log.KV{K: "msg", V: "order finished"},
		log.KV{K: "order_id", V: orderID},
		log.KV{K: "state", V: final.String()})
}
