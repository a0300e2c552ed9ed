// Command worker runs the Temporal worker hosting the order lifecycle
// workflow and its activities.
package main

import (
	"context"
	"flag"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"goa.design/clue/log"

	"github.com/dishpatch/dishpatch/clients/temporal"
	"github.com/dishpatch/dishpatch/config"
	"github.com/dishpatch/dishpatch/features/notify/devlog"
	pulsenotify "github.com/dishpatch/dishpatch/features/notify/pulse"
	pulseclient "github.com/dishpatch/dishpatch/features/notify/pulse/clients/pulse"
	"github.com/dishpatch/dishpatch/features/orderstore/inmem"
	mongostore "github.com/dishpatch/dishpatch/features/orderstore/mongo"
	mongoclient "github.com/dishpatch/dishpatch/features/orderstore/mongo/clients/mongo"
	prefcache "github.com/dishpatch/dishpatch/features/prefcache/redis"
	"github.com/dishpatch/dishpatch/orders"
)

func main() {
	var (
		configF = flag.String("config", "", "Path to YAML configuration file")
		dbgF    = flag.Bool("debug", false, "Enable debug logs")
	)
	flag.Parse()

	// Setup logger.
	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))
	if *dbgF {
		ctx = log.Context(ctx, log.WithDebug())
		log.Debugf(ctx, "debug logs enabled")
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

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
	}

	store, cleanup, err := buildStore(ctx, cfg, rdb)
	if err != nil {
		log.Fatal(ctx, err)
	}
	defer cleanup()

	notifier, err := buildNotifier(ctx, rdb)
	if err != nil {
		log.Fatal(ctx, err)
	}

	acts, err := orders.NewActivities(store, notifier)
	if err != nil {
		log.Fatal(ctx, err)
	}

	w := worker.New(cli, cfg.Temporal.TaskQueue, worker.Options{
		BackgroundActivityContext: ctx,
	})
	w.RegisterWorkflowWithOptions(orders.Workflow, workflow.RegisterOptions{Name: orders.WorkflowName})
	acts.Register(w)

	log.Print(ctx, log.KV{K: "msg", V: "worker started"},
		log.KV{K: "task_queue", V: cfg.Temporal.TaskQueue},
		log.KV{K: "namespace", V: cfg.Temporal.Namespace})
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal(ctx, err)
	}
}

// buildStore selects the order store backend: MongoDB when a URI is
// configured, in-memory otherwise. A configured Redis client layers the
// read-through preference cache on top.
func buildStore(ctx context.Context, cfg config.Config, rdb *goredis.Client) (orders.Store, func(), error) {
	var (
		store   orders.Store
		cleanup = func() {}
	)
	if cfg.Mongo.URI != "" {
		mcli, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			mcli.Disconnect(dctx) // nolint: errcheck
		}
		client, err := mongoclient.New(mongoclient.Options{
			Client:   mcli,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		store, err = mongostore.NewStore(client)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		log.Print(ctx, log.KV{K: "msg", V: "order store: mongodb"},
			log.KV{K: "database", V: cfg.Mongo.Database})
	} else {
		store = inmem.New()
		log.Print(ctx, log.KV{K: "msg", V: "order store: in-memory"})
	}

	if rdb != nil {
		cached, err := prefcache.New(prefcache.Options{Client: rdb, Store: store})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		store = cached
		log.Print(ctx, log.KV{K: "msg", V: "preference cache enabled"})
	}
	return store, cleanup, nil
}

// buildNotifier publishes push notifications to Pulse streams when Redis is
// configured and logs everything otherwise. SMS always goes through the dev
// notifier since no carrier gateway is wired in.
func buildNotifier(ctx context.Context, rdb *goredis.Client) (orders.Notifier, error) {
	dev := devlog.New(devlog.Options{})
	if rdb == nil {
		return dev, nil
	}
	pc, err := pulseclient.New(pulseclient.Options{Redis: rdb})
	if err != nil {
		return nil, err
	}
	push, err := pulsenotify.New(pulsenotify.Options{Client: pc})
	if err != nil {
		return nil, err
	}
	log.Print(ctx, log.KV{K: "msg", V: "push notifier: pulse streams"})
	return &channelNotifier{push: push, sms: dev}, nil
}

// channelNotifier routes notifications to a backend per channel.
type channelNotifier struct {
	push orders.Notifier
	sms  orders.Notifier
}

func (n *channelNotifier) Send(ctx context.Context, note orders.Notification) error {
	if note.Channel == orders.ChannelSMS {
		return n.sms.Send(ctx, note)
	}
	return n.push.Send(ctx, note)
}
