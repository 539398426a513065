package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/franco-bianco/solstream/geyser"
	"github.com/franco-bianco/solstream/publisher"
	"github.com/franco-bianco/solstream/stream"
)

const (
	workerCount = 4
	ingressCap  = 200
	egressCap   = 200

	publishTimeout = 5 * time.Second
)

type batchPublisher interface {
	Publish(ctx context.Context, batch []stream.Event) error
}

// drainEvents forwards decoded batches to the publisher until the egress
// channel closes. Each publish runs under its own timeout, not the stream
// context: batches drained after the receive loop stops still go out. A
// failed publish loses that batch only; the pipeline is best-effort end to
// end.
func drainEvents(events <-chan []stream.Event, pub batchPublisher, log *logrus.Logger) {
	for batch := range events {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := pub.Publish(ctx, batch); err != nil {
			log.Warnf("publish failed: %s", err)
		}
		cancel()
	}
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		log.Info("shutting down")
		cancel()
	}()

	client, err := geyser.Connect(ctx, geyser.ConfigFromEnv(), log)
	if err != nil {
		log.Fatalf("error connecting to gateway: %s", err)
	}
	defer client.Close()

	sub, err := client.Subscribe(ctx, stream.WatchedPrograms)
	if err != nil {
		log.Fatalf("error subscribing: %s", err)
	}

	pub, err := publisher.NewRedisPublisher(publisher.ConfigFromEnv(), log)
	if err != nil {
		log.Fatalf("error creating publisher: %s", err)
	}
	defer pub.Close()

	pipeline := stream.Spawn(workerCount, ingressCap, egressCap, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		drainEvents(pipeline.Events(), pub, log)
	}()

	// The receive loop only reads from the stream and offers to the
	// pipeline; decoding never blocks it.
	for {
		tx, err := sub.Next()
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				break
			}
			log.Errorf("stream ended: %s", err)
			break
		}
		pipeline.Offer(tx)
	}

	pipeline.Close()
	<-done

	stats := pipeline.Stats()
	log.Infof("pipeline stopped, shed %d ingress / %d egress", stats.IngressDrops, stats.EgressDrops)
}
