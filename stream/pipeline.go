package stream

import (
	"sync"
	"sync/atomic"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/sirupsen/logrus"
)

// Pipeline decouples the network receive loop from CPU-bound decoding. Raw
// updates enter a bounded ingress channel, a fixed pool of workers decodes
// them, and non-empty event batches leave through a bounded egress channel.
//
// Both queues shed on overflow instead of blocking: the receive loop must
// never stall behind a slow decoder, and a slow downstream publisher must not
// stall the workers. Sheds are counted, not treated as errors.
type Pipeline struct {
	ingress chan *pb.SubscribeUpdateTransaction
	egress  chan []Event

	wg     sync.WaitGroup
	closed atomic.Bool

	ingressDrops atomic.Uint64
	egressDrops  atomic.Uint64

	log *logrus.Logger
}

// Stats is a snapshot of the pipeline's shed counters and queue depths.
type Stats struct {
	IngressDepth uint
	EgressDepth  uint
	IngressDrops uint64
	EgressDrops  uint64
}

// Spawn starts workerCount decode workers over an ingress queue of
// ingressCap slots and an egress queue of egressCap slots. Each worker owns
// its Scratch; the two channels are the only state shared across workers.
func Spawn(workerCount, ingressCap, egressCap int, log *logrus.Logger) *Pipeline {
	p := &Pipeline{
		ingress: make(chan *pb.SubscribeUpdateTransaction, ingressCap),
		egress:  make(chan []Event, egressCap),
		log:     log,
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker(i)
	}

	return p
}

func (p *Pipeline) worker(id int) {
	defer p.wg.Done()

	processor := NewProcessor(p.log)
	scratch := &Scratch{}

	for tx := range p.ingress {
		events, err := processor.Process(tx, scratch)
		if err != nil {
			p.log.Warnf("worker %d dropping update: %s", id, err)
			continue
		}
		if len(events) == 0 {
			continue
		}

		// The batch has to outlive the scratch reuse on the next iteration.
		batch := make([]Event, len(events))
		copy(batch, events)

		select {
		case p.egress <- batch:
		default:
			p.egressDrops.Add(1)
			p.log.Debugf("egress full, shedding batch of %d events", len(batch))
		}
	}
}

// Offer hands one raw update to the pipeline without blocking. It reports
// false when the update was shed because the ingress queue was full or the
// pipeline is closed. Offer must not be called concurrently with Close.
func (p *Pipeline) Offer(tx *pb.SubscribeUpdateTransaction) bool {
	if p.closed.Load() {
		return false
	}
	select {
	case p.ingress <- tx:
		return true
	default:
		p.ingressDrops.Add(1)
		p.log.Debug("ingress full, shedding transaction update")
		return false
	}
}

// Events is the egress queue. It is closed once Close has drained the
// workers, so a consumer can simply range over it.
func (p *Pipeline) Events() <-chan []Event {
	return p.egress
}

// Close stops intake, waits for in-flight workers to finish the queued
// updates, then closes the egress channel.
func (p *Pipeline) Close() {
	if p.closed.Swap(true) {
		return
	}
	close(p.ingress)
	p.wg.Wait()
	close(p.egress)
}

func (p *Pipeline) Stats() Stats {
	return Stats{
		IngressDepth: uint(len(p.ingress)),
		EgressDepth:  uint(len(p.egress)),
		IngressDrops: p.ingressDrops.Load(),
		EgressDrops:  p.egressDrops.Load(),
	}
}
