// Package shardqueue runs remote writes on a fixed set of worker goroutines.
// Jobs are routed by key, so writes for one meal run in submission order while
// different meals proceed in parallel. Submits for the same key must come from
// one goroutine at a time for that order to hold.
package shardqueue

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/FluffyKas/cooking-helper/client/internal/errors"
)

type queuedJob struct {
	ctx context.Context
	job Job
}

// ShardExecutor owns one bounded queue and one worker per shard.
type ShardExecutor struct {
	cfg    Config
	queues []chan queuedJob

	done    chan struct{}
	stopped atomic.Bool

	wg sync.WaitGroup
}

// NewShardExecutor starts cfg.Shards workers. Zero fields in cfg take the
// defaults documented on Config.
func NewShardExecutor(cfg Config) *ShardExecutor {
	cfg = cfg.withDefaults()
	p := &ShardExecutor{
		cfg:    cfg,
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
	}
	p.wg.Add(cfg.Shards)
	for i := range p.queues {
		p.queues[i] = make(chan queuedJob, cfg.QueueSize)
		go p.runWorker(i, p.queues[i])
	}
	return p
}

// Submit queues job on the shard owning key. It fails with ErrExecutorClosed
// after Stop, with a *QueueFullError when the shard stays full for
// EnqueueTimeout, or with ctx.Err(). A rejected job never runs and is never
// completed.
func (p *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	if p.stopped.Load() {
		return ErrExecutorClosed
	}

	shard := p.shardFor(key)
	ch := p.queues[shard]
	wait := time.NewTimer(p.cfg.EnqueueTimeout)
	defer wait.Stop()

	select {
	case ch <- queuedJob{ctx: ctx, job: job}:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil
	case <-p.done:
		return ErrExecutorClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-wait.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{Shard: shard, Length: len(ch), Capacity: cap(ch)}
	}
}

// Barrier enqueues a no-op job on the shard for key and waits until it runs,
// ensuring all previously submitted jobs for that key have completed.
func (p *ShardExecutor) Barrier(ctx context.Context, key string) error {
	done := make(chan struct{})
	j := JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
	if err := p.Submit(ctx, key, j); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop rejects new work, lets every worker run what is already queued once,
// and returns when all workers have exited. Repeated calls are no-ops.
func (p *ShardExecutor) Stop() {
	if !p.stopped.CompareAndSwap(false, true) {
		return
	}
	log.Debug().Int("shards", p.cfg.Shards).Msg("shardqueue: stopping")
	close(p.done)
	p.wg.Wait()
	log.Debug().Msg("shardqueue: stopped")
}

// Close implements io.Closer.
func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()

	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			if qj.job == nil {
				continue
			}
			p.settle(qj, label, p.execute(qj, label))
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-p.done:
			// Drain remaining jobs once each, preserving FIFO, then exit.
			if remaining := len(ch); remaining > 0 {
				log.Debug().Int("worker", idx).Int("remaining", remaining).Msg("shardqueue: draining")
			}
			for {
				select {
				case qj := <-ch:
					if qj.job == nil {
						continue
					}
					p.settle(qj, label, p.runOnce(qj, label))
				default:
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

// execute runs qj with bounded exponential-backoff retries. Irrecoverable
// errors end the job immediately.
func (p *ShardExecutor) execute(qj queuedJob, label string) error {
	// Honour caller context so a cancelled job doesn't stall the shard.
	if err := qj.ctx.Err(); err != nil {
		return err
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = p.cfg.MaxInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	for attempt := 1; ; attempt++ {
		err := p.runOnce(qj, label)
		if err == nil || errors.IsIrrecoverable(err) || attempt >= p.cfg.MaxAttempts {
			return err
		}

		timer := time.NewTimer(exp.NextBackOff())
		select {
		case <-timer.C:
		case <-p.done:
			timer.Stop()
			return err
		case <-qj.ctx.Done():
			timer.Stop()
			return qj.ctx.Err()
		}
	}
}

func (p *ShardExecutor) runOnce(qj queuedJob, label string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("shardqueue: job panic: %v", r)
		}
	}()
	start := time.Now()
	err = qj.job.Run(qj.ctx)
	runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	return err
}

func (p *ShardExecutor) settle(qj queuedJob, label string, err error) {
	if err != nil {
		jobFailuresTotal.WithLabelValues(label).Inc()
		p.safeHandleError(err)
	}
	if c, ok := qj.job.(Completer); ok {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Msg("shardqueue: completion hook panic")
				}
			}()
			c.Complete(err)
		}()
	}
}

func (p *ShardExecutor) safeHandleError(err error) {
	if err == nil || p.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("shardqueue: error handler panic")
		}
	}()
	p.cfg.ErrorHandler(err)
}

func (p *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.cfg.Shards))
}
