package controller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/homely/homely-back/internal/domain"
	"github.com/homely/homely-back/internal/notify"
)

// JobStore is the data-access contract both dashboards poll. It is satisfied
// by service.JobsService in-process and by client.Client over HTTP.
type JobStore interface {
	ListJobs(ctx context.Context) ([]domain.Job, error)
	CreateJob(ctx context.Context, job domain.Job) (domain.Job, error)
	UpdateJobStatus(ctx context.Context, id string, status domain.JobStatus) (domain.Job, error)
}

const defaultPollInterval = 5 * time.Second

type Config struct {
	// Interval between background polls. Defaults to 5s, matching the
	// dashboard refresh cadence.
	Interval time.Duration
	// Hub, when set, triggers an immediate re-poll on job events instead of
	// waiting for the next tick.
	Hub    *notify.Hub
	Logger zerolog.Logger
}

// poller owns the jobs snapshot a dashboard renders. Mutations and polls from
// one poller are serialized by its callers awaiting each operation; a
// generation counter discards poll results that land after Close.
type poller struct {
	store    JobStore
	interval time.Duration
	hub      *notify.Hub
	logger   zerolog.Logger
	filter   func(domain.Job) bool

	mu      sync.Mutex
	jobs    []domain.Job
	loading bool
	closed  bool
	gen     uint64

	cancel       context.CancelFunc
	cancelEvents func()
	done         chan struct{}
}

func newPoller(store JobStore, cfg Config, filter func(domain.Job) bool) *poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &poller{
		store:    store,
		interval: interval,
		hub:      cfg.Hub,
		logger:   cfg.Logger,
		filter:   filter,
		loading:  true,
	}
}

// Start launches the poll loop: one fetch on mount, then one per interval,
// plus one per hub event. It must be called at most once.
func (p *poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	var events <-chan notify.Event
	if p.hub != nil {
		events, p.cancelEvents = p.hub.Subscribe(16)
	}

	go func() {
		defer close(p.done)

		p.refresh(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.refresh(ctx)
			case <-events:
				p.refresh(ctx)
			}
		}
	}()
}

// Close tears the view down. In-flight fetches are not aborted; their late
// results are discarded by the generation check in refresh.
func (p *poller) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.gen++
	p.mu.Unlock()

	if p.cancelEvents != nil {
		p.cancelEvents()
	}
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
}

func (p *poller) refresh(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	gen := p.gen
	p.mu.Unlock()

	jobs, err := p.store.ListJobs(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.gen != gen {
		return
	}
	if err != nil {
		// Failed reads keep the previous snapshot; the view shows stale or
		// empty data rather than crashing.
		p.logger.Warn().Err(err).Msg("poll failed")
		return
	}

	filtered := jobs
	if p.filter != nil {
		filtered = make([]domain.Job, 0, len(jobs))
		for _, job := range jobs {
			if p.filter(job) {
				filtered = append(filtered, job)
			}
		}
	}
	p.jobs = filtered
	p.loading = false
}

// Jobs returns the current snapshot, newest first.
func (p *poller) Jobs() []domain.Job {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Job(nil), p.jobs...)
}

func (p *poller) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}
