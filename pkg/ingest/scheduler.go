package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/xjoerootx/smart-test/pkg/hvdb/hvmodel"
	"github.com/xjoerootx/smart-test/pkg/hvdb/stor"
)

const (
	DefaultScanInterval = time.Minute
	DefaultWorkerCount  = 4

	taskQueueSize = 100
)

type SchedulerOptionFN func(*Scheduler)

// Scheduler fires a discovery run for every known server on a fixed interval
// and accepts ad-hoc triggers from the control API. Tasks are fanned out to a
// fixed pool of workers; a failing server only costs its own task, other
// servers keep being processed.
type Scheduler struct {
	serverStor  stor.ServerStor
	discoverer  *Discoverer
	interval    time.Duration
	workerCount int
	tasks       chan hvmodel.Server
	wg          sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

func NewScheduler(optFNs ...SchedulerOptionFN) *Scheduler {
	s := &Scheduler{
		interval:    DefaultScanInterval,
		workerCount: DefaultWorkerCount,
		tasks:       make(chan hvmodel.Server, taskQueueSize),
	}

	for _, optfn := range optFNs {
		optfn(s)
	}

	return s
}

func WithServerStor(serverStor stor.ServerStor) SchedulerOptionFN {
	return func(s *Scheduler) {
		s.serverStor = serverStor
	}
}

func WithDiscoverer(discoverer *Discoverer) SchedulerOptionFN {
	return func(s *Scheduler) {
		s.discoverer = discoverer
	}
}

func WithScanInterval(interval time.Duration) SchedulerOptionFN {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithWorkerCount(workerCount int) SchedulerOptionFN {
	return func(s *Scheduler) {
		if workerCount > 0 {
			s.workerCount = workerCount
		}
	}
}

// Run blocks until ctx is done, scanning all servers once immediately and
// then once per interval. There is no back-pressure between ticks: if a run
// for a server is still in flight when the next tick enqueues it again, the
// claim store resolves the overlap.
func (s *Scheduler) Run(ctx context.Context) {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}

	for {
		s.runDiscoveryForAllServers()
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.stopped = true
			close(s.tasks)
			s.mu.Unlock()
			s.wg.Wait()
			return
		case <-time.After(s.interval):
		}
	}
}

// TriggerServer enqueues one ad-hoc discovery run. Unknown server ids return
// the store's not-found error so the control API can answer 404.
func (s *Scheduler) TriggerServer(serverID int) error {
	server, err := s.serverStor.GetServerByID(serverID)
	if err != nil {
		return err
	}

	s.enqueue(*server)
	return nil
}

func (s *Scheduler) runDiscoveryForAllServers() {
	servers, err := s.serverStor.ListServers()
	if err != nil {
		log.Errorf("Cannot list servers for discovery: %s", err)
		return
	}

	for _, server := range servers {
		s.enqueue(server)
	}
}

func (s *Scheduler) enqueue(server hvmodel.Server) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	select {
	case s.tasks <- server:
	default:
		log.Warnf("Discovery queue is full, skipping scan of server %s this round", server.Name)
	}
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	for server := range s.tasks {
		server := server
		report, err := s.discoverer.Run(ctx, &server)
		if err != nil {
			log.Errorf("Discovery for server %s aborted: %s", server.Name, err)
			continue
		}

		log.Infof("Discovery for server %s: %s", server.Name, report.Summary())
	}
}
