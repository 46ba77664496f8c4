package sync

import (
	"context"
	"sync"
	"time"

	"github.com/rexxDigital/snailmail/internal/logging"
)

// Importer pulls one remote folder into the inbox.
type Importer interface {
	Import(ctx context.Context, folder string) (int, error)
}

type Syncer interface {
	Start()
	Stop()
	InitSync()
	GetStatus() Status
}

type Status struct {
	IsRunning    bool
	LastSync     time.Time
	ActiveFolder string
	Imported     int
}

type syncer struct {
	importer  Importer
	folders   []string
	interval  time.Duration
	syncQueue chan string

	mu     sync.Mutex
	status Status

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSyncService(importer Importer, folders []string, interval time.Duration) Syncer {
	return &syncer{
		importer:  importer,
		folders:   folders,
		interval:  interval,
		syncQueue: make(chan string, 10),
	}
}

func (s *syncer) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.setRunning(true)

	s.wg.Add(2)
	go s.syncerWorker()
	go s.syncerScheduler()
}

func (s *syncer) Stop() {
	if s.cancel != nil {
		s.cancel()
	}

	s.wg.Wait()

	s.setRunning(false)
}

// InitSync queues every folder right away instead of waiting for the first tick.
func (s *syncer) InitSync() {
	s.queueAllFolders()
}

func (s *syncer) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *syncer) syncerWorker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case folder := <-s.syncQueue:
			s.syncFolder(folder)
		}
	}
}

func (s *syncer) syncerScheduler() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.queueAllFolders()
		}
	}
}

// queueAllFolders adds all our folder names to the syncQueue channel
func (s *syncer) queueAllFolders() {
	for _, folder := range s.folders {
		select {
		case <-s.ctx.Done():
			return
		case s.syncQueue <- folder:
		}
	}
}

func (s *syncer) syncFolder(folder string) {
	s.mu.Lock()
	s.status.ActiveFolder = folder
	s.mu.Unlock()

	n, err := s.importer.Import(s.ctx, folder)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.ActiveFolder = ""
	if err != nil {
		logging.Log.WithError(err).WithField("folder", folder).Warn("Failed to sync folder")
		return
	}
	s.status.LastSync = time.Now()
	s.status.Imported += n
}

func (s *syncer) setRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.IsRunning = running
}
