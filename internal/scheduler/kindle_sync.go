package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/importers"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Importer runs one clippings import.
type Importer interface {
	Import(text string, opts importers.Options) (importers.ImportResult, error)
}

// ImportHistory finds the last successful import of a file, so unchanged
// files are not re-imported after a restart.
type ImportHistory interface {
	GetLastCompletedImport(filePath string) (*entities.ImportSession, error)
}

type SyncState string

const (
	SyncStateSuccess   SyncState = "success"
	SyncStateUnchanged SyncState = "unchanged"
	SyncStateFailed    SyncState = "failed"
	SyncStateBusy      SyncState = "busy"
)

// SyncStatus describes the outcome of the latest run.
type SyncStatus struct {
	State   SyncState `json:"state"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// KindleSyncScheduler re-imports a My Clippings.txt file on a cron schedule,
// typically the one on a mounted Kindle. Runs whose file content matches
// the last successful import are skipped.
type KindleSyncScheduler struct {
	importer Importer
	history  ImportHistory
	path     string
	schedule string
	opts     importers.Options

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSyncing  bool
	lastHash   string
	lastStatus *SyncStatus
	cancelFunc context.CancelFunc
}

// NewKindleSyncScheduler creates a new scheduler instance
func NewKindleSyncScheduler(importer Importer, path, schedule string, opts importers.Options) *KindleSyncScheduler {
	opts.SourcePath = path
	return &KindleSyncScheduler{
		importer: importer,
		path:     path,
		schedule: schedule,
		opts:     opts,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// WithHistory seeds change detection from previously recorded imports.
func (s *KindleSyncScheduler) WithHistory(history ImportHistory) *KindleSyncScheduler {
	s.history = history
	return s
}

// Start begins the scheduler.
func (s *KindleSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.path == "" {
		log.Printf("Kindle sync scheduler: clippings path not configured, skipping")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	if s.history != nil && s.lastHash == "" {
		if session, err := s.history.GetLastCompletedImport(s.path); err == nil && session != nil {
			s.lastHash = session.ContentHash
		}
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Kindle sync scheduler: started with schedule '%s' for %s", s.schedule, s.path)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler. It waits for a running import,
// which needs s.mu, so the lock is released first.
func (s *KindleSyncScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(s.entryID)

	if cancel != nil {
		cancel()
	}

	log.Printf("Kindle sync scheduler: stopped")
}

// RunNow triggers an immediate sync
func (s *KindleSyncScheduler) RunNow() {
	go s.runSync()
}

// IsRunning returns whether the scheduler is active
func (s *KindleSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Status returns the outcome of the latest run, or nil before the first.
func (s *KindleSyncScheduler) Status() *SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastStatus == nil {
		return nil
	}
	status := *s.lastStatus
	return &status
}

// GetNextRunTime returns when the next sync will occur
func (s *KindleSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSync performs one import of the clippings file.
func (s *KindleSyncScheduler) runSync() SyncStatus {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		log.Printf("Kindle sync: skipped (previous run still in progress)")
		return SyncStatus{State: SyncStateBusy, Message: "previous run still in progress", At: time.Now()}
	}
	s.isSyncing = true
	lastHash := s.lastHash
	s.mu.Unlock()

	status, hash := s.importFile(lastHash)

	s.mu.Lock()
	s.isSyncing = false
	if status.State == SyncStateSuccess {
		s.lastHash = hash
	}
	s.lastStatus = &status
	s.mu.Unlock()

	log.Printf("Kindle sync: %s (%s)", status.Message, status.State)
	return status
}

func (s *KindleSyncScheduler) importFile(lastHash string) (SyncStatus, string) {
	startTime := time.Now()
	failed := func(err error) (SyncStatus, string) {
		return SyncStatus{State: SyncStateFailed, Message: err.Error(), At: startTime}, ""
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return failed(fmt.Errorf("failed to read %s: %w", s.path, err))
	}
	text, err := importers.DecodeText(data)
	if err != nil {
		return failed(err)
	}

	hash := importers.ContentHash(text)
	if hash == lastHash {
		return SyncStatus{State: SyncStateUnchanged, Message: "clippings file unchanged", At: startTime}, hash
	}

	result, err := s.importer.Import(text, s.opts)
	if errors.Is(err, importers.ErrEmptyInput) {
		return SyncStatus{State: SyncStateUnchanged, Message: "clippings file is empty", At: startTime}, ""
	}
	if err != nil {
		return failed(fmt.Errorf("import failed: %w", err))
	}

	message := fmt.Sprintf("Imported %d clippings from %d books (%d new) in %v",
		len(result.Records), result.Export.BooksProcessed, result.Export.HighlightsCreated,
		time.Since(startTime).Round(time.Millisecond))
	return SyncStatus{State: SyncStateSuccess, Message: message, At: startTime}, hash
}
