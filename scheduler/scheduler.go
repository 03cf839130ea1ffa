package scheduler

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"starpets-hunter/utils"
)

// HuntScheduler runs the hunt on a cron schedule. Runs never overlap: a
// tick that fires while the previous hunt is still going is skipped.
type HuntScheduler struct {
	cron   *cron.Cron
	logger *utils.Logger
	spec   string
	run    func()

	mu sync.Mutex
}

// New validates the cron spec and returns a scheduler for the given run
// function.
func New(spec string, logger *utils.Logger, run func()) (*HuntScheduler, error) {
	s := &HuntScheduler{
		cron:   cron.New(),
		logger: logger,
		spec:   spec,
		run:    run,
	}

	if _, err := s.cron.AddFunc(spec, s.guardedRun); err != nil {
		return nil, fmt.Errorf("scheduler: invalid spec %q: %w", spec, err)
	}
	return s, nil
}

// Start schedules future runs and kicks off one hunt immediately.
func (s *HuntScheduler) Start() {
	go s.guardedRun()
	s.cron.Start()
	s.logger.Info("[scheduler] Hunts scheduled: %q", s.spec)
}

// Stop halts the schedule. A hunt already in flight finishes on its own.
func (s *HuntScheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("[scheduler] Stopped")
}

func (s *HuntScheduler) guardedRun() {
	if !s.mu.TryLock() {
		s.logger.Warn("[scheduler] Previous hunt still running — skipping this tick")
		return
	}
	defer s.mu.Unlock()

	s.run()
}
