package logic

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"ghostodon/shared"
)

const profilerStartDelay = 10 * time.Second
const profilerInterval = 60 * time.Second

// IProfiler periodically dumps goroutine stacks so leaked stream relays show up.
type IProfiler interface {
	Start()
	Stop()
}

type profiler struct {
	logger   shared.ILogger
	dir      string
	keepDays int
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewProfiler returns a profiler that does nothing unless profile_dir is configured.
func NewProfiler(cfg *shared.Config, logger shared.ILogger) IProfiler {
	return &profiler{
		logger:   logger,
		dir:      cfg.ProfileDir,
		keepDays: cfg.ProfileKeepDays,
	}
}

func (prof *profiler) Start() {
	if prof.dir == "" || prof.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	prof.cancel = cancel
	prof.done = make(chan struct{})
	go prof.loop(ctx)
	prof.logger.Infof("Writing goroutine profiles to %s", prof.dir)
}

func (prof *profiler) Stop() {
	if prof.cancel == nil {
		return
	}
	prof.cancel()
	<-prof.done
	prof.cancel = nil
}

func (prof *profiler) loop(ctx context.Context) {
	defer close(prof.done)
	wait := profilerStartDelay
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		wait = profilerInterval
		if err := prof.saveAndPurge(time.Now()); err != nil {
			prof.logger.Warnf("Goroutine profile failed: %v", err)
		}
	}
}

func (prof *profiler) saveAndPurge(now time.Time) error {
	if err := saveGoroutineProfile(prof.dir, now); err != nil {
		return err
	}
	return purgeProfiles(prof.dir, now.AddDate(0, 0, -prof.keepDays))
}

func saveGoroutineProfile(dir string, now time.Time) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	fname := fmt.Sprintf("%v.txt", now.Format("2006-01-02!15-04-05"))
	f, err := os.Create(filepath.Join(dir, fname))
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err = fmt.Fprintf(f, "Goroutine count: %d\n\n", runtime.NumGoroutine()); err != nil {
		return err
	}
	return pprof.Lookup("goroutine").WriteTo(f, 2)
}

// purgeProfiles removes profile files last written before cutoff.
func purgeProfiles(dir string, cutoff time.Time) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && info.ModTime().Before(cutoff) {
			return os.Remove(path)
		}
		return nil
	})
}
