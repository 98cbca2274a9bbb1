package desktop

import (
	"errors"
	"time"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/id"
)

// ErrAlreadyScheduled is returned when a window already has a frame task
var ErrAlreadyScheduled = errors.New("frame task already scheduled")

// FrameFunc advances one window by dt
type FrameFunc func(dt time.Duration)

type frameTask struct {
	key  id.WindowID
	fn   FrameFunc
	last time.Time
}

// Scheduler runs one frame task per window on every tick
type Scheduler struct {
	tasks []*frameTask
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Register adds the frame task for key
func (s *Scheduler) Register(key id.WindowID, fn FrameFunc) error {
	if s.Scheduled(key) {
		return ErrAlreadyScheduled
	}
	s.tasks = append(s.tasks, &frameTask{key: key, fn: fn})
	return nil
}

// Cancel removes the task for key. It reports whether one existed.
func (s *Scheduler) Cancel(key id.WindowID) bool {
	for i, task := range s.tasks {
		if task.key == key {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Scheduled reports whether key has a task
func (s *Scheduler) Scheduled(key id.WindowID) bool {
	for _, task := range s.tasks {
		if task.key == key {
			return true
		}
	}
	return false
}

func (s *Scheduler) live(task *frameTask) bool {
	for _, t := range s.tasks {
		if t == task {
			return true
		}
	}
	return false
}

// Len returns the number of registered tasks
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Tick runs every task with the time elapsed since its previous frame.
// A task's first tick only records the time.
func (s *Scheduler) Tick(now time.Time) {
	// Tasks may cancel themselves or others mid-tick
	tasks := make([]*frameTask, len(s.tasks))
	copy(tasks, s.tasks)

	for _, task := range tasks {
		if !s.live(task) {
			continue
		}
		if task.last.IsZero() {
			task.last = now
			continue
		}
		dt := now.Sub(task.last)
		task.last = now
		task.fn(dt)
	}
}
