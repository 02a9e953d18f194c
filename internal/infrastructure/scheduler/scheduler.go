// Package scheduler откладывает выполнение задач с возможностью отмены по ключу.
package scheduler

import (
	"context"
	"sync"
	"time"
)

// Scheduler хранит по одному таймеру на ключ.
type Scheduler struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	running sync.WaitGroup
	stopped bool
}

func New() *Scheduler {
	return &Scheduler{timers: make(map[string]*time.Timer)}
}

// Schedule запускает fn через delay. Повторный вызов с тем же ключом заменяет прежнюю задачу.
// После Stop новые задачи не принимаются.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if prev, ok := s.timers[key]; ok && prev.Stop() {
		s.running.Done()
	}

	s.running.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		defer s.running.Done()

		s.mu.Lock()
		current, ok := s.timers[key]
		if !ok || current != timer {
			s.mu.Unlock()
			return
		}
		delete(s.timers, key)
		s.mu.Unlock()

		fn()
	})
	s.timers[key] = timer
}

// Cancel отменяет задачу. Возвращает false, если задача уже запущена или её не было.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[key]
	if !ok {
		return false
	}

	delete(s.timers, key)
	if !timer.Stop() {
		return false
	}

	s.running.Done()
	return true
}

// Pending возвращает число ожидающих задач.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.timers)
}

// Stop перестаёт принимать задачи и ждёт выполнения уже запланированных, пока не истечёт ctx.
// Задачи выполняются досрочно: каналы, закрытие которых уже объявлено, должны быть удалены.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	for _, timer := range s.timers {
		if timer.Stop() {
			timer.Reset(0)
		}
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
