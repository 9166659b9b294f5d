package service

import (
	"testing"
	"time"
)

func TestCalculateNextEnqueueTime(t *testing.T) {
	s := NewScheduler(nil, nil, nil, time.Minute, "06:30")

	next := s.calculateNextEnqueueTime()
	now := time.Now()

	if !next.After(now) {
		t.Errorf("next enqueue %v is not in the future", next)
	}
	if until := next.Sub(now); until > 24*time.Hour {
		t.Errorf("next enqueue is %v away, want within 24h", until)
	}
	if next.Hour() != 6 || next.Minute() != 30 {
		t.Errorf("next enqueue at %02d:%02d, want 06:30", next.Hour(), next.Minute())
	}
}

func TestCalculateNextEnqueueTimeDefaults(t *testing.T) {
	s := NewScheduler(nil, nil, nil, time.Minute, "")

	next := s.calculateNextEnqueueTime()
	if next.Hour() != 6 || next.Minute() != 0 {
		t.Errorf("next enqueue at %02d:%02d, want the 06:00 default", next.Hour(), next.Minute())
	}
}

func TestCalculateNextBackupTime(t *testing.T) {
	s := NewScheduler(nil, nil, nil, time.Minute, "06:00")

	next := s.calculateNextBackupTime()
	now := time.Now()

	if !next.After(now) {
		t.Errorf("next backup %v is not in the future", next)
	}
	if next.Weekday() != time.Sunday {
		t.Errorf("next backup on %v, want Sunday", next.Weekday())
	}
	if next.Hour() != 3 || next.Minute() != 0 {
		t.Errorf("next backup at %02d:%02d, want 03:00", next.Hour(), next.Minute())
	}
	if until := next.Sub(now); until > 7*24*time.Hour {
		t.Errorf("next backup is %v away, want within a week", until)
	}
}
