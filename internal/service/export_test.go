package service

import "time"

// SetNow replaces the clock used by summaries.
func SetNow(t *Tracker, now func() time.Time) { t.now = now }
