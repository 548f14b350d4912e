package reminders

import "time"

// Результаты обработки кандидата
const (
	ResultSent       = "sent"
	ResultFailed     = "failed"
	ResultSkipped    = "skipped"
	ResultMarkFailed = "mark_failed"
)

// ScanReport итог одного прохода планировщика
type ScanReport struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Candidates  int
	Sent        int
	Failed      int
	Skipped     int
	MarkFailed  int
}

// RealTimeProvider реальное системное время
type RealTimeProvider struct{}

// Now возвращает текущее время
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
