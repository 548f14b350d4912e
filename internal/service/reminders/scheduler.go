package reminders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/booking"
)

// Config параметры планировщика
type Config struct {
	Interval  time.Duration
	Lookahead time.Duration
	// Location часовой пояс клиники для выбора дня напоминаний. nil - пояс часов timeProv
	Location *time.Location
}

// Scheduler периодически рассылает напоминания о записях на завтра
// Создается остановленным, запуск только через Start
type Scheduler struct {
	bookingRepo BookingRepository
	directory   RecipientDirectory
	notifier    Notifier
	claimer     Claimer
	metrics     Metrics
	timeProv    TimeProvider
	logger      Logger

	interval  time.Duration
	lookahead time.Duration
	location  *time.Location

	mu       sync.Mutex
	cron     *cron.Cron
	inflight sync.WaitGroup
}

// NewScheduler создает планировщик. claimer и metrics могут быть nil
func NewScheduler(
	bookingRepo BookingRepository,
	directory RecipientDirectory,
	notifier Notifier,
	claimer Claimer,
	metrics Metrics,
	timeProv TimeProvider,
	logger Logger,
	cfg Config,
) *Scheduler {
	return &Scheduler{
		bookingRepo: bookingRepo,
		directory:   directory,
		notifier:    notifier,
		claimer:     claimer,
		metrics:     metrics,
		timeProv:    timeProv,
		logger:      logger,
		interval:    cfg.Interval,
		lookahead:   cfg.Lookahead,
		location:    cfg.Location,
	}
}

// Start запускает немедленный скан и затем сканы с интервалом. Повторный вызов ничего не делает
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return
	}

	log := cronLogger{logger: s.logger}
	job := cron.NewChain(cron.Recover(log), cron.SkipIfStillRunning(log)).Then(cron.FuncJob(s.runScan))

	c := cron.New(cron.WithLogger(log))
	c.Schedule(cron.Every(s.interval), job)
	c.Start()
	s.cron = c

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		job.Run()
	}()

	s.logger.Info("ReminderScheduler: started, interval=%s lookahead=%s", s.interval, s.lookahead)
}

// Stop прекращает планирование новых сканов. Текущий скан дорабатывает,
// возвращаемый контекст завершается после него. Повторный вызов безопасен
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	if s.cron == nil {
		cancel()
		return ctx
	}

	cronDone := s.cron.Stop()
	s.cron = nil

	go func() {
		<-cronDone.Done()
		s.inflight.Wait()
		cancel()
	}()

	s.logger.Info("ReminderScheduler: stopping")
	return ctx
}

// Running сообщает, запущен ли планировщик
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

func (s *Scheduler) runScan() {
	report, err := s.Scan(context.Background(), s.timeProv.Now())
	if err != nil {
		s.logger.Error("ReminderScan: scan failed: %v", err)
		return
	}
	s.logger.Info("ReminderScan: window=%s candidates=%d sent=%d failed=%d skipped=%d",
		report.WindowStart.Format(domain.DateFormat), report.Candidates, report.Sent, report.Failed, report.Skipped)
}

// Scan рассылает напоминания по всем кандидатам окна
// Ошибка одного кандидата не прерывает скан, прерывает только ошибка выборки
func (s *Scheduler) Scan(ctx context.Context, now time.Time) (*ScanReport, error) {
	started := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveReminderScan(time.Since(started))
		}
	}()

	window := s.window(now)

	// 1. Выбираем кандидатов
	candidates, err := s.bookingRepo.FindReminderCandidates(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("%w: Scan - find candidates: %v", ErrInternal, err)
	}

	report := &ScanReport{
		WindowStart: window.Start,
		WindowEnd:   window.End,
		Candidates:  len(candidates),
	}

	// 2. Обрабатываем каждого кандидата независимо
	for _, candidate := range candidates {
		result := s.processCandidate(ctx, candidate)
		if s.metrics != nil {
			s.metrics.ObserveReminder(result)
		}

		switch result {
		case ResultSent:
			report.Sent++
		case ResultMarkFailed:
			report.Sent++
			report.MarkFailed++
		case ResultSkipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}

	return report, nil
}

func (s *Scheduler) processCandidate(ctx context.Context, candidate *domain.ReminderCandidate) string {
	bookingID := candidate.Booking.ID

	// Захват отправки (если настроен Redis)
	claimed := false
	if s.claimer != nil {
		ok, err := s.claimer.Claim(ctx, bookingID)
		switch {
		case err != nil:
			s.logger.Warn("ReminderScan: claim unavailable for booking=%d, sending without claim: %v", bookingID, err)
		case !ok:
			s.logger.Info("ReminderScan: booking=%d claimed by another instance", bookingID)
			return ResultSkipped
		default:
			claimed = true
		}
	}

	if err := s.deliver(ctx, candidate); err != nil {
		s.logger.Warn("ReminderScan: reminder for booking=%d not sent: %v", bookingID, err)
		if claimed {
			s.release(ctx, bookingID)
		}
		return ResultFailed
	}

	// Отметка сразу после отправки, до перехода к следующему кандидату
	marked, err := s.bookingRepo.MarkReminderSent(ctx, bookingID)
	if err != nil {
		s.logger.Error("ReminderScan: reminder for booking=%d sent but not marked: %v", bookingID, err)
		return ResultMarkFailed
	}
	if !marked {
		s.logger.Warn("ReminderScan: booking=%d was already marked by another instance", bookingID)
	}

	return ResultSent
}

func (s *Scheduler) deliver(ctx context.Context, candidate *domain.ReminderCandidate) error {
	recipient, err := s.directory.GetRecipient(ctx, candidate.Booking.UserID)
	if err != nil {
		return fmt.Errorf("%w: resolve recipient user=%d: %v", ErrDelivery, candidate.Booking.UserID, err)
	}

	if err := s.notifier.SendReminder(ctx, *recipient, domain.NewReminder(*candidate)); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	return nil
}

func (s *Scheduler) release(ctx context.Context, bookingID int64) {
	if err := s.claimer.Release(ctx, bookingID); err != nil {
		s.logger.Warn("ReminderScan: failed to release claim for booking=%d: %v", bookingID, err)
	}
}

func (s *Scheduler) window(now time.Time) domain.ReminderWindow {
	if s.location != nil {
		now = now.In(s.location)
	}
	return domain.NewReminderWindow(now, s.lookahead)
}

// GetStats возвращает статистику напоминаний по окну для now
func (s *Scheduler) GetStats(ctx context.Context, now time.Time) (*domain.ReminderStats, error) {
	window := s.window(now)

	stats, err := s.bookingRepo.CountReminderStats(ctx, window)
	if err != nil {
		s.logger.Error("GetStats: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetStats - count stats: %v", ErrInternal, err)
	}

	return stats, nil
}

// SendManualReminder отправляет напоминание вне расписания и выставляет флаг
func (s *Scheduler) SendManualReminder(ctx context.Context, bookingID int64) error {
	s.logger.Info("SendManualReminder: booking=%d", bookingID)

	candidate, err := s.bookingRepo.GetReminderCandidate(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("%w: SendManualReminder - get booking: %v", ErrInternal, err)
	}

	if candidate.Booking.Status == domain.StatusCancelled || candidate.Booking.Status == domain.StatusCompleted {
		s.logger.Warn("SendManualReminder: booking=%d has status=%s", bookingID, candidate.Booking.Status)
		return ErrNotRemindable
	}

	if err := s.deliver(ctx, candidate); err != nil {
		s.logger.Warn("SendManualReminder: booking=%d: %v", bookingID, err)
		return err
	}

	if err := s.bookingRepo.SetReminderSent(ctx, bookingID); err != nil {
		s.logger.Error("SendManualReminder: reminder for booking=%d sent but not marked: %v", bookingID, err)
		return fmt.Errorf("%w: SendManualReminder - mark sent: %v", ErrInternal, err)
	}

	if s.metrics != nil {
		s.metrics.ObserveReminder(ResultSent)
	}
	return nil
}

// ResetReminderStatus сбрасывает флаг отправки, бронирование снова попадет в скан
func (s *Scheduler) ResetReminderStatus(ctx context.Context, bookingID int64) error {
	s.logger.Info("ResetReminderStatus: booking=%d", bookingID)

	if err := s.bookingRepo.ResetReminderSent(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("%w: ResetReminderStatus - reset flag: %v", ErrInternal, err)
	}

	if s.claimer != nil {
		s.release(ctx, bookingID)
	}
	return nil
}
