package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_available_slots"
	getBookedSlotsHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_booked_slots"
	getBookingHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_booking"
	getBookingPolicyHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_booking_policy"
	getReminderStatsHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_reminder_stats"
	getUserBookingsHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_user_bookings"
	resetReminderHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/reset_reminder"
	sendReminderHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/send_reminder"
	updateBookingPolicyHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/update_booking_policy"
	updateBookingStatusHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/update_booking_status"
	validateBookingHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/validate_booking"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/catalog"
	settingsRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ClinicBookingService/internal/integrations/notify"
	userServiceClient "github.com/m04kA/SMC-ClinicBookingService/internal/integrations/userservice"
	availabilityService "github.com/m04kA/SMC-ClinicBookingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-ClinicBookingService/internal/service/bookings"
	cancellationService "github.com/m04kA/SMC-ClinicBookingService/internal/service/cancellation"
	policyService "github.com/m04kA/SMC-ClinicBookingService/internal/service/policy"
	remindersService "github.com/m04kA/SMC-ClinicBookingService/internal/service/reminders"
	createBookingUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/get_available_slots"
	validateBookingUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/validate_booking"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ClinicBookingService...")

	location, err := cfg.Clinic.Location()
	if err != nil {
		log.Fatal("Invalid clinic timezone: %v", err)
	}
	log.Info("Clinic timezone: %s", location)

	// Инициализируем метрики (если включены)
	// Все методы *metrics.Metrics безопасны для nil
	var metricsCollector *metrics.Metrics
	var dbObserver dbmetrics.Observer
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbObserver = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, dbObserver, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Redis опционален: без него политика читается из БД на каждый запрос,
	// а напоминания захватываются только условным UPDATE
	var (
		redisClient  *redis.Client
		policyCache  policyService.Cache
		reminderLock remindersService.Claimer
	)
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unreachable at %s, continuing in degraded mode: %v", cfg.Redis.Addr, err)
		} else {
			log.Info("Successfully connected to Redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
		}
		cancel()

		owner, _ := os.Hostname()
		policyCache = redisClient
		reminderLock = remindersService.NewRedisClaimer(
			redisClient,
			time.Duration(cfg.Reminders.ClaimTTLSeconds)*time.Second,
			fmt.Sprintf("%s:%d", owner, os.Getpid()),
		)
	} else {
		log.Info("Redis disabled: policy cache and reminder claims are off")
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	policyStore := policyService.NewStore(
		settingsRepository,
		policyCache,
		time.Duration(cfg.PolicyCache.TTLSeconds)*time.Second,
		metricsCollector,
		log,
	)
	slotResolver := availabilityService.NewResolver(bookingRepository, log)
	cancellationPolicy := cancellationService.NewPolicy(policyStore)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		cancellationPolicy,
		slotResolver,
		location,
		log,
	)

	// Инициализируем use cases
	validateBookingUseCase := validateBookingUC.NewUseCase(
		policyStore,
		catalogRepository,
		slotResolver,
		metricsCollector,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		validateBookingUseCase,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		policyStore,
		catalogRepository,
		slotResolver,
		cfg.Clinic.SlotStepMinutes,
		log,
	)

	// Инициализируем интеграции и планировщик напоминаний
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	notifier := notify.NewService(emailSender(cfg, log), smsSender(cfg, log), log)

	scheduler := remindersService.NewScheduler(
		bookingRepository,
		userClient,
		notifier,
		reminderLock,
		metricsCollector,
		remindersService.RealTimeProvider{},
		log,
		remindersService.Config{
			Interval:  time.Duration(cfg.Reminders.IntervalMinutes) * time.Minute,
			Lookahead: time.Duration(cfg.Reminders.LookaheadHours) * time.Hour,
			Location:  location,
		},
	)
	if cfg.Reminders.Enabled {
		scheduler.Start()
		log.Info("Reminder scheduler started (interval=%dm, lookahead=%dh)",
			cfg.Reminders.IntervalMinutes, cfg.Reminders.LookaheadHours)
	} else {
		log.Info("Reminder scheduler disabled")
	}

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	getBookedSlots := getBookedSlotsHandler.NewHandler(bookingSvc, location, log)
	getBookingPolicy := getBookingPolicyHandler.NewHandler(policyStore, log)
	validateBooking := validateBookingHandler.NewHandler(validateBookingUseCase, location, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, location, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	updateBookingPolicy := updateBookingPolicyHandler.NewHandler(policyStore, log)
	getReminderStats := getReminderStatsHandler.NewHandler(scheduler, log)
	sendReminder := sendReminderHandler.NewHandler(scheduler, log)
	resetReminder := resetReminderHandler.NewHandler(scheduler, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/services/{serviceId}/staff/{staffId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffId}/booked-slots", getBookedSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/booking-policy", getBookingPolicy.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/validate", validateBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Сотрудники клиники ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth, middleware.RequireRole(middleware.RoleStaff, middleware.RoleAdmin))

	admin.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/reminders/stats", getReminderStats.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reminders/{bookingId}/send", sendReminder.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/reminders/{bookingId}/reset", resetReminder.Handle).Methods(http.MethodPost)

	// Политику записи меняет только администратор
	admin.Handle("/booking-policy",
		middleware.RequireRole(middleware.RoleAdmin)(http.HandlerFunc(updateBookingPolicy.Handle)),
	).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся текущего прохода планировщика
	select {
	case <-scheduler.Stop().Done():
		log.Info("Reminder scheduler stopped")
	case <-shutdownCtx.Done():
		log.Warn("Reminder scheduler did not stop in time")
	}

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// emailSender выбирает канал email: SendGrid при наличии ключа, иначе запись в лог
func emailSender(cfg *config.Config, log *logger.Logger) notify.EmailSender {
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGrid.APIKey,
		FromEmail: cfg.SendGrid.FromEmail,
		FromName:  cfg.SendGrid.FromName,
	}, log); sender != nil {
		log.Info("Email reminders via SendGrid (from=%s)", cfg.SendGrid.FromEmail)
		return sender
	}
	log.Warn("SendGrid API key is not set, email reminders are only logged")
	return notify.NewStubSender(log)
}

// smsSender возвращает nil, если Twilio не настроен
func smsSender(cfg *config.Config, log *logger.Logger) notify.SMSSender {
	if sender := notify.NewTwilioSender(notify.TwilioConfig{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		FromNumber: cfg.Twilio.FromNumber,
	}, log); sender != nil {
		log.Info("SMS reminders via Twilio (from=%s)", cfg.Twilio.FromNumber)
		return sender
	}
	return nil
}
