package main

import (
	"context"
	"database/sql"
	"flag"
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

	cancelBookingHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/create_booking"
	createDateConstraintHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/create_date_constraint"
	deleteDateConstraintHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/delete_date_constraint"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_available_slots"
	getBarberBookingsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_barber_bookings"
	getBookingHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_booking"
	getDayAvailabilityHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_day_availability"
	getScheduleHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_schedule"
	getUserBookingsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_user_bookings"
	updateScheduleHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/update_schedule"
	updateSettingsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/windows"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	settingsRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/access"
	bookingsService "github.com/m04kA/SMC-AvailabilityService/internal/service/bookings"
	scheduleService "github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
	createBookingUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
	getDayAvailabilityUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_day_availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML configuration")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-AvailabilityService...")
	log.Info("Configuration loaded from %s", *configPath)

	// Метрики; nil-коллектор безопасен и ничего не пишет
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
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

	// Кэш рабочих окон
	windowsCache, closeCache, err := newWindowsCache(cfg)
	if err != nil {
		log.Fatal("Failed to initialize windows cache: %v", err)
	}
	defer closeCache()
	log.Info("Windows cache initialized (driver=%s, ttl=%s)", cfg.Cache.Driver, cfg.Cache.TTL())

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(db)
	scheduleRepository := scheduleRepo.NewRepository(db)
	settingsRepository := settingsRepo.NewRepository(db)
	catalogRepository := catalogRepo.NewRepository(db)
	txMgr := txmanager.NewTransactionManager(db)

	accessPolicy := access.NewPolicy(cfg.Access.ManagerIDs)
	log.Info("Access policy initialized (managers=%d)", len(cfg.Access.ManagerIDs))

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, accessPolicy, log)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		settingsRepository,
		windowsCache,
		accessPolicy,
		txMgr,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		settingsRepository,
		catalogRepository,
		windowsCache,
		metricsCollector,
		log,
	)

	getDayAvailabilityUseCase := getDayAvailabilityUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		settingsRepository,
		catalogRepository,
		metricsCollector,
		getDayAvailabilityUC.Options{
			DefaultHorizonDays: cfg.Availability.DefaultHorizonDays,
			MaxHorizonDays:     cfg.Availability.MaxHorizonDays,
			Workers:            cfg.Availability.Workers,
		},
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		settingsRepository,
		catalogRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getDayAvailability := getDayAvailabilityHandler.NewHandler(getDayAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getBarberBookings := getBarberBookingsHandler.NewHandler(bookingSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(scheduleSvc, log)
	createDateConstraint := createDateConstraintHandler.NewHandler(scheduleSvc, log)
	deleteDateConstraint := deleteDateConstraintHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации, с ограничением частоты)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		public.Use(limiter.Limit)
		log.Info("Rate limiting enabled for public routes (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Доступные слоты на дату
	public.HandleFunc("/barbers/{barberId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Количество свободных слотов по дням
	public.HandleFunc("/barbers/{barberId}/day-availability", getDayAvailability.Handle).Methods(http.MethodGet)

	// Недельное расписание, ограничения и настройки мастера
	public.HandleFunc("/barbers/{barberId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление расписанием (мастер для себя, менеджеры для всех) ---
	protected.HandleFunc("/barbers/{barberId}/bookings", getBarberBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/barbers/{barberId}/schedule", updateSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/barbers/{barberId}/settings", updateSettings.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/barbers/{barberId}/constraints", createDateConstraint.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/constraints/{constraintId}", deleteDateConstraint.Handle).Methods(http.MethodDelete)

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

	log.Info("Server stopped gracefully")
}

// newWindowsCache создает кэш окон по cache.driver; вторым значением возвращается функция закрытия
func newWindowsCache(cfg *config.Config) (windows.Cache, func(), error) {
	switch cfg.Cache.Driver {
	case config.CacheDriverNone:
		return windows.Nop{}, func() {}, nil

	case config.CacheDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}

		return windows.NewRedis(client, cfg.Redis.KeyPrefix, cfg.Cache.TTL()), func() { _ = client.Close() }, nil

	default:
		return windows.NewMemory(cfg.Cache.TTL()), func() {}, nil
	}
}
