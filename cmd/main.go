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

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	cancelBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_booking"
	getHolidaysHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_holidays"
	getShopBookingsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_shop_bookings"
	updateCalendarHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/update_calendar"
	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/config"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/holidays"
	rulesCache "github.com/m04kA/SMC-BarberBooking/internal/infra/cache/calendar"
	appointmentRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/appointment"
	calendarRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-BarberBooking/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
	calendarService "github.com/m04kA/SMC-BarberBooking/internal/service/calendar"
	createBookingUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/metrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/txmanager"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

func main() {
	configPath := "config.toml"
	if v, ok := os.LookupEnv("CONFIG_PATH"); ok {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-BarberBooking...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики (nil, если выключены; все потребители безопасны для nil)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	calendarRepository := calendarRepo.NewRepository(wrappedDB)

	// Снимок правил: через кэш redis, если он настроен
	var (
		rulesLoader calendarService.RulesLoader = calendarRepository
		invalidator calendarService.RulesInvalidator
	)
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unavailable, cache will fall back to database: %v", err)
		}
		cancel()

		cache := rulesCache.NewCache(
			calendarRepository,
			redisClient,
			time.Duration(cfg.Redis.TTL)*time.Second,
			metricsCollector,
			log,
		)
		rulesLoader = cache
		invalidator = cache
		log.Info("Calendar rules cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Address, cfg.Redis.TTL)
	} else {
		log.Info("Calendar rules cache disabled")
	}

	// Правила расписания
	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}
	policy := domain.BookingPolicy{
		Location:           location,
		AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
		MinNoticeMinutes:   cfg.Booking.MinNoticeMinutes,
	}
	if cfg.Booking.DayRolloverTime != "" {
		policy.DayRollover = types.MustTimeString(cfg.Booking.DayRolloverTime)
	}

	holidayCalendar := holidays.NewCalculator()
	resolver := availability.NewResolver(holidayCalendar)
	projector := availability.NewProjector()

	// Сервисы
	bookingSvc := bookingsService.NewService(appointmentRepository, txMgr, metricsCollector, log)
	calendarSvc := calendarService.NewService(calendarRepository, rulesLoader, invalidator, holidayCalendar, log)

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		rulesLoader,
		calendarRepository,
		appointmentRepository,
		resolver,
		projector,
		policy,
		metricsCollector,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		rulesLoader,
		calendarRepository,
		txMgr,
		resolver,
		projector,
		policy,
		metricsCollector,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getShopBookings := getShopBookingsHandler.NewHandler(bookingSvc, log)
	getHolidays := getHolidaysHandler.NewHandler(calendarSvc, log)
	updateCalendar := updateCalendarHandler.NewHandler(calendarSvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := wrappedDB.PingContext(ctx); err != nil {
			log.Error("GET /health - Database ping failed: %v", err)
			handlers.RespondServiceUnavailable(w)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/shops/{shopId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	bookingLimit := middleware.RateLimit(cfg.RateLimit.BookingRPS, cfg.RateLimit.BookingBurst)
	api.Handle("/shops/{shopId}/bookings", bookingLimit(http.HandlerFunc(createBooking.Handle))).
		Methods(http.MethodPost)
	api.HandleFunc("/shops/{shopId}/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/shops/{shopId}/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// ============================================================
	// ADMIN ROUTES (X-Admin-Token)
	// ============================================================

	admin := middleware.AdminToken(cfg.Admin.Token)
	adminRoute := func(path string, handler http.HandlerFunc, method string) {
		api.Handle(path, admin(handler)).Methods(method)
	}
	if cfg.Admin.Token == "" {
		log.Warn("Admin token is not configured, admin routes will reject all requests")
	}

	adminRoute("/shops/{shopId}/bookings", getShopBookings.Handle, http.MethodGet)
	adminRoute("/shops/{shopId}/holidays", getHolidays.Handle, http.MethodGet)

	adminRoute("/shops/{shopId}/closed-dates/{date}", updateCalendar.PutClosedDate, http.MethodPut)
	adminRoute("/shops/{shopId}/closed-dates/{date}", updateCalendar.DeleteClosedDate, http.MethodDelete)

	adminRoute("/shops/{shopId}/open-sundays/{date}", updateCalendar.PutOpenSunday, http.MethodPut)
	adminRoute("/shops/{shopId}/open-sundays/{date}", updateCalendar.DeleteOpenSunday, http.MethodDelete)
	adminRoute("/shops/{shopId}/open-sundays/{date}/staff/{staffId}", updateCalendar.PutSundayStaff, http.MethodPut)
	adminRoute("/shops/{shopId}/open-sundays/{date}/staff/{staffId}", updateCalendar.DeleteSundayStaff, http.MethodDelete)

	adminRoute("/shops/{shopId}/open-holidays/{date}", updateCalendar.PutOpenHoliday, http.MethodPut)
	adminRoute("/shops/{shopId}/open-holidays/{date}", updateCalendar.DeleteOpenHoliday, http.MethodDelete)

	adminRoute("/shops/{shopId}/staff/{staffId}/free-day-exceptions", updateCalendar.PostFreeDayException, http.MethodPost)
	adminRoute("/shops/{shopId}/free-day-exceptions/{exceptionId}", updateCalendar.DeleteFreeDayException, http.MethodDelete)

	adminRoute("/shops/{shopId}/opening-hours/{dayOfWeek}", updateCalendar.PutOpeningHours, http.MethodPut)

	// HTTP сервер
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор статистики connection pool
	close(stopMetricsCh)

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
