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

	cancelAppointmentHandler "github.com/namstudio/NAM-AppointmentService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/namstudio/NAM-AppointmentService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/namstudio/NAM-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/namstudio/NAM-AppointmentService/internal/api/handlers/get_available_slots"
	getScheduleHandler "github.com/namstudio/NAM-AppointmentService/internal/api/handlers/get_schedule"
	getUserAppointmentsHandler "github.com/namstudio/NAM-AppointmentService/internal/api/handlers/get_user_appointments"
	listServicesHandler "github.com/namstudio/NAM-AppointmentService/internal/api/handlers/list_services"
	updateStatusHandler "github.com/namstudio/NAM-AppointmentService/internal/api/handlers/update_status"
	"github.com/namstudio/NAM-AppointmentService/internal/api/middleware"
	"github.com/namstudio/NAM-AppointmentService/internal/config"
	"github.com/namstudio/NAM-AppointmentService/internal/infra/migrator"
	appointmentRepo "github.com/namstudio/NAM-AppointmentService/internal/infra/storage/appointment"
	serviceRepo "github.com/namstudio/NAM-AppointmentService/internal/infra/storage/service"
	identityClient "github.com/namstudio/NAM-AppointmentService/internal/integrations/identity"
	notifyClient "github.com/namstudio/NAM-AppointmentService/internal/integrations/notify"
	appointmentsService "github.com/namstudio/NAM-AppointmentService/internal/service/appointments"
	catalogService "github.com/namstudio/NAM-AppointmentService/internal/service/catalog"
	createAppointmentUC "github.com/namstudio/NAM-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/namstudio/NAM-AppointmentService/internal/usecase/get_available_slots"
	"github.com/namstudio/NAM-AppointmentService/pkg/dbmetrics"
	"github.com/namstudio/NAM-AppointmentService/pkg/logger"
	"github.com/namstudio/NAM-AppointmentService/pkg/metrics"
	"github.com/namstudio/NAM-AppointmentService/pkg/simpletxmanager"
	"github.com/namstudio/NAM-AppointmentService/pkg/txmanager"
)

const migrationsDir = "migrations"

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

	log.Info("Starting NAM-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Собираем расписание студии из конфигурации
	schedule, err := cfg.BuildSchedule()
	if err != nil {
		log.Fatal("Failed to build schedule: %v", err)
	}
	log.Info("Studio schedule: %s-%s, interval=%dmin, lunch=%s-%s",
		schedule.OpenTime(), schedule.CloseTime(), schedule.SlotIntervalMinutes(),
		schedule.LunchStart(), schedule.LunchEnd())

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Применяем миграции (если включено)
	if cfg.Database.Migrate {
		mg, err := migrator.New(db, migrationsDir, log)
		if err != nil {
			log.Fatal("Failed to initialize migrator: %v", err)
		}
		if err := mg.Run(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Инициализируем интеграционных клиентов
	identity := identityClient.NewClient(
		cfg.IdentityService.URL,
		time.Duration(cfg.IdentityService.Timeout)*time.Second,
		log,
	)
	notifier := notifyClient.NewClient(
		cfg.NotificationService.URL,
		time.Duration(cfg.NotificationService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (IdentityService=%s timeout=%ds, NotificationService=%s timeout=%ds)",
		cfg.IdentityService.URL, cfg.IdentityService.Timeout,
		cfg.NotificationService.URL, cfg.NotificationService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		apptRepository    *appointmentRepo.Repository
		serviceRepository *serviceRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		apptRepository = appointmentRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		apptRepository = appointmentRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	apptSvc := appointmentsService.NewService(
		apptRepository,
		notifier,
		schedule,
		log,
	)
	catalogSvc := catalogService.NewService(
		serviceRepository,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		apptRepository,
		serviceRepository,
		identity,
		notifier,
		txMgr,
		schedule,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		apptRepository,
		serviceRepository,
		schedule,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(apptSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(apptSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(apptSvc, log)
	updateStatus := updateStatusHandler.NewHandler(apptSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getSchedule := getScheduleHandler.NewHandler(schedule, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации, гостевые записи разрешены)
	// ============================================================

	// Каталог процедур
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)

	// Расписание студии
	api.HandleFunc("/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// Слоты на день для услуги
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание записи (гость или авторизованный пользователь)
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Обновление статуса записи (процесс подтверждения/завершения)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateStatus.Handle).Methods(http.MethodPatch)

	// История записей пользователя
	protected.HandleFunc("/users/{userId}/appointments", getUserAppointments.Handle).Methods(http.MethodGet)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
