package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	"github.com/namstudio/NAM-AppointmentService/pkg/types"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server              ServerConfig              `toml:"server"`
	Database            DatabaseConfig            `toml:"database"`
	Logs                LogsConfig                `toml:"logs"`
	Metrics             MetricsConfig             `toml:"metrics"`
	Schedule            ScheduleConfig            `toml:"schedule"`
	IdentityService     IdentityServiceConfig     `toml:"identity_service"`
	NotificationService NotificationServiceConfig `toml:"notification_service"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	Migrate         bool   `toml:"migrate"`           // применять миграции при старте
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ScheduleConfig бизнес-часы студии.
// Вынесены в конфигурацию, чтобы не зашивать расписание в код.
type ScheduleConfig struct {
	OpenTime                string `toml:"open_time"`  // "09:00"
	CloseTime               string `toml:"close_time"` // "18:00"
	SlotIntervalMinutes     int    `toml:"slot_interval_minutes"`
	LunchStart              string `toml:"lunch_start"` // "" = без перерыва
	LunchEnd                string `toml:"lunch_end"`
	ClosedWeekdays          []int  `toml:"closed_weekdays"` // 0 = воскресенье
	MinBookingNoticeMinutes int    `toml:"min_booking_notice_minutes"`
	CancellationCutoffHours int    `toml:"cancellation_cutoff_hours"`
}

// IdentityServiceConfig настройки клиента identity-сервиса
type IdentityServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// NotificationServiceConfig настройки клиента сервиса уведомлений
type NotificationServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// Load читает конфигурацию из TOML файла.
// Перед чтением подхватывает .env (если есть); секреты БД можно
// переопределить переменными окружения DB_HOST, DB_PORT, DB_USER,
// DB_PASSWORD, DB_NAME.
func Load(path string) (*Config, error) {
	// .env опционален
	_ = godotenv.Load(".env")

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidConfig, path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "appointment-service"
	}

	if c.Schedule.OpenTime == "" {
		c.Schedule.OpenTime = domain.DefaultOpenTime.String()
	}
	if c.Schedule.CloseTime == "" {
		c.Schedule.CloseTime = domain.DefaultCloseTime.String()
	}
	if c.Schedule.SlotIntervalMinutes == 0 {
		c.Schedule.SlotIntervalMinutes = domain.DefaultSlotIntervalMinutes
	}
	if c.Schedule.CancellationCutoffHours == 0 {
		c.Schedule.CancellationCutoffHours = domain.DefaultCancellationCutoffHours
	}

	if c.IdentityService.Timeout == 0 {
		c.IdentityService.Timeout = 5
	}
	if c.NotificationService.Timeout == 0 {
		c.NotificationService.Timeout = 5
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.DBName = v
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("%w: database host is required", ErrInvalidConfig)
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("%w: database port is required", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database name is required", ErrInvalidConfig)
	}
	return nil
}

// BuildSchedule собирает domain.Schedule из секции [schedule]
func (c *Config) BuildSchedule() (*domain.Schedule, error) {
	open, err := types.NewTimeStringFromString(c.Schedule.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("%w: schedule open_time: %v", ErrInvalidConfig, err)
	}
	closeT, err := types.NewTimeStringFromString(c.Schedule.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("%w: schedule close_time: %v", ErrInvalidConfig, err)
	}

	var lunchStart, lunchEnd types.TimeString
	if c.Schedule.LunchStart != "" || c.Schedule.LunchEnd != "" {
		lunchStart, err = types.NewTimeStringFromString(c.Schedule.LunchStart)
		if err != nil {
			return nil, fmt.Errorf("%w: schedule lunch_start: %v", ErrInvalidConfig, err)
		}
		lunchEnd, err = types.NewTimeStringFromString(c.Schedule.LunchEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: schedule lunch_end: %v", ErrInvalidConfig, err)
		}
	}

	closedWeekdays := make([]time.Weekday, 0, len(c.Schedule.ClosedWeekdays))
	for _, wd := range c.Schedule.ClosedWeekdays {
		closedWeekdays = append(closedWeekdays, time.Weekday(wd))
	}
	if len(c.Schedule.ClosedWeekdays) == 0 {
		closedWeekdays = domain.DefaultClosedWeekdays
	}

	return domain.NewSchedule(
		open,
		closeT,
		c.Schedule.SlotIntervalMinutes,
		lunchStart,
		lunchEnd,
		closedWeekdays,
		c.Schedule.MinBookingNoticeMinutes,
		c.Schedule.CancellationCutoffHours,
	)
}
