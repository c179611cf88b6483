package services

import (
	"fmt"

	"github.com/localnerve/callboard/internal/config"
	"github.com/localnerve/callboard/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Mail         string            `json:"mail"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck checks the database and, when SMTP is configured, the mail relay
func HealthCheck(cfg *config.Config, db *gorm.DB, log *zap.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	fail := func(component, message string, err error) {
		result.Status = "unhealthy"
		if result.ErrorMessage != "" {
			result.ErrorMessage += "; "
		}
		result.ErrorMessage += fmt.Sprintf("%s: %v", message, err)
		log.Warn("health check failed", zap.String("component", component), zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		fail("database", "Database connection error", err)
	} else if err := sqlDB.Ping(); err != nil {
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		fail("database", "Database ping failed", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	if cfg.SMTPHost == "" {
		result.Mail = "log"
	} else {
		if err := utils.PingMailRelay(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPTimeout); err != nil {
			result.Mail = "unreachable"
			result.Details["mail_error"] = err.Error()
			fail("mail", "Mail relay ping failed", err)
		} else {
			result.Mail = "ok"
			result.Details["mail_host"] = cfg.SMTPHost
		}
	}

	if result.Status == "healthy" {
		log.Debug("health check passed")
	}

	return result
}
