// Package bootstrap собирает серверные зависимости для команд galleryctl,
// которые работают с БД и media store напрямую, минуя HTTP API.
package bootstrap

import (
	"fmt"

	"Gallerist/internal/config"
	"Gallerist/internal/media"
	"Gallerist/internal/repo"
	"Gallerist/internal/service"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Logger возвращает логгер для CLI: только предупреждения и ошибки, в stderr.
func Logger() *zap.SugaredLogger {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	l, err := zcfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// OpenDB открывает БД и возвращает (db, cleanup, error).
// cleanup необходимо вызвать после окончания работы, чтобы закрыть соединение с БД.
func OpenDB(cfg *config.Config) (*gorm.DB, func() error, error) {
	db, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql.DB: %w", err)
	}
	return db, sqlDB.Close, nil
}

// NewAuthService — AuthService поверх БД с параметрами токенов из конфигурации.
func NewAuthService(db *gorm.DB, cfg *config.Config, logger *zap.SugaredLogger) *service.AuthService {
	return service.NewAuthService(repo.NewAdminRepository(db), service.AuthOptions{
		Secret:            cfg.AuthSecret,
		TTL:               cfg.TokenTTL,
		AllowRegistration: cfg.RegistrationEnabled(),
	}, logger)
}

// NewReconcileService — сервис очистки осиротевших изображений.
func NewReconcileService(db *gorm.DB, store *media.Guard, cfg *config.Config, logger *zap.SugaredLogger) *service.ReconcileService {
	return service.NewReconcileService(repo.NewGalleryRepository(db), store, store, cfg.MediaGrace, logger)
}
