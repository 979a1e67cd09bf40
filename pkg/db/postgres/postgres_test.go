package postgres

import (
	"testing"

	gormlogger "gorm.io/gorm/logger"
)

// Duplicate-email mapping in the users repository depends on gorm
// translating driver unique-violation errors into gorm.ErrDuplicatedKey,
// which only happens when TranslateError is on.
func TestGormConfigTranslatesDriverErrors(t *testing.T) {
	cfg := gormConfig()

	if !cfg.TranslateError {
		t.Error("TranslateError must be enabled so unique violations surface as gorm.ErrDuplicatedKey")
	}
}

func TestGormConfigSilencesQueryLogging(t *testing.T) {
	cfg := gormConfig()

	if cfg.Logger == nil {
		t.Fatal("expected a configured gorm logger")
	}
	if cfg.Logger == gormlogger.Default {
		t.Error("expected the silent log mode, not the default logger")
	}
}
