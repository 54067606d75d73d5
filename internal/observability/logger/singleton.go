package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init arma el logger singleton. Solo la primera llamada tiene efecto; si el
// nivel viene vacío se toma de LOG_LEVEL.
func Init(cfg Config) {
	once.Do(func() {
		if cfg.Level == "" {
			cfg.Level = os.Getenv("LOG_LEVEL")
		}
		instance = build(cfg)
	})
}

// L retorna el singleton. Si nadie llamó Init todavía (tests, comandos
// sueltos), arma uno de dev en nivel info.
func L() *zap.Logger {
	if instance == nil {
		Init(Config{Env: "dev"})
	}
	return instance
}

// Named retorna el singleton con un nombre de componente.
func Named(name string) *zap.Logger {
	return L().Named(name)
}
