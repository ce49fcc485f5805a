// Package logger, uygulama genelinde kullanılan zap logger'ını kurar.
//
// Kurulan logger zap.ReplaceGlobals ile global yapılır; paketler
// zap.L().Named("ws") gibi bileşen adıyla log yazar. Böylece her log satırı
// "logger" alanında hangi katmandan geldiğini taşır.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New, seviye ve formata göre bir zap logger oluşturur.
//
// level: debug, info, warn, error (boşsa info)
// format: "json" production encoder, "console" geliştirme için okunabilir çıktı
func New(level, format string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	config := zap.NewProductionConfig()
	if format == "console" {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Install, logger'ı global yapar ve eski global'i geri yükleyen fonksiyonu döner.
//
//	restore := logger.Install(l)
//	defer restore()
func Install(l *zap.Logger) func() {
	return zap.ReplaceGlobals(l)
}
