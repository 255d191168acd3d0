package dbg

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/b3quant/apurador/pkg/utility"
)

// Both constructors stamp every line with the process execution id so log
// streams from restarts stay separable in aggregation.

func NewDevLogger() *zap.Logger {
	return build(zap.NewDevelopmentConfig())
}

func NewProdLogger() *zap.Logger {
	return build(zap.NewProductionConfig())
}

func build(cfg zap.Config) *zap.Logger {
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true

	logger, err := cfg.Build(zap.Fields(
		zap.String("eid", utility.GetExecutionID().String())))
	if err != nil {
		panic(err)
	}
	return logger
}
