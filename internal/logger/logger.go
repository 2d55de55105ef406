package logger

import (
	"go-dashboard/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the console logger and tees warnings and errors into
// the in-memory recent log served to admins.
func NewLogger(cfg *config.Config, recent *RecentLog) (*zap.Logger, error) {

	// 1. Setup Base Config (Console/JSON)
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Important: Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	// 2. Wrap the Core so warnings also land in the recent log
	finalCore := NewRecentCore(baseLogger.Core(), recent, zap.WarnLevel)

	return zap.New(finalCore, zap.AddCaller()), nil
}
