package logging

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process logger. APP_ENV=development switches to the console
// encoder; everything else logs JSON.
func New() (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)

	if os.Getenv("APP_ENV") == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
