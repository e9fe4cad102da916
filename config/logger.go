package config

import "go.uber.org/zap"

// NewLogger builds the application logger. Development config keeps the
// console output readable; services receive the sugared form.
func NewLogger() (*zap.SugaredLogger, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
