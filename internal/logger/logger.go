package logger

import "go.uber.org/zap"

// New builds the application logger. Release mode gets the production config,
// anything else a development one.
func New(mode string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if mode == "release" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return l
}
