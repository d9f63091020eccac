package alert

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSink writes alerts to the service log.
type LogSink struct {
	logger logrus.FieldLogger
}

func NewLogSink(logger logrus.FieldLogger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) SendAlert(ctx context.Context, message string) error {
	s.logger.WithField("alert", "low_stock").Warn(message)
	return nil
}
