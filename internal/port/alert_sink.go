package port

import "context"

type AlertSink interface {
	// SendAlert delivers message on a best-effort basis
	SendAlert(ctx context.Context, message string) error
}
