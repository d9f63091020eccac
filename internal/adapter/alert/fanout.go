package alert

import (
	"context"
	"errors"

	"github.com/rl1809/wine-inventory/internal/port"
)

// FanOut delivers to every sink and joins their errors.
type FanOut []port.AlertSink

func (f FanOut) SendAlert(ctx context.Context, message string) error {
	var errs []error
	for _, sink := range f {
		if err := sink.SendAlert(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
