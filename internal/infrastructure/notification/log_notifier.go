// Package notification delivers appointment confirmation emails. Actual SMTP
// transport is out of scope; the log notifier records what would have been
// sent so the pipeline can be observed and swapped for a real provider later.
package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes each confirmation to the structured log instead of
// talking to a mail provider.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendAppointmentEmail(_ context.Context, userEmail, serviceName, date, timeOfDay string) error {
	n.log.Info().
		Str("to", userEmail).
		Str("service", serviceName).
		Str("date", date).
		Str("time", timeOfDay).
		Msg("appointment confirmation email")
	return nil
}
