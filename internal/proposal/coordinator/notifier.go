package coordinator

import "log/slog"

// Notifier surfaces transient, non-blocking notifications to the
// operator. No failure routed through it may crash the surrounding
// application.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// SlogNotifier is the default notifier; a UI layer substitutes its own.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) Success(message string) {
	n.logger.Info("Notification", "level", "success", "message", message)
}

func (n *SlogNotifier) Error(message string) {
	n.logger.Warn("Notification", "level", "error", "message", message)
}
