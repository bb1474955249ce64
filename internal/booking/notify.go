package booking

import "durianflight/pkg/logger"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Notifier is the user-facing notification surface. Calls are
// fire-and-forget and never affect workflow state.
type Notifier interface {
	Notify(message string, severity Severity)
}

// LogNotifier reports notifications to the structured log. It stands in
// for a real toast/push surface in headless deployments.
type LogNotifier struct {
	logger logger.Client
}

func NewLogNotifier(l logger.Client) *LogNotifier {
	return &LogNotifier{logger: l}
}

func (n *LogNotifier) Notify(message string, severity Severity) {
	field := logger.Field{Key: "severity", Value: string(severity)}
	switch severity {
	case SeverityError:
		n.logger.Error(message, field)
	case SeverityWarning:
		n.logger.Warn(message, field)
	default:
		n.logger.Info(message, field)
	}
}
