package api

import (
	"log/slog"
	"net/http"
	"time"
)

// AuditEvent identifies the type of study action being logged.
type AuditEvent string

const (
	AuditParticipantCreated  AuditEvent = "participant_created"
	AuditOrderChosen         AuditEvent = "order_chosen"
	AuditEventStarted        AuditEvent = "event_started"
	AuditEventEnded          AuditEvent = "event_ended"
	AuditSecretSet           AuditEvent = "secret_set"
	AuditSecretChecked       AuditEvent = "secret_checked"
	AuditStageSubmitted      AuditEvent = "stage_submitted"
	AuditQuestionnaireSaved  AuditEvent = "questionnaire_submitted"
	AuditParticipantExported AuditEvent = "participant_exported"
	AuditExportFailed        AuditEvent = "export_failed"
)

// auditLogger wraps slog.Logger for structured study audit logging. Only
// participant codes and derived values are ever logged, never secret text.
type auditLogger struct {
	logger *slog.Logger
}

func newAuditLogger(logger *slog.Logger) *auditLogger {
	return &auditLogger{
		logger: logger.With("component", "audit"),
	}
}

// log writes a structured audit log entry.
func (al *auditLogger) log(event AuditEvent, r *http.Request, attrs ...slog.Attr) {
	baseAttrs := []slog.Attr{
		slog.String("event", string(event)),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
	baseAttrs = append(baseAttrs, attrs...)
	al.logger.LogAttrs(r.Context(), slog.LevelInfo, "audit", baseAttrs...)
}

// logParticipant is a convenience for events tied to a participant code.
func (al *auditLogger) logParticipant(event AuditEvent, r *http.Request, participantID string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("participant", participantID),
	}
	attrs = append(attrs, extra...)
	al.log(event, r, attrs...)
}
