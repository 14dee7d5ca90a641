// Package storage provides the storage abstraction layer for study dataset records.
package storage

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrParticipantNotFound is returned when a participant has no records at all.
var ErrParticipantNotFound = errors.New("participant not found")

// Record types stored under each participant.
const (
	RecordTypeParticipant   = "participant"
	RecordTypeEvent         = "event"
	RecordTypeFeatures      = "features"
	RecordTypeQuestionnaire = "questionnaire"
)

// Repository defines the interface for participant-scoped record storage.
// Records are JSON blobs keyed by (participantID, recordType, recordID);
// raw secrets are never written through this interface.
type Repository interface {
	Put(participantID string, recordType string, recordID string, data []byte) error
	Get(participantID string, recordType string, recordID string) ([]byte, error)
	List(participantID string, recordType string) ([]string, error)
	Delete(participantID string, recordType string, recordID string) error
	// ListParticipants returns the IDs of all participants with at least
	// one stored record.
	ListParticipants() ([]string, error)
}
