package sync

import (
	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/vclock"
	"github.com/iudanet/vaultsync/pkg/api"
)

// toAPIRecord преобразует внутреннюю модель в запись протокола
func toAPIRecord(rec *models.ChangeRecord) api.ChangeRecord {
	return api.ChangeRecord{
		Timestamp:       rec.Timestamp,
		Data:            rec.Payload,
		VectorTimestamp: map[string]uint64(rec.Clock),
		RecordID:        rec.RecordID,
		RecordType:      string(rec.RecordType),
		Operation:       string(rec.Operation),
		NodeID:          rec.NodeID,
		Checksum:        rec.Checksum,
		SequenceNumber:  rec.Sequence,
	}
}

// fromAPIRecord преобразует запись протокола во внутреннюю модель
func fromAPIRecord(rec api.ChangeRecord) *models.ChangeRecord {
	return &models.ChangeRecord{
		Timestamp:  rec.Timestamp,
		Payload:    rec.Data,
		Clock:      vclock.Clock(rec.VectorTimestamp),
		RecordID:   rec.RecordID,
		RecordType: models.RecordType(rec.RecordType),
		Operation:  models.Operation(rec.Operation),
		NodeID:     rec.NodeID,
		Checksum:   rec.Checksum,
		Sequence:   rec.SequenceNumber,
	}
}
