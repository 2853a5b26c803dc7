package handlers

import (
	"github.com/iudanet/vaultsync/internal/models"
	"github.com/iudanet/vaultsync/internal/vclock"
	"github.com/iudanet/vaultsync/pkg/api"
)

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

// toAPIConflict преобразует конфликт во внешнее представление
func toAPIConflict(c *models.SyncConflict) api.Conflict {
	return api.Conflict{
		DetectedAt: c.DetectedAt,
		ResolvedAt: c.ResolvedAt,
		Local:      toAPIRecord(&c.Local),
		Remote:     toAPIRecord(&c.Remote),
		ID:         c.ID,
		RecordID:   c.RecordID,
		RecordType: string(c.RecordType),
		Status:     string(c.Status),
		Strategy:   string(c.Strategy),
		ResolvedBy: c.ResolvedBy,
	}
}

// toAPIDiscrepancy преобразует расхождение сверки во внешнее представление
func toAPIDiscrepancy(d *models.Discrepancy) api.Discrepancy {
	return api.Discrepancy{
		CreatedAt:    d.CreatedAt,
		ResolvedAt:   d.ResolvedAt,
		ID:           d.ID,
		SessionID:    d.SessionID,
		ProductUUID:  d.ProductUUID,
		Condition:    string(d.Condition),
		ConflictType: string(d.Type),
		Severity:     string(d.Severity),
		Status:       string(d.Status),
		Notes:        d.Notes,
		ResolvedBy:   d.ResolvedBy,
		Expected:     d.Expected,
		Actual:       d.Actual,
		Variance:     d.Variance,
	}
}
