package storage

import (
	"encoding/json"
	"fmt"

	"presale-vesting-service/internal/domain"
)

// RecordVersion is the current purchase record envelope version.
const RecordVersion = 1

// PurchaseRecord is the versioned envelope persisted per user. Earlier
// deployments stored a bare purchase array under loosely-consistent
// keys; DecodeRecord consolidates that legacy shape into the envelope
// once at load time so callers never see it.
type PurchaseRecord struct {
	Version   int                `json:"version"`
	Purchases []*domain.Purchase `json:"purchases"`
}

// NewRecord creates an empty current-version record.
func NewRecord() *PurchaseRecord {
	return &PurchaseRecord{Version: RecordVersion}
}

// Clone returns a deep copy so stores can hand out records without
// sharing mutable schedule state.
func (r *PurchaseRecord) Clone() *PurchaseRecord {
	out := &PurchaseRecord{
		Version:   r.Version,
		Purchases: make([]*domain.Purchase, len(r.Purchases)),
	}
	for i, p := range r.Purchases {
		cp := *p
		cp.VestingSchedule.Tranches = make([]domain.Tranche, len(p.VestingSchedule.Tranches))
		copy(cp.VestingSchedule.Tranches, p.VestingSchedule.Tranches)
		out.Purchases[i] = &cp
	}
	return out
}

// EncodeRecord serializes a record to JSON.
func EncodeRecord(r *PurchaseRecord) ([]byte, error) {
	if r == nil {
		return nil, ErrInvalidInput
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode purchase record: %w", err)
	}
	return data, nil
}

// DecodeRecord deserializes a record, migrating the legacy bare-array
// format to the current envelope.
func DecodeRecord(data []byte) (*PurchaseRecord, error) {
	var record PurchaseRecord
	if err := json.Unmarshal(data, &record); err == nil && record.Version > 0 {
		return &record, nil
	}

	// Legacy format: a bare JSON array of purchases.
	var legacy []*domain.Purchase
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("decode purchase record: %w", err)
	}
	return &PurchaseRecord{Version: RecordVersion, Purchases: legacy}, nil
}
