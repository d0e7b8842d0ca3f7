package chain

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"presale-vesting-service/internal/observability"
)

// SimulatedLedger implements Ledger without any network access. It
// fabricates transaction references in the same shape the real backend
// returns and remembers submitted intents so FetchAccountState can
// answer from them.
type SimulatedLedger struct {
	mu        sync.Mutex
	purchases map[string][]PurchaseIntent // keyed by user address
	claims    map[string][]ClaimIntent
	now       func() time.Time
}

// NewSimulatedLedger creates a SimulatedLedger.
func NewSimulatedLedger() *SimulatedLedger {
	return &SimulatedLedger{
		purchases: make(map[string][]PurchaseIntent),
		claims:    make(map[string][]ClaimIntent),
		now:       time.Now,
	}
}

// Compile-time interface check.
var _ Ledger = (*SimulatedLedger)(nil)

// SubmitPurchase records the intent and returns a synthetic reference.
func (l *SimulatedLedger) SubmitPurchase(_ context.Context, intent PurchaseIntent) (string, error) {
	ref, err := l.txRef("sim")
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	l.purchases[intent.UserAddress] = append(l.purchases[intent.UserAddress], intent)
	l.mu.Unlock()

	observability.RecordTxSubmit("purchase")
	return ref, nil
}

// SubmitClaim records the intent and returns a synthetic reference.
func (l *SimulatedLedger) SubmitClaim(_ context.Context, intent ClaimIntent) (string, error) {
	ref, err := l.txRef("claim")
	if err != nil {
		return "", err
	}

	l.mu.Lock()
	l.claims[intent.UserAddress] = append(l.claims[intent.UserAddress], intent)
	l.mu.Unlock()

	observability.RecordTxSubmit("claim")
	return ref, nil
}

// FetchAccountState returns the submitted intents for an address as
// JSON, or nil when nothing was submitted.
func (l *SimulatedLedger) FetchAccountState(_ context.Context, address string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	purchases := l.purchases[address]
	claims := l.claims[address]
	if len(purchases) == 0 && len(claims) == 0 {
		return nil, nil
	}

	state := struct {
		Purchases []PurchaseIntent `json:"purchases"`
		Claims    []ClaimIntent    `json:"claims"`
	}{purchases, claims}

	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal simulated account state: %w", err)
	}
	return data, nil
}

// txRef fabricates a reference like "sim_1754006400123_9f2ab31c".
func (l *SimulatedLedger) txRef(kind string) (string, error) {
	var nonce [4]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("read tx nonce: %w", err)
	}
	return fmt.Sprintf("%s_%d_%s", kind, l.now().UnixMilli(), hex.EncodeToString(nonce[:])), nil
}
