package chain

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedLedgerPurchaseRef(t *testing.T) {
	ledger := NewSimulatedLedger()
	ledger.now = func() time.Time { return time.UnixMilli(1754006400123) }

	ref, err := ledger.SubmitPurchase(context.Background(), PurchaseIntent{
		UserAddress: "user-a",
		TokenAmount: 5000,
	})
	require.NoError(t, err)

	parts := strings.Split(ref, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "sim", parts[0])
	assert.Equal(t, "1754006400123", parts[1])
	assert.Len(t, parts[2], 8)
}

func TestSimulatedLedgerClaimRef(t *testing.T) {
	ledger := NewSimulatedLedger()

	ref, err := ledger.SubmitClaim(context.Background(), ClaimIntent{
		UserAddress:  "user-a",
		TrancheIndex: 1,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "claim_"))
}

func TestSimulatedLedgerRefsUnique(t *testing.T) {
	ledger := NewSimulatedLedger()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref, err := ledger.SubmitPurchase(context.Background(), PurchaseIntent{UserAddress: "user-a"})
		require.NoError(t, err)
		require.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}

func TestSimulatedLedgerFetchAccountState(t *testing.T) {
	ledger := NewSimulatedLedger()
	ctx := context.Background()

	_, err := ledger.SubmitPurchase(ctx, PurchaseIntent{UserAddress: "user-a", TokenAmount: 5000})
	require.NoError(t, err)
	_, err = ledger.SubmitClaim(ctx, ClaimIntent{UserAddress: "user-a", TrancheIndex: 0, TokenAmount: 2000})
	require.NoError(t, err)

	data, err := ledger.FetchAccountState(ctx, "user-a")
	require.NoError(t, err)
	require.NotNil(t, data)

	var state struct {
		Purchases []PurchaseIntent `json:"purchases"`
		Claims    []ClaimIntent    `json:"claims"`
	}
	require.NoError(t, json.Unmarshal(data, &state))
	require.Len(t, state.Purchases, 1)
	require.Len(t, state.Claims, 1)
	assert.Equal(t, float64(5000), state.Purchases[0].TokenAmount)
	assert.Equal(t, 0, state.Claims[0].TrancheIndex)
}

func TestSimulatedLedgerFetchUnknownAddress(t *testing.T) {
	ledger := NewSimulatedLedger()

	data, err := ledger.FetchAccountState(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, data)
}
