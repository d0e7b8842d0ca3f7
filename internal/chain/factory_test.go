package chain

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromModeSimulated(t *testing.T) {
	ledger, err := FromMode(ModeSimulated, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &SimulatedLedger{}, ledger)
}

func TestFromModeOnChain(t *testing.T) {
	rpc := NewHTTPClient("http://localhost:8899")
	wallet := NewStubWallet("test-address")

	ledger, err := FromMode(ModeOnChain, rpc, wallet)
	require.NoError(t, err)
	assert.IsType(t, &OnChainLedger{}, ledger)
}

func TestFromModeErrors(t *testing.T) {
	_, err := FromMode("paper", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = FromMode(ModeOnChain, nil, NewStubWallet("a"))
	assert.ErrorIs(t, err, ErrMissingRPCClient)

	_, err = FromMode(ModeOnChain, NewHTTPClient("http://localhost:8899"), nil)
	assert.ErrorIs(t, err, ErrMissingWallet)
}

func TestOnChainLedgerSubmitsIntents(t *testing.T) {
	wallet := NewStubWallet("user-a")
	ledger := NewOnChainLedger(nil, wallet)
	ctx := context.Background()

	ref, err := ledger.SubmitPurchase(ctx, PurchaseIntent{UserAddress: "user-a", TokenAmount: 5000})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "stub_"))

	_, err = ledger.SubmitClaim(ctx, ClaimIntent{UserAddress: "user-a", TrancheIndex: 2})
	require.NoError(t, err)

	require.Len(t, wallet.Submitted, 2)
	assert.Contains(t, string(wallet.Submitted[0]), `"token_amount":5000`)
	assert.Contains(t, string(wallet.Submitted[1]), `"tranche_index":2`)
}
