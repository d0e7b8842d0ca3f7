package chain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"presale-vesting-service/internal/observability"
)

// ErrUnfundedAccount rejects a native purchase from an address with no
// balance before anything is signed.
var ErrUnfundedAccount = errors.New("account has no balance")

// OnChainLedger implements Ledger against the deployed presale program
// through the wallet collaborator and the RPC node. It serializes the
// opaque intent; instruction-byte encoding is the wallet/program
// integration's concern, not ours.
type OnChainLedger struct {
	rpc    *HTTPClient
	wallet Wallet
}

// NewOnChainLedger creates an OnChainLedger.
func NewOnChainLedger(rpc *HTTPClient, wallet Wallet) *OnChainLedger {
	return &OnChainLedger{rpc: rpc, wallet: wallet}
}

// Compile-time interface check.
var _ Ledger = (*OnChainLedger)(nil)

// SubmitPurchase signs and submits a purchase intent. Native purchases
// are pre-checked against the buyer's on-chain balance.
func (l *OnChainLedger) SubmitPurchase(ctx context.Context, intent PurchaseIntent) (string, error) {
	if intent.NativeAmount > 0 && l.rpc != nil {
		balance, err := l.rpc.GetBalance(ctx, intent.UserAddress)
		if err != nil {
			return "", fmt.Errorf("check balance: %w", err)
		}
		if balance == 0 {
			return "", fmt.Errorf("%w: %s", ErrUnfundedAccount, intent.UserAddress)
		}
	}

	payload, err := json.Marshal(intent)
	if err != nil {
		return "", fmt.Errorf("marshal purchase intent: %w", err)
	}

	ref, err := l.wallet.SignAndSubmit(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("submit purchase: %w", err)
	}
	observability.RecordTxSubmit("purchase")
	return ref, nil
}

// SubmitClaim signs and submits a claim intent.
func (l *OnChainLedger) SubmitClaim(ctx context.Context, intent ClaimIntent) (string, error) {
	payload, err := json.Marshal(intent)
	if err != nil {
		return "", fmt.Errorf("marshal claim intent: %w", err)
	}

	ref, err := l.wallet.SignAndSubmit(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("submit claim: %w", err)
	}
	observability.RecordTxSubmit("claim")
	return ref, nil
}

// FetchAccountState reads raw account data through RPC.
func (l *OnChainLedger) FetchAccountState(ctx context.Context, address string) ([]byte, error) {
	if err := ValidateAddress(address); err != nil {
		return nil, fmt.Errorf("fetch account state: %w", err)
	}

	encoded, err := l.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch account state: %w", err)
	}
	if encoded == "" {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode account data: %w", err)
	}
	return data, nil
}
