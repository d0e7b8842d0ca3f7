// Package chain is the boundary to the on-chain presale program: a
// JSON-RPC client, address validation, and the ledger strategy that is
// either simulated (no network) or RPC-backed. The core never builds
// chain-specific instruction bytes; it hands opaque intent to this
// package.
package chain

import "context"

// Ledger modes, selected once at startup.
const (
	ModeSimulated = "simulated"
	ModeOnChain   = "onchain"
)

// PurchaseIntent is the opaque purchase intent submitted to the chain.
type PurchaseIntent struct {
	UserAddress  string  `json:"user_address"`
	PurchaseID   string  `json:"purchase_id"`
	NativeAmount float64 `json:"native_amount"`
	StableAmount float64 `json:"stable_amount"`
	TokenAmount  float64 `json:"token_amount"`
}

// ClaimIntent is the opaque claim intent submitted to the chain.
type ClaimIntent struct {
	UserAddress  string  `json:"user_address"`
	PurchaseID   string  `json:"purchase_id"`
	TrancheIndex int     `json:"tranche_index"`
	TokenAmount  float64 `json:"token_amount"`
}

// Ledger submits presale transactions and reads account state.
// Implementations must expose time-bounded calls; failures and
// timeouts propagate as errors, retry policy belongs to the caller.
type Ledger interface {
	// SubmitPurchase submits a purchase and returns a transaction reference.
	SubmitPurchase(ctx context.Context, intent PurchaseIntent) (string, error)

	// SubmitClaim submits a claim and returns a transaction reference.
	SubmitClaim(ctx context.Context, intent ClaimIntent) (string, error)

	// FetchAccountState returns raw account data for an address, or nil
	// when the account does not exist.
	FetchAccountState(ctx context.Context, address string) ([]byte, error)
}

// Wallet is the signing collaborator. Implementations live outside
// this repository; the simulated path ships a stub.
type Wallet interface {
	// Address returns the connected wallet address, empty if none.
	Address() string

	// SignAndSubmit signs an opaque payload and submits it, returning a
	// transaction reference.
	SignAndSubmit(ctx context.Context, payload []byte) (string, error)
}
