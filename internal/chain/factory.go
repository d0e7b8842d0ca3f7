package chain

import "errors"

// Factory errors
var (
	ErrUnknownMode      = errors.New("unknown ledger mode")
	ErrMissingRPCClient = errors.New("onchain mode requires an RPC client")
	ErrMissingWallet    = errors.New("onchain mode requires a wallet")
)

// FromMode creates a Ledger for the configured mode. The mode is
// decided once at startup; call sites never branch on it again.
func FromMode(mode string, rpc *HTTPClient, wallet Wallet) (Ledger, error) {
	switch mode {
	case ModeSimulated:
		return NewSimulatedLedger(), nil
	case ModeOnChain:
		if rpc == nil {
			return nil, ErrMissingRPCClient
		}
		if wallet == nil {
			return nil, ErrMissingWallet
		}
		return NewOnChainLedger(rpc, wallet), nil
	default:
		return nil, ErrUnknownMode
	}
}
