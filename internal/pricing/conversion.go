package pricing

// Conversion formulas between native currency, stablecoin and token
// amounts. All functions are pure and total: any non-positive input
// yields 0 instead of an error, so division noise never reaches
// callers. The formulas are implemented literally, not reassociated.

// TokensFromNative converts a native-currency amount to tokens:
// tokens = native * (nativeUSD / tokenUSD).
func TokensFromNative(nativeAmount, nativeUSDPrice, tokenUSDPrice float64) float64 {
	if nativeAmount <= 0 || nativeUSDPrice <= 0 || tokenUSDPrice <= 0 {
		return 0
	}
	return nativeAmount * (nativeUSDPrice / tokenUSDPrice)
}

// TokensFromStable converts a stablecoin amount to tokens:
// tokens = stable / tokenUSD.
func TokensFromStable(stableAmount, tokenUSDPrice float64) float64 {
	if stableAmount <= 0 || tokenUSDPrice <= 0 {
		return 0
	}
	return stableAmount / tokenUSDPrice
}

// NativeRequiredForTokens is the inverse of TokensFromNative:
// native = (tokens * tokenUSD) / nativeUSD.
func NativeRequiredForTokens(tokenAmount, nativeUSDPrice, tokenUSDPrice float64) float64 {
	if tokenAmount <= 0 || nativeUSDPrice <= 0 || tokenUSDPrice <= 0 {
		return 0
	}
	return (tokenAmount * tokenUSDPrice) / nativeUSDPrice
}

// StableRequiredForTokens is the inverse of TokensFromStable:
// stable = tokens * tokenUSD.
func StableRequiredForTokens(tokenAmount, tokenUSDPrice float64) float64 {
	if tokenAmount <= 0 || tokenUSDPrice <= 0 {
		return 0
	}
	return tokenAmount * tokenUSDPrice
}
