// Package main runs a deterministic presale walkthrough without any
// external services: purchases against the pricing calendar, time
// advanced past each unlock, tranches claimed, and the resulting
// statement printed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"presale-vesting-service/internal/chain"
	"presale-vesting-service/internal/domain"
	"presale-vesting-service/internal/ledger"
	"presale-vesting-service/internal/oracle"
	"presale-vesting-service/internal/pricing"
	"presale-vesting-service/internal/reporting"
	"presale-vesting-service/internal/storage/memory"
	"presale-vesting-service/internal/vesting"
)

func main() {
	userID := flag.String("user", "demo-user", "User ID for the simulated purchases")
	nativeAmount := flag.Float64("native", 2.0, "Native amount of the first purchase")
	stableAmount := flag.Float64("stable", 300.0, "Stable amount of the second purchase")
	nativePrice := flag.Float64("native-price", 150.0, "Simulated native token USD price")
	flag.Parse()

	logger := log.New(os.Stdout, "[simulate] ", log.LstdFlags)
	ctx := context.Background()

	calendar := pricing.DefaultCalendar()
	vestingCfg := vesting.DefaultConfig()
	prices := oracle.StaticSource{Price: *nativePrice}
	chainLedger := chain.NewSimulatedLedger()

	events := memory.NewEventStore()
	led, err := ledger.New(ledger.Options{
		Store:      memory.NewPurchaseStore(),
		Events:     events,
		SoleWriter: true,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatalf("create ledger: %v", err)
	}

	// Buy once in the first period and once in the last.
	periods := calendar.Periods()
	if len(periods) == 0 {
		logger.Fatal("pricing calendar is empty")
	}
	buyInstants := []time.Time{
		periods[0].Start.Add(24 * time.Hour),
		periods[len(periods)-1].Start.Add(24 * time.Hour),
	}
	amounts := []struct{ native, stable float64 }{
		{native: *nativeAmount},
		{stable: *stableAmount},
	}

	var purchaseIDs []string
	for i, at := range buyInstants {
		period := calendar.ActivePeriod(at)
		if period == nil {
			logger.Fatalf("no active period at %s", at.Format(time.RFC3339))
		}
		quote := prices.NativePrice(ctx)

		var tokens float64
		if amounts[i].native > 0 {
			tokens = pricing.TokensFromNative(amounts[i].native, quote.Price, period.PriceUSD)
		} else {
			tokens = pricing.TokensFromStable(amounts[i].stable, period.PriceUSD)
		}

		purchase, err := led.AddPurchase(ctx, *userID, ledger.PurchaseParams{
			NativeSpent:     amounts[i].native,
			StableSpent:     amounts[i].stable,
			TokensPurchased: tokens,
			PriceContext: domain.PriceContext{
				NativeUSDPrice: quote.Price,
				TokenUSDPrice:  period.PriceUSD,
			},
			VestingConfig: vestingCfg,
			At:            at,
		})
		if err != nil {
			logger.Fatalf("purchase at %s: %v", at.Format(time.RFC3339), err)
		}

		ref, err := chainLedger.SubmitPurchase(ctx, chain.PurchaseIntent{
			UserAddress:  *userID,
			PurchaseID:   purchase.ID,
			NativeAmount: amounts[i].native,
			StableAmount: amounts[i].stable,
			TokenAmount:  tokens,
		})
		if err != nil {
			logger.Fatalf("submit purchase: %v", err)
		}
		if err := led.SetTransactionRef(ctx, *userID, purchase.ID, ref); err != nil {
			logger.Fatalf("record tx ref: %v", err)
		}

		purchaseIDs = append(purchaseIDs, purchase.ID)
		logger.Printf("purchased %.4f tokens at %s (%s, %.4f USD/token, tx %s)",
			tokens, at.Format("2006-01-02"), period.Label(), period.PriceUSD, ref)
	}

	// Walk the clock through every unlock and claim as tranches open.
	finalInstant := vestingCfg.ListingInstant
	for i := range vestingCfg.TranchePercentages {
		at := vestingCfg.ListingInstant.AddDate(0, 0, i*vestingCfg.TrancheSpacingDays).Add(time.Hour)
		if at.After(finalInstant) {
			finalInstant = at
		}
		for _, id := range purchaseIDs {
			amount, err := led.Claim(ctx, *userID, id, i, at)
			if err != nil {
				logger.Fatalf("claim tranche %d of %s: %v", i, id, err)
			}
			ref, err := chainLedger.SubmitClaim(ctx, chain.ClaimIntent{
				UserAddress:  *userID,
				PurchaseID:   id,
				TrancheIndex: i,
				TokenAmount:  amount,
			})
			if err != nil {
				logger.Fatalf("submit claim: %v", err)
			}
			logger.Printf("claimed tranche %d of %s: %.4f tokens (tx %s)", i, id[:12], amount, ref)
		}
	}

	agg, err := led.Aggregate(ctx, *userID, finalInstant)
	if err != nil {
		logger.Fatalf("aggregate: %v", err)
	}
	if agg.TotalRemaining != 0 {
		logger.Fatalf("expected everything claimed, %.4f tokens still vesting", agg.TotalRemaining)
	}
	logger.Printf("fully vested: purchased %.4f, claimed %.4f", agg.TotalPurchased, agg.TotalClaimed)

	statement, err := reporting.NewGenerator(led, events).
		WithClock(func() time.Time { return finalInstant }).
		Generate(ctx, *userID)
	if err != nil {
		logger.Fatalf("generate statement: %v", err)
	}

	fmt.Println()
	fmt.Print(reporting.RenderMarkdown(statement))
}
