package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a statement as Markdown string.
func RenderMarkdown(s *Statement) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Vesting Statement\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("User: %s | Purchases: %d\n\n", s.UserID, s.PurchaseCount))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Tokens |\n")
	sb.WriteString("|--------|--------|\n")
	sb.WriteString(fmt.Sprintf("| Total Purchased | %.4f |\n", s.TotalPurchased))
	sb.WriteString(fmt.Sprintf("| Total Claimed | %.4f |\n", s.TotalClaimed))
	sb.WriteString(fmt.Sprintf("| Claimable Now | %.4f |\n", s.TotalClaimableNow))
	sb.WriteString(fmt.Sprintf("| Still Vesting | %.4f |\n", s.TotalRemaining))
	sb.WriteString("\n")

	// Purchases
	sb.WriteString("## Purchases\n\n")
	if len(s.Purchases) > 0 {
		sb.WriteString("| Purchase | Date | Native | Stable | Tokens | Native USD | Token USD | Tx Ref |\n")
		sb.WriteString("|----------|------|--------|--------|--------|------------|-----------|--------|\n")
		for _, p := range s.Purchases {
			price := fmt.Sprintf("%.4f", p.NativeUSDPrice)
			if p.PriceDegraded {
				price += " (degraded)"
			}
			ref := p.TransactionRef
			if ref == "" {
				ref = "-"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %.4f | %.2f | %.4f | %s | %.4f | %s |\n",
				shortID(p.PurchaseID), p.PurchasedAt.Format("2006-01-02"),
				p.NativeSpent, p.StableSpent, p.TokensPurchased,
				price, p.TokenUSDPrice, ref))
		}
	} else {
		sb.WriteString("No purchases recorded.\n")
	}
	sb.WriteString("\n")

	// Tranches
	sb.WriteString("## Unlock Schedule\n\n")
	if len(s.Tranches) > 0 {
		sb.WriteString("| Purchase | Tranche | Unlock Date | Percent | Tokens | Status |\n")
		sb.WriteString("|----------|---------|-------------|---------|--------|--------|\n")
		for _, t := range s.Tranches {
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %.1f | %.4f | %s |\n",
				shortID(t.PurchaseID), t.Index, t.UnlockAt.Format("2006-01-02"),
				t.Percentage, t.Amount, t.Status))
		}
	} else {
		sb.WriteString("No unlock schedule available.\n")
	}
	sb.WriteString("\n")

	// Activity
	sb.WriteString("## Activity\n\n")
	if len(s.Events) > 0 {
		sb.WriteString("| Date | Event | Purchase | Tranche | Tokens | Tx Ref |\n")
		sb.WriteString("|------|-------|----------|---------|--------|--------|\n")
		for _, e := range s.Events {
			tranche := "-"
			if e.TrancheIndex >= 0 {
				tranche = fmt.Sprintf("%d", e.TrancheIndex)
			}
			ref := e.TransactionRef
			if ref == "" {
				ref = "-"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.4f | %s |\n",
				e.OccurredAt.Format(time.RFC3339), e.EventType,
				shortID(e.PurchaseID), tranche, e.TokenAmount, ref))
		}
	} else {
		sb.WriteString("No recorded activity.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// shortID abbreviates a purchase id for table display.
func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
