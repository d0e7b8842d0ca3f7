package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderCSV renders the unlock schedule as CSV string.
func RenderCSV(tranches []TrancheRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("purchase_id,tranche_index,unlock_at,percentage,amount,status\n")

	// Rows
	for _, t := range tranches {
		sb.WriteString(fmt.Sprintf("%s,%d,%s,%.6f,%.6f,%s\n",
			t.PurchaseID,
			t.Index,
			t.UnlockAt.Format(time.RFC3339),
			t.Percentage,
			t.Amount,
			t.Status,
		))
	}

	return sb.String()
}
