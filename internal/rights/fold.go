package rights

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Normalize turns a raw event list into the ordered, de-duplicated list that Fold consumes.
//
// Malformed events are dropped and reported as warnings. An exact repeat of a record (same ex-date,
// cash and ratio) is a re-delivery and counts once. Distinct records sharing an ex-date are merged
// into one event: cash amounts are summed and the non-zero stock ratio is kept (the larger one if
// both are non-zero). The output is sorted by ex-date and depends only on the set of input events,
// not on their order.
func Normalize(events []Event) ([]Event, []Warning) {
	var warnings []Warning
	valid := make([]Event, 0, len(events))

	for _, ev := range events {
		if reason := ev.malformed(); reason != "" {
			date := ev.rawExDate
			if !ev.ExDate.IsZero() {
				date = ev.ExDate.Format(DateLayout)
			}
			warnings = append(warnings, Warning{ExDate: date, Reason: reason})
			continue
		}
		valid = append(valid, Event{
			ExDate:                        DateOnly(ev.ExDate),
			CashDividendPerShare:          ev.CashDividendPerShare,
			StockDividendRatioPerThousand: ev.StockDividendRatioPerThousand,
		})
	}

	slices.SortFunc(valid, compareEvents)

	merged := make([]Event, 0, len(valid))
	for i, ev := range valid {
		if i > 0 && compareEvents(ev, valid[i-1]) == 0 {
			continue
		}
		if n := len(merged); n > 0 && merged[n-1].ExDate.Equal(ev.ExDate) {
			last := &merged[n-1]
			last.CashDividendPerShare = last.CashDividendPerShare.Add(ev.CashDividendPerShare)
			last.StockDividendRatioPerThousand = decimal.Max(last.StockDividendRatioPerThousand, ev.StockDividendRatioPerThousand)
			continue
		}
		merged = append(merged, ev)
	}

	slices.SortFunc(warnings, func(a, b Warning) int {
		return cmp.Or(cmp.Compare(a.ExDate, b.ExDate), cmp.Compare(a.Reason, b.Reason))
	})

	return merged, warnings
}

func compareEvents(a, b Event) int {
	return cmp.Or(
		a.ExDate.Compare(b.ExDate),
		a.CashDividendPerShare.Cmp(b.CashDividendPerShare),
		a.StockDividendRatioPerThousand.Cmp(b.StockDividendRatioPerThousand),
	)
}

// Fold applies every event dated after the purchase date to the holding, oldest first.
//
// For each event:
//
//	sharesGranted = floor(sharesBefore * ratio / 1000)
//	sharesAfter   = sharesBefore + sharesGranted
//	costAfter     = max(0, (costBefore*sharesBefore - cash*sharesBefore) / sharesAfter)
//
// and the cash received is cash * sharesBefore. The "after" values of one event are the "before"
// values of the next, which is why the list is sorted before any event is applied.
//
// Malformed events never abort the fold; they are listed in Result.Warnings. An invalid holding
// returns an *InvalidInputError and no result.
func Fold(h Holding, events []Event) (Result, error) {
	if err := h.Validate(); err != nil {
		return Result{}, err
	}

	normalized, warnings := Normalize(events)
	purchaseDate := DateOnly(h.PurchaseDate)

	shares := h.Shares
	cost := h.CostBasisPerShare
	totalCash := decimal.Zero
	applied := make([]AppliedEvent, 0, len(normalized))

	for _, ev := range normalized {
		// Holders are not entitled to distributions that went ex on or before the purchase.
		if !ev.ExDate.After(purchaseDate) {
			continue
		}

		step := apply(shares, cost, ev)
		applied = append(applied, step)

		shares = step.SharesAfter
		cost = step.CostBasisAfter
		totalCash = totalCash.Add(step.CashReceived)
	}

	return Result{
		FinalShares:                   shares,
		FinalCostBasisPerShare:        cost,
		TotalCashDistributionReceived: totalCash,
		EventsApplied:                 applied,
		Warnings:                      warnings,
	}, nil
}

func apply(sharesBefore int64, costBefore decimal.Decimal, ev Event) AppliedEvent {
	before := decimal.NewFromInt(sharesBefore)

	granted := before.Mul(ev.StockDividendRatioPerThousand).Div(thousand).Floor().IntPart()
	sharesAfter := sharesBefore + granted

	cashReceived := ev.CashDividendPerShare.Mul(before)
	costAfter := costBefore.Mul(before).Sub(cashReceived).Div(decimal.NewFromInt(sharesAfter))
	if costAfter.IsNegative() {
		costAfter = decimal.Zero
	}

	return AppliedEvent{
		ExDate:                        ev.ExDate.Format(DateLayout),
		CashDividendPerShare:          ev.CashDividendPerShare,
		StockDividendRatioPerThousand: ev.StockDividendRatioPerThousand,
		SharesBefore:                  sharesBefore,
		SharesGranted:                 granted,
		SharesAfter:                   sharesAfter,
		CostBasisBefore:               costBefore,
		CostBasisAfter:                costAfter,
		CashReceived:                  cashReceived,
	}
}
