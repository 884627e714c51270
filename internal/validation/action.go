package validation

import "github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/api/request"

// ValidateCreateCorporateAction validates a manual corporate action.
// Beyond the field rules, an event must distribute something.
func ValidateCreateCorporateAction(req request.CreateCorporateActionRequest) error {
	if err := Struct(req); err != nil {
		return err
	}
	if req.CashDividendPerShare.IsZero() && req.StockDividendRatioPerThousand.IsZero() {
		return &Error{Fields: map[string]string{
			"cashDividendPerShare": "an event needs a cash dividend or a stock dividend",
		}}
	}
	return nil
}
