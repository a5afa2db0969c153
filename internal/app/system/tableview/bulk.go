package tableview

import (
	"context"
	"errors"

	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"github.com/flicapp/flicapp/internal/app/system/metrics"
)

// Flash codes understood by viewdata.
const (
	FlashApplied     = "applied"
	FlashPartial     = "partial"
	FlashUnavailable = "unavailable"
)

// RunBulk dispatches actionID over t's selection and records the outcome
// under the table name. The returned flash code summarizes the result for
// the redirect back to the list.
func RunBulk[T datatable.Row](ctx context.Context, name string, t *datatable.Table[T], actionID string) (datatable.BulkResult, string, error) {
	res, err := t.RunBulk(ctx, actionID)
	metrics.BulkResult(name, actionID, res.Applied, res.Skipped, res.Failed)

	switch {
	case errors.Is(err, datatable.ErrUnknownAction),
		errors.Is(err, datatable.ErrEmptySelection),
		errors.Is(err, datatable.ErrActionUnavailable):
		return res, FlashUnavailable, err
	case err != nil && res.Applied > 0:
		return res, FlashPartial, err
	case err != nil:
		return res, "", err
	}
	return res, FlashApplied, nil
}
