package datatable

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnknownAction     = errors.New("datatable: unknown action")
	ErrActionUnavailable = errors.New("datatable: action not available")
	ErrRowNotFound       = errors.New("datatable: row not found")
	ErrEmptySelection    = errors.New("datatable: nothing selected")
)

// ActionView is an action resolved against a row or a selection, ready to
// render as a button.
type ActionView struct {
	ID       string
	Label    string
	Icon     string
	Variant  Variant
	Disabled bool
	// Eligible is the number of selected rows the action would apply to.
	// It is zero for per-row views.
	Eligible int
}

// RowActions returns the actions shown for row, in configuration order.
// Hidden actions are omitted; disabled ones are kept and marked.
func (t *Table[T]) RowActions(row T) []ActionView {
	var out []ActionView
	for _, a := range t.cfg.Actions {
		if !a.Visible(row) {
			continue
		}
		out = append(out, ActionView{
			ID:       a.ID,
			Label:    a.Label,
			Icon:     a.Icon,
			Variant:  variantOrDefault(a.Variant),
			Disabled: a.IsDisabled(row),
		})
	}
	return out
}

// BulkActions returns the actions offered for the current selection.
//
// With one selected id every action shown for that row is offered. With
// several, only batchable actions shown for at least one selected row are
// offered. Selected ids whose rows left the data still count toward
// "several". Nothing is offered when no selected row is present.
func (t *Table[T]) BulkActions() []ActionView {
	rows := t.SelectedRows()
	if len(rows) == 0 {
		return nil
	}
	multi := t.SelectedCount() > 1

	var out []ActionView
	for _, a := range t.cfg.Actions {
		if multi && !a.Batchable {
			continue
		}
		shown, eligible := 0, 0
		for _, row := range rows {
			if a.Visible(row) {
				shown++
				if !a.IsDisabled(row) {
					eligible++
				}
			}
		}
		if shown == 0 {
			continue
		}
		out = append(out, ActionView{
			ID:       a.ID,
			Label:    a.Label,
			Icon:     a.Icon,
			Variant:  variantOrDefault(a.Variant),
			Disabled: eligible == 0,
			Eligible: eligible,
		})
	}
	return out
}

// BulkResult summarizes one bulk dispatch.
type BulkResult struct {
	ActionID string
	Applied  int
	Skipped  int
	Failed   int
}

// RunBulk applies the action to every selected row it qualifies for, in
// selection order, then clears the selection. Rows for which the action is
// hidden or disabled are skipped. Handler failures do not stop the batch;
// they are joined into the returned error.
func (t *Table[T]) RunBulk(ctx context.Context, actionID string) (BulkResult, error) {
	res := BulkResult{ActionID: actionID}

	a, ok := t.cfg.Action(actionID)
	if !ok {
		return res, fmt.Errorf("%w: %q", ErrUnknownAction, actionID)
	}
	if t.SelectedCount() == 0 {
		return res, ErrEmptySelection
	}
	if !t.bulkOffered(actionID) {
		return res, fmt.Errorf("%w: %q", ErrActionUnavailable, actionID)
	}

	var errs []error
	for _, row := range t.SelectedRows() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if !a.qualifies(row) || a.Handle == nil {
			res.Skipped++
			continue
		}
		if err := a.Handle(ctx, row); err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("%s %s: %w", actionID, row.RowID(), err))
			continue
		}
		res.Applied++
	}

	t.ClearSelection()
	return res, errors.Join(errs...)
}

// RunAction applies the action to a single row from the data set.
func (t *Table[T]) RunAction(ctx context.Context, actionID, rowID string) error {
	a, ok := t.cfg.Action(actionID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, actionID)
	}
	row, ok := t.Row(rowID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrRowNotFound, rowID)
	}
	if !a.qualifies(row) || a.Handle == nil {
		return fmt.Errorf("%w: %q on %q", ErrActionUnavailable, actionID, rowID)
	}
	return a.Handle(ctx, row)
}

func (t *Table[T]) bulkOffered(actionID string) bool {
	for _, v := range t.BulkActions() {
		if v.ID == actionID {
			return !v.Disabled
		}
	}
	return false
}

func variantOrDefault(v Variant) Variant {
	if v == "" {
		return VariantDefault
	}
	return v
}
