// internal/app/features/dashboard/common.go
package dashboard

import (
	"time"

	appointmentstore "github.com/flicapp/flicapp/internal/app/store/appointments"
	"github.com/flicapp/flicapp/internal/app/system/datatable"
)

const dashboardTimeout = 5 * time.Second

// summaryVM is an appointment roll-up formatted for display.
type summaryVM struct {
	Total     int64
	Scheduled int64
	Completed int64
	Cancelled int64
	Revenue   string
	AvgRating string
}

func newSummaryVM(s appointmentstore.Summary) summaryVM {
	vm := summaryVM{
		Total:     s.Total(),
		Scheduled: s.Scheduled,
		Completed: s.Completed,
		Cancelled: s.Cancelled,
		Revenue:   datatable.FormatCurrency(s.RevenueCents),
		AvgRating: datatable.Placeholder,
	}
	if s.AvgRating > 0 {
		vm.AvgRating = datatable.FormatDecimal(s.AvgRating, 1)
	}
	return vm
}
