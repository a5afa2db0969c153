package dashboard

import (
	"strings"
	"testing"

	appointmentstore "github.com/flicapp/flicapp/internal/app/store/appointments"
)

func TestNewSummaryVM(t *testing.T) {
	vm := newSummaryVM(appointmentstore.Summary{
		Scheduled:    2,
		Completed:    3,
		Cancelled:    1,
		RevenueCents: 123456,
		AvgRating:    4.5,
	})
	if vm.Total != 6 {
		t.Errorf("Total = %d, want 6", vm.Total)
	}
	if !strings.HasPrefix(vm.Revenue, "R$ ") || !strings.Contains(vm.Revenue, "1.234,56") {
		t.Errorf("Revenue = %q", vm.Revenue)
	}
	if vm.AvgRating != "4,5" {
		t.Errorf("AvgRating = %q, want 4,5", vm.AvgRating)
	}

	if got := newSummaryVM(appointmentstore.Summary{}).AvgRating; got != "-" {
		t.Errorf("unrated AvgRating = %q, want -", got)
	}
}
