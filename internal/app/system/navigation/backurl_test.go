package navigation

import (
	"net/http/httptest"
	"testing"
)

func TestSafeBackURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
		opts   BackURLOptions
		want   string
	}{
		{"valid return", "/x?return=/users?page=2", UsersBackURL, "/users?page=2"},
		{"wrong prefix", "/x?return=/appointments", UsersBackURL, "/users"},
		{"excluded subpath", "/x?return=/users/bulk", UsersBackURL, "/users"},
		{"external url", "/x?return=https://evil.example/users", UsersBackURL, "/users"},
		{"preserves filter", "/x?filter=PENDING", ProviderRequestsBackURL, "/provider-requests?filter=PENDING"},
		{"no return", "/x", AppointmentsBackURL, "/appointments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if got := SafeBackURL(r, tt.opts); got != tt.want {
				t.Errorf("SafeBackURL = %q, want %q", got, tt.want)
			}
		})
	}
}
