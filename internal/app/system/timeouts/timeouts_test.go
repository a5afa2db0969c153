package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Short: 7 * time.Second})
	if Short() != 7*time.Second {
		t.Errorf("Short = %v, want 7s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium = %v, want default %v", Medium(), DefaultMedium)
	}

	Reset()
	if got := Current(); got != (Config{DefaultPing, DefaultShort, DefaultMedium, DefaultBulk}) {
		t.Errorf("Reset left %+v", got)
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	<-ctx.Done()
	cancel()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("ctx.Err = %v, want DeadlineExceeded", ctx.Err())
	}
}
