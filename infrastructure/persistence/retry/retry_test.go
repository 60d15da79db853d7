package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"todo/config"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func TestIsRetryableError(t *testing.T) {
	cfg := DefaultConfig
	noDeadlock := DefaultConfig
	noDeadlock.RetryOnDeadlock = false

	tests := []struct {
		name string
		err  error
		cfg  Config
		want bool
	}{
		{"nil", nil, cfg, false},
		{"deadlock", &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, cfg, true},
		{"deadlock disabled", &mysqlDriver.MySQLError{Number: 1213}, noDeadlock, false},
		{"lock wait timeout", fmt.Errorf("save: %w", &mysqlDriver.MySQLError{Number: 1205}), cfg, true},
		{"duplicate key", &mysqlDriver.MySQLError{Number: 1062}, cfg, false},
		{"invalid conn", mysqlDriver.ErrInvalidConn, cfg, true},
		{"connection lost", errors.New("Lost connection to MySQL server"), cfg, true},
		{"context canceled", context.Canceled, cfg, false},
		{"plain", errors.New("syntax error"), cfg, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err, tt.cfg); got != tt.want {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryPredicate(t *testing.T) {
	sentinel := errors.New("busy")
	cfg := DefaultConfig
	cfg.RetryPredicate = func(err error) bool { return errors.Is(err, sentinel) }

	if !IsRetryableError(sentinel, cfg) {
		t.Error("custom predicate should make error retryable")
	}
}

func TestExecuteWithRetry_RetriesTransientErrors(t *testing.T) {
	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return &mysqlDriver.MySQLError{Number: 1213}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ExecuteWithRetry() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestExecuteWithRetry_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	permanent := errors.New("permanent")
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) || attempts != 1 {
		t.Errorf("err = %v, attempts = %d", err, attempts)
	}
}

func TestExecuteWithRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		return &mysqlDriver.MySQLError{Number: 1205}
	})
	if err == nil || attempts != DefaultConfig.MaxAttempts {
		t.Errorf("err = %v, attempts = %d", err, attempts)
	}
}

func TestExecuteWithRetry_Disabled(t *testing.T) {
	cfg := fastConfig()
	cfg.Enabled = false
	attempts := 0
	_ = ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return &mysqlDriver.MySQLError{Number: 1213}
	})
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestExecuteWithRetry_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := ExecuteWithRetry(ctx, fastConfig(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Errorf("err = %v, called = %v", err, called)
	}
}

func TestExponentialBackoffWithJitter(t *testing.T) {
	cfg := Config{InitialDelay: 10 * time.Millisecond, MaxDelay: 25 * time.Millisecond, BackoffFactor: 2}

	if d := ExponentialBackoffWithJitter(0, cfg); d != 0 {
		t.Errorf("attempt 0 = %v", d)
	}
	if d := ExponentialBackoffWithJitter(1, cfg); d != 10*time.Millisecond {
		t.Errorf("attempt 1 = %v", d)
	}
	if d := ExponentialBackoffWithJitter(2, cfg); d != 20*time.Millisecond {
		t.Errorf("attempt 2 = %v", d)
	}
	if d := ExponentialBackoffWithJitter(5, cfg); d != 25*time.Millisecond {
		t.Errorf("attempt 5 = %v, want capped", d)
	}

	cfg.JitterEnabled = true
	for i := 0; i < 20; i++ {
		d := ExponentialBackoffWithJitter(1, cfg)
		if d < 8*time.Millisecond || d > 12*time.Millisecond {
			t.Fatalf("jittered delay %v out of ±20%%", d)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.Config{Database: config.DatabaseConfig{Retry: config.RetryConfig{
		Enabled:         true,
		MaxAttempts:     5,
		InitialDelay:    time.Second,
		RetryOnDeadlock: true,
	}}}

	got := FromAppConfig(appCfg)
	if !got.Enabled || got.MaxAttempts != 5 || got.InitialDelay != time.Second || !got.RetryOnDeadlock || got.RetryOnLockTimeout {
		t.Errorf("FromAppConfig() = %+v", got)
	}
}
