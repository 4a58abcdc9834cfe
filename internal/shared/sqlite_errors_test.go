package shared

import (
	"context"
	"errors"
	"testing"
)

func TestIsSQLiteConflictError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"busy", errors.New("SQLITE_BUSY: database table is locked"), true},
		{"locked", errors.New("database is locked (5)"), true},
		{"unrelated", errors.New("no such table: users"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSQLiteConflictError(tt.err); got != tt.want {
				t.Errorf("IsSQLiteConflictError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetrySQLiteStopsOnOtherErrors(t *testing.T) {
	calls := 0
	want := errors.New("no such table: users")
	err := RetrySQLite(context.Background(), 3, func() error {
		calls++
		return want
	})
	if !errors.Is(err, want) || calls != 1 {
		t.Errorf("expected one call returning the original error, got calls=%d err=%v", calls, err)
	}
}

func TestRetrySQLiteRetriesConflicts(t *testing.T) {
	calls := 0
	err := RetrySQLite(context.Background(), 3, func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("expected success after retries, got calls=%d err=%v", calls, err)
	}
}
