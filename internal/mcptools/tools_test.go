package mcptools

import (
	"context"
	"strings"
	"testing"

	"github.com/faizmokh/servicelog/internal/maintenance"
)

func TestServiceStatusWithNothingPending(t *testing.T) {
	srv, _ := newTestServer(t)

	result, err := callTool(t, srv, "service_status", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "All systems go") {
		t.Errorf("unexpected status: %q", text)
	}
}

func TestScheduleThenComplete(t *testing.T) {
	srv, svc := newTestServer(t)

	result, err := callTool(t, srv, "schedule_service", map[string]any{
		"serviceType": "Engine Oil Change", "odometer": 10000, "interval": 5000, "notes": "Synthetic",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, result); text != "Scheduled Engine Oil Change at 10,000 km, next due 15,000 km" {
		t.Errorf("unexpected result text: %q", text)
	}

	status, err := callTool(t, srv, "service_status", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, status); !strings.Contains(text, "Due at:       15,000 km") {
		t.Errorf("status missing next due: %q", text)
	}

	done, err := callTool(t, srv, "complete_service", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, done); text != "Completed Engine Oil Change at 10,000 km" {
		t.Errorf("unexpected result text: %q", text)
	}

	data := svc.Snapshot()
	if data.Current != nil {
		t.Fatalf("current = %+v, want nil", data.Current)
	}
	if len(data.History) != 1 || data.History[0].Odometer != 10000 || data.History[0].Status != "done" {
		t.Fatalf("unexpected history: %+v", data.History)
	}
}

func TestScheduleUsesDefaultInterval(t *testing.T) {
	srv, svc := newTestServer(t)

	if _, err := callTool(t, srv, "set_default_interval", map[string]any{"interval": 7500}); err != nil {
		t.Fatalf("set_default_interval: %v", err)
	}
	if _, err := callTool(t, srv, "schedule_service", map[string]any{"serviceType": "Air Filter", "odometer": 2500}); err != nil {
		t.Fatalf("schedule_service: %v", err)
	}
	if got := svc.Snapshot().Current.NextDue; got != 10000 {
		t.Fatalf("NextDue = %v, want 10000", got)
	}
}

func TestScheduleReadsDefaultIntervalFromStore(t *testing.T) {
	store, logger := openTestStore(t)
	svc := newTestService(store, logger)
	srv := NewServer(svc, logger)

	// A second writer on the same database changes the default; this
	// server's snapshot still holds the old value.
	other := newTestService(store, logger)
	if _, err := other.SetDefaultInterval(context.Background(), 4000); err != nil {
		t.Fatalf("SetDefaultInterval: %v", err)
	}
	if got := svc.Snapshot().Settings.DefaultInterval; got != maintenance.DefaultInterval {
		t.Fatalf("snapshot default = %v, want stale %v", got, maintenance.DefaultInterval)
	}

	if _, err := callTool(t, srv, "schedule_service", map[string]any{"serviceType": "Air Filter", "odometer": 2500}); err != nil {
		t.Fatalf("schedule_service: %v", err)
	}
	current := svc.Snapshot().Current
	if current == nil {
		t.Fatal("expected a pending service")
	}
	if current.Interval != 4000 || current.NextDue != 6500 {
		t.Fatalf("Interval = %v, NextDue = %v, want 4000 and 6500", current.Interval, current.NextDue)
	}
}

func TestScheduleRejectsInvalidInterval(t *testing.T) {
	srv, svc := newTestServer(t)

	result, err := callTool(t, srv, "schedule_service", map[string]any{
		"serviceType": "Air Filter", "odometer": 1000, "interval": -5,
	})
	if err != nil {
		t.Fatalf("unexpected RPC error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if text := resultText(t, result); !strings.Contains(text, "interval") {
		t.Errorf("error should name the field: %q", text)
	}
	if svc.Snapshot().Current != nil {
		t.Fatal("rejected input must not be applied")
	}
}

func TestScheduleRequiresServiceType(t *testing.T) {
	srv, _ := newTestServer(t)

	if _, err := callTool(t, srv, "schedule_service", map[string]any{"odometer": 1000}); err == nil {
		t.Fatal("expected error for missing serviceType")
	}
}

func TestCompleteWithoutPendingIsToolError(t *testing.T) {
	srv, _ := newTestServer(t)

	result, err := callTool(t, srv, "complete_service", nil)
	if err != nil {
		t.Fatalf("unexpected RPC error: %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(t, result), "no pending service") {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestUpdateCurrentKeepsIdentity(t *testing.T) {
	srv, svc := newTestServer(t)

	if _, err := callTool(t, srv, "schedule_service", map[string]any{
		"serviceType": "Brake Inspection", "odometer": 10000, "interval": 5000,
	}); err != nil {
		t.Fatalf("schedule_service: %v", err)
	}
	before := *svc.Snapshot().Current

	result, err := callTool(t, srv, "update_current_service", map[string]any{"odometer": 20000})
	if err != nil {
		t.Fatalf("update_current_service: %v", err)
	}
	if text := resultText(t, result); text != "Updated Brake Inspection, next due 25,000 km" {
		t.Errorf("unexpected result text: %q", text)
	}

	after := *svc.Snapshot().Current
	if after.ID != before.ID || after.Date != before.Date {
		t.Fatalf("identity changed: before %+v, after %+v", before, after)
	}
	if after.NextDue != 25000 || after.Interval != 5000 {
		t.Fatalf("unexpected entry after edit: %+v", after)
	}
}

func TestServiceHistoryLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	empty, err := callTool(t, srv, "service_history", nil)
	if err != nil {
		t.Fatalf("service_history: %v", err)
	}
	if text := resultText(t, empty); text != "No completed services yet." {
		t.Errorf("unexpected empty history: %q", text)
	}

	for _, odometer := range []float64{1000, 2000, 3000} {
		if _, err := callTool(t, srv, "schedule_service", map[string]any{
			"serviceType": "General Service", "odometer": odometer, "interval": 1000,
		}); err != nil {
			t.Fatalf("schedule_service: %v", err)
		}
		if _, err := callTool(t, srv, "complete_service", nil); err != nil {
			t.Fatalf("complete_service: %v", err)
		}
	}

	result, err := callTool(t, srv, "service_history", map[string]any{"limit": 2})
	if err != nil {
		t.Fatalf("service_history: %v", err)
	}
	lines := strings.Split(resultText(t, result), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[x] General Service at") {
		t.Errorf("unexpected line: %q", lines[0])
	}
}
