package maintenance

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

func fixedMutator(t *testing.T, when time.Time, ids ...string) Mutator {
	t.Helper()
	next := 0
	return NewMutator(
		func() time.Time { return when },
		func() string {
			if next >= len(ids) {
				t.Fatalf("id generator exhausted after %d ids", len(ids))
			}
			id := ids[next]
			next++
			return id
		},
	)
}

func TestScheduleComputesNextDue(t *testing.T) {
	cases := []struct {
		odometer, interval, want float64
	}{
		{0, 1, 1},
		{10000, 5000, 15000},
		{123456.5, 7500.25, 130956.75},
	}

	for _, tc := range cases {
		got, err := ScheduleOrUpdateService(DefaultData(), ServiceInput{
			ServiceType: "Air Filter",
			Odometer:    tc.odometer,
			Interval:    tc.interval,
		})
		if err != nil {
			t.Fatalf("ScheduleOrUpdateService(%v, %v): %v", tc.odometer, tc.interval, err)
		}
		if got.Current.NextDue != tc.want {
			t.Fatalf("NextDue = %v, want %v", got.Current.NextDue, tc.want)
		}
	}
}

func TestScheduleStampsNewEntry(t *testing.T) {
	when := time.Date(2025, time.November, 2, 9, 45, 12, 345_000_000, time.FixedZone("MYT", 8*3600))
	m := fixedMutator(t, when, "svc-1")

	got, err := m.ScheduleOrUpdateService(DefaultData(), ServiceInput{
		ServiceType: "  Engine Oil Change ",
		Odometer:    10000,
		Interval:    5000,
		Notes:       "Synthetic",
	})
	if err != nil {
		t.Fatalf("ScheduleOrUpdateService: %v", err)
	}

	want := ServiceEntry{
		ID:          "svc-1",
		ServiceType: "Engine Oil Change",
		Odometer:    10000,
		Interval:    5000,
		NextDue:     15000,
		Notes:       "Synthetic",
		Date:        "2025-11-02T01:45:12.345Z",
		Status:      StatusPending,
	}
	if got.Current == nil || *got.Current != want {
		t.Fatalf("Current = %+v, want %+v", got.Current, want)
	}
	if len(got.History) != 0 {
		t.Fatalf("history len = %d, want 0", len(got.History))
	}
}

func TestScheduleEditPreservesIDAndDate(t *testing.T) {
	m := fixedMutator(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "svc-1")
	data, err := m.ScheduleOrUpdateService(DefaultData(), ServiceInput{
		ServiceType: "General Service",
		Odometer:    10000,
		Interval:    5000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	original := *data.Current

	later := fixedMutator(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	edited, err := later.ScheduleOrUpdateService(data, ServiceInput{
		ServiceType: "General Service",
		Odometer:    20000,
		Interval:    5000,
		Editing:     &original,
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	if edited.Current.ID != original.ID {
		t.Fatalf("ID = %q, want %q", edited.Current.ID, original.ID)
	}
	if edited.Current.Date != original.Date {
		t.Fatalf("Date = %q, want %q", edited.Current.Date, original.Date)
	}
	if edited.Current.NextDue != 25000 {
		t.Fatalf("NextDue = %v, want 25000", edited.Current.NextDue)
	}
	if data.Current.Odometer != 10000 {
		t.Fatalf("input snapshot mutated: odometer = %v", data.Current.Odometer)
	}
}

func TestScheduleReplacesPendingWithoutArchiving(t *testing.T) {
	m := fixedMutator(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "first", "second")
	data, err := m.ScheduleOrUpdateService(DefaultData(), ServiceInput{ServiceType: "Air Filter", Odometer: 1, Interval: 1})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	data, err = m.ScheduleOrUpdateService(data, ServiceInput{ServiceType: "Air Filter", Odometer: 2, Interval: 1})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if data.Current.ID != "second" {
		t.Fatalf("Current.ID = %q, want second", data.Current.ID)
	}
	if len(data.History) != 0 {
		t.Fatalf("history len = %d, want 0", len(data.History))
	}
}

func TestScheduleRejectsInvalidInput(t *testing.T) {
	cases := map[string]ServiceInput{
		"nan odometer":      {ServiceType: "x", Odometer: math.NaN(), Interval: 1},
		"inf interval":      {ServiceType: "x", Odometer: 1, Interval: math.Inf(1)},
		"negative odometer": {ServiceType: "x", Odometer: -1, Interval: 1},
		"zero interval":     {ServiceType: "x", Odometer: 1, Interval: 0},
		"negative interval": {ServiceType: "x", Odometer: 1, Interval: -10},
		"blank type":        {ServiceType: "  ", Odometer: 1, Interval: 1},
	}

	for name, input := range cases {
		data := DefaultData()
		got, err := ScheduleOrUpdateService(data, input)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: err = %v, want ErrInvalidInput", name, err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field == "" {
			t.Fatalf("%s: err = %v, want *ValidationError with field", name, err)
		}
		if !reflect.DeepEqual(got, data) {
			t.Fatalf("%s: data changed on rejection: %+v", name, got)
		}
	}
}

func TestCompleteMovesCurrentToHistoryHead(t *testing.T) {
	created := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	m := fixedMutator(t, created, "svc-2")

	data := DefaultData()
	data.History = []ServiceEntry{{ID: "svc-1", ServiceType: "Air Filter", Status: StatusDone, Date: "2024-06-01T00:00:00.000Z"}}
	data, err := m.ScheduleOrUpdateService(data, ServiceInput{ServiceType: "Engine Oil Change", Odometer: 10000, Interval: 5000})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if data.Current.NextDue != 15000 {
		t.Fatalf("NextDue = %v, want 15000", data.Current.NextDue)
	}

	done := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	completed, err := fixedMutator(t, done).CompleteCurrentService(data)
	if err != nil {
		t.Fatalf("CompleteCurrentService: %v", err)
	}

	if completed.Current != nil {
		t.Fatalf("Current = %+v, want nil", completed.Current)
	}
	if len(completed.History) != 2 {
		t.Fatalf("history len = %d, want 2", len(completed.History))
	}
	head := completed.History[0]
	if head.ID != "svc-2" || head.Odometer != 10000 || head.Status != StatusDone {
		t.Fatalf("history[0] = %+v", head)
	}
	if head.Date != "2025-03-04T05:06:07.000Z" {
		t.Fatalf("history[0].Date = %q, want completion time", head.Date)
	}
	if completed.History[1].ID != "svc-1" {
		t.Fatalf("history[1].ID = %q, want svc-1", completed.History[1].ID)
	}
	if data.Current == nil || data.Current.Status != StatusPending {
		t.Fatalf("input snapshot mutated: %+v", data.Current)
	}
}

func TestCompleteWithoutCurrentIsRejected(t *testing.T) {
	data := DefaultData()
	data.History = []ServiceEntry{{ID: "old", Status: StatusDone}}

	got, err := CompleteCurrentService(data)
	if !errors.Is(err, ErrNoCurrentService) {
		t.Fatalf("err = %v, want ErrNoCurrentService", err)
	}
	if len(got.History) != 1 || got.History[0].ID != "old" {
		t.Fatalf("history = %+v, want unchanged", got.History)
	}
}

func TestUpdateDefaultInterval(t *testing.T) {
	data := DefaultData()

	updated, err := UpdateDefaultInterval(data, 7500)
	if err != nil {
		t.Fatalf("UpdateDefaultInterval: %v", err)
	}
	if updated.Settings.DefaultInterval != 7500 {
		t.Fatalf("DefaultInterval = %v, want 7500", updated.Settings.DefaultInterval)
	}
	if data.Settings.DefaultInterval != DefaultInterval {
		t.Fatalf("input mutated: %v", data.Settings.DefaultInterval)
	}

	for _, bad := range []float64{-5, 0, math.NaN()} {
		got, err := UpdateDefaultInterval(updated, bad)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("UpdateDefaultInterval(%v) err = %v, want ErrInvalidInput", bad, err)
		}
		if got.Settings.DefaultInterval != 7500 {
			t.Fatalf("DefaultInterval = %v after rejected %v, want 7500", got.Settings.DefaultInterval, bad)
		}
	}
}
