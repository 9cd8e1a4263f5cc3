package maintenance

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ServiceInput carries the validated-or-not values of the entry form.
// Editing is the entry being edited, or nil when creating a new one.
type ServiceInput struct {
	ServiceType string
	Odometer    float64
	Interval    float64
	Notes       string
	Editing     *ServiceEntry
}

// Mutator derives new AppData snapshots. It never modifies its input.
type Mutator struct {
	now   func() time.Time
	newID func() string
}

// NewMutator wires the clock and id source; nil falls back to time.Now and
// random UUIDs.
func NewMutator(now func() time.Time, newID func() string) Mutator {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return Mutator{now: now, newID: newID}
}

var defaultMutator = NewMutator(nil, nil)

// ScheduleOrUpdateService uses the wall clock and random ids.
func ScheduleOrUpdateService(data AppData, input ServiceInput) (AppData, error) {
	return defaultMutator.ScheduleOrUpdateService(data, input)
}

// CompleteCurrentService uses the wall clock.
func CompleteCurrentService(data AppData) (AppData, error) {
	return defaultMutator.CompleteCurrentService(data)
}

// ScheduleOrUpdateService validates input and makes it the current pending
// entry. When editing, the original id and date survive; otherwise a new id
// and the current time are stamped. Any previous pending entry is replaced,
// not archived.
func (m Mutator) ScheduleOrUpdateService(data AppData, input ServiceInput) (AppData, error) {
	serviceType := strings.TrimSpace(input.ServiceType)
	if serviceType == "" {
		return data, invalid("serviceType", "is required")
	}
	if !isFinite(input.Odometer) {
		return data, invalid("odometer", "must be a number")
	}
	if input.Odometer < 0 {
		return data, invalid("odometer", "must not be negative")
	}
	if !isFinite(input.Interval) {
		return data, invalid("interval", "must be a number")
	}
	if input.Interval <= 0 {
		return data, invalid("interval", "must be greater than zero")
	}

	entry := ServiceEntry{
		ServiceType: serviceType,
		Odometer:    input.Odometer,
		Interval:    input.Interval,
		NextDue:     input.Odometer + input.Interval,
		Notes:       input.Notes,
		Status:      StatusPending,
	}
	if input.Editing != nil {
		entry.ID = input.Editing.ID
		entry.Date = input.Editing.Date
	} else {
		entry.ID = m.newID()
		entry.Date = FormatDate(m.now())
	}

	out := data.Clone()
	out.Current = &entry
	return out, nil
}

// CompleteCurrentService moves the pending entry to the head of history,
// flipping it to done and overwriting its date with the completion time.
func (m Mutator) CompleteCurrentService(data AppData) (AppData, error) {
	if data.Current == nil {
		return data, ErrNoCurrentService
	}

	completed := *data.Current
	completed.Status = StatusDone
	completed.Date = FormatDate(m.now())

	out := AppData{Settings: data.Settings}
	out.History = make([]ServiceEntry, 0, len(data.History)+1)
	out.History = append(out.History, completed)
	out.History = append(out.History, data.History...)
	return out, nil
}

// UpdateDefaultInterval replaces the interval used to pre-fill new entries.
func UpdateDefaultInterval(data AppData, value float64) (AppData, error) {
	if !isFinite(value) {
		return data, invalid("defaultInterval", "must be a number")
	}
	if value <= 0 {
		return data, invalid("defaultInterval", "must be greater than zero")
	}

	out := data.Clone()
	out.Settings.DefaultInterval = value
	return out, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
