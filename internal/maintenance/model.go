package maintenance

import "time"

// StorageKey is the single logical key the whole AppData record lives under.
const StorageKey = "vehicleMaintenanceData"

// DefaultInterval pre-fills new-entry forms until the user changes it.
const DefaultInterval = 1000

// dateLayout matches the ISO-8601 strings earlier app versions stored:
// UTC, millisecond precision, literal Z.
const dateLayout = "2006-01-02T15:04:05.000Z"

// Status expresses whether a service is still pending or already done.
type Status string

const (
	// StatusPending marks the single current reminder.
	StatusPending Status = "pending"
	// StatusDone marks entries that have moved into history.
	StatusDone Status = "done"
)

// ServiceEntry is one logged maintenance event.
type ServiceEntry struct {
	ID          string  `json:"id"`
	ServiceType string  `json:"serviceType"`
	Odometer    float64 `json:"odometer"`
	Interval    float64 `json:"interval"`
	NextDue     float64 `json:"nextDue"`
	Notes       string  `json:"notes"`
	Date        string  `json:"date"`
	Status      Status  `json:"status"`
}

// Time parses the stored ISO-8601 date.
func (e ServiceEntry) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, e.Date)
}

// AppSettings holds user preferences.
type AppSettings struct {
	DefaultInterval float64 `json:"defaultInterval"`
}

// AppData is the single persisted root record.
type AppData struct {
	Current  *ServiceEntry  `json:"current"`
	History  []ServiceEntry `json:"history"`
	Settings AppSettings    `json:"settings"`
}

// DefaultData returns the record used on first run and whenever the stored
// value cannot be read.
func DefaultData() AppData {
	return AppData{
		Current:  nil,
		History:  []ServiceEntry{},
		Settings: AppSettings{DefaultInterval: DefaultInterval},
	}
}

// HasPending reports whether a current service is scheduled.
func (d AppData) HasPending() bool {
	return d.Current != nil
}

// Clone returns a deep copy so callers can derive a new snapshot without
// aliasing the history backing array or the current entry.
func (d AppData) Clone() AppData {
	out := AppData{Settings: d.Settings}
	if d.Current != nil {
		current := *d.Current
		out.Current = &current
	}
	out.History = make([]ServiceEntry, len(d.History))
	copy(out.History, d.History)
	return out
}

// FormatDate renders t the way dates are stored.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
