package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/faizmokh/servicelog/internal/maintenance"
)

// AllClear is shown when no service is pending.
const AllClear = "All systems go. No service scheduled."

// Status describes the pending service the way the home screen does.
func Status(data maintenance.AppData, loc *time.Location) string {
	if !data.HasPending() {
		return AllClear + "\n"
	}

	entry := data.Current
	var b strings.Builder
	fmt.Fprintf(&b, "Next service: %s\n", entry.ServiceType)
	fmt.Fprintf(&b, "Due at:       %s\n", Distance(entry.NextDue))
	fmt.Fprintf(&b, "Last service: %s\n", Distance(entry.Odometer))
	fmt.Fprintf(&b, "Interval:     %s\n", Distance(entry.Interval))
	fmt.Fprintf(&b, "Logged:       %s\n", Day(*entry, loc))
	if notes := strings.TrimSpace(entry.Notes); notes != "" {
		fmt.Fprintf(&b, "Notes:        %s\n", notes)
	}
	return b.String()
}

// Settings describes the stored preferences.
func Settings(data maintenance.AppData) string {
	return fmt.Sprintf("Default interval: %s\n", Distance(data.Settings.DefaultInterval))
}
