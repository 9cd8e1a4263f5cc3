// Package report renders the maintenance record as human-readable text.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/faizmokh/servicelog/internal/maintenance"
)

var printer = message.NewPrinter(language.English)

// Distance formats kilometres with thousands separators, e.g. "15,000 km".
func Distance(v float64) string {
	text := maintenance.FormatNumber(v)
	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}
	whole, frac, _ := strings.Cut(text, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + text + " km"
	}
	grouped := printer.Sprintf("%d", n)
	if frac != "" {
		grouped += "." + frac
	}
	return sign + grouped + " km"
}

// Day renders an entry's stored date as YYYY-MM-DD in loc, or the raw string
// when it cannot be parsed.
func Day(entry maintenance.ServiceEntry, loc *time.Location) string {
	when, err := entry.Time()
	if err != nil {
		return entry.Date
	}
	if loc == nil {
		loc = time.UTC
	}
	return when.In(loc).Format("2006-01-02")
}

// Markdown renders the pending service and the history grouped under one
// heading per completion day, newest first.
func Markdown(data maintenance.AppData, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("# Vehicle Service Log\n\n")

	b.WriteString("## Pending\n")
	if !data.HasPending() {
		b.WriteString("All systems go.\n")
	} else {
		b.WriteString("- ")
		b.WriteString(Line(*data.Current, loc))
		b.WriteByte('\n')
	}

	heading := ""
	for _, entry := range maintenance.SortedHistory(data.History) {
		day := Day(entry, loc)
		if day != heading {
			heading = day
			fmt.Fprintf(&b, "\n## %s\n", day)
		}
		b.WriteString("- ")
		b.WriteString(Line(entry, loc))
		b.WriteByte('\n')
	}

	return b.String()
}

// Line renders one entry as "[x] Type at N km (every N km) - notes", or for a
// pending entry "[ ] Type at N km, next due N km (logged DAY)".
func Line(entry maintenance.ServiceEntry, loc *time.Location) string {
	status := ' '
	if entry.Status == maintenance.StatusDone {
		status = 'x'
	}

	var builder strings.Builder
	builder.Grow(64 + len(entry.ServiceType) + len(entry.Notes))
	fmt.Fprintf(&builder, "[%c] %s at %s", status, entry.ServiceType, Distance(entry.Odometer))
	if entry.Status == maintenance.StatusDone {
		fmt.Fprintf(&builder, " (every %s)", Distance(entry.Interval))
	} else {
		fmt.Fprintf(&builder, ", next due %s (logged %s)", Distance(entry.NextDue), Day(entry, loc))
	}
	if notes := strings.TrimSpace(entry.Notes); notes != "" {
		builder.WriteString(" - ")
		builder.WriteString(strings.Join(strings.Fields(notes), " "))
	}
	return builder.String()
}
