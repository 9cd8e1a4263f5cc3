package maintenance

import (
	"slices"
	"strconv"
	"strings"
)

// CustomType is the picker choice that takes its name from free text.
const CustomType = "Custom"

// DefaultServiceTypes are offered before Custom when no config overrides them.
var DefaultServiceTypes = []string{
	"Engine Oil Change",
	"Oil Filter Change",
	"Air Filter",
	"Brake Inspection",
	"General Service",
}

// Form is the raw text state of the add/edit entry form.
type Form struct {
	ServiceType string
	CustomType  string
	Odometer    string
	Interval    string
	Notes       string
	Editing     *ServiceEntry
}

// NewForm pre-fills a form. New entries start from the first predefined type
// and the configured default interval; edits start from the entry itself,
// selecting Custom when its type is not predefined.
func NewForm(data AppData, editing *ServiceEntry, types []string) Form {
	if editing == nil {
		form := Form{
			ServiceType: CustomType,
			Interval:    FormatNumber(data.Settings.DefaultInterval),
		}
		if len(types) > 0 {
			form.ServiceType = types[0]
		}
		return form
	}

	entry := *editing
	form := Form{
		ServiceType: entry.ServiceType,
		Odometer:    FormatNumber(entry.Odometer),
		Interval:    FormatNumber(entry.Interval),
		Notes:       entry.Notes,
		Editing:     &entry,
	}
	if !slices.Contains(types, entry.ServiceType) {
		form.ServiceType = CustomType
		form.CustomType = entry.ServiceType
	}
	return form
}

// Input converts the form into a ServiceInput, rejecting non-numeric
// odometer or interval text.
func (f Form) Input() (ServiceInput, error) {
	odometer, err := ParseNumber("odometer", f.Odometer)
	if err != nil {
		return ServiceInput{}, err
	}
	interval, err := ParseNumber("interval", f.Interval)
	if err != nil {
		return ServiceInput{}, err
	}
	return ServiceInput{
		ServiceType: ResolveServiceType(f.ServiceType, f.CustomType),
		Odometer:    odometer,
		Interval:    interval,
		Notes:       f.Notes,
		Editing:     f.Editing,
	}, nil
}

// ResolveServiceType returns the stored type for a picker selection.
func ResolveServiceType(selected, custom string) string {
	if selected != CustomType {
		return selected
	}
	if name := strings.TrimSpace(custom); name != "" {
		return name
	}
	return CustomType
}

// ParseNumber parses user text as a finite decimal number.
func ParseNumber(field, text string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || !isFinite(value) {
		return 0, invalid(field, "%q is not a valid number", text)
	}
	return value, nil
}

// FormatNumber renders a number without trailing zeros or exponent noise.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
