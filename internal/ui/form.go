package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/faizmokh/servicelog/internal/maintenance"
)

type field uint8

const (
	fieldType field = iota
	fieldCustom
	fieldOdometer
	fieldInterval
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldType:     "Service type",
	fieldCustom:   "Custom name",
	fieldOdometer: "Odometer (km)",
	fieldInterval: "Interval (km)",
	fieldNotes:    "Notes",
}

// entryForm is the add/edit screen. The service type is picked by cycling
// through choices; the other fields are text inputs.
type entryForm struct {
	choices   []string
	typeIndex int
	inputs    [fieldCount]textinput.Model
	focus     field
	editing   *maintenance.ServiceEntry
}

func newEntryForm(form maintenance.Form, types []string) entryForm {
	choices := append(slices.Clone(types), maintenance.CustomType)
	f := entryForm{
		choices:   choices,
		typeIndex: max(slices.Index(choices, form.ServiceType), 0),
		editing:   form.Editing,
	}

	values := [fieldCount]string{
		fieldCustom:   form.CustomType,
		fieldOdometer: form.Odometer,
		fieldInterval: form.Interval,
		fieldNotes:    form.Notes,
	}
	placeholders := [fieldCount]string{
		fieldCustom:   "e.g. Timing Belt",
		fieldOdometer: "e.g. 45000",
		fieldInterval: "e.g. 5000",
		fieldNotes:    "optional",
	}
	for i := fieldCustom; i < fieldCount; i++ {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = placeholders[i]
		input.CharLimit = 64
		if i == fieldNotes {
			input.CharLimit = 256
		}
		input.SetValue(values[i])
		f.inputs[i] = input
	}
	return f
}

func (f entryForm) selectedType() string {
	return f.choices[f.typeIndex]
}

// value converts the screen state back into a domain form.
func (f entryForm) value() maintenance.Form {
	return maintenance.Form{
		ServiceType: f.selectedType(),
		CustomType:  f.inputs[fieldCustom].Value(),
		Odometer:    f.inputs[fieldOdometer].Value(),
		Interval:    f.inputs[fieldInterval].Value(),
		Notes:       f.inputs[fieldNotes].Value(),
		Editing:     f.editing,
	}
}

func (f entryForm) visible(i field) bool {
	return i != fieldCustom || f.selectedType() == maintenance.CustomType
}

func (f entryForm) move(step int) entryForm {
	next := f.focus
	for {
		next = field((int(next) + step + int(fieldCount)) % int(fieldCount))
		if f.visible(next) {
			break
		}
	}
	return f.focusOn(next)
}

func (f entryForm) focusOn(target field) entryForm {
	for i := fieldCustom; i < fieldCount; i++ {
		if i == target {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	f.focus = target
	return f
}

// update handles navigation keys and forwards the rest to the focused input.
func (f entryForm) update(msg tea.KeyMsg) (entryForm, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Next):
		return f.move(1), nil
	case key.Matches(msg, keys.Prev):
		return f.move(-1), nil
	}

	if f.focus == fieldType {
		switch {
		case key.Matches(msg, keys.Left):
			f.typeIndex = (f.typeIndex - 1 + len(f.choices)) % len(f.choices)
		case key.Matches(msg, keys.Right), msg.Type == tea.KeySpace:
			f.typeIndex = (f.typeIndex + 1) % len(f.choices)
		}
		return f, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f entryForm) view() string {
	var b strings.Builder
	for i := fieldType; i < fieldCount; i++ {
		if !f.visible(i) {
			continue
		}
		label := labelStyle.Render(fieldLabels[i])
		if i == f.focus {
			label = focusStyle.Render(fieldLabels[i])
		}
		b.WriteString(label)
		b.WriteByte(' ')
		if i == fieldType {
			b.WriteString("< " + f.selectedType() + " >")
		} else {
			b.WriteString(f.inputs[i].View())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
