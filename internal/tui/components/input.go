package components

import (
	"fmt"
	"strings"
	"unicode"
)

// FormField is a focusable form control.
type FormField interface {
	Focus(bool)
	IsFocused() bool
	HandleKey(string)
	Render(Palette) string
}

// Input is a single-line text input.
type Input struct {
	label       string
	value       []rune
	placeholder string
	width       int
	focused     bool
	cursorPos   int
	maxLength   int
	required    bool
	numeric     bool
	err         string
}

// NewInput creates a new input field.
func NewInput(label string) *Input {
	return &Input{
		label:     label,
		width:     20,
		maxLength: 100,
	}
}

// SetValue sets the input value.
func (i *Input) SetValue(v string) *Input {
	i.value = []rune(v)
	i.cursorPos = len(i.value)
	return i
}

// SetPlaceholder sets the placeholder text.
func (i *Input) SetPlaceholder(p string) *Input {
	i.placeholder = p
	return i
}

// SetWidth sets the input width.
func (i *Input) SetWidth(w int) *Input {
	i.width = w
	return i
}

// SetMaxLength sets the maximum input length in characters.
func (i *Input) SetMaxLength(m int) *Input {
	i.maxLength = m
	return i
}

// SetRequired marks the field as required.
func (i *Input) SetRequired(r bool) *Input {
	i.required = r
	return i
}

// SetNumeric restricts input to digits.
func (i *Input) SetNumeric(n bool) *Input {
	i.numeric = n
	return i
}

// SetError sets an error message.
func (i *Input) SetError(e string) *Input {
	i.err = e
	return i
}

// Focus sets the focus state.
func (i *Input) Focus(focused bool) {
	i.focused = focused
	i.cursorPos = min(i.cursorPos, len(i.value))
}

// IsFocused returns the focus state.
func (i *Input) IsFocused() bool {
	return i.focused
}

// Value returns the current value.
func (i *Input) Value() string {
	return string(i.value)
}

// HandleKey handles a key press.
func (i *Input) HandleKey(key string) {
	if !i.focused {
		return
	}

	switch key {
	case "backspace":
		if i.cursorPos > 0 {
			i.value = append(i.value[:i.cursorPos-1], i.value[i.cursorPos:]...)
			i.cursorPos--
		}
	case "delete":
		if i.cursorPos < len(i.value) {
			i.value = append(i.value[:i.cursorPos], i.value[i.cursorPos+1:]...)
		}
	case "left":
		if i.cursorPos > 0 {
			i.cursorPos--
		}
	case "right":
		if i.cursorPos < len(i.value) {
			i.cursorPos++
		}
	case "home", "ctrl+a":
		i.cursorPos = 0
	case "end", "ctrl+e":
		i.cursorPos = len(i.value)
	case " ":
		i.insert(' ')
	default:
		r := []rune(key)
		if len(r) == 1 && unicode.IsPrint(r[0]) {
			i.insert(r[0])
		}
	}
}

func (i *Input) insert(r rune) {
	if len(i.value) >= i.maxLength || (i.numeric && !unicode.IsDigit(r)) {
		return
	}
	i.value = append(i.value[:i.cursorPos], append([]rune{r}, i.value[i.cursorPos:]...)...)
	i.cursorPos++
}

// Validate checks the required flag and records the error.
func (i *Input) Validate() bool {
	if i.required && strings.TrimSpace(i.Value()) == "" {
		i.err = "Required"
		return false
	}
	i.err = ""
	return true
}

// Render renders the input field.
func (i *Input) Render(p Palette) string {
	label := i.label
	if i.required {
		label += "*"
	}
	label += ":"

	var display string
	shown := len(i.value)
	switch {
	case len(i.value) == 0 && i.placeholder != "" && !i.focused:
		display = p.Muted.Render(i.placeholder)
		shown = len([]rune(i.placeholder))
	case i.focused:
		display = p.Focus.Render(string(i.value[:i.cursorPos]) + "_" + string(i.value[i.cursorPos:]))
		shown++
	default:
		display = p.Value.Render(string(i.value))
	}
	if shown < i.width {
		display += strings.Repeat(" ", i.width-shown)
	}

	result := p.Label.Width(16).Render(label) + " " + display
	if i.err != "" {
		result += " " + p.Error.Render(i.err)
	}
	return result
}

// Select picks one of a fixed list of options.
type Select struct {
	label    string
	options  []string
	selected int
	focused  bool
}

// NewSelect creates a new select input.
func NewSelect(label string, options []string) *Select {
	return &Select{
		label:   label,
		options: options,
	}
}

// SetSelected sets the selected index.
func (s *Select) SetSelected(idx int) *Select {
	if idx >= 0 && idx < len(s.options) {
		s.selected = idx
	}
	return s
}

// SetValue selects the option equal to v, if any.
func (s *Select) SetValue(v string) *Select {
	for i, opt := range s.options {
		if opt == v {
			s.selected = i
			break
		}
	}
	return s
}

// Focus sets the focus state.
func (s *Select) Focus(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state.
func (s *Select) IsFocused() bool {
	return s.focused
}

// Value returns the selected value.
func (s *Select) Value() string {
	if s.selected >= 0 && s.selected < len(s.options) {
		return s.options[s.selected]
	}
	return ""
}

// SelectedIndex returns the selected index.
func (s *Select) SelectedIndex() int {
	return s.selected
}

// HandleKey cycles through the options with left and right.
func (s *Select) HandleKey(key string) {
	if !s.focused || len(s.options) == 0 {
		return
	}

	switch key {
	case "left", "h":
		s.selected = (s.selected - 1 + len(s.options)) % len(s.options)
	case "right", "l", " ":
		s.selected = (s.selected + 1) % len(s.options)
	}
}

// Render shows the selected option between arrows.
func (s *Select) Render(p Palette) string {
	value := s.Value()
	if s.focused {
		value = p.Focus.Bold(true).Render("◀ " + value + " ▶")
	} else {
		value = p.Value.Render("  " + value)
	}
	return p.Label.Width(16).Render(s.label+":") + " " + value +
		p.Muted.Render(fmt.Sprintf("  (%d/%d)", s.selected+1, len(s.options)))
}

// Form is a titled list of fields navigated with tab.
type Form struct {
	title      string
	fields     []FormField
	focusIndex int
	submitted  bool
	cancelled  bool
	err        string
}

// NewForm creates a new form.
func NewForm(title string) *Form {
	return &Form{title: title}
}

// AddField adds a field to the form.
func (f *Form) AddField(field FormField) *Form {
	f.fields = append(f.fields, field)
	if len(f.fields) == 1 {
		field.Focus(true)
	}
	return f
}

// HandleKey handles form navigation, passing other keys to the focused
// field. Enter on the last field or ctrl+s submits.
func (f *Form) HandleKey(key string) {
	switch key {
	case "tab", "down":
		f.nextField()
	case "shift+tab", "up":
		f.prevField()
	case "ctrl+s":
		f.submitted = true
	case "esc":
		f.cancelled = true
	case "enter":
		if f.focusIndex == len(f.fields)-1 {
			f.submitted = true
		} else {
			f.nextField()
		}
	default:
		if f.focusIndex < len(f.fields) {
			f.fields[f.focusIndex].HandleKey(key)
		}
	}
}

func (f *Form) nextField() {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focusIndex].Focus(false)
	f.focusIndex = (f.focusIndex + 1) % len(f.fields)
	f.fields[f.focusIndex].Focus(true)
}

func (f *Form) prevField() {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focusIndex].Focus(false)
	f.focusIndex = (f.focusIndex - 1 + len(f.fields)) % len(f.fields)
	f.fields[f.focusIndex].Focus(true)
}

// IsSubmitted returns true if form was submitted.
func (f *Form) IsSubmitted() bool {
	return f.submitted
}

// IsCancelled returns true if form was cancelled.
func (f *Form) IsCancelled() bool {
	return f.cancelled
}

// Reopen clears the submitted flag after a rejected submission.
func (f *Form) Reopen() {
	f.submitted = false
}

// SetError sets an error message.
func (f *Form) SetError(err string) {
	f.err = err
}

// Error returns the current error message.
func (f *Form) Error() string {
	return f.err
}

// Render renders the form.
func (f *Form) Render(p Palette) string {
	var b strings.Builder

	b.WriteString(p.Title.Render(fmt.Sprintf("═══ %s ═══", f.title)))
	b.WriteString("\n\n")

	for _, field := range f.fields {
		b.WriteString(field.Render(p))
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(p.Error.Render("Error: " + f.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.Help.Render("Tab/Down:Next  Shift+Tab/Up:Prev  ←/→:Choose  Ctrl+S:Save  Esc:Cancel"))

	return b.String()
}
