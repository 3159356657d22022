package components

// Form holds submitted values and per-field error keys for re-rendering.
type Form struct {
	Values map[string]string
	Lists  map[string][]string
	Errors map[string]string
}

func NewForm() Form {
	return Form{
		Values: map[string]string{},
		Lists:  map[string][]string{},
		Errors: map[string]string{},
	}
}

func (f Form) Value(name string) string {
	return f.Values[name]
}

func (f Form) Error(name string) string {
	return f.Errors[name]
}

func (f Form) HasError(name string) bool {
	return f.Errors[name] != ""
}

// ListItems returns the submitted rows plus one empty row for the next entry.
// The browser script adds and removes rows; without it the empty row is always present.
func (f Form) ListItems(name string) []string {
	items := append([]string{}, f.Lists[name]...)
	return append(items, "")
}

// Input describes one form control.
type Input struct {
	Name         string
	Type         string
	LabelKey     string
	Required     bool
	Autocomplete string
	Placeholder  string
}

func (in Input) InputType() string {
	if in.Type == "" {
		return "text"
	}
	return in.Type
}

// KeepsValue reports whether a submitted value is echoed back. Passwords never are.
func (in Input) KeepsValue() bool {
	return in.InputType() != "password"
}
