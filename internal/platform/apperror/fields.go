package apperror

// FieldErrors maps an input field name to its human-readable validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// First returns the first message recorded for field.
func (f FieldErrors) First(field string) (string, bool) {
	msgs := f[field]
	if len(msgs) == 0 {
		return "", false
	}
	return msgs[0], true
}

// ValidationDetails is the Details payload of a validation failure.
// It serializes as {"fieldErrors": {"content": ["..."]}}.
type ValidationDetails struct {
	FieldErrors FieldErrors `json:"fieldErrors"`
}

// FieldErrorsOf returns the field errors carried by err, if any.
func FieldErrorsOf(err error) (FieldErrors, bool) {
	appErr, ok := As(err)
	if !ok {
		return nil, false
	}
	switch d := appErr.Details.(type) {
	case ValidationDetails:
		return d.FieldErrors, len(d.FieldErrors) > 0
	case *ValidationDetails:
		if d == nil {
			return nil, false
		}
		return d.FieldErrors, len(d.FieldErrors) > 0
	}
	return nil, false
}
