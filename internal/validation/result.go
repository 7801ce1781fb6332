package validation

// FormResult aggregates the outcome of validating a whole form.
//
// Clean always carries an entry for every persistable field of the form,
// holding the normalized value or an empty string when the field failed.
// Errors carries an entry only for fields that failed. A form is valid
// iff Errors is empty. Validation failure is an expected outcome, never
// a Go error return from the orchestrators.
type FormResult struct {
	Clean  map[string]string
	Errors map[string]string
}

func newFormResult() FormResult {
	return FormResult{
		Clean:  make(map[string]string),
		Errors: make(map[string]string),
	}
}

// Valid reports whether every field of the form passed validation.
func (r FormResult) Valid() bool {
	return len(r.Errors) == 0
}

// setField records a single field outcome: the clean value (empty on
// failure) and, when err is non-nil, its message under errorKey.
func (r FormResult) setField(cleanKey, errorKey, clean string, err error) {
	r.Clean[cleanKey] = clean
	if err != nil {
		r.Errors[errorKey] = err.Error()
	}
}
