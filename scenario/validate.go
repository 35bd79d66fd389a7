package scenario

import "fmt"

// ValidationError pairs a field path with a human-readable message, as
// returned by Validate.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks a Scenario's structural invariants and returns every
// violation found; it does not stop at the first one.
func Validate(s Scenario) []ValidationError {
	var errs []ValidationError

	if s.Name == "" {
		errs = append(errs, ValidationError{Path: "name", Message: "must not be empty"})
	}
	if s.Command.Program == "" {
		errs = append(errs, ValidationError{Path: "command.program", Message: "must not be empty"})
	}
	if s.Terminal.Cols <= 0 {
		errs = append(errs, ValidationError{Path: "terminal.cols", Message: "must be > 0"})
	}
	if s.Terminal.Rows <= 0 {
		errs = append(errs, ValidationError{Path: "terminal.rows", Message: "must be > 0"})
	}
	if len(s.Steps) == 0 {
		errs = append(errs, ValidationError{Path: "steps", Message: "must not be empty"})
	}

	for i, step := range s.Steps {
		errs = append(errs, validateStep(i, step)...)
	}

	return errs
}

func validateStep(i int, step Step) []ValidationError {
	path := fmt.Sprintf("steps[%d]", i)
	var errs []ValidationError

	switch st := step.(type) {
	case WaitFor:
		if st.Pattern == "" {
			errs = append(errs, ValidationError{Path: path + ".pattern", Message: "must not be empty"})
		}
		if st.TimeoutTicks == 0 {
			errs = append(errs, ValidationError{Path: path + ".timeout_ticks", Message: "must be > 0"})
		}
	case WaitTicks:
		if st.Ticks == 0 {
			errs = append(errs, ValidationError{Path: path + ".ticks", Message: "must be > 0"})
		}
	case SendSignal:
		if st.Signal == "" {
			errs = append(errs, ValidationError{Path: path + ".signal", Message: "must not be empty"})
		}
	case Resize:
		if st.Cols <= 0 {
			errs = append(errs, ValidationError{Path: path + ".cols", Message: "must be > 0"})
		}
		if st.Rows <= 0 {
			errs = append(errs, ValidationError{Path: path + ".rows", Message: "must be > 0"})
		}
	case AssertScreen:
		if st.Pattern == "" {
			errs = append(errs, ValidationError{Path: path + ".pattern", Message: "must not be empty"})
		}
		if !st.Anywhere && st.Row < 0 {
			errs = append(errs, ValidationError{Path: path + ".row", Message: "must be >= 0 when anywhere is false"})
		}
	case AssertCursor:
		if st.Row < 0 {
			errs = append(errs, ValidationError{Path: path + ".row", Message: "must be >= 0"})
		}
		if st.Col < 0 {
			errs = append(errs, ValidationError{Path: path + ".col", Message: "must be >= 0"})
		}
	case Snapshot:
		if st.Name == "" {
			errs = append(errs, ValidationError{Path: path + ".name", Message: "must not be empty"})
		}
	case SendKeys, CheckInvariant:
		// no structural constraints beyond the step existing
	default:
		errs = append(errs, ValidationError{Path: path, Message: "unknown step kind"})
	}

	return errs
}
