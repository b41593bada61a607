package errors

// Process exit codes for command line tools
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitSchema  = 2
	ExitParsing = 3
	ExitConfig  = 4
	ExitStorage = 5
)

// ExitCode maps an error to the exit code a CLI should return. Upload
// problems (schema, parsing) and deployment problems (config) get
// distinct codes.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if IsSchemaError(err) {
		return ExitSchema
	}

	switch TypeOf(err) {
	case ErrTypeParsing:
		return ExitParsing
	case ErrTypeConfig, ErrTypeValidation:
		return ExitConfig
	case ErrTypeStorage:
		return ExitStorage
	default:
		return ExitFailure
	}
}

// UserMessage returns the text to show an end user for err. Schema errors
// are surfaced verbatim; everything else keeps its full chain.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if col, ok := MissingColumn(err); ok {
		return NewSchemaError(col, nil).Error()
	}
	return err.Error()
}
