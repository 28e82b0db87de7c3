package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Generation errors
	ErrMissingDependency = fmt.Errorf("missing dependency collection")
	ErrUnknownCategory   = fmt.Errorf("unknown image category")
	ErrImageDownload     = fmt.Errorf("image download failed")

	// Export and load errors
	ErrUnsupportedDialect = fmt.Errorf("unsupported SQL dialect")
	ErrEmptyScript        = fmt.Errorf("empty SQL script")
	ErrDatabaseNotEmpty   = fmt.Errorf("database already contains seed data")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
