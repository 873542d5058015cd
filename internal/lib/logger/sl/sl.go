package sl

import (
	"log/slog"
)

// Err creates a slog.Attr with the given error. A nil error is logged as an empty value.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{Key: "error", Value: slog.StringValue("")}
	}

	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// EmployeeID creates a slog.Attr for the identifier of the employee an operation targets.
func EmployeeID(id int) slog.Attr {
	return slog.Int("employee_id", id)
}
