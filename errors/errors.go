package errors

import "fmt"

// SheetError wraps a row-source or workbook failure with the tab it occurred on.
type SheetError struct {
	Tab string
	Err error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %v", e.Tab, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// Define specific error types for better error handling
var (
	ErrTabNotFound   = fmt.Errorf("tab not found")
	ErrBadSheetURL   = fmt.Errorf("not a Google Sheets URL")
	ErrFetchFailed   = fmt.Errorf("fetch failed")
	ErrEmptyWorkbook = fmt.Errorf("workbook has no sheets")
)
