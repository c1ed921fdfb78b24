package extract

import "fmt"

// Reasons an extraction can fail.
const (
	ReasonUnreadable = "unreadable"
	ReasonCorrupt    = "corrupt"
	ReasonEncrypted  = "encrypted"
	ReasonNoPages    = "zero_pages"
	ReasonCancelled  = "cancelled"
)

// ExtractionError reports that no spans could be produced for a file.
type ExtractionError struct {
	Path   string
	Reason string
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("extract %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("extract %s: %s: %v", e.Path, e.Reason, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
