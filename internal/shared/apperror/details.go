package apperror

// EntryDetail explains why one entry of a bulk request failed.
type EntryDetail struct {
	EntryID string `json:"entry_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
