package internal

import "time"

// Wire error codes returned to MORT clients. The gateway never leaks raw
// transport errors: every terminal outcome maps to one of these codes plus a
// human-readable message.
const (
	CodeOK             = "0"
	CodeBadRequest     = "400"
	CodeEngineFatal    = "401"
	CodeInternal       = "500"
	CodeFormatMismatch = "502"
	CodeUnavailable    = "503"
)

type TranslationRequest struct {
	ID         string    `json:"id"`
	SourceText string    `json:"source_text"`
	SourceLang string    `json:"source_lang"`
	TargetLang string    `json:"target_lang"`
	Timestamp  time.Time `json:"timestamp"`
}

// TranslationResult is the unified outcome of a routed translation. On
// success Segments holds the translated segments in input order and ErrorCode
// is CodeOK; on failure Segments is empty and ErrorCode/ErrorMessage describe
// the terminal error. Partial results are never produced.
type TranslationResult struct {
	Segments     []string `json:"segments"`
	EngineName   string   `json:"engine_name,omitempty"`
	Model        string   `json:"model,omitempty"`
	FromCache    bool     `json:"from_cache,omitempty"`
	ErrorCode    string   `json:"error_code"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// OK reports whether the result carries a successful translation.
func (r *TranslationResult) OK() bool {
	return r != nil && r.ErrorCode == CodeOK
}
