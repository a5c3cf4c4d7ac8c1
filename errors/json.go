package errors

import (
	"encoding/json"
)

// ErrorResponse is the flat JSON representation of an error.
// The wrapped cause chain is excluded; Code, Message and Context carry the
// information a caller needs.
type ErrorResponse struct {
	// Code is the error code identifying the type of error.
	Code string `json:"code"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Context contains optional metadata about the error.
	Context map[string]interface{} `json:"context,omitempty"`
}

// ToJSON converts any error to an ErrorResponse.
// Returns nil if err is nil. Plain errors get CodeUnknown and their Error()
// text as message.
//
// Example:
//
//	if err := cmd.Execute(); err != nil {
//	    _ = json.NewEncoder(os.Stderr).Encode(errors.ToJSON(err))
//	}
func ToJSON(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	resp := &ErrorResponse{
		Code:    string(GetCode(err)),
		Message: err.Error(),
	}

	var coded Error
	if As(err, &coded) {
		resp.Message = coded.Message()
		resp.Context = coded.Context()
	}
	return resp
}

// MarshalJSON implements json.Marshaler so an Error can be embedded directly
// in JSON documents.
func (e *codedError) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(&ErrorResponse{
		Code:    string(e.code),
		Message: e.message,
		Context: e.context,
	})
	if err != nil {
		return nil, &codedError{code: CodeInternal, message: "failed to marshal error response", cause: err}
	}
	return data, nil
}
