package httpmsg

import "errors"

// Parser errors. They are stored in Request.Err rather than returned.
var (
	ErrEmptyRequest  = errors.New("httpmsg: empty request")
	ErrMalformed     = errors.New("httpmsg: malformed request")
	ErrBodyTooLarge  = errors.New("httpmsg: request body too large")
	ErrMalformedForm = errors.New("httpmsg: malformed form body")
)
