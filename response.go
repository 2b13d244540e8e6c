package routing

import "net/http"

// Response is the normalized result of a dispatch.
type Response struct {
	Status int
	Header http.Header
	Body   any
}

// NewResponse creates a response with the given status and body.
func NewResponse(status int, body any) *Response {
	return &Response{Status: status, Header: make(http.Header), Body: body}
}

// prepareResponse normalizes a filter or action result. A returned *Response
// is copied, header included, so values shared between dispatches stay
// untouched.
func prepareResponse(raw any) *Response {
	resp, ok := raw.(*Response)
	if !ok {
		return NewResponse(http.StatusOK, raw)
	}
	if resp == nil {
		return NewResponse(http.StatusOK, nil)
	}

	out := *resp
	out.Header = resp.Header.Clone()
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	if out.Status == 0 {
		out.Status = http.StatusOK
	}
	return &out
}

func isEmpty(result any) bool {
	if result == nil {
		return true
	}
	resp, ok := result.(*Response)
	return ok && resp == nil
}
