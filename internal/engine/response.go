package engine

import (
	"strings"

	"github.com/leapstack-labs/leapdb/internal/result"
)

// Wire markers of a response.
const (
	MarkerOK    = "[OK]"
	MarkerError = "[ERROR]"
)

// Response is the outcome of one statement: success with an optional
// result table, or failure with an error.
type Response struct {
	Result *result.Table
	Err    error
}

func failure(err error) *Response {
	return &Response{Err: classify(err)}
}

// OK reports whether the statement succeeded.
func (r *Response) OK() bool {
	return r.Err == nil
}

// String renders the response text: "[OK]" followed by the aligned result
// table, or "[ERROR] <message>".
func (r *Response) String() string {
	if r.Err != nil {
		return MarkerError + " " + r.Err.Error()
	}
	if r.Result == nil {
		return MarkerOK
	}
	var b strings.Builder
	b.WriteString(MarkerOK)
	b.WriteByte('\n')
	b.WriteString(r.Result.Text())
	return b.String()
}
