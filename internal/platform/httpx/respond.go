package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// ProblemDetail is an RFC 7807 body as returned by the /api routes.
type ProblemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Field  string `json:"field,omitempty"`
}

// JSON writes data with the given status.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, "application/json", data)
}

// Problem writes a problem document. title defaults to the status text.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	if title == "" {
		title = http.StatusText(status)
	}
	writeProblem(w, ProblemDetail{Title: title, Status: status, Detail: detail})
}

// RespondError writes err as a problem document. The status comes from
// StatusFor and the detail from UserMessage, so internal error text never
// reaches the client; FieldErrors also name the offending field.
func RespondError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	p := ProblemDetail{Title: http.StatusText(status), Status: status}
	var fe *FieldError
	if errors.As(err, &fe) {
		p.Title = "Validation Failed"
		p.Field = fe.Field
	}
	if status < http.StatusInternalServerError {
		p.Detail = UserMessage(err)
	}
	writeProblem(w, p)
}

func writeProblem(w http.ResponseWriter, p ProblemDetail) {
	if p.Type == "" {
		p.Type = "about:blank"
	}
	w.Header().Set("Cache-Control", "no-store")
	write(w, p.Status, "application/problem+json", p)
}

// encodeFailure is sent when a payload cannot be encoded, for example a
// float that is not finite.
var encodeFailure = []byte(`{"type":"about:blank","title":"Internal Server Error","status":500}` + "\n")

func write(w http.ResponseWriter, status int, contentType string, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Default().Error("encode response", slog.Any("error", err))
		w.Header().Set("Content-Type", "application/problem+json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(encodeFailure)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
