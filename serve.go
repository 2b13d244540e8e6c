package routing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/lopn/routing/apperr"
)

// ErrorHandler writes the response for a failed dispatch.
type ErrorHandler func(w http.ResponseWriter, req *http.Request, err error, logger *slog.Logger)

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp, err := r.Dispatch(req)
	if err != nil {
		r.errorHandler(w, req, err, r.logger)
		return
	}
	if err := writeResponse(w, req, resp); err != nil {
		r.logger.Error("response write failed", slog.String("path", req.URL.Path), slog.String("error", err.Error()))
	}
}

func writeResponse(w http.ResponseWriter, req *http.Request, resp *Response) error {
	for key, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	var body []byte
	switch v := resp.Body.(type) {
	case nil:
	case []byte:
		body = v
	case string:
		body = []byte(v)
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return err
		}
		body = data
	case fmt.Stringer:
		body = []byte(v.String())
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		body = data
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		}
	}

	if body != nil && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", http.DetectContentType(body))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(resp.Status)
	if req.Method == http.MethodHead || len(body) == 0 {
		return nil
	}
	_, err := w.Write(body)
	return err
}

func defaultErrorHandler(w http.ResponseWriter, req *http.Request, err error, logger *slog.Logger) {
	appErr := apperr.As(err)
	status := http.StatusInternalServerError
	code := apperr.CodeInternal
	message := "internal server error"

	if appErr != nil {
		status = appErr.Status
		code = appErr.Code
		message = appErr.Message
	}

	var mna *MethodNotAllowedError
	if errors.As(err, &mna) {
		w.Header().Set("Allow", strings.Join(mna.Allowed, ", "))
	}

	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelDebug
	}
	logger.Log(req.Context(), level, "request failed",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("code", code),
		slog.String("error", err.Error()),
	)

	if wantsJSON(req) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		})
		return
	}

	http.Error(w, message, status)
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(strings.ToLower(accept), "application/json")
}
