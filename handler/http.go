package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/furkanczay/better-pay/infra/response"
)

// ServeHTTP adapts the transport-neutral dispatcher to net/http.
// Form-encoded bodies (gateway callbacks POST those) are flattened
// into a JSON object before dispatch so Handle only ever sees JSON.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	if strings.Contains(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if values, parseErr := url.ParseQuery(string(body)); parseErr == nil {
			flat := make(map[string]string, len(values))
			for key, vals := range values {
				if len(vals) > 0 {
					flat[key] = vals[0]
				}
			}
			body, _ = json.Marshal(flat)
		}
	}

	headers := make(map[string]string, len(r.Header))
	for key := range r.Header {
		headers[key] = r.Header.Get(key)
	}

	resp := h.Handle(r.Context(), Request{
		Method:  r.Method,
		URL:     r.URL.RequestURI(),
		Headers: headers,
		Body:    body,
	})

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	response.WriteJSON(w, resp.Status, resp.Body)
}
