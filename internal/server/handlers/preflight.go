package handlers

import (
	"net/http"
	"strings"
)

// PreflightHeaders are the request headers browser clients may send to the
// functions routes.
var PreflightHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// PreflightHandler answers OPTIONS with an empty 200. It runs after the CORS
// middleware and fills in what the middleware leaves out for bare OPTIONS
// requests that carry no Access-Control-Request-Method.
func PreflightHandler(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	if h.Get("Access-Control-Allow-Origin") == "" {
		h.Set("Access-Control-Allow-Origin", "*")
	}
	h.Set("Access-Control-Allow-Headers", strings.Join(PreflightHeaders, ", "))
	if h.Get("Access-Control-Allow-Methods") == "" {
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	}
	w.WriteHeader(http.StatusOK)
}
