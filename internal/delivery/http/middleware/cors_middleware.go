package middleware

import (
	"net/http"
	"strings"
)

// CORSMiddleware opens the API to browser clients. The allowed method set
// mirrors what the router actually serves; preflights are answered here and
// never reach a handler.
type CORSMiddleware struct {
	allowedMethods string
}

func NewCORSMiddleware() *CORSMiddleware {
	return &CORSMiddleware{
		allowedMethods: strings.Join([]string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		}, ", "),
	}
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", m.allowedMethods)
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
