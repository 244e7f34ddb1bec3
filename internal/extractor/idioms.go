package extractor

import "strings"

// routeMethods maps method-style registration call names to HTTP methods.
// Covers chi-style (Get), gin/echo/fiber-style (GET) spellings. Dispatch is
// a fixed table on purpose: the extractor stays a pure function of syntax
// tree shape, with no type information involved.
var routeMethods = map[string]string{
	"Get":     "GET",
	"GET":     "GET",
	"Post":    "POST",
	"POST":    "POST",
	"Put":     "PUT",
	"PUT":     "PUT",
	"Patch":   "PATCH",
	"PATCH":   "PATCH",
	"Delete":  "DELETE",
	"DELETE":  "DELETE",
	"Options": "OPTIONS",
	"OPTIONS": "OPTIONS",
	"Head":    "HEAD",
	"HEAD":    "HEAD",
}

// handleIdioms are registration calls whose first argument carries the
// method inside a Go 1.22 mux pattern ("GET /users").
var handleIdioms = map[string]bool{
	"Handle":     true,
	"HandleFunc": true,
}

// Recognized metadata argument names. Option-call form (option.Summary(...))
// and operation-struct field form (Operation{Summary: ...}) share one table.
const (
	metaSummary     = "Summary"
	metaDescription = "Description"
	metaTags        = "Tags"
)

// responseModelNames mark a typed response contract on the route.
var responseModelNames = map[string]bool{
	"ResponseModel": true,
	"Returns":       true,
	"Model":         true,
	"Response":      true,
	"ResponseType":  true,
}

// splitMuxPattern splits a "METHOD /path" mux pattern. The method token
// must be in the recognized set; anything else is a parse miss.
func splitMuxPattern(pattern string) (method, path string, ok bool) {
	token, rest, found := strings.Cut(pattern, " ")
	if !found {
		return "", "", false
	}
	method, ok = routeMethods[token]
	if !ok {
		return "", "", false
	}
	path = strings.TrimSpace(rest)
	if path == "" {
		return "", "", false
	}
	return method, path, true
}
