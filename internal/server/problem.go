package server

import (
	"encoding/json"
	"net/http"
)

// RFC 7807 problem type URIs.
const (
	ProblemTypeNotFound     = "https://alzheon.app/problems/not-found"
	ProblemTypeBadRequest   = "https://alzheon.app/problems/bad-request"
	ProblemTypeInternal     = "https://alzheon.app/problems/internal-error"
	ProblemTypeUnauthorized = "https://alzheon.app/problems/unauthorized"
	ProblemTypeForbidden    = "https://alzheon.app/problems/forbidden"
	ProblemTypeRateLimited  = "https://alzheon.app/problems/rate-limited"
)

// Problem is an RFC 7807 Problem Details body.
type Problem struct {
	Type     string `json:"type" example:"https://alzheon.app/problems/bad-request"`
	Title    string `json:"title" example:"Bad Request"`
	Status   int    `json:"status" example:"400"`
	Detail   string `json:"detail,omitempty" example:"memory must be a number"`
	Instance string `json:"instance,omitempty" example:"/api/v1/cognition/analyses"`
}

// WriteProblem writes p as application/problem+json.
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func problem(w http.ResponseWriter, typ string, status int, detail, instance string) {
	WriteProblem(w, Problem{
		Type:     typ,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// NotFound writes a 404 problem.
func NotFound(w http.ResponseWriter, detail, instance string) {
	problem(w, ProblemTypeNotFound, http.StatusNotFound, detail, instance)
}

// InternalError writes a 500 problem.
func InternalError(w http.ResponseWriter, detail, instance string) {
	problem(w, ProblemTypeInternal, http.StatusInternalServerError, detail, instance)
}

// RateLimited writes a 429 problem.
func RateLimited(w http.ResponseWriter, detail, instance string) {
	problem(w, ProblemTypeRateLimited, http.StatusTooManyRequests, detail, instance)
}
