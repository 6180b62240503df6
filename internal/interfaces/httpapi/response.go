package httpapi

import (
	"context"
	"net/http"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "football-etl"

	internalErrorMessage = "internal server error"
)

// envelope follows the Google JSON style guide: exactly one of Data or Error
// is set.
type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorClass struct {
	httpStatus int
	status     string
	reason     string
}

var (
	classInternal = errorClass{http.StatusInternalServerError, "INTERNAL", "internalError"}

	errorClasses = []struct {
		match func(error) bool
		class errorClass
	}{
		{sentinel(usecase.ErrInvalidInput), errorClass{http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"}},
		{sentinel(usecase.ErrNotFound), errorClass{http.StatusNotFound, "NOT_FOUND", "notFound"}},
		{sentinel(usecase.ErrDependencyUnavailable), errorClass{http.StatusServiceUnavailable, "UNAVAILABLE", "dependencyUnavailable"}},
		{kind(entity.KindCanceled), errorClass{http.StatusServiceUnavailable, "CANCELLED", "canceled"}},
	}
)

func sentinel(target error) func(error) bool {
	return func(err error) bool { return crerr.Is(err, target) }
}

func kind(k entity.Kind) func(error) bool {
	return func(err error) bool { return entity.KindOf(err) == k }
}

func classify(err error) errorClass {
	for _, c := range errorClasses {
		if c.match(err) {
			return c.class
		}
	}
	return classInternal
}

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: apiVersion, Data: data})
}

// writeError maps err onto a status. Unclassified errors get a fixed message
// so storage details never reach the client.
func writeError(_ context.Context, w http.ResponseWriter, err error) {
	class := classify(err)
	if class == classInternal {
		writeInternalError(w)
		return
	}
	writeErrorClass(w, class, err.Error())
}

func writeInternalError(w http.ResponseWriter) {
	writeErrorClass(w, classInternal, internalErrorMessage)
}

func writeErrorClass(w http.ResponseWriter, class errorClass, msg string) {
	writeJSON(w, class.httpStatus, envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    class.httpStatus,
			Message: msg,
			Status:  class.status,
			Errors:  []errorItem{{Domain: errorDomain, Reason: class.reason, Message: msg}},
		},
	})
}
