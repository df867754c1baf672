package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "fixture-sync"
)

type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Status  string        `json:"status"`
	Errors  []errorDetail `json:"errors,omitempty"`
}

type errorDetail struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorClass struct {
	target     error
	httpStatus int
	reason     string
	status     string
}

// errorClasses is matched in order; the first errors.Is hit wins.
var errorClasses = []errorClass{
	{target: usecase.ErrInvalidInput, httpStatus: http.StatusBadRequest, reason: "invalidInput", status: "INVALID_ARGUMENT"},
	{target: usecase.ErrUnauthorized, httpStatus: http.StatusUnauthorized, reason: "unauthorized", status: "UNAUTHENTICATED"},
	{target: usecase.ErrNotFound, httpStatus: http.StatusNotFound, reason: "notFound", status: "NOT_FOUND"},
	{target: usecase.ErrRunInProgress, httpStatus: http.StatusConflict, reason: "runInProgress", status: "ABORTED"},
	{target: usecase.ErrNoData, httpStatus: http.StatusBadGateway, reason: "upstreamNoData", status: "UNAVAILABLE"},
	{target: usecase.ErrStoreUnavailable, httpStatus: http.StatusServiceUnavailable, reason: "storeUnavailable", status: "UNAVAILABLE"},
	{target: usecase.ErrDependencyUnavailable, httpStatus: http.StatusServiceUnavailable, reason: "dependencyUnavailable", status: "UNAVAILABLE"},
}

var internalErrorClass = errorClass{httpStatus: http.StatusInternalServerError, reason: "internalError", status: "INTERNAL"}

func classify(err error) errorClass {
	for _, class := range errorClasses {
		if errors.Is(err, class.target) {
			return class
		}
	}
	return internalErrorClass
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: apiVersion, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := classify(err)
	recordSpanError(ctx, err, class.httpStatus)
	writeClassified(w, class, err.Error())
}

func writeInternalError(w http.ResponseWriter) {
	writeClassified(w, internalErrorClass, "internal server error")
}

func writeClassified(w http.ResponseWriter, class errorClass, msg string) {
	writeJSON(w, class.httpStatus, envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    class.httpStatus,
			Message: msg,
			Status:  class.status,
			Errors:  []errorDetail{{Domain: errorDomain, Reason: class.reason, Message: msg}},
		},
	})
}
