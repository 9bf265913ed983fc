package controllers

import (
	"errors"
	"net/http"

	helper "github.com/lintang-b-s/routediff/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/routediff/pkg/util"
	"go.uber.org/zap"
)

func (api *segmentAPI) writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	return helper.WriteJSON(w, status, data, headers)
}

func (api *segmentAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	if err := helper.WriteError(w, status, message); err != nil {
		api.log.Error("write error response", zap.String("path", r.URL.Path), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *segmentAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (api *segmentAPI) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusNotFound, err.Error())
}

func (api *segmentAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("internal server error", zap.String("path", r.URL.Path), zap.Error(err))
	api.errorResponse(w, r, http.StatusInternalServerError,
		"the server encountered a problem and could not process your request")
}

// getStatusCode maps the code of a util.Error to a response.
func (api *segmentAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(util.ErrorCode(err), util.ErrBadParamInput):
		api.BadRequestResponse(w, r, err)
	case errors.Is(util.ErrorCode(err), util.ErrNotFound):
		api.NotFoundResponse(w, r, err)
	default:
		api.ServerErrorResponse(w, r, err)
	}
}
