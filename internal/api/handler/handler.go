// Package handler holds the HTTP handlers. Handlers decode the request,
// delegate to a service, and translate the outcome; policy and lifecycle
// rules live below them.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/PAA-LMS/lms-backend/internal/common"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

func respondError(w http.ResponseWriter, err error) {
	common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
}
