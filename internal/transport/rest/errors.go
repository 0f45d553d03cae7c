package rest

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Коды ответов транспортного уровня.
const (
	codeUnauthorized     = "Unauthorized"
	codeAccessDenied     = "AccessDenied"
	codeNotFound         = "NoHandlerFoundException"
	codeMethodNotAllowed = "HttpRequestMethodNotSupportedException"

	msgUnauthorized     = "Full authentication is required to access this resource."
	msgAccessDenied     = "Request Access denied, validate the roles."
	msgNotFound         = "No handler found for the requested path."
	msgMethodNotAllowed = "Request method is not supported for the requested path."
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeServiceError переводит ошибку сценария в HTTP-ответ: бизнес-ошибки дают 400,
// всё остальное 500 с обобщённым сообщением.
func writeServiceError(w http.ResponseWriter, logger *log.Entry, err error) {
	be := domain.AsBusinessError(err)
	if be.Kind == domain.KindInternal {
		logger.WithError(err).Error("request failed with internal error")
		writeError(w, http.StatusInternalServerError, domain.CodeInternal, domain.MsgInternal)
		return
	}
	writeError(w, http.StatusBadRequest, be.Kind.Code(), be.Message)
}

func writeInvalidRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, domain.KindInvalidRequest.Code(), message)
}
