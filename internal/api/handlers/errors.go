package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/rohits-web03/filekeep/internal/api/middleware"
	"github.com/rohits-web03/filekeep/internal/controllers"
	"github.com/rohits-web03/filekeep/internal/utils"
)

// statusFor maps every controller error kind to a status code.
func statusFor(kind controllers.Kind) int {
	switch kind {
	case controllers.KindMissingArgument,
		controllers.KindInvalidAccessValue,
		controllers.KindMissingAccessToken,
		controllers.KindInvalidToken:
		return http.StatusBadRequest
	case controllers.KindFileNotFound:
		return http.StatusNotFound
	case controllers.KindFileDeleted:
		return http.StatusGone
	case controllers.KindAlreadyDeleted:
		return http.StatusConflict
	case controllers.KindStorageFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status of a controller error. Anything that is
// not a controller error is treated as a storage failure.
func writeError(w http.ResponseWriter, op string, err error) {
	var ce *controllers.Error
	if !errors.As(err, &ce) {
		ce = &controllers.Error{Kind: controllers.KindStorageFailure, Err: err}
	}
	middleware.FileOperations.WithLabelValues(op, ce.Kind.String()).Inc()

	status := statusFor(ce.Kind)
	message := ce.Error()
	if status == http.StatusInternalServerError {
		log.Printf("%s failed: %v", op, err)
		message = "Internal storage error"
	}

	utils.JSONResponse(w, status, utils.Payload{
		Success: false,
		Message: message,
		Data:    map[string]string{"error": ce.Kind.String()},
	})
}

func recordOK(op string) {
	middleware.FileOperations.WithLabelValues(op, "ok").Inc()
}
