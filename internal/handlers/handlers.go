package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-api/internal/mines"
	"github.com/vancomm/minesweeper-api/internal/repository"
)

func SendJSON(w http.ResponseWriter, status int, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger *logrus.Logger, status int, v any) {
	_, err := SendJSON(w, status, v)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"response": v,
			"error":    err,
		}).Error("unable to send response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func wrapError(err error) errorResponse {
	return errorResponse{Error: err.Error()}
}

// statusOf maps an error to the status code reported to the client. Every
// rejection is a bad request.
func statusOf(err error) int {
	switch {
	case mines.IsRejection(err):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// sendError writes err to the client. Server faults are logged and hidden
// behind a generic message.
func sendError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	status := statusOf(err)
	switch status {
	case http.StatusBadRequest:
		sendJSONOrLog(w, logger, status, wrapError(err))
	case http.StatusConflict:
		logger.WithError(err).Warn("turn rejected after repeated conflicts")
		sendJSONOrLog(w, logger, status, errorResponse{"game is busy, try again"})
	default:
		logger.WithError(err).Error("request failed")
		sendJSONOrLog(w, logger, status, errorResponse{"internal error"})
	}
}
