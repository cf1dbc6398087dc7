package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"restro/pkg/domain/model"
)

type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

var statusByKind = map[model.ErrorKind]int{
	model.KindValidation:         http.StatusBadRequest,
	model.KindInvalidTransaction: http.StatusBadRequest,
	model.KindInvalidItems:       http.StatusBadRequest,
	model.KindInvalidTransition:  http.StatusBadRequest,
	model.KindUnauthorized:       http.StatusUnauthorized,
	model.KindNotFound:           http.StatusNotFound,
	model.KindUpstreamFailure:    http.StatusBadGateway,
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("encode response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(b); err != nil {
		log.WithField("err", err).Error("write response status")
	}
}

// writeError reports domain errors by kind. Anything else is logged and
// answered without details.
func writeError(w http.ResponseWriter, err error) {
	var domainErr *model.Error
	if errors.As(err, &domainErr) {
		status, ok := statusByKind[domainErr.Kind]
		if !ok {
			status = http.StatusBadRequest
		}
		if status == http.StatusBadGateway {
			log.WithError(err).Warn("upstream failure")
		}
		writeJSON(w, status, errorResponse{Kind: string(domainErr.Kind), Message: domainErr.Message})
		return
	}

	if errors.Is(err, model.ErrOptimisticLock) {
		writeJSON(w, http.StatusConflict, errorResponse{Kind: "Conflict", Message: err.Error()})
		return
	}

	log.WithError(err).WithField("stack", fmt.Sprintf("%+v", err)).Error("request failed")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Kind: "InternalError", Message: "internal server error"})
}

func (s *server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewError(model.KindValidation, "request body is required")
		}
		return model.WrapError(model.KindValidation, "malformed request body", err)
	}
	return s.check(dst)
}

// decodeOptional accepts an empty body for requests whose fields are all optional.
func (s *server) decodeOptional(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return model.WrapError(model.KindValidation, "malformed request body", err)
	}
	return s.check(dst)
}

func (s *server) check(dst any) error {
	err := s.validate.Struct(dst)
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		fields := make([]string, 0, len(invalid))
		for _, fieldErr := range invalid {
			fields = append(fields, fmt.Sprintf("%s failed on %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return model.WrapError(model.KindValidation, strings.Join(fields, "; "), err)
	}
	return err
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.Errorf(model.KindValidation, "invalid id %q", raw)
	}
	return id, nil
}
