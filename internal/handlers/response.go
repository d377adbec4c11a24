package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"screenlist/internal/services"
)

const maxBodySize = 1 << 20

var errEmptyBody = errors.New("request body is required")

// base carries what every handler needs to answer a request.
type base struct {
	logger   *logrus.Logger
	validate *validator.Validate
}

func newBase(logger *logrus.Logger) *base {
	if logger == nil {
		logger = logrus.New()
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &base{logger: logger, validate: validate}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

// decode reads a JSON body into dst and runs its validate tags.
func (b *base) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := b.validate.Struct(dst); err != nil {
		return validationMessage(err)
	}
	return nil
}

func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return errors.New("invalid input: " + strings.Join(parts, ", "))
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrNoUpdates),
		errors.Is(err, services.ErrDuplicateItem):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidPassword):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrInvalidToken):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, services.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error. Unexpected errors are logged and hidden from the client.
func (b *base) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		b.logger.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("Request failed")
		jsonError(w, "Internal server error", status)
		return
	}
	if errors.Is(err, services.ErrForbidden) {
		jsonError(w, "Unauthorized", status)
		return
	}
	jsonError(w, clientMessage(err), status)
}

var sentinels = []error{
	services.ErrNotFound,
	services.ErrUnavailable,
	services.ErrInvalidInput,
	services.ErrInvalidToken,
	services.ErrNoUpdates,
	services.ErrDuplicateItem,
	services.ErrUserExists,
	services.ErrInvalidPassword,
}

// clientMessage drops the sentinel prefix ("not found: watchlist not found")
// and capitalises what remains.
func clientMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range sentinels {
		if !errors.Is(err, sentinel) {
			continue
		}
		if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
			msg = rest
		}
		break
	}
	if msg == "" {
		return msg
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}

func (b *base) badRequest(w http.ResponseWriter, err error) {
	jsonError(w, err.Error(), http.StatusBadRequest)
}
