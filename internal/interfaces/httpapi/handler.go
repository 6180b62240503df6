package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/football-etl/internal/platform/logging"
	"github.com/riskibarqy/football-etl/internal/usecase"
)

type Handler struct {
	reports   *usecase.ReportService
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(reports *usecase.ReportService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("query")
	})

	return &Handler{
		reports:   reports,
		logger:    logger,
		validator: validate,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeQuery fills dst from the query string and validates it. Validation
// errors name the `query` tag of the failing field.
func (h *Handler) decodeQuery(ctx context.Context, values url.Values, dst queryDecoder) error {
	if err := dst.decode(values); err != nil {
		return crerr.Wrap(usecase.ErrInvalidInput, err.Error())
	}
	if err := h.validator.StructCtx(ctx, dst); err != nil {
		return crerr.Wrap(usecase.ErrInvalidInput, validationMessage(err))
	}
	return nil
}

type queryDecoder interface {
	decode(values url.Values) error
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, crerr.Wrapf(usecase.ErrInvalidInput, "%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

func queryInt(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, crerr.Newf("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

func queryInt64(values url.Values, key string) (int64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, crerr.Newf("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

func queryFloat(values url.Values, key string) (float64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, crerr.Newf("%s must be a number, got %q", key, raw)
	}
	return v, nil
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !crerr.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	first := fieldErrs[0]
	if first.Param() != "" {
		return first.Field() + " failed " + first.Tag() + "=" + first.Param()
	}
	return first.Field() + " failed " + first.Tag()
}
