package httpapi

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/usopen-scoreboard/internal/domain/match"
)

const (
	msgInvalidGender       = `Gender must be "men" or "women"`
	msgInvalidDateFormat   = "Date must be in YYYY-MM-DD format"
	msgInvalidCalendarDate = "Date must be a valid calendar date"
	msgInternalServerError = "Internal server error"
	unknownPathValue       = "unknown"
)

type matchesPathParams struct {
	Gender string `validate:"required,oneof=men women"`
	Date   string `validate:"required,isodate,datetime=2006-01-02"`
}

type matchesResponse struct {
	Date        string        `json:"date"`
	Gender      string        `json:"gender"`
	Live        []match.Match `json:"live"`
	Upcoming    []match.Match `json:"upcoming"`
	Completed   []match.Match `json:"completed"`
	LastUpdated string        `json:"lastUpdated"`
}

type matchesErrorResponse struct {
	Error       string        `json:"error"`
	Message     string        `json:"message"`
	Date        string        `json:"date"`
	Gender      string        `json:"gender"`
	Live        []match.Match `json:"live"`
	Upcoming    []match.Match `json:"upcoming"`
	Completed   []match.Match `json:"completed"`
	LastUpdated string        `json:"lastUpdated"`
}

type validationErrorResponse struct {
	Error string `json:"error"`
}

// GetMatchesByDate serves the grouped board for one draw and one home-zone day.
func (h *Handler) GetMatchesByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchesByDate")
	defer span.End()

	params := matchesPathParams{
		Gender: r.PathValue("gender"),
		Date:   r.PathValue("date"),
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.ErrorContext(ctx, "get matches panicked", "panic", rec, "gender", params.Gender, "date", params.Date)
			h.writeMatchesFailure(w, r, params, fmt.Sprint(rec))
		}
	}()

	if msg, ok := h.validateMatchesParams(params); !ok {
		writeJSON(ctx, w, http.StatusBadRequest, validationErrorResponse{Error: msg})
		return
	}

	grouped, report, err := h.matchService.GetMatchesByDate(ctx, match.Gender(params.Gender), params.Date)
	if err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "get matches failed",
			"gender", params.Gender,
			"date", params.Date,
			"error", err,
		)
		h.writeMatchesFailure(w, r, params, err.Error())
		return
	}

	h.logger.DebugContext(ctx, "matches served",
		"gender", params.Gender,
		"date", params.Date,
		"matches", grouped.Len(),
		"dropped", report.Dropped(),
	)

	w.Header().Set("Cache-Control", h.cacheControl)
	writeJSON(ctx, w, http.StatusOK, matchesResponse{
		Date:        params.Date,
		Gender:      params.Gender,
		Live:        nonNil(grouped.Live),
		Upcoming:    nonNil(grouped.Upcoming),
		Completed:   nonNil(grouped.Completed),
		LastUpdated: h.lastUpdated(),
	})
}

// validateMatchesParams returns the client-facing message of the first failing rule.
func (h *Handler) validateMatchesParams(params matchesPathParams) (string, bool) {
	err := h.validator.Struct(params)
	if err == nil {
		return "", true
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return msgInvalidDateFormat, false
	}

	for _, fe := range fieldErrs {
		if fe.Field() == "Gender" {
			return msgInvalidGender, false
		}
	}
	if fieldErrs[0].Tag() == "datetime" {
		return msgInvalidCalendarDate, false
	}
	return msgInvalidDateFormat, false
}

func (h *Handler) writeMatchesFailure(w http.ResponseWriter, r *http.Request, params matchesPathParams, message string) {
	writeJSON(r.Context(), w, http.StatusInternalServerError, matchesErrorResponse{
		Error:       msgInternalServerError,
		Message:     message,
		Date:        orUnknown(params.Date),
		Gender:      orUnknown(params.Gender),
		Live:        []match.Match{},
		Upcoming:    []match.Match{},
		Completed:   []match.Match{},
		LastUpdated: h.lastUpdated(),
	})
}

func orUnknown(v string) string {
	if v == "" {
		return unknownPathValue
	}
	return v
}

func nonNil(items []match.Match) []match.Match {
	if items == nil {
		return []match.Match{}
	}
	return items
}
