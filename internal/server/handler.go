package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"

	"github.com/crimson-sun/healthrisk/internal/model"
	"github.com/crimson-sun/healthrisk/internal/output"
	"github.com/crimson-sun/healthrisk/internal/source"
)

// InvalidInputMessage is returned when the body is not a non-empty JSON object.
const InvalidInputMessage = "Invalid input. Please provide a valid JSON payload."

var errInvalidInput = errors.New(InvalidInputMessage)

const outcomeOK = "ok"

// wantsJSON reports whether the caller asked for a JSON response. Anything
// else, including no Accept header, gets the legacy text response.
func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

func (s *Server) handlePredict(c echo.Context) error {
	start := time.Now()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return s.predictError(c, errInvalidInput, start)
	}
	raw := source.Parse(0, body)
	if raw.Err != nil || len(raw.Fields) == 0 {
		return s.predictError(c, errInvalidInput, start)
	}

	result, err := s.engine.Predict(raw.Fields)
	if err != nil {
		return s.predictError(c, err, start)
	}

	s.metrics.ObservePrediction(outcomeOK, time.Since(start))
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
	}
	return c.String(http.StatusOK, output.FormatResultText(result))
}

// predictError maps err to a status: caller faults (including an invalid
// body) are 400, artifact and model failures are 500.
func (s *Server) predictError(c echo.Context, err error, start time.Time) error {
	body := output.NewErrorBody(err)
	s.metrics.ObservePrediction(string(body.Kind), time.Since(start))

	status := http.StatusInternalServerError
	if errors.Is(err, errInvalidInput) || model.IsClientFault(err) {
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		rid, _ := c.Get(ctxRequestID).(string)
		s.log.Error().Err(err).Str("request_id", rid).Str("kind", string(body.Kind)).Msg("prediction failed")
	}

	if wantsJSON(c) {
		return c.JSON(status, body)
	}
	if errors.Is(err, errInvalidInput) {
		return c.String(status, InvalidInputMessage)
	}
	return c.String(status, output.ErrorText(err))
}

type health struct {
	Status   string    `json:"status"`
	Source   string    `json:"artifact_source,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}

func (s *Server) handleHealth(c echo.Context) error {
	h := health{Status: "ok"}
	if sum, ok := s.engine.Summary(); ok {
		h.Source = sum.Source
		h.LoadedAt = sum.LoadedAt
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h))
}

func (s *Server) handleArtifacts(c echo.Context) error {
	sum, ok := s.engine.Summary()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no artifact bundle loaded")
	}
	return c.JSON(http.StatusOK, fres.Response.StatusOK(sum))
}
