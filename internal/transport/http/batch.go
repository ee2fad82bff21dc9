package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"courtbook/internal/service/bookings"
)

type createBatchRequest struct {
	Dates       []string   `json:"dates"`
	StartDate   string     `json:"startDate"`
	Weeks       int        `json:"weeks"`
	Time        string     `json:"time"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	PeopleCount flexString `json:"peopleCount"`
}

type createBatchResponse struct {
	Success   []bookingResponse `json:"success"`
	Conflicts []string          `json:"conflicts"`
	Failed    []string          `json:"failed,omitempty"`
	Message   string            `json:"message"`
}

func batchMessage(successes, conflicts int) string {
	msg := fmt.Sprintf("成功預約 %d 個時段", successes)
	if conflicts > 0 {
		msg += fmt.Sprintf("，%d 個時段衝突", conflicts)
	}
	return msg
}

// CreateBatchHandler books a weekly recurring series. Per-date conflicts and
// faults are reported inside a 201 body; only a malformed request or invalid
// shared fields fail the call as a whole.
func (s *Server) CreateBatchHandler(c echo.Context) error {
	log := s.log.With(slog.String("handler", "CreateBatch"))

	var req createBatchRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("malformed request body", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgBatchFailed})
	}

	res, err := s.svc.CreateBatch(c.Request().Context(), bookings.BatchInput{
		Dates:       req.Dates,
		StartDate:   req.StartDate,
		Weeks:       req.Weeks,
		Time:        req.Time,
		Name:        req.Name,
		Phone:       req.Phone,
		PeopleCount: string(req.PeopleCount),
	})
	if err != nil {
		var vErr *bookings.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err))
			return c.JSON(http.StatusBadRequest, errorResponse{Error: vErr.Error()})
		}
		log.Error("batch create failed", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgBatchFailed})
	}

	success := make([]bookingResponse, 0, len(res.Successes))
	for _, b := range res.Successes {
		success = append(success, toBookingResponse(b))
	}
	conflicts := res.Conflicts
	if conflicts == nil {
		conflicts = []string{}
	}

	log.Info(
		"batch booked",
		slog.Int("successes", len(success)),
		slog.Int("conflicts", len(conflicts)),
		slog.Int("failed", len(res.Failed)),
		slog.String("time", req.Time),
	)

	return c.JSON(http.StatusCreated, createBatchResponse{
		Success:   success,
		Conflicts: conflicts,
		Failed:    res.Failed,
		Message:   batchMessage(len(success), len(conflicts)),
	})
}
