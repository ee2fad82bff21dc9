package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"courtbook/internal/domain"
	"courtbook/internal/service/bookings"
)

type Server struct {
	e   *echo.Echo
	svc bookingsService
	log *slog.Logger
}

type bookingsService interface {
	Create(ctx context.Context, in bookings.CreateInput) (domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateBatch(ctx context.Context, in bookings.BatchInput) (bookings.BatchResult, error)
	DaySlots(ctx context.Context, date string) ([]bookings.SlotStatus, error)
}

func NewServer(e *echo.Echo, svc bookingsService, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	srv := &Server{
		e:   e,
		svc: svc,
		log: log.With(slog.String("component", "http.bookings")),
	}

	e.GET("/api/bookings", srv.ListBookingsHandler)
	e.POST("/api/bookings", srv.CreateBookingHandler)
	e.POST("/api/bookings/batch", srv.CreateBatchHandler)
	e.DELETE("/api/bookings/:id", srv.DeleteBookingHandler)
	e.GET("/api/slots", srv.ListSlotsHandler)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			srv.log.Debug(
				"request handled",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", c.Response().Status),
				slog.Duration("elapsed", time.Since(start)),
			)
			return err
		}
	})

	return srv
}

// RequestTimeout bounds each handler with a deadline unless the incoming
// request already carries one.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Request().Context().Deadline(); ok {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func (s *Server) Start(addr string) error {
	err := s.e.Start(addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
