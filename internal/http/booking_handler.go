package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/room-agenda/internal/agenda"
	"github.com/example/room-agenda/internal/application"
)

type bookingService interface {
	WeekSchedule(ctx context.Context, anchor time.Time) (application.WeekSchedule, error)
	Create(ctx context.Context, params application.CreateBookingParams) (application.Booking, string, error)
	Update(ctx context.Context, params application.UpdateBookingParams) (application.Booking, string, error)
	Delete(ctx context.Context, principal application.Principal, bookingID string) (string, error)
}

type BookingHandler struct {
	service   bookingService
	now       func() time.Time
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, now func() time.Time, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	if now == nil {
		now = time.Now
	}
	return &BookingHandler{service: service, now: now, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

// Week renders the classified grid for the week named by the "week" query
// parameter, defaulting to the current week.
func (h *BookingHandler) Week(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	anchor := h.now()
	if raw := strings.TrimSpace(r.URL.Query().Get("week")); raw != "" {
		parsed, err := agenda.ParseDate(raw)
		if err != nil {
			h.log(r.Context(), "Week", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid week parameter", "week", raw, "error", err)
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidWeekDate)
			return
		}
		anchor = parsed
	}

	logger := h.log(r.Context(), "Week", "week", agenda.FormatDate(agenda.WeekStart(anchor)))

	week, err := h.service.WeekSchedule(r.Context(), anchor)
	if err != nil {
		logger.ErrorContext(r.Context(), "week schedule failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toWeekDTO(week))
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "date", req.Date)

	booking, status, err := h.service.Create(r.Context(), application.CreateBookingParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", booking.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{
		Booking:      toBookingDTO(booking),
		NotifyStatus: status,
	})
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing booking id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "booking_id", bookingID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "booking_id", bookingID)

	booking, status, err := h.service.Update(r.Context(), application.UpdateBookingParams{
		Principal: principal,
		BookingID: bookingID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{
		Booking:      toBookingDTO(booking),
		NotifyStatus: status,
	})
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing booking id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "booking_id", bookingID)

	status, err := h.service.Delete(r.Context(), principal, bookingID)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, deleteBookingResponse{NotifyStatus: status})
}

type bookingRequest struct {
	Date      string `json:"date"`
	StartTime int    `json:"start_time"`
	Duration  int    `json:"duration"`
}

func (r bookingRequest) toInput() application.BookingInput {
	return application.BookingInput{
		Date:      strings.TrimSpace(r.Date),
		StartTime: r.StartTime,
		Duration:  r.Duration,
	}
}

type bookingResponse struct {
	Booking      bookingDTO `json:"booking"`
	NotifyStatus string     `json:"notify_status,omitempty"`
}

type deleteBookingResponse struct {
	NotifyStatus string `json:"notify_status,omitempty"`
}

type bookingDTO struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	StartTime int    `json:"start_time"`
	Duration  int    `json:"duration"`
}

func toBookingDTO(booking application.Booking) bookingDTO {
	return bookingDTO{
		ID:        booking.ID,
		UserID:    booking.UserID,
		Date:      booking.Date,
		StartTime: booking.StartTime,
		Duration:  booking.Duration,
	}
}

type slotOwnerDTO struct {
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

type slotCellDTO struct {
	Hour    int           `json:"hour"`
	State   string        `json:"state"`
	Booking *bookingDTO   `json:"booking,omitempty"`
	Owner   *slotOwnerDTO `json:"owner,omitempty"`
}

type dayScheduleDTO struct {
	Date  string        `json:"date"`
	Cells []slotCellDTO `json:"cells"`
}

type weekScheduleDTO struct {
	WeekStart string           `json:"week_start"`
	Days      []dayScheduleDTO `json:"days"`
}

func toWeekDTO(week application.WeekSchedule) weekScheduleDTO {
	out := weekScheduleDTO{WeekStart: week.WeekStart}
	for _, day := range week.Days {
		column := dayScheduleDTO{Date: day.Date, Cells: make([]slotCellDTO, 0, len(day.Cells))}
		for _, cell := range day.Cells {
			dto := slotCellDTO{Hour: cell.Hour, State: string(cell.State)}
			if cell.Booking != nil {
				booking := toBookingDTO(*cell.Booking)
				dto.Booking = &booking
			}
			if cell.Owner != nil {
				dto.Owner = &slotOwnerDTO{Name: cell.Owner.Name, Sector: cell.Owner.Sector}
			}
			column.Cells = append(column.Cells, dto)
		}
		out.Days = append(out.Days, column)
	}
	return out
}
