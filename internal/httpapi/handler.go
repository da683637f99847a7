package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/model"
	"github.com/Freeeeeet/barbershop_bot/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DateLayout формат даты в query-параметрах
const DateLayout = "2006-01-02"

// Store хранилище сервиса данных
type Store interface {
	ListBarbers(ctx context.Context) ([]*model.Barber, error)
	CreateBarber(ctx context.Context, barber *model.Barber) error
	DeleteBarber(ctx context.Context, id int64) error

	GetAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	ListClientAppointments(ctx context.Context, phone string) ([]*model.Appointment, error)
	ListUpcomingAppointments(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
	CreateAppointment(ctx context.Context, appt *model.Appointment) error
	RescheduleAppointment(ctx context.Context, id, barberID int64, startAt time.Time) error
	DeleteAppointment(ctx context.Context, id int64) error
	MarkReminderSent(ctx context.Context, id int64) error

	ListBusinessHours(ctx context.Context) ([]*model.BusinessHours, error)
	UpsertBusinessHours(ctx context.Context, hours *model.BusinessHours) error

	GetConfigValue(ctx context.Context, key string) (string, bool, error)
}

// Pinger проверка доступности базы для /healthz
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler обработчики REST API сервиса данных
type Handler struct {
	store  Store
	slots  service.SlotLister
	pinger Pinger
	loc    *time.Location
	logger *zap.Logger
}

func NewHandler(store Store, slots service.SlotLister, pinger Pinger, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		store:  store,
		slots:  slots,
		pinger: pinger,
		loc:    loc,
		logger: logger,
	}
}

type createBarberRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

type createAppointmentRequest struct {
	BarberID    int64     `json:"barber_id" binding:"required"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone" binding:"required"`
	StartAt     time.Time `json:"start_at" binding:"required"`
}

type updateAppointmentRequest struct {
	BarberID int64     `json:"barber_id"`
	StartAt  time.Time `json:"start_at" binding:"required"`
}

// Health GET /healthz
func (h *Handler) Health(c *gin.Context) {
	if h.pinger != nil {
		if err := h.pinger.Ping(c.Request.Context()); err != nil {
			h.logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListBarbers GET /barbers
func (h *Handler) ListBarbers(c *gin.Context) {
	barbers, err := h.store.ListBarbers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if barbers == nil {
		barbers = []*model.Barber{}
	}
	c.JSON(http.StatusOK, barbers)
}

// CreateBarber POST /barbers
func (h *Handler) CreateBarber(c *gin.Context) {
	var req createBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	barber := &model.Barber{Name: req.Name, Phone: req.Phone}
	if err := h.store.CreateBarber(c.Request.Context(), barber); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, barber)
}

// DeleteBarber DELETE /barbers/:id
func (h *Handler) DeleteBarber(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteBarber(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAppointments GET /appointments?phone= или ?from=&to=
func (h *Handler) ListAppointments(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		appts []*model.Appointment
		err   error
	)
	switch phone, from, to := c.Query("phone"), c.Query("from"), c.Query("to"); {
	case phone != "":
		appts, err = h.store.ListClientAppointments(ctx, phone)
	case from != "" && to != "":
		fromTime, ferr := time.Parse(time.RFC3339, from)
		toTime, terr := time.Parse(time.RFC3339, to)
		if ferr != nil || terr != nil {
			badRequest(c, "from and to must be RFC3339 timestamps")
			return
		}
		appts, err = h.store.ListUpcomingAppointments(ctx, fromTime, toTime)
	default:
		badRequest(c, "phone or from/to query is required")
		return
	}

	if err != nil {
		h.fail(c, err)
		return
	}
	if appts == nil {
		appts = []*model.Appointment{}
	}
	c.JSON(http.StatusOK, appts)
}

// CreateAppointment POST /appointments. 409, если слот уже занят
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	appt := &model.Appointment{
		BarberID:    req.BarberID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		StartAt:     req.StartAt,
		Status:      model.AppointmentStatusBooked,
	}
	if appt.ClientName == "" {
		appt.ClientName = "Cliente"
	}

	if err := h.store.CreateAppointment(c.Request.Context(), appt); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// UpdateAppointment PUT /appointments/:id. Напоминание сбрасывается
func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req updateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	barberID := req.BarberID
	if barberID == 0 {
		current, err := h.store.GetAppointment(ctx, id)
		if err != nil {
			h.fail(c, err)
			return
		}
		barberID = current.BarberID
	}

	if err := h.store.RescheduleAppointment(ctx, id, barberID, req.StartAt); err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.store.GetAppointment(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteAppointment DELETE /appointments/:id
func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteAppointment(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkReminderSent PATCH /appointments/:id/reminder
func (h *Handler) MarkReminderSent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.store.MarkReminderSent(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSlots GET /slots?barber_id=&date=YYYY-MM-DD
func (h *Handler) ListSlots(c *gin.Context) {
	barberID, err := strconv.ParseInt(c.Query("barber_id"), 10, 64)
	if err != nil || barberID <= 0 {
		badRequest(c, "invalid barber_id")
		return
	}
	date, err := time.ParseInLocation(DateLayout, c.Query("date"), h.loc)
	if err != nil {
		badRequest(c, "date must be YYYY-MM-DD")
		return
	}

	times, err := h.slots.ListAvailableTimes(c.Request.Context(), barberID, date)
	if err != nil {
		h.fail(c, err)
		return
	}
	if times == nil {
		times = []model.TimeOfDay{}
	}
	c.JSON(http.StatusOK, gin.H{"slots": times})
}

// GetConfig GET /config/:key
func (h *Handler) GetConfig(c *gin.Context) {
	key := c.Param("key")
	value, ok, err := h.store.GetConfigValue(c.Request.Context(), key)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "config key not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// ListBusinessHours GET /business-hours
func (h *Handler) ListBusinessHours(c *gin.Context) {
	hours, err := h.store.ListBusinessHours(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if hours == nil {
		hours = []*model.BusinessHours{}
	}
	c.JSON(http.StatusOK, hours)
}

// PutBusinessHours PUT /business-hours
func (h *Handler) PutBusinessHours(c *gin.Context) {
	var hours model.BusinessHours
	if err := c.ShouldBindJSON(&hours); err != nil {
		badRequest(c, err.Error())
		return
	}

	if hours.Weekday < time.Sunday || hours.Weekday > time.Saturday {
		badRequest(c, "weekday must be between 0 and 6")
		return
	}
	if !hours.Closed && (hours.IntervalMinutes <= 0 || hours.Close <= hours.Open) {
		badRequest(c, "close must be after open and interval_minutes positive")
		return
	}

	if err := h.store.UpsertBusinessHours(c.Request.Context(), &hours); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, hours)
}

// fail переводит ошибку хранилища в HTTP-ответ
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, model.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "slot already booked"})
	default:
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
