package dialog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/conversation"
	"github.com/Freeeeeet/barbershop_bot/internal/model"
	"github.com/Freeeeeet/barbershop_bot/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Directory справочные данные сервиса данных
type Directory interface {
	ListBarbers(ctx context.Context) ([]*model.Barber, error)
	ListClientAppointments(ctx context.Context, phone string) ([]*model.Appointment, error)
	GetConfigValue(ctx context.Context, key string) (string, bool, error)
}

// Booker операции записи с учётом конфликтов
type Booker interface {
	ConfirmBooking(ctx context.Context, req service.BookingRequest) service.Result
	ConfirmReschedule(ctx context.Context, req service.RescheduleRequest) service.Result
	CancelAppointment(ctx context.Context, appt *model.Appointment) service.Result
}

// Inbound входящее сообщение от транспорта
type Inbound struct {
	Identity    string // Идентификатор собеседника (телефон / chat id)
	Text        string
	DisplayName string // Имя из профиля, может быть пустым
}

// Engine конечный автомат диалога записи в барбершоп
type Engine struct {
	states    *conversation.Manager
	directory Directory
	slots     service.SlotLister
	booker    Booker
	loc       *time.Location
	now       func() time.Time
	locks     *keyedMutex
	logger    *zap.Logger
}

func NewEngine(
	states *conversation.Manager,
	directory Directory,
	slots service.SlotLister,
	booker Booker,
	loc *time.Location,
	logger *zap.Logger,
) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{
		states:    states,
		directory: directory,
		slots:     slots,
		booker:    booker,
		loc:       loc,
		now:       time.Now,
		locks:     newKeyedMutex(),
		logger:    logger,
	}
}

// WithClock подменяет источник текущего времени
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// turn обработка одного входящего сообщения
type turn struct {
	in    Inbound
	text  string
	state *conversation.State
	now   time.Time
	log   *zap.Logger
}

// HandleMessage обрабатывает входящее сообщение и возвращает ответы.
// Сообщения одного собеседника обрабатываются строго по очереди
func (e *Engine) HandleMessage(ctx context.Context, in Inbound) (replies []string) {
	unlock := e.locks.Lock(in.Identity)
	defer unlock()

	log := e.logger.With(
		zap.String("identity", in.Identity),
		zap.String("message_id", uuid.NewString()),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Panic while handling message", zap.Any("panic", r), zap.Stack("stack"))
			e.discard(ctx, in.Identity, log)
			replies = []string{msgGenericFailure}
		}
	}()

	text := normalize(in.Text)

	if resetKeywords[text] {
		e.discard(ctx, in.Identity, log)
		log.Info("Conversation reset by user")
		return []string{withPrefix(msgRestarted, msgRootMenu)}
	}

	state, err := e.states.Get(ctx, in.Identity)
	if err != nil {
		log.Error("Failed to load conversation state", zap.Error(err))
		e.discard(ctx, in.Identity, log)
		return []string{msgGenericFailure}
	}

	t := &turn{
		in:    in,
		text:  text,
		state: state,
		now:   e.now().In(e.loc),
		log:   log,
	}

	log.Debug("Inbound message", zap.String("step", state.Step.String()), zap.String("text", text))

	replies, err = e.dispatch(ctx, t)
	if err != nil {
		if errors.Is(err, ErrInternalState) {
			log.Warn("Internal conversation state error", zap.Error(err))
		} else {
			log.Error("Failed to handle message", zap.Error(err))
		}
		e.discard(ctx, in.Identity, log)
		return []string{msgGenericFailure}
	}

	if err := e.states.Save(ctx, in.Identity, t.state); err != nil {
		log.Error("Failed to save conversation state", zap.Error(err))
	}

	return replies
}

// discard сбрасывает состояние собеседника, ошибки только логируются
func (e *Engine) discard(ctx context.Context, identity string, log *zap.Logger) {
	if _, err := e.states.Reset(ctx, identity); err != nil {
		log.Error("Failed to reset conversation state", zap.Error(err))
	}
}

func (e *Engine) dispatch(ctx context.Context, t *turn) ([]string, error) {
	step := t.state.Step

	if backKeywords[t.text] {
		switch {
		case t.text == "0" && step == conversation.StepConfirm:
			return e.abortConfirm(t, msgBookingCancelled), nil
		case t.text == "0" && step == conversation.StepRescheduleConfirm:
			return e.abortConfirm(t, msgRescheduleCanceled), nil
		case step == conversation.StepMenu && t.state.History.Len() == 0:
			return []string{withPrefix(msgAlreadyAtMenu, msgRootMenu)}, nil
		}
		return e.goBack(ctx, t)
	}

	switch step {
	case conversation.StepMenu:
		return e.handleMenu(ctx, t)
	case conversation.StepMultiAppointmentMenu:
		return e.handleMultiAppointmentMenu(ctx, t)
	case conversation.StepReminderOptions:
		return e.handleReminderOptions(ctx, t)
	case conversation.StepManageSelectAppointment:
		return e.handleManageSelectAppointment(ctx, t)
	case conversation.StepManageSelectAction:
		return e.handleManageSelectAction(ctx, t)
	case conversation.StepBarberSelect, conversation.StepRescheduleBarber:
		return e.handleBarberSelect(ctx, t)
	case conversation.StepDateSelect, conversation.StepRescheduleDate:
		return e.handleDateSelect(ctx, t)
	case conversation.StepTimeSelect, conversation.StepRescheduleTime:
		return e.handleTimeSelect(ctx, t)
	case conversation.StepConfirm:
		return e.handleConfirm(ctx, t)
	case conversation.StepRescheduleConfirm:
		return e.handleRescheduleConfirm(ctx, t)
	default:
		return nil, fmt.Errorf("%w: unknown step %q", ErrInternalState, step)
	}
}

// goBack возвращает на предыдущий шаг и заново показывает его меню
func (e *Engine) goBack(ctx context.Context, t *turn) ([]string, error) {
	step := t.state.GoBack()
	if step == conversation.StepMenu {
		t.state = conversation.NewState()
		return []string{withPrefix(msgBackToMenu, msgRootMenu)}, nil
	}

	body, err := e.render(ctx, t)
	if err != nil {
		return nil, err
	}
	return []string{body}, nil
}

// invalid повторяет меню текущего шага, состояние не меняется
func (e *Engine) invalid(ctx context.Context, t *turn, prefix string) ([]string, error) {
	body, err := e.render(ctx, t)
	if err != nil {
		return nil, err
	}
	return []string{withPrefix(prefix, body)}, nil
}

// finish завершает диалог: состояние заменяется начальным
func (e *Engine) finish(t *turn, replies ...string) []string {
	t.state = conversation.NewState()
	return replies
}

func (e *Engine) abortConfirm(t *turn, message string) []string {
	t.log.Info("Confirmation aborted by user", zap.String("step", t.state.Step.String()))
	return e.finish(t, message)
}

// futureAppointments записи клиента строго в будущем по возрастанию времени.
// Ошибка чтения превращается в пустой список
func (e *Engine) futureAppointments(ctx context.Context, t *turn) []*model.Appointment {
	appts, err := e.directory.ListClientAppointments(ctx, t.in.Identity)
	if err != nil {
		t.log.Warn("Failed to list client appointments", zap.Error(err))
		return nil
	}

	var future []*model.Appointment
	for _, a := range appts {
		if a.IsActive() && a.StartAt.After(t.now) {
			future = append(future, a)
		}
	}
	sort.SliceStable(future, func(i, j int) bool {
		return future[i].StartAt.Before(future[j].StartAt)
	})
	return future
}

// barbers список барберов; ошибка чтения превращается в пустой список
func (e *Engine) barbers(ctx context.Context, t *turn) []conversation.BarberOption {
	list, err := e.directory.ListBarbers(ctx)
	if err != nil {
		t.log.Warn("Failed to list barbers", zap.Error(err))
		return nil
	}

	options := make([]conversation.BarberOption, 0, len(list))
	for _, b := range list {
		options = append(options, conversation.BarberOption{ID: b.ID, Name: b.Name})
	}
	return options
}

func (e *Engine) barberNames(ctx context.Context, t *turn) map[int64]string {
	names := make(map[int64]string)
	for _, b := range e.barbers(ctx, t) {
		names[b.ID] = b.Name
	}
	return names
}

// nextDays семь календарных дней начиная с сегодняшнего
func (e *Engine) nextDays(t *turn) []time.Time {
	today := model.DateOf(t.now)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = today.AddDate(0, 0, i)
	}
	return days
}

func (e *Engine) clientInfo(t *turn) service.ClientInfo {
	name := t.in.DisplayName
	if name == "" {
		name = defaultClient
	}
	return service.ClientInfo{Name: name, Phone: t.in.Identity}
}
