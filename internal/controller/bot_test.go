package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/barbershop_bot/internal/controller/dialog"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	sent []*bot.SendMessageParams
	err  error
}

func (r *recordingSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.sent = append(r.sent, params)
	return &models.Message{}, nil
}

type echoDialog struct {
	inbound []dialog.Inbound
}

func (e *echoDialog) HandleMessage(_ context.Context, in dialog.Inbound) []string {
	e.inbound = append(e.inbound, in)
	return []string{"first: " + in.Text, "second"}
}

func newTestController(sender *recordingSender, d Dialog) *BotController {
	return &BotController{sender: sender, dialog: d, logger: zap.NewNop()}
}

func TestHandleTextMessageForwardsRepliesInOrder(t *testing.T) {
	sender := &recordingSender{}
	d := &echoDialog{}
	c := newTestController(sender, d)

	c.HandleTextMessage(context.Background(), nil, &models.Update{Message: &models.Message{
		Text: "oi",
		Chat: models.Chat{ID: 42},
		From: &models.User{ID: 42, FirstName: "Diego"},
	}})

	require.Len(t, d.inbound, 1)
	assert.Equal(t, dialog.Inbound{Identity: "42", Text: "oi", DisplayName: "Diego"}, d.inbound[0])

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "first: oi", sender.sent[0].Text)
	assert.Equal(t, "second", sender.sent[1].Text)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
}

func TestHandleTextMessageIgnoresNonText(t *testing.T) {
	sender := &recordingSender{}
	d := &echoDialog{}
	c := newTestController(sender, d)

	c.HandleTextMessage(context.Background(), nil, &models.Update{})
	c.HandleTextMessage(context.Background(), nil, &models.Update{Message: &models.Message{Chat: models.Chat{ID: 1}}})

	assert.Empty(t, d.inbound)
	assert.Empty(t, sender.sent)
}

func TestCommandText(t *testing.T) {
	assert.Equal(t, "menu", commandText("/start"))
	assert.Equal(t, "menu", commandText("/start@barber_bot"))
	assert.Equal(t, "reiniciar", commandText("/reiniciar"))
	assert.Equal(t, "/unknown", commandText("/unknown"))
	assert.Equal(t, "2", commandText("2"))
}

func TestNotify(t *testing.T) {
	sender := &recordingSender{}
	c := newTestController(sender, &echoDialog{})

	require.NoError(t, c.Notify(context.Background(), "5511", "⏰ lembrete"))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(5511), sender.sent[0].ChatID)

	assert.Error(t, c.Notify(context.Background(), "not-a-chat", "x"))

	sender.err = errors.New("telegram down")
	assert.Error(t, c.Notify(context.Background(), "5511", "x"))
}
