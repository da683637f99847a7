package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	_, ok, err := store.Load(ctx, "5511999990000")
	require.NoError(t, err)
	assert.False(t, ok)

	state := NewState()
	state.Advance(StepBarberSelect)
	state.BarberOptions = []BarberOption{{ID: 7, Name: "Diego"}}
	require.NoError(t, store.Save(ctx, "5511999990000", state))

	// Изменения после Save не видны в хранилище
	state.Advance(StepDateSelect)

	loaded, ok, err := store.Load(ctx, "5511999990000")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StepBarberSelect, loaded.Step)
	assert.Equal(t, []BarberOption{{ID: 7, Name: "Diego"}}, loaded.BarberOptions)

	require.NoError(t, store.Delete(ctx, "5511999990000"))
	_, ok, _ = store.Load(ctx, "5511999990000")
	assert.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Hour).WithClock(func() time.Time { return now })

	require.NoError(t, store.Save(ctx, "a", NewState()))
	now = now.Add(30 * time.Minute)
	require.NoError(t, store.Save(ctx, "b", NewState()))

	now = now.Add(45 * time.Minute)
	_, ok, _ := store.Load(ctx, "a")
	assert.False(t, ok, "истёкшее состояние не возвращается")
	_, ok, _ = store.Load(ctx, "b")
	assert.True(t, ok)

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestStateCloneIsDeep(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	slot := model.NewTimeOfDay(10, 0)
	state := &State{
		Step:                  StepConfirm,
		History:               History{StepBarberSelect},
		Date:                  &date,
		Time:                  &slot,
		SelectedAppointment:   &model.Appointment{ID: 1},
		CandidateAppointments: []*model.Appointment{{ID: 2}},
	}

	c := state.Clone()
	c.History[0] = StepDateSelect
	*c.Time = model.NewTimeOfDay(11, 0)
	c.SelectedAppointment.ID = 9
	c.CandidateAppointments[0].ID = 9

	assert.Equal(t, StepBarberSelect, state.History[0])
	assert.Equal(t, slot, *state.Time)
	assert.Equal(t, int64(1), state.SelectedAppointment.ID)
	assert.Equal(t, int64(2), state.CandidateAppointments[0].ID)
}
