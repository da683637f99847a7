package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, tod.Hour())
	assert.Equal(t, 30, tod.Minute())
	assert.Equal(t, "09:30", tod.String())

	_, err = ParseTimeOfDay("9h30")
	assert.Error(t, err)
}

func TestTimeOfDayJSON(t *testing.T) {
	data, err := json.Marshal([]TimeOfDay{NewTimeOfDay(9, 0), NewTimeOfDay(14, 45)})
	require.NoError(t, err)
	assert.JSONEq(t, `["09:00","14:45"]`, string(data))

	var decoded []TimeOfDay
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []TimeOfDay{NewTimeOfDay(9, 0), NewTimeOfDay(14, 45)}, decoded)
}

func TestTimeOfDayOn(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)

	got := NewTimeOfDay(15, 30).On(date)
	assert.Equal(t, time.Date(2026, 3, 10, 15, 30, 0, 0, loc), got)
}

func TestDefaultBusinessHoursSlots(t *testing.T) {
	slots := DefaultBusinessHours(time.Monday).Slots()

	require.Len(t, slots, 13)
	assert.Equal(t, "09:00", slots[0].String())
	assert.Equal(t, "21:00", slots[len(slots)-1].String())
}

func TestBusinessHoursSlots(t *testing.T) {
	tests := []struct {
		name  string
		hours BusinessHours
		want  []string
	}{
		{
			name:  "half hour interval fits before close",
			hours: BusinessHours{Open: NewTimeOfDay(9, 0), Close: NewTimeOfDay(11, 0), IntervalMinutes: 30},
			want:  []string{"09:00", "09:30", "10:00", "10:30"},
		},
		{
			name:  "last slot does not fit",
			hours: BusinessHours{Open: NewTimeOfDay(9, 0), Close: NewTimeOfDay(10, 30), IntervalMinutes: 60},
			want:  []string{"09:00"},
		},
		{
			name:  "closed day",
			hours: BusinessHours{Open: NewTimeOfDay(9, 0), Close: NewTimeOfDay(18, 0), IntervalMinutes: 60, Closed: true},
			want:  nil,
		},
		{
			name:  "zero interval",
			hours: BusinessHours{Open: NewTimeOfDay(9, 0), Close: NewTimeOfDay(18, 0)},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, s := range tt.hours.Slots() {
				got = append(got, s.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
