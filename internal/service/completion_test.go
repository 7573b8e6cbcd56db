package service

import (
	"testing"

	"github.com/ritualhq/backend/internal/models"
)

func TestIsCompleted(t *testing.T) {
	tests := []struct {
		name      string
		record    models.HabitRecord
		habitType models.HabitType
		want      bool
	}{
		{
			name:      "sleep via hours",
			record:    recordOn(day(0), withSleep(7.5)),
			habitType: models.HabitSleep,
			want:      true,
		},
		{
			name:      "sleep zero hours not completed",
			record:    recordOn(day(0), withSleep(0)),
			habitType: models.HabitSleep,
			want:      false,
		},
		{
			name: "sleep via bedtime and wake components",
			record: recordOn(day(0), func(r *models.HabitRecord) {
				r.BedtimeHour = ptr(23)
				r.BedtimeMinute = ptr(15)
				r.WakeHour = ptr(7)
				r.WakeMinute = ptr(0)
			}),
			habitType: models.HabitSleep,
			want:      true,
		},
		{
			name: "sleep bedtime without wake not completed",
			record: recordOn(day(0), func(r *models.HabitRecord) {
				r.BedtimeHour = ptr(23)
				r.BedtimeMinute = ptr(15)
			}),
			habitType: models.HabitSleep,
			want:      false,
		},
		{
			name:      "water positive",
			record:    recordOn(day(0), withWater(2000)),
			habitType: models.HabitWater,
			want:      true,
		},
		{
			name:      "water zero not completed",
			record:    recordOn(day(0), withWater(0)),
			habitType: models.HabitWater,
			want:      false,
		},
		{
			name:      "run active day",
			record:    recordOn(day(0), withRun(models.DayTypeActive, 5)),
			habitType: models.HabitRun,
			want:      true,
		},
		{
			name:      "run rest day not completed",
			record:    recordOn(day(0), withRun(models.DayTypeRest, 0)),
			habitType: models.HabitRun,
			want:      false,
		},
		{
			name:      "gym active day",
			record:    recordOn(day(0), withGym(models.DayTypeActive, 45)),
			habitType: models.HabitGym,
			want:      true,
		},
		{
			name:      "gym skip day not completed",
			record:    recordOn(day(0), withGym(models.DayTypeSkip, 0)),
			habitType: models.HabitGym,
			want:      false,
		},
		{
			name:      "reflect via mood",
			record:    recordOn(day(0), withMood(4)),
			habitType: models.HabitReflect,
			want:      true,
		},
		{
			name:      "reflect stress alone not completed",
			record:    recordOn(day(0), withStress(2)),
			habitType: models.HabitReflect,
			want:      false,
		},
		{
			name:      "cold shower taken",
			record:    recordOn(day(0), withColdShower(true)),
			habitType: models.HabitColdShower,
			want:      true,
		},
		{
			name:      "cold shower declined",
			record:    recordOn(day(0), withColdShower(false)),
			habitType: models.HabitColdShower,
			want:      false,
		},
		{
			name:      "empty record completes nothing",
			record:    recordOn(day(0)),
			habitType: models.HabitWater,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCompleted(&tt.record, tt.habitType); got != tt.want {
				t.Errorf("IsCompleted(%s) = %v, want %v", tt.habitType, got, tt.want)
			}
		})
	}
}

func TestIsCompletedNilRecord(t *testing.T) {
	for _, habitType := range models.AllHabitTypes {
		if IsCompleted(nil, habitType) {
			t.Errorf("IsCompleted(nil, %s) = true, want false", habitType)
		}
	}
}

func TestIsCompletedUnknownHabitType(t *testing.T) {
	rec := recordOn(day(0), withWater(2000), withSleep(8))
	if IsCompleted(&rec, models.HabitType("swimming")) {
		t.Error("unknown habit type should never read as completed")
	}
}

func TestHabitValue(t *testing.T) {
	tests := []struct {
		name      string
		record    models.HabitRecord
		habitType models.HabitType
		want      float64
		wantOK    bool
	}{
		{
			name:      "sleep hours",
			record:    recordOn(day(0), withSleep(7.5)),
			habitType: models.HabitSleep,
			want:      7.5,
			wantOK:    true,
		},
		{
			name:      "water converted to litres",
			record:    recordOn(day(0), withWater(2500)),
			habitType: models.HabitWater,
			want:      2.5,
			wantOK:    true,
		},
		{
			name:      "run distance",
			record:    recordOn(day(0), withRun(models.DayTypeActive, 8.2)),
			habitType: models.HabitRun,
			want:      8.2,
			wantOK:    true,
		},
		{
			name:      "gym duration",
			record:    recordOn(day(0), withGym(models.DayTypeActive, 60)),
			habitType: models.HabitGym,
			want:      60,
			wantOK:    true,
		},
		{
			name:      "cold shower boolean as 0/1",
			record:    recordOn(day(0), withColdShower(true)),
			habitType: models.HabitColdShower,
			want:      1,
			wantOK:    true,
		},
		{
			name:      "absent signal",
			record:    recordOn(day(0)),
			habitType: models.HabitSleep,
			want:      0,
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HabitValue(&tt.record, tt.habitType)
			if ok != tt.wantOK {
				t.Fatalf("HabitValue ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("HabitValue = %v, want %v", got, tt.want)
			}
		})
	}
}
