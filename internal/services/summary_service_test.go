package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tasktrack/internal/models"
)

func taskWorked(start, end time.Time, completed bool) *models.Task {
	return &models.Task{
		StartTime: &start,
		EndTime:   &end,
		Completed: completed,
	}
}

func TestSumElapsedHours(t *testing.T) {
	day := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	tests := []struct {
		name  string
		tasks []*models.Task
		want  float64
	}{
		{
			name:  "should return zero for no tasks",
			tasks: nil,
			want:  0,
		},
		{
			name: "should sum a single morning session",
			tasks: []*models.Task{
				taskWorked(at(8, 0), at(10, 30), false),
			},
			want: 2.5,
		},
		{
			name: "should sum multiple tasks",
			tasks: []*models.Task{
				taskWorked(at(8, 0), at(10, 30), false),
				taskWorked(at(11, 0), at(12, 15), true),
			},
			want: 3.75,
		},
		{
			name: "should count tasks without both timestamps as zero",
			tasks: []*models.Task{
				taskWorked(at(8, 0), at(10, 30), false),
				{StartTime: &day},
				{EndTime: &day},
				{},
			},
			want: 2.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sumElapsedHours(tt.tasks))
		})
	}
}

func TestCountCompleted(t *testing.T) {
	day := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)

	tasks := []*models.Task{
		taskWorked(day, day.Add(time.Hour), true),
		taskWorked(day, day.Add(2*time.Hour), false),
		{Completed: true},
	}

	assert.Equal(t, 2, countCompleted(tasks))
	assert.Equal(t, 0, countCompleted(nil))
}
