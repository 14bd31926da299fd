package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSleepWindowSameDay(t *testing.T) {

	assert := assert.New(t)

	w := SleepWindow{StartHour: 1, EndHour: 6}
	for hour := 0; hour < 24; hour++ {
		assert.Equal(hour >= 1 && hour < 6, w.Contains(hour), "hour %d", hour)
	}
}

func TestSleepWindowWrapsMidnight(t *testing.T) {

	assert := assert.New(t)

	w := SleepWindow{StartHour: 22, EndHour: 6}
	assert.True(w.Contains(22))
	assert.True(w.Contains(23))
	assert.True(w.Contains(0))
	assert.True(w.Contains(5))
	assert.False(w.Contains(6))
	assert.False(w.Contains(12))
	assert.False(w.Contains(21))
}

func TestSleepWindowDisabled(t *testing.T) {

	assert := assert.New(t)

	w := SleepWindow{StartHour: 3, EndHour: 3}
	assert.False(w.Enabled())
	for hour := 0; hour < 24; hour++ {
		assert.False(w.Contains(hour), "hour %d", hour)
	}
}

func TestSleepWindowDefault(t *testing.T) {

	assert := assert.New(t)

	w := SleepWindow{StartHour: 0, EndHour: 6}
	assert.True(w.Contains(0))
	assert.True(w.Contains(5))
	assert.False(w.Contains(6))
	assert.False(w.Contains(23))
}
