package service

// SleepWindow is a daily range of local hours during which the display is off.
// The range may wrap around midnight. Equal bounds disable it.
type SleepWindow struct {
	StartHour int
	EndHour   int
}

func (w SleepWindow) Enabled() bool {
	return w.StartHour != w.EndHour
}

func (w SleepWindow) Contains(hour int) bool {
	switch {
	case w.StartHour == w.EndHour:
		return false
	case w.StartHour < w.EndHour:
		return hour >= w.StartHour && hour < w.EndHour
	default:
		return hour >= w.StartHour || hour < w.EndHour
	}
}
