package controller

import (
	"time"

	"github.com/berfenger/solaredge2eink/internal/core/port"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock reads the monotonic wall clock of the host.
var SystemClock port.Clock = systemClock{}
