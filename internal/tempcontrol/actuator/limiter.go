// Copyright (C) 2025 Josh Simonot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package actuator

import "time"

// Clock is the minimal time source OnOffLimiter needs. Kept local (rather
// than importing tempcontrol.Clock) to avoid a package cycle since
// tempcontrol imports this package.
type Clock interface {
	Now() time.Time
}

// OnOffLimiter wraps a bare compressor/valve output and enforces minimum
// on-time and off-time, refusing SetActive transitions that would violate
// either. This is the min-cycle-time protection referenced by spec.md
// §4.5's compressor note, shaped after pumpctrl.Controller's persisted
// last-run bookkeeping.
type OnOffLimiter struct {
	bare   Target
	clock  Clock
	minOn  time.Duration
	minOff time.Duration

	active         bool
	lastChange     time.Time
	haveLastChange bool
}

func NewOnOffLimiter(bare Target, clock Clock, minOn, minOff time.Duration) *OnOffLimiter {
	return &OnOffLimiter{bare: bare, clock: clock, minOn: minOn, minOff: minOff}
}

// Bare exposes the wrapped physical actuator (used by PWM.GetBareActuator).
func (l *OnOffLimiter) Bare() Target {
	return l.bare
}

// SetActive requests a transition; it is silently held at the current
// state if the corresponding minimum time hasn't elapsed yet.
func (l *OnOffLimiter) SetActive(on bool) {
	if on == l.active {
		return
	}

	now := l.clock.Now()
	if l.haveLastChange {
		elapsed := now.Sub(l.lastChange)
		if l.active && elapsed < l.minOn {
			return
		}
		if !l.active && elapsed < l.minOff {
			return
		}
	}

	l.active = on
	l.lastChange = now
	l.haveLastChange = true
	l.bare.SetActive(on)
}

// Active reports the limiter's currently latched state (diagnostics/tests).
func (l *OnOffLimiter) Active() bool {
	return l.active
}
