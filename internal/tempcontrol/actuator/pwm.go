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

// Package actuator implements the period-based PWM output (spec.md §4.5)
// and the compressor-protecting minimum on/off-time limiter, grounded on
// the duty-cycle style of controller.pumpctrl.Controller.
package actuator

// Target is the physical or intermediate output a PWM drives.
type Target interface {
	SetActive(on bool)
}

// defaultTarget is the "nothing wired here" sentinel, matching the
// source's &defaultActuator identity used by getBareActuator to signal an
// uninstalled actuator to the state machine.
type defaultTarget struct{}

func (defaultTarget) SetActive(bool) {}

// DefaultTarget is the shared uninstalled-actuator sentinel. Wire it as the
// bare actuator behind a PWM (or directly as a plain Actuator) when no
// hardware is configured for that output.
var DefaultTarget Target = defaultTarget{}

// barer is implemented by wrappers (OnOffLimiter) that need to expose the
// physical actuator underneath them for identity checks.
type barer interface {
	Bare() Target
}

// PWM turns a 0..255 duty into a contiguous on-pulse once per period,
// carrying the truncation remainder across periods so that low duties
// still average out correctly instead of always rounding down to zero.
type PWM struct {
	target Target
	period uint16 // ticks (one tick == one second)

	duty uint8

	elapsed uint16
	onTicks uint16
	carry   uint32
}

func NewPWM(target Target, periodSeconds uint16) *PWM {
	if periodSeconds == 0 {
		periodSeconds = 1
	}
	return &PWM{target: target, period: periodSeconds}
}

// SetPwm sets the requested duty (0..255); takes effect at the next period
// boundary that UpdatePwm computes.
func (p *PWM) SetPwm(duty uint8) {
	p.duty = duty
}

// SetPeriod changes the PWM period. Takes effect at the next period
// boundary.
func (p *PWM) SetPeriod(seconds uint16) {
	if seconds == 0 {
		seconds = 1
	}
	p.period = seconds
}

// GetBareActuator returns the innermost physical Target, unwrapping any
// OnOffLimiter in between, for uninstalled-actuator identity checks.
func (p *PWM) GetBareActuator() Target {
	if b, ok := p.target.(barer); ok {
		return b.Bare()
	}
	return p.target
}

// UpdatePwm advances the PWM by one tick, computing a fresh on-time budget
// at the start of each period and driving the target actuator accordingly.
func (p *PWM) UpdatePwm() {
	if p.elapsed == 0 {
		total := uint32(p.period)*uint32(p.duty) + p.carry
		p.onTicks = uint16(total / 255)
		if p.onTicks > p.period {
			p.onTicks = p.period
		}
		p.carry = total % 255
	}

	p.target.SetActive(p.elapsed < p.onTicks)

	p.elapsed++
	if p.elapsed >= p.period {
		p.elapsed = 0
	}
}
