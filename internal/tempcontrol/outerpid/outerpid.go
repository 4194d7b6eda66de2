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

// Package outerpid implements the cascaded outer PID that translates a
// beer setpoint into a fridge-air setpoint, with the sign-aware
// integrator gating described in the plant's saturation bands.
package outerpid

import "fermd/internal/fixedpoint"

const twoDegrees = fixedpoint.TempDiff(2 * 512) // saturation band width used below

// Inputs bundles the per-tick values the outer loop reads. State is the
// current control state (only "Idle" gates integration).
type Inputs struct {
	BeerSetting        fixedpoint.Temperature
	FridgeSetting      fixedpoint.Temperature
	BeerSlowFiltered   fixedpoint.Temperature
	BeerSlope          fixedpoint.TempDiff
	FridgeFastFiltered fixedpoint.Temperature
	StateIsIdle        bool
}

// Bounds carries the constants that gate integration and clamp the output.
type Bounds struct {
	TempSettingMin fixedpoint.Temperature
	TempSettingMax fixedpoint.Temperature
	PidMax         fixedpoint.TempDiff
	IMaxError      fixedpoint.TempDiff
}

// Output is what a tick of the outer loop computes.
type Output struct {
	NewFridgeSetting fixedpoint.Temperature
	BeerDiff         fixedpoint.TempDiff
	P, I, D          fixedpoint.LongTemperature
}

// PID is the outer beer->fridge cascade. Build with New; WithCadence is
// the only chainable setter.
type PID struct {
	Kp, Ki, Kd fixedpoint.TempDiff

	cadenceTicks int // integrator update cadence, in ticks
	counter      int
	diffIntegral fixedpoint.LongTemperature
}

// New builds an outer PID with the given gains and the spec's 60-tick
// integrator cadence.
func New(kp, ki, kd fixedpoint.TempDiff) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, cadenceTicks: 60}
}

// WithCadence overrides the integrator update cadence (ticks). Exposed for
// tests; production callers use the spec's default of 60.
func (p *PID) WithCadence(ticks int) *PID {
	p.cadenceTicks = ticks
	return p
}

// DiffIntegral exposes the current integrator value (for diagnostics/tests).
func (p *PID) DiffIntegral() fixedpoint.LongTemperature {
	return p.diffIntegral
}

// Update runs one tick of the outer loop. It only mutates the integrator on
// cadence ticks, per spec.
func (p *PID) Update(in Inputs, b Bounds) Output {
	beerDiff := in.BeerSetting - in.BeerSlowFiltered

	p.counter++
	if p.counter >= p.cadenceTicks {
		p.counter = 0
		p.stepIntegrator(beerDiff, in, b)
	}

	out := Output{BeerDiff: beerDiff}
	out.P = fixedpoint.MultiplyFactor(p.Kp, beerDiff).Long()
	out.I = fixedpoint.MultiplyFactorLong(p.Ki, p.diffIntegral)
	out.D = fixedpoint.MultiplyFactor(p.Kd, in.BeerSlope).Long()

	newFridge := in.BeerSetting.Long() + out.P + out.I + out.D

	lower := b.TempSettingMin
	if in.BeerSetting > b.TempSettingMin+b.PidMax {
		lower = in.BeerSetting - b.PidMax
	}
	upper := b.TempSettingMax
	if in.BeerSetting < b.TempSettingMax-b.PidMax {
		upper = in.BeerSetting + b.PidMax
	}

	out.NewFridgeSetting = fixedpoint.ClampLong(newFridge, lower.Long(), upper.Long()).Narrow()
	return out
}

// stepIntegrator implements the sign-aware gating and saturation-band
// logic from spec.md §4.1 / TempControl.cpp's updatePID.
func (p *PID) stepIntegrator(beerDiff fixedpoint.TempDiff, in Inputs, b Bounds) {
	u := beerDiff.Long()

	switch {
	case !in.StateIsIdle:
		u = 0

	case fixedpoint.Abs(beerDiff) < b.IMaxError:
		wouldGrow := (beerDiff > 0) == (p.diffIntegral > 0)
		if wouldGrow {
			if in.FridgeSetting >= b.TempSettingMax ||
				in.FridgeSetting <= b.TempSettingMin ||
				in.FridgeSetting-in.BeerSetting >= b.PidMax ||
				in.BeerSetting-in.FridgeSetting >= b.PidMax ||
				(beerDiff < 0 && in.FridgeFastFiltered > in.FridgeSetting+twoDegrees) ||
				(beerDiff > 0 && in.FridgeFastFiltered < in.FridgeSetting-twoDegrees) {
				u = 0
			}
		} else {
			u = u * 2
		}

	default:
		u = -(p.diffIntegral / 8)
	}

	p.diffIntegral += u
}
