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

// Package innerpi implements the inner fridge-air PI loop that turns a
// fridge setpoint/measurement error into a heater or cooler PWM duty,
// with back-calculation anti-windup, per spec.md §4.3.
package innerpi

import "fermd/internal/fixedpoint"

const (
	// maxTemp is the fixed-point cap corresponding to 100% duty (~64 in
	// Q7.9 units, matching the source's MAX_TEMP).
	maxTemp fixedpoint.LongTemperature = 64 * 512
	minTemp fixedpoint.LongTemperature = -64 * 512

	oneDegree fixedpoint.TempDiff = 512
)

// Gains bundles the four inner-loop tunings (heat/cool Kp/Ki).
type Gains struct {
	KpHeat, KiHeat fixedpoint.TempDiff
	KpCool, KiCool fixedpoint.TempDiff
}

// Duty is the result of one tick: exactly one of Heater/Cooler is non-zero.
type Duty struct {
	Heater uint8
	Cooler uint8
}

// Heating/Cooling are the caller's state-machine selectors, kept as plain
// bools so this package stays independent of tempcontrol.State.
type Heating bool
type Cooling bool

// PI is the inner fridge-air loop. fridgeIntegrator is a struct field per
// spec.md §9 (no package statics). It is built with New alone; there are
// no With... setters.
type PI struct {
	gains            Gains
	fridgeIntegrator fixedpoint.LongTemperature
}

func New(gains Gains) *PI {
	return &PI{gains: gains}
}

// Integrator exposes the current accumulator value (diagnostics/tests).
func (pi *PI) Integrator() fixedpoint.LongTemperature {
	return pi.fridgeIntegrator
}

// Update runs one tick. heating and cooling must not both be true.
func (pi *PI) Update(fridgeSetting, fridgeFastFiltered fixedpoint.Temperature, heating Heating, cooling Cooling) Duty {
	fridgeError := (fridgeSetting.Long() - fridgeFastFiltered.Long()).Narrow()
	errForIntegral := fixedpoint.Clamp(fridgeError, -oneDegree, oneDegree)

	var duty Duty
	var antiWindup fixedpoint.LongTemperature

	switch {
	case bool(heating):
		p := fixedpoint.MultiplyFactor(pi.gains.KpHeat/4, fridgeError).Long()
		i := fixedpoint.MultiplyFactorLong(pi.gains.KiHeat, pi.fridgeIntegrator/240)
		dutyLong := p + i
		dutyConstrained := fixedpoint.ClampLong(dutyLong, 0, maxTemp)
		duty.Heater = toDuty(4 * dutyConstrained)
		duty.Cooler = 0
		antiWindup = dutyConstrained - dutyLong
		if antiWindup > 0 {
			antiWindup = 0
		}

	case bool(cooling):
		p := fixedpoint.MultiplyFactor(pi.gains.KpCool/4, fridgeError).Long()
		i := fixedpoint.MultiplyFactorLong(pi.gains.KiCool, pi.fridgeIntegrator/240)
		dutyLong := p + i
		dutyConstrained := fixedpoint.ClampLong(dutyLong, minTemp, 0)
		duty.Cooler = toDuty(-4 * dutyConstrained)
		duty.Heater = 0
		// Resolved open question (spec.md §9, "integer sign asymmetry"):
		// cooling anti-windup mirrors heating's back-calculation rather
		// than the source's dead local variable.
		antiWindup = dutyConstrained - dutyLong
		if antiWindup < 0 {
			antiWindup = 0
		}

	default:
		duty.Heater = 0
		duty.Cooler = 0
		antiWindup = 0
	}

	pi.fridgeIntegrator += errForIntegral.Long() + antiWindup
	return duty
}

// toDuty rescales a Q7.9 duty magnitude (0..maxTemp*4, i.e. 0..~255*512)
// back down to an 8-bit PWM level, saturating.
func toDuty(v fixedpoint.LongTemperature) uint8 {
	scaled := int64(v) / 512
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
