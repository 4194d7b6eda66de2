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

package tempcontrol

import "fermd/internal/fixedpoint"

// Mode selects how the controller derives its fridge setpoint. The wire
// character values are part of the external contract (host compatibility)
// and must not change.
type Mode byte

const (
	ModeOff            Mode = 'o'
	ModeBeerConstant   Mode = 'b'
	ModeBeerProfile    Mode = 'p'
	ModeFridgeConstant Mode = 'f'
	ModeTest           Mode = 't'
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeBeerConstant:
		return "beer-constant"
	case ModeBeerProfile:
		return "beer-profile"
	case ModeFridgeConstant:
		return "fridge-constant"
	case ModeTest:
		return "test"
	default:
		return "unknown"
	}
}

// IsBeerTracking reports whether the mode drives the fridge setpoint from
// a beer-temperature PID cascade.
func (m Mode) IsBeerTracking() bool {
	return m == ModeBeerConstant || m == ModeBeerProfile
}

// State is the state machine's current control state.
type State int

const (
	StateOff State = iota
	StateIdle
	StateCooling
	StateHeating
	StateDoorOpen
)

func (s State) String() string {
	switch s {
	case StateOff:
		return "off"
	case StateIdle:
		return "idle"
	case StateCooling:
		return "cooling"
	case StateHeating:
		return "heating"
	case StateDoorOpen:
		return "door-open"
	default:
		return "unknown"
	}
}

// ControlConstants are persistent, seldom-changed tuning parameters.
type ControlConstants struct {
	TempFormat byte // 'C' or 'F'

	TempSettingMin fixedpoint.Temperature
	TempSettingMax fixedpoint.Temperature

	Kp fixedpoint.TempDiff
	Ki fixedpoint.TempDiff
	Kd fixedpoint.TempDiff

	IMaxError fixedpoint.TempDiff

	IdleRangeHigh fixedpoint.TempDiff
	IdleRangeLow  fixedpoint.TempDiff

	FridgeFastFilter  uint8
	FridgeSlowFilter  uint8
	FridgeSlopeFilter uint8
	BeerFastFilter    uint8
	BeerSlowFilter    uint8
	BeerSlopeFilter   uint8

	LightAsHeater bool

	PidMax fixedpoint.TempDiff

	HeatPwmPeriod uint16 // seconds
	CoolPwmPeriod uint16 // seconds

	FridgePwmKpHeat fixedpoint.TempDiff
	FridgePwmKiHeat fixedpoint.TempDiff
	FridgePwmKpCool fixedpoint.TempDiff
	FridgePwmKiCool fixedpoint.TempDiff
	BeerPwmKpHeat   fixedpoint.TempDiff
	BeerPwmKiHeat   fixedpoint.TempDiff
}

// DefaultControlConstants mirrors ccDefaults in TempControl.cpp / spec.md §6.
func DefaultControlConstants() ControlConstants {
	return ControlConstants{
		TempFormat: 'C',

		TempSettingMin: fixedpoint.FromCelsiusInt(1),
		TempSettingMax: fixedpoint.FromCelsiusInt(110),

		Kp: fixedpoint.FromFloat64(5.0),
		Ki: fixedpoint.FromFloat64(0.25),
		Kd: fixedpoint.FromFloat64(-1.5),

		IMaxError: fixedpoint.FromFloat64(1.0),

		IdleRangeHigh: fixedpoint.FromFloat64(0.1),
		IdleRangeLow:  fixedpoint.FromFloat64(-0.1),

		FridgeFastFilter:  1,
		FridgeSlowFilter:  4,
		FridgeSlopeFilter: 3,
		BeerFastFilter:    3,
		BeerSlowFilter:    4,
		BeerSlopeFilter:   4,

		LightAsHeater: false,

		PidMax: fixedpoint.FromCelsiusInt(10),

		HeatPwmPeriod: 4,
		CoolPwmPeriod: 600,

		FridgePwmKpHeat: fixedpoint.FromCelsiusInt(20),
		FridgePwmKiHeat: fixedpoint.FromCelsiusInt(2),
		FridgePwmKpCool: fixedpoint.FromCelsiusInt(20),
		FridgePwmKiCool: fixedpoint.FromCelsiusInt(2),
		BeerPwmKpHeat:   fixedpoint.FromCelsiusInt(20),
		BeerPwmKiHeat:   fixedpoint.FromCelsiusInt(2),
	}
}

// ControlSettings are mutable, persisted setpoints.
type ControlSettings struct {
	Mode          Mode
	BeerSetting   fixedpoint.Temperature
	FridgeSetting fixedpoint.Temperature
}

// ControlVariables are volatile, recomputed every tick.
type ControlVariables struct {
	BeerDiff     fixedpoint.TempDiff
	BeerSlope    fixedpoint.TempDiff
	DiffIntegral fixedpoint.LongTemperature

	P fixedpoint.LongTemperature
	I fixedpoint.LongTemperature
	D fixedpoint.LongTemperature
}
