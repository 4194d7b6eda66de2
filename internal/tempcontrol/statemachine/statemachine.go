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

// Package statemachine selects among Off/Idle/Cooling/Heating/DoorOpen
// each tick, per spec.md §4.2.
package statemachine

import "fermd/internal/fixedpoint"

// State mirrors tempcontrol.State without importing it, to keep this
// package leaf-level and independently testable. tempcontrol converts
// between the two with a small mapping in controller.go.
type State int

const (
	Off State = iota
	Idle
	Cooling
	Heating
	DoorOpen
)

func (s State) String() string {
	switch s {
	case Off:
		return "off"
	case Idle:
		return "idle"
	case Cooling:
		return "cooling"
	case Heating:
		return "heating"
	case DoorOpen:
		return "door-open"
	default:
		return "unknown"
	}
}

// Inputs bundles everything a tick of the state machine needs to decide a
// transition.
type Inputs struct {
	ModeIsOff        bool
	ModeIsBeer       bool // beer-tracking mode (BeerConstant/BeerProfile)
	FridgeSetting    fixedpoint.Temperature
	FridgeConnected  bool
	BeerConnected    bool
	FridgeFast       fixedpoint.Temperature
	CoolerInstalled  bool
	HeaterInstalled  bool
	LightAsHeater    bool
	LightInstalled   bool
	IdleRangeLow     fixedpoint.TempDiff
	IdleRangeHigh    fixedpoint.TempDiff
	Now              uint32
}

// Result is the outcome of one tick: the new state, and the timestamp
// fields the orchestrator should update.
type Result struct {
	State        State
	IdleTouched  bool
	CoolTouched  bool
	HeatTouched  bool
}

// Machine holds only the current state; timestamps live in the
// orchestrator (tempcontrol.Controller), matching spec.md §3's placement
// of lastIdleTime/lastHeatTime/lastCoolTime alongside the other volatile
// controller state rather than inside this leaf component.
type Machine struct {
	state State
}

func New() *Machine {
	return &Machine{state: Idle}
}

func (m *Machine) State() State {
	return m.state
}

// Reset forces the machine back to Idle, used when the orchestrator changes
// mode and must not carry over a stale Heating/Cooling state.
func (m *Machine) Reset() {
	m.state = Idle
}

// Update runs one tick of the transition table from spec.md §4.2.
func (m *Machine) Update(in Inputs) Result {
	if in.ModeIsOff {
		m.state = Off
		return Result{State: m.state, IdleTouched: true}
	}

	stayIdle := fixedpoint.IsDisabledOrInvalid(in.FridgeSetting) ||
		!in.FridgeConnected ||
		(in.ModeIsBeer && !in.BeerConnected)

	if stayIdle {
		m.state = Idle
		return Result{State: m.state, IdleTouched: true}
	}

	switch m.state {
	case Idle, Off:
		res := Result{IdleTouched: true}
		if in.FridgeFast > in.FridgeSetting+in.IdleRangeHigh {
			if in.CoolerInstalled {
				m.state = Cooling
			} else {
				m.state = Idle
			}
		} else if in.FridgeFast < in.FridgeSetting+in.IdleRangeLow {
			if in.HeaterInstalled || (in.LightAsHeater && in.LightInstalled) {
				m.state = Heating
			} else {
				m.state = Idle
			}
		} else {
			m.state = Idle
		}
		res.State = m.state
		return res

	case Cooling:
		if !in.CoolerInstalled {
			m.state = Idle
			return Result{State: m.state}
		}
		res := Result{State: Cooling, CoolTouched: true}
		if in.FridgeFast <= in.FridgeSetting {
			m.state = Idle
			res.State = Idle
		}
		return res

	case Heating:
		if !in.HeaterInstalled {
			m.state = Idle
			return Result{State: m.state}
		}
		if in.FridgeFast >= in.FridgeSetting {
			m.state = Idle
		}
		return Result{State: m.state}

	case DoorOpen:
		return Result{State: DoorOpen}

	default:
		m.state = Idle
		return Result{State: m.state}
	}
}
