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

import (
	"fermd/internal/fixedpoint"
	"fermd/internal/tempcontrol/actuator"
)

// Clock supplies a monotonic seconds counter to the core. Implementations
// must never block.
type Clock interface {
	Now() uint32
	TimeSince(t uint32) uint32
}

// TempSensor is a filtered probe: beer and fridge sensors both implement
// this. Coefficients may be changed at runtime without resetting history.
type TempSensor interface {
	Update()
	Init()
	IsConnected() bool
	ReadFastFiltered() fixedpoint.Temperature
	ReadSlowFiltered() fixedpoint.Temperature
	ReadSlope() fixedpoint.TempDiff
	SetFastFilterCoefficient(b uint8)
	SetSlowFilterCoefficient(b uint8)
	SetSlopeFilterCoefficient(b uint8)
}

// BasicTempSensor is an unfiltered probe, used for the ambient sensor.
type BasicTempSensor interface {
	Read() fixedpoint.Temperature
	Init()
}

// Actuator is a simple on/off output: fan, light, or the bare relay behind
// a PwmActuator.
type Actuator interface {
	SetActive(on bool)
}

// PwmActuator drives an Actuator with a period-based PWM waveform.
type PwmActuator interface {
	SetPwm(duty uint8)
	UpdatePwm()
	SetPeriod(seconds uint16)
	GetBareActuator() Actuator
}

// BoolSensor is a simple digital input, used for the door sensor.
type BoolSensor interface {
	Sense() bool
}

// NVStore persists ControlConstants/ControlSettings byte blocks. Write is
// the caller's responsibility to coalesce (write-if-changed).
type NVStore interface {
	ReadBlock(dst []byte, offset int) error
	WriteBlock(offset int, src []byte) error
}

// HostLink is the append-only annotation channel to the host.
type HostLink interface {
	PrintFridgeAnnotation(format string, args ...any)
}

// DefaultActuator is the shared "not installed" bare actuator, aliasing
// actuator.DefaultTarget so identity checks agree regardless of which
// interface (tempcontrol.Actuator or actuator.Target) is holding it. A
// PwmActuator whose GetBareActuator() returns this value is treated as
// uninstalled by the state machine.
var DefaultActuator Actuator = actuator.DefaultTarget
