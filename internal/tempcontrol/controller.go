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

// Package tempcontrol composes the outer PID, state machine, and inner PI
// leaf packages into the single-threaded, tick-driven controller described
// by the collaborator contracts in this package.
package tempcontrol

import (
	"fermd/internal/fixedpoint"
	"fermd/internal/tempcontrol/innerpi"
	"fermd/internal/tempcontrol/outerpid"
	"fermd/internal/tempcontrol/statemachine"
	"fermd/pkg/eventbus"
)

// cameraLightTicks is how long the camera light stays lit after being
// triggered, in ticks (10 minutes at 1 Hz), per spec.md §4.3.
const cameraLightTicks = 10 * 60

var beerProfileWriteThreshold = fixedpoint.FromFloat64(0.25)

// Deps bundles every collaborator the controller needs. Fan, Light, Door,
// and AmbientSensor are optional; pass DefaultActuator / a nil BoolSensor /
// nil BasicTempSensor when the hardware isn't present.
type Deps struct {
	Clock         Clock
	BeerSensor    TempSensor
	FridgeSensor  TempSensor
	AmbientSensor BasicTempSensor
	Heater        PwmActuator
	Cooler        PwmActuator
	Fan           Actuator
	Light         Actuator
	Door          BoolSensor
	NVStore       NVStore
	HostLink      HostLink

	// EventBus is optional; when set, the controller publishes
	// TopicStateChanged whenever State() changes so subscribers (e.g. the
	// data logger) can react without waiting on their own poll cadence.
	EventBus *eventbus.Bus

	// ConstantsSeedPath is an optional hand-editable YAML file used to seed
	// ControlConstants the first time the controller runs against an empty
	// NVStore. Once persisted, the NVStore copy wins on every later start.
	ConstantsSeedPath string
}

// Controller is the thermal control core orchestrator. Zero value is not
// usable; build with New.
type Controller struct {
	clock         Clock
	beerSensor    TempSensor
	fridgeSensor  TempSensor
	ambientSensor BasicTempSensor
	heater        PwmActuator
	cooler        PwmActuator
	fan           Actuator
	light         Actuator
	door          BoolSensor
	nv            NVStore
	host          HostLink
	eb            *eventbus.Bus

	constantsSeedPath string

	outer *outerpid.PID
	sm    *statemachine.Machine
	inner *innerpi.PI

	cc       ControlConstants
	settings ControlSettings
	vars     ControlVariables

	lastPersisted ControlSettings

	state                                     State
	lastIdleTime, lastHeatTime, lastCoolTime  uint32

	doorKnown  bool
	doorIsOpen bool

	cameraLightTicksLeft int
}

// New builds a Controller, loading persisted constants/settings from
// NVStore (or defaulting them) and wiring the three control loops from cc.
func New(deps Deps) *Controller {
	c := &Controller{
		clock:             deps.Clock,
		beerSensor:        deps.BeerSensor,
		fridgeSensor:      deps.FridgeSensor,
		ambientSensor:     deps.AmbientSensor,
		heater:            deps.Heater,
		cooler:            deps.Cooler,
		fan:               deps.Fan,
		light:             deps.Light,
		door:              deps.Door,
		nv:                deps.NVStore,
		host:              deps.HostLink,
		eb:                deps.EventBus,
		constantsSeedPath: deps.ConstantsSeedPath,
		sm:                statemachine.New(),
		state:             StateIdle,
	}
	if c.fan == nil {
		c.fan = DefaultActuator
	}
	if c.light == nil {
		c.light = DefaultActuator
	}

	c.loadPersisted()
	c.outer = outerpid.New(c.cc.Kp, c.cc.Ki, c.cc.Kd)
	c.inner = innerpi.New(innerpi.Gains{
		KpHeat: c.cc.FridgePwmKpHeat, KiHeat: c.cc.FridgePwmKiHeat,
		KpCool: c.cc.FridgePwmKpCool, KiCool: c.cc.FridgePwmKiCool,
	})

	c.beerSensor.Init()
	c.fridgeSensor.Init()
	if c.ambientSensor != nil {
		c.ambientSensor.Init()
	}
	c.applyFilterCoefficients()

	return c
}

func (c *Controller) applyFilterCoefficients() {
	c.beerSensor.SetFastFilterCoefficient(c.cc.BeerFastFilter)
	c.beerSensor.SetSlowFilterCoefficient(c.cc.BeerSlowFilter)
	c.beerSensor.SetSlopeFilterCoefficient(c.cc.BeerSlopeFilter)
	c.fridgeSensor.SetFastFilterCoefficient(c.cc.FridgeFastFilter)
	c.fridgeSensor.SetSlowFilterCoefficient(c.cc.FridgeSlowFilter)
	c.fridgeSensor.SetSlopeFilterCoefficient(c.cc.FridgeSlopeFilter)
}

// Tick executes one second of the control pipeline, in the fixed order
// required by spec.md §5: sensors, outer PID, state machine, inner
// PI/actuator mapping, PWM drive.
func (c *Controller) Tick() {
	c.beerSensor.Update()
	c.fridgeSensor.Update()
	if c.ambientSensor != nil {
		// Polled every tick and re-initialised when it reports
		// InvalidTemp; the reading itself is not stored or exposed.
		if c.ambientSensor.Read() == fixedpoint.InvalidTemp {
			c.ambientSensor.Init()
		}
	}

	c.pollDoor()

	c.runOuterLoop()
	c.runStateMachine()
	c.runInnerLoopAndAux()

	c.heater.UpdatePwm()
	c.cooler.UpdatePwm()
}

func (c *Controller) pollDoor() {
	if c.door == nil {
		return
	}
	open := c.door.Sense()
	if !c.doorKnown {
		c.doorKnown = true
		c.doorIsOpen = open
		return
	}
	if open == c.doorIsOpen {
		return
	}
	c.doorIsOpen = open
	if c.host != nil {
		if open {
			c.host.PrintFridgeAnnotation("door opened")
		} else {
			c.host.PrintFridgeAnnotation("door closed")
		}
	}
}

// runOuterLoop is phase 2: beer->fridge setpoint cascade.
func (c *Controller) runOuterLoop() {
	switch {
	case c.settings.Mode == ModeOff || c.settings.Mode == ModeTest:
		return
	case c.settings.Mode == ModeFridgeConstant:
		c.settings.BeerSetting = fixedpoint.DisabledTemp
	case c.settings.Mode.IsBeerTracking():
		c.stepOuterPID()
	}
}

func (c *Controller) stepOuterPID() {
	if fixedpoint.IsDisabledOrInvalid(c.settings.BeerSetting) {
		c.settings.FridgeSetting = fixedpoint.DisabledTemp
		return
	}
	in := outerpid.Inputs{
		BeerSetting:        c.settings.BeerSetting,
		FridgeSetting:      c.settings.FridgeSetting,
		BeerSlowFiltered:   c.beerSensor.ReadSlowFiltered(),
		BeerSlope:          c.beerSensor.ReadSlope(),
		FridgeFastFiltered: c.fridgeSensor.ReadFastFiltered(),
		StateIsIdle:        c.state == StateIdle,
	}
	bounds := outerpid.Bounds{
		TempSettingMin: c.cc.TempSettingMin,
		TempSettingMax: c.cc.TempSettingMax,
		PidMax:         c.cc.PidMax,
		IMaxError:      c.cc.IMaxError,
	}
	out := c.outer.Update(in, bounds)
	c.settings.FridgeSetting = out.NewFridgeSetting
	c.vars = ControlVariables{
		BeerDiff:     out.BeerDiff,
		BeerSlope:    in.BeerSlope,
		DiffIntegral: c.outer.DiffIntegral(),
		P:            out.P,
		I:            out.I,
		D:            out.D,
	}
}

// runStateMachine is phase 3. An open door forces DoorOpen without
// disturbing the underlying machine's Idle/Cooling/Heating state, so
// normal transitions resume unaffected once the door closes.
func (c *Controller) runStateMachine() {
	prev := c.state

	if c.doorKnown && c.doorIsOpen {
		c.state = StateDoorOpen
	} else {
		in := c.stateMachineInputs()
		res := c.sm.Update(in)

		now := c.clock.Now()
		if res.IdleTouched {
			c.lastIdleTime = now
		}
		if res.CoolTouched {
			c.lastCoolTime = now
		}
		if res.HeatTouched {
			c.lastHeatTime = now
		}
		c.state = mapState(res.State)
	}

	if c.state != prev {
		c.publishState()
	}
}

func (c *Controller) stateMachineInputs() statemachine.Inputs {
	return statemachine.Inputs{
		ModeIsOff:       c.settings.Mode == ModeOff,
		ModeIsBeer:      c.settings.Mode.IsBeerTracking(),
		FridgeSetting:   c.settings.FridgeSetting,
		FridgeConnected: c.fridgeSensor.IsConnected(),
		BeerConnected:   c.beerSensor.IsConnected(),
		FridgeFast:      c.fridgeSensor.ReadFastFiltered(),
		CoolerInstalled: c.cooler.GetBareActuator() != DefaultActuator,
		HeaterInstalled: c.heater.GetBareActuator() != DefaultActuator,
		LightAsHeater:   c.cc.LightAsHeater,
		LightInstalled:  c.light != DefaultActuator,
		IdleRangeLow:    c.cc.IdleRangeLow,
		IdleRangeHigh:   c.cc.IdleRangeHigh,
		Now:             c.clock.Now(),
	}
}

func mapState(s statemachine.State) State {
	switch s {
	case statemachine.Off:
		return StateOff
	case statemachine.Cooling:
		return StateCooling
	case statemachine.Heating:
		return StateHeating
	case statemachine.DoorOpen:
		return StateDoorOpen
	default:
		return StateIdle
	}
}

// runInnerLoopAndAux is phase 4: inner PI -> duty, plus fan/light/camera
// light bookkeeping. Test mode leaves the actuators exactly as the last
// external SetPwm calls left them.
func (c *Controller) runInnerLoopAndAux() {
	heating := c.state == StateHeating
	cooling := c.state == StateCooling

	if c.settings.Mode != ModeTest {
		duty := c.inner.Update(c.settings.FridgeSetting, c.fridgeSensor.ReadFastFiltered(),
			innerpi.Heating(heating), innerpi.Cooling(cooling))
		c.heater.SetPwm(duty.Heater)
		c.cooler.SetPwm(duty.Cooler)
	}

	c.fan.SetActive(heating || cooling)

	if c.cameraLightTicksLeft > 0 {
		c.cameraLightTicksLeft--
	}
	lightOn := c.state == StateDoorOpen ||
		(c.cc.LightAsHeater && heating) ||
		c.cameraLightTicksLeft > 0
	c.light.SetActive(lightOn)
}

// TriggerCameraLight starts (or restarts) the self-expiring camera light
// timer, invoked by the host when a snapshot is requested.
func (c *Controller) TriggerCameraLight() {
	c.cameraLightTicksLeft = cameraLightTicks
}

// SetMode changes the operating mode. force re-persists settings even if
// the mode is unchanged (spec.md §4.6, scenario S5). Changing mode always
// forces the state machine back to Idle so a stale Heating/Cooling state
// from the previous mode isn't carried over.
func (c *Controller) SetMode(m Mode, force bool) {
	changed := m != c.settings.Mode
	c.settings.Mode = m
	if changed {
		c.sm.Reset()
		c.state = StateIdle
	}
	if m == ModeFridgeConstant {
		c.settings.BeerSetting = fixedpoint.DisabledTemp
	}
	c.persistSettings(force || changed)
}

// SetBeerTemp updates the beer setpoint and immediately re-runs the outer
// PID and state machine so getters reflect the change before the next
// tick, per spec.md §4.6.
func (c *Controller) SetBeerTemp(t fixedpoint.Temperature) {
	c.settings.BeerSetting = t
	c.runOuterLoop()
	c.runStateMachine()
	c.persistSettings(false)
}

// SetFridgeTemp updates the fridge setpoint directly (FridgeConstant/Test
// modes) and re-runs the state machine.
func (c *Controller) SetFridgeTemp(t fixedpoint.Temperature) {
	c.settings.FridgeSetting = t
	c.runStateMachine()
	c.persistSettings(false)
}

// SetControlConstants replaces the tuning constants, rewires the loop
// gains, and persists.
func (c *Controller) SetControlConstants(cc ControlConstants) {
	c.cc = cc
	c.outer.Kp, c.outer.Ki, c.outer.Kd = cc.Kp, cc.Ki, cc.Kd
	c.applyFilterCoefficients()
	c.heater.SetPeriod(cc.HeatPwmPeriod)
	c.cooler.SetPeriod(cc.CoolPwmPeriod)
	c.persistConstants()
}

func (c *Controller) Mode() Mode                            { return c.settings.Mode }
func (c *Controller) BeerSetting() fixedpoint.Temperature   { return c.settings.BeerSetting }
func (c *Controller) FridgeSetting() fixedpoint.Temperature { return c.settings.FridgeSetting }
func (c *Controller) State() State                          { return c.state }
func (c *Controller) ControlConstants() ControlConstants    { return c.cc }
func (c *Controller) ControlVariables() ControlVariables    { return c.vars }

func (c *Controller) BeerTemp() fixedpoint.Temperature {
	return c.beerSensor.ReadFastFiltered()
}

func (c *Controller) FridgeTemp() fixedpoint.Temperature {
	return c.fridgeSensor.ReadFastFiltered()
}

func (c *Controller) TimeSinceIdle() uint32    { return c.clock.TimeSince(c.lastIdleTime) }
func (c *Controller) TimeSinceHeating() uint32 { return c.clock.TimeSince(c.lastHeatTime) }
func (c *Controller) TimeSinceCooling() uint32 { return c.clock.TimeSince(c.lastCoolTime) }
