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
	"testing"

	"fermd/internal/tempcontrol/actuator"
)

type recordingTarget struct {
	active bool
}

func (r *recordingTarget) SetActive(on bool) { r.active = on }

// TestWrapPWMSatisfiesPwmActuator confirms the adapter's GetBareActuator
// returns the correctly-typed tempcontrol.Actuator rather than
// actuator.Target, and that it identifies an uninstalled relay.
func TestWrapPWMSatisfiesPwmActuator(t *testing.T) {
	pwm := actuator.NewPWM(actuator.DefaultTarget, 4)
	var p PwmActuator = WrapPWM(pwm)

	if p.GetBareActuator() != DefaultActuator {
		t.Error("expected an unconfigured PWM's bare actuator to equal DefaultActuator")
	}
}

func TestWrapPWMPassesThroughToRealTarget(t *testing.T) {
	target := &recordingTarget{}
	pwm := actuator.NewPWM(target, 4)
	var p PwmActuator = WrapPWM(pwm)

	if p.GetBareActuator() == DefaultActuator {
		t.Error("expected a wired target's bare actuator to differ from DefaultActuator")
	}

	p.SetPwm(255)
	for i := 0; i < 4; i++ {
		p.UpdatePwm()
	}
	if !target.active {
		t.Error("expected UpdatePwm at full duty to activate the wrapped target")
	}
}
