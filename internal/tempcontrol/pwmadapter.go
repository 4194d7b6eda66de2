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

import "fermd/internal/tempcontrol/actuator"

// pwmAdapter narrows actuator.PWM's GetBareActuator (which returns
// actuator.Target) to the PwmActuator collaborator contract (which returns
// Actuator). The two interfaces share an identical method set, but Go
// requires the declared result type to match exactly for interface
// satisfaction, so a thin wrapper is needed rather than a bare type
// assertion.
type pwmAdapter struct {
	*actuator.PWM
}

func (p pwmAdapter) GetBareActuator() Actuator {
	return p.PWM.GetBareActuator()
}

// WrapPWM adapts an *actuator.PWM into the PwmActuator collaborator.
func WrapPWM(p *actuator.PWM) PwmActuator {
	return pwmAdapter{p}
}
