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

// Package phidgets adapts the internal/phidgets HTTP bridge client into the
// tempcontrol Actuator/BoolSensor collaborator contracts.
package phidgets

import (
	"sync"

	"fermd/pkg/logger"

	phidgetsapi "fermd/internal/phidgets"
)

// DigitalOutput drives a relay/valve/fan channel through the phidgets HTTP
// bridge. It implements tempcontrol.Actuator.
type DigitalOutput struct {
	mu sync.Mutex

	serverURL string
	name      string
	channel   int
	hubPort   int

	active bool
	log    *logger.Logger
}

func NewDigitalOutput(serverURL, name string, channel, hubPort int) *DigitalOutput {
	return &DigitalOutput{
		serverURL: serverURL,
		name:      name,
		channel:   channel,
		hubPort:   hubPort,
		log:       logger.New("Phidgets  "),
	}
}

// SetActive posts the requested state to the bridge, retrying on the next
// call if the request fails (best-effort, matching spec.md §7's
// self-recovering fault model).
func (d *DigitalOutput) SetActive(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if on == d.active {
		return
	}
	if err := phidgetsapi.SetDigitalOutput(d.serverURL, d.name, on, d.channel, d.hubPort); err != nil {
		d.log.Error("SetDigitalOutput(%s): %v", d.name, err)
		return
	}
	d.active = on
}
