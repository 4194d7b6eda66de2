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

import "fermd/pkg/eventbus"

// TopicStateChanged carries a StateEvent every time the state machine's
// externally visible State changes, so a data logger or dashboard can react
// immediately instead of waiting for its own polling cadence.
var TopicStateChanged eventbus.Topic = "tempcontrol.state"

type StateEvent struct {
	State State
	Mode  Mode
}

// publishState is a no-op when no bus was supplied, so tests and callers
// that don't care about eventing never need to construct one.
func (c *Controller) publishState() {
	if c.eb == nil {
		return
	}
	c.eb.Publish(TopicStateChanged, StateEvent{State: c.state, Mode: c.settings.Mode})
}
