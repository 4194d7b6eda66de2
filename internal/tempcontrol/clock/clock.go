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

// Package clock provides the production tempcontrol.Clock backed by the
// wall clock's monotonic reading.
package clock

import "time"

// System implements tempcontrol.Clock using time.Now, exposing seconds
// since the process's first Now() call so callers get small uint32 values
// suitable for the fixed-point arithmetic elsewhere in the core.
type System struct {
	start time.Time
}

func NewSystem() *System {
	return &System{start: time.Now()}
}

func (s *System) Now() uint32 {
	return uint32(time.Since(s.start).Seconds())
}

func (s *System) TimeSince(t uint32) uint32 {
	now := s.Now()
	if now < t {
		return 0
	}
	return now - t
}

// Wall exposes a time.Time-based clock for collaborators (like
// actuator.OnOffLimiter) that want real timestamps rather than
// seconds-since-start.
type Wall struct{}

func (Wall) Now() time.Time { return time.Now() }
