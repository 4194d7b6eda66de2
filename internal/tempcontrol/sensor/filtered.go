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

// Package sensor implements the filtered temperature probe (spec.md §4.4):
// three cascaded exponential filters (fast/slow/slope) over a raw
// BasicTempSensor, with reconnect-on-disconnect semantics.
package sensor

import "fermd/internal/fixedpoint"

// Basic is the raw, unfiltered probe backend a Filtered sensor wraps.
type Basic interface {
	Read() fixedpoint.Temperature
	Init()
}

// cascade is a 3-stage exponential filter. Coefficient b in [0,4] controls
// the per-stage time constant; total filter delay is roughly
// 3.33 * 2^b * 3 samples, matching spec.md §4.4.
type cascade struct {
	b      uint8
	stages [3]fixedpoint.LongTemperature
	primed bool
}

func (c *cascade) setCoefficient(b uint8) {
	if b > 4 {
		b = 4
	}
	c.b = b
}

func (c *cascade) reset(v fixedpoint.Temperature) {
	for i := range c.stages {
		c.stages[i] = v.Long()
	}
	c.primed = true
}

func (c *cascade) push(v fixedpoint.Temperature) fixedpoint.Temperature {
	if !c.primed {
		c.reset(v)
	}
	shift := c.b + 1
	in := v.Long()
	for i := range c.stages {
		c.stages[i] += (in - c.stages[i]) >> shift
		in = c.stages[i]
	}
	return c.stages[2].Narrow()
}

// Filtered wraps a Basic probe with the fast/slow/slope filter cascade.
type Filtered struct {
	basic     Basic
	connected bool

	fast  cascade
	slow  cascade
	slope cascade

	prevSlow  fixedpoint.Temperature
	haveSlow  bool
}

func NewFiltered(basic Basic) *Filtered {
	return &Filtered{basic: basic}
}

// Init attempts to (re)connect the underlying probe.
func (f *Filtered) Init() {
	f.basic.Init()
	v := f.basic.Read()
	f.connected = v != fixedpoint.InvalidTemp
	if f.connected {
		f.fast.reset(v)
		f.slow.reset(v)
		f.slope.reset(0)
		f.prevSlow = f.slow.stages[2].Narrow()
		f.haveSlow = true
	}
}

// Update refreshes the filters from a fresh raw reading.
func (f *Filtered) Update() {
	v := f.basic.Read()
	if v == fixedpoint.InvalidTemp {
		f.connected = false
		return
	}
	f.connected = true

	f.fast.push(v)
	slowOut := f.slow.push(v)

	if f.haveSlow {
		delta := slowOut - f.prevSlow
		f.slope.push(delta)
	} else {
		f.slope.reset(0)
		f.haveSlow = true
	}
	f.prevSlow = slowOut
}

func (f *Filtered) IsConnected() bool {
	return f.connected
}

func (f *Filtered) ReadFastFiltered() fixedpoint.Temperature {
	if !f.connected {
		return fixedpoint.InvalidTemp
	}
	return f.fast.stages[2].Narrow()
}

func (f *Filtered) ReadSlowFiltered() fixedpoint.Temperature {
	if !f.connected {
		return fixedpoint.InvalidTemp
	}
	return f.slow.stages[2].Narrow()
}

func (f *Filtered) ReadSlope() fixedpoint.TempDiff {
	if !f.connected {
		return 0
	}
	return f.slope.stages[2].Narrow()
}

func (f *Filtered) SetFastFilterCoefficient(b uint8)  { f.fast.setCoefficient(b) }
func (f *Filtered) SetSlowFilterCoefficient(b uint8)  { f.slow.setCoefficient(b) }
func (f *Filtered) SetSlopeFilterCoefficient(b uint8) { f.slope.setCoefficient(b) }
