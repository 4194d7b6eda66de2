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
	"bytes"
	"encoding/gob"

	"fermd/internal/fixedpoint"
)

// Persisted block identifiers. The NVStore contract treats these as opaque
// offsets; FileStore (internal/nvstore) maps them to file-backed blocks.
const (
	blockConstants = 0
	blockSettings  = 1
)

// encodeBlock/decodeBlock use encoding/gob: no library in the reference
// corpus does byte-oriented struct serialisation, and gob round-trips these
// plain data structs (spec.md §6's round-trip requirement) with no schema
// to hand-maintain.
func encodeBlock(v any) []byte {
	var buf bytes.Buffer
	// A gob encode of a plain data struct never fails.
	_ = gob.NewEncoder(&buf).Encode(v)
	return buf.Bytes()
}

func decodeBlock(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// loadPersisted populates cc/settings from the NVStore, falling back to
// defaults (and an Off/disabled settings block) on any read error, per
// spec.md §3's lifecycle note.
func (c *Controller) loadPersisted() {
	c.cc = DefaultControlConstants()
	if c.constantsSeedPath != "" {
		if seeded, err := LoadControlConstants(c.constantsSeedPath); err == nil {
			c.cc = seeded
		} else if c.host != nil {
			c.host.PrintFridgeAnnotation("control constants seed %s unreadable, using built-in defaults: %v", c.constantsSeedPath, err)
		}
	}
	buf := make([]byte, 4096)
	if err := c.nv.ReadBlock(buf, blockConstants); err == nil {
		var cc ControlConstants
		if decodeBlock(buf, &cc) == nil {
			c.cc = cc
		}
	}

	c.settings = ControlSettings{Mode: ModeOff, BeerSetting: fixedpoint.DisabledTemp, FridgeSetting: fixedpoint.DisabledTemp}
	buf2 := make([]byte, 4096)
	if err := c.nv.ReadBlock(buf2, blockSettings); err == nil {
		var s ControlSettings
		if decodeBlock(buf2, &s) == nil {
			c.settings = s
		}
	}
	c.lastPersisted = c.settings
}

// persistConstants writes cc unconditionally; constants change rarely
// enough (host-driven tuning) that write-if-changed coalescing isn't worth
// the extra bookkeeping the settings path needs.
func (c *Controller) persistConstants() {
	if err := c.nv.WriteBlock(blockConstants, encodeBlock(c.cc)); err != nil && c.host != nil {
		c.host.PrintFridgeAnnotation("nvstore write failed: %v", err)
	}
}

// persistSettings writes settings unless unchanged since the last write
// (caller-side write-if-changed, per the NVStore collaborator contract),
// and unless mode is BeerProfile and the beer setting moved by 0.25
// degrees or less (wear reduction, spec.md §5).
func (c *Controller) persistSettings(force bool) {
	if !force && c.settings == c.lastPersisted {
		return
	}
	if !force && c.settings.Mode == ModeBeerProfile && c.lastPersisted.Mode == ModeBeerProfile {
		delta := c.settings.BeerSetting - c.lastPersisted.BeerSetting
		if delta < 0 {
			delta = -delta
		}
		if delta <= beerProfileWriteThreshold {
			return
		}
	}
	if err := c.nv.WriteBlock(blockSettings, encodeBlock(c.settings)); err != nil {
		if c.host != nil {
			c.host.PrintFridgeAnnotation("nvstore write failed: %v", err)
		}
		return
	}
	c.lastPersisted = c.settings
}
