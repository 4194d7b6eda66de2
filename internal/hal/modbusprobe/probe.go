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

// Package modbusprobe implements a BasicTempSensor backend over a Modbus
// TCP transmitter, reusing pkg/modbus's typed register client.
package modbusprobe

import (
	"fermd/internal/fixedpoint"
	"fermd/pkg/logger"
	"fermd/pkg/modbus"
)

// Probe reads one scaled register as a temperature. The register's
// data_type/scale/offset are declared in the modbus.Config's Registers map
// (loaded from YAML, same as the rest of the pkg/modbus stack).
type Probe struct {
	client   *modbus.Client
	register string
	log      *logger.Logger
}

func NewProbe(client *modbus.Client, register string) *Probe {
	return &Probe{client: client, register: register, log: logger.New("ModbusProbe")}
}

// Init is a no-op: pkg/modbus.Client owns reconnection with its own
// exponential backoff, so there is nothing extra to (re)establish here.
func (p *Probe) Init() {}

// Read returns InvalidTemp on any transport or decode error, letting the
// filtered-sensor cascade above it detect the disconnect on the next tick.
func (p *Probe) Read() fixedpoint.Temperature {
	v, err := modbus.ReadTyped[float32](p.client, p.register)
	if err != nil {
		p.log.Debug("read %s: %v", p.register, err)
		return fixedpoint.InvalidTemp
	}
	return fixedpoint.FromFloat64(float64(v))
}
