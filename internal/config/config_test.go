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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFileAppliesDefaultsWhenOmitted(t *testing.T) {
	path := writeConfig(t, `{}`)
	c := LoadFile(path)

	if c.DataLogger.IntervalSeconds != 60 {
		t.Errorf("IntervalSeconds = %d, want 60", c.DataLogger.IntervalSeconds)
	}
	if c.NVStore.Dir != "nvstore" {
		t.Errorf("NVStore.Dir = %q, want nvstore", c.NVStore.Dir)
	}
	if c.DataDir != "data" {
		t.Errorf("DataDir = %q, want data", c.DataDir)
	}
	if c.HostLink.HTTPAddr != ":8090" {
		t.Errorf("HostLink.HTTPAddr = %q, want :8090", c.HostLink.HTTPAddr)
	}
}

func TestLoadFilePreservesExplicitValues(t *testing.T) {
	path := writeConfig(t, `{
		"datalogger": {"interval_seconds": 30},
		"nvstore": {"dir": "/var/lib/fermd"},
		"data_dir": "/var/fermd/data",
		"hostlink": {"http_addr": ":9000"},
		"phidgets": {"heater_channel": 2, "has_fan": true},
		"modbus": {"beer_register": "beer", "ambient_register": "ambient"}
	}`)
	c := LoadFile(path)

	if c.DataLogger.IntervalSeconds != 30 {
		t.Errorf("IntervalSeconds = %d, want 30", c.DataLogger.IntervalSeconds)
	}
	if c.NVStore.Dir != "/var/lib/fermd" {
		t.Errorf("NVStore.Dir = %q, want /var/lib/fermd", c.NVStore.Dir)
	}
	if c.DataDir != "/var/fermd/data" {
		t.Errorf("DataDir = %q, want /var/fermd/data", c.DataDir)
	}
	if c.HostLink.HTTPAddr != ":9000" {
		t.Errorf("HostLink.HTTPAddr = %q, want :9000", c.HostLink.HTTPAddr)
	}
	if c.Phidgets.HeaterChannel != 2 || !c.Phidgets.HasFan {
		t.Errorf("Phidgets = %+v, want HeaterChannel=2 HasFan=true", c.Phidgets)
	}
	if c.Modbus.BeerRegister != "beer" || c.Modbus.AmbientRegister != "ambient" {
		t.Errorf("Modbus = %+v, want BeerRegister=beer AmbientRegister=ambient", c.Modbus)
	}
}
