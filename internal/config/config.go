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
	"encoding/json"
	"log"
	"os"

	"fermd/pkg/eventbus"
)

// PhidgetsConfig points at the phidgets HTTP bridge and names the channels
// wired to each relay/valve output and the door sensor.
type PhidgetsConfig struct {
	HTTPAddr    string `json:"http_addr"`
	WebhookAddr string `json:"webhook_addr"`

	HeaterChannel int `json:"heater_channel"`
	HeaterHubPort int `json:"heater_hubport"`
	CoolerChannel int `json:"cooler_channel"`
	CoolerHubPort int `json:"cooler_hubport"`
	FanChannel    int `json:"fan_channel"`
	FanHubPort    int `json:"fan_hubport"`
	LightChannel  int `json:"light_channel"`
	LightHubPort  int `json:"light_hubport"`
	DoorChannel   int `json:"door_channel"`
	DoorHubPort   int `json:"door_hubport"`

	HasFan   bool `json:"has_fan"`
	HasLight bool `json:"has_light"`
	HasDoor  bool `json:"has_door"`
}

// ModbusProbeConfig names which pkg/modbus register backs each temperature
// probe. The registers themselves (address/data_type/scale) are declared
// in the modbus YAML config referenced by ConfigPath.
type ModbusProbeConfig struct {
	ConfigPath      string `json:"config_path"`
	BeerRegister    string `json:"beer_register"`
	FridgeRegister  string `json:"fridge_register"`
	AmbientRegister string `json:"ambient_register"`
}

type HostLinkConfig struct {
	HTTPAddr string `json:"http_addr"`
}

type DataLoggerConfig struct {
	EmonCMSAddr     string `json:"emoncms_addr"`
	EmonCMSApiKey   string `json:"emoncms_apikey"`
	Node            string `json:"node"`
	IntervalSeconds int    `json:"interval_seconds"`
}

type NVStoreConfig struct {
	Dir string `json:"dir"`

	// ConstantsSeedPath, if set, points at a hand-editable YAML file used
	// to seed ControlConstants at startup; a constants block already
	// stored in this dir takes precedence over it.
	ConstantsSeedPath string `json:"constants_seed_path"`
}

type Config struct {
	Phidgets   PhidgetsConfig    `json:"phidgets"`
	Modbus     ModbusProbeConfig `json:"modbus"`
	HostLink   HostLinkConfig    `json:"hostlink"`
	DataLogger DataLoggerConfig  `json:"datalogger"`
	NVStore    NVStoreConfig     `json:"nvstore"`

	DataDir string `json:"data_dir"`
	RootDir string `json:"root_dir"`

	// not loaded from file, but added here to pass to all services
	// alongside config
	EventBus *eventbus.Bus
}

func LoadFile(path string) *Config {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open config: %v", err)
	}
	defer f.Close()
	var c Config
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		log.Fatalf("decode config: %v", err)
	}

	if c.DataLogger.IntervalSeconds == 0 {
		c.DataLogger.IntervalSeconds = 60
	}
	if c.NVStore.Dir == "" {
		c.NVStore.Dir = "nvstore"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.HostLink.HTTPAddr == "" {
		c.HostLink.HTTPAddr = ":8090"
	}
	return &c
}
