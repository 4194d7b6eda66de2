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
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fermd/internal/fixedpoint"
)

// controlConstantsYAML mirrors ControlConstants for the hand-editable seed
// file operators use to tune a chamber before its first run, following
// pkg/modbus/modbus.config.go's yaml.v3-tagged-struct convention. Gains and
// temperatures are declared as plain floats and narrowed to Q7.9 on load.
type controlConstantsYAML struct {
	TempFormat string `yaml:"temp_format"`

	TempSettingMin float64 `yaml:"temp_setting_min"`
	TempSettingMax float64 `yaml:"temp_setting_max"`

	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`

	IMaxError float64 `yaml:"i_max_error"`

	IdleRangeHigh float64 `yaml:"idle_range_high"`
	IdleRangeLow  float64 `yaml:"idle_range_low"`

	FridgeFastFilter  uint8 `yaml:"fridge_fast_filter"`
	FridgeSlowFilter  uint8 `yaml:"fridge_slow_filter"`
	FridgeSlopeFilter uint8 `yaml:"fridge_slope_filter"`
	BeerFastFilter    uint8 `yaml:"beer_fast_filter"`
	BeerSlowFilter    uint8 `yaml:"beer_slow_filter"`
	BeerSlopeFilter   uint8 `yaml:"beer_slope_filter"`

	LightAsHeater bool `yaml:"light_as_heater"`

	PidMax float64 `yaml:"pid_max"`

	HeatPwmPeriod uint16 `yaml:"heat_pwm_period"`
	CoolPwmPeriod uint16 `yaml:"cool_pwm_period"`

	FridgePwmKpHeat float64 `yaml:"fridge_pwm_kp_heat"`
	FridgePwmKiHeat float64 `yaml:"fridge_pwm_ki_heat"`
	FridgePwmKpCool float64 `yaml:"fridge_pwm_kp_cool"`
	FridgePwmKiCool float64 `yaml:"fridge_pwm_ki_cool"`
	BeerPwmKpHeat   float64 `yaml:"beer_pwm_kp_heat"`
	BeerPwmKiHeat   float64 `yaml:"beer_pwm_ki_heat"`
}

// LoadControlConstants reads a controlConstantsYAML seed file and converts
// it to a ControlConstants block. Unlike pkg/modbus.LoadConfig, a missing or
// malformed file is not fatal here: callers fall back to
// DefaultControlConstants and keep running, since a bad seed file must
// never stop the controller from starting.
func LoadControlConstants(path string) (ControlConstants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ControlConstants{}, fmt.Errorf("read control constants seed: %w", err)
	}
	var y controlConstantsYAML
	if err := yaml.Unmarshal(data, &y); err != nil {
		return ControlConstants{}, fmt.Errorf("parse control constants seed: %w", err)
	}

	format := byte('C')
	if len(y.TempFormat) > 0 {
		format = y.TempFormat[0]
	}

	return ControlConstants{
		TempFormat: format,

		TempSettingMin: fixedpoint.FromFloat64(y.TempSettingMin),
		TempSettingMax: fixedpoint.FromFloat64(y.TempSettingMax),

		Kp: fixedpoint.FromFloat64(y.Kp),
		Ki: fixedpoint.FromFloat64(y.Ki),
		Kd: fixedpoint.FromFloat64(y.Kd),

		IMaxError: fixedpoint.FromFloat64(y.IMaxError),

		IdleRangeHigh: fixedpoint.FromFloat64(y.IdleRangeHigh),
		IdleRangeLow:  fixedpoint.FromFloat64(y.IdleRangeLow),

		FridgeFastFilter:  y.FridgeFastFilter,
		FridgeSlowFilter:  y.FridgeSlowFilter,
		FridgeSlopeFilter: y.FridgeSlopeFilter,
		BeerFastFilter:    y.BeerFastFilter,
		BeerSlowFilter:    y.BeerSlowFilter,
		BeerSlopeFilter:   y.BeerSlopeFilter,

		LightAsHeater: y.LightAsHeater,

		PidMax: fixedpoint.FromFloat64(y.PidMax),

		HeatPwmPeriod: y.HeatPwmPeriod,
		CoolPwmPeriod: y.CoolPwmPeriod,

		FridgePwmKpHeat: fixedpoint.FromFloat64(y.FridgePwmKpHeat),
		FridgePwmKiHeat: fixedpoint.FromFloat64(y.FridgePwmKiHeat),
		FridgePwmKpCool: fixedpoint.FromFloat64(y.FridgePwmKpCool),
		FridgePwmKiCool: fixedpoint.FromFloat64(y.FridgePwmKiCool),
		BeerPwmKpHeat:   fixedpoint.FromFloat64(y.BeerPwmKpHeat),
		BeerPwmKiHeat:   fixedpoint.FromFloat64(y.BeerPwmKiHeat),
	}, nil
}
