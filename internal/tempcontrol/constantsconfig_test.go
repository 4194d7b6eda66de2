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
	"os"
	"path/filepath"
	"testing"

	"fermd/internal/fixedpoint"
)

func TestLoadControlConstantsParsesYAMLSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "constants.yml")
	body := `
temp_format: C
temp_setting_min: 1
temp_setting_max: 30
kp: 5
ki: 0.25
kd: -1.5
i_max_error: 1
idle_range_high: 0.1
idle_range_low: -0.1
fridge_fast_filter: 1
fridge_slow_filter: 4
fridge_slope_filter: 3
beer_fast_filter: 3
beer_slow_filter: 4
beer_slope_filter: 4
light_as_heater: true
pid_max: 10
heat_pwm_period: 4
cool_pwm_period: 600
fridge_pwm_kp_heat: 5
fridge_pwm_ki_heat: 0.5
fridge_pwm_kp_cool: 5
fridge_pwm_ki_cool: 0.5
beer_pwm_kp_heat: 2
beer_pwm_ki_heat: 0.2
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cc, err := LoadControlConstants(path)
	if err != nil {
		t.Fatalf("LoadControlConstants: %v", err)
	}
	if cc.TempFormat != 'C' {
		t.Errorf("TempFormat = %q, want C", cc.TempFormat)
	}
	if !cc.LightAsHeater {
		t.Error("expected LightAsHeater true")
	}
	if cc.HeatPwmPeriod != 4 || cc.CoolPwmPeriod != 600 {
		t.Errorf("PWM periods = %d/%d, want 4/600", cc.HeatPwmPeriod, cc.CoolPwmPeriod)
	}
	if cc.Kp != fixedpoint.FromFloat64(5) {
		t.Errorf("Kp = %v, want %v", cc.Kp, fixedpoint.FromFloat64(5))
	}
	if cc.PidMax != fixedpoint.FromFloat64(10) {
		t.Errorf("PidMax = %v, want %v", cc.PidMax, fixedpoint.FromFloat64(10))
	}
}

func TestLoadControlConstantsErrorsOnMissingFile(t *testing.T) {
	if _, err := LoadControlConstants(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected an error for a missing seed file")
	}
}

func TestLoadControlConstantsErrorsOnMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("kp: [this, is, not, a, float]"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadControlConstants(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
