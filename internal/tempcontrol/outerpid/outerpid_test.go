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

package outerpid

import (
	"testing"

	"fermd/internal/fixedpoint"
)

func defaultBounds() Bounds {
	return Bounds{
		TempSettingMin: fixedpoint.FromCelsiusInt(1),
		TempSettingMax: fixedpoint.FromCelsiusInt(110),
		PidMax:         fixedpoint.FromCelsiusInt(10),
		IMaxError:      fixedpoint.FromFloat64(1.0),
	}
}

// TestNewFridgeSettingClampedToPidMax exercises spec.md S4: with beer held
// far below setpoint, the fridge setpoint output can never exceed
// beerSetting+pidMax no matter how large the raw P/I/D sum is, and stays
// pinned there for as long as the error persists.
func TestNewFridgeSettingClampedToPidMax(t *testing.T) {
	p := New(fixedpoint.FromFloat64(5.0), fixedpoint.FromFloat64(0.25), fixedpoint.FromFloat64(-1.5)).WithCadence(1)
	beerSetting := fixedpoint.FromFloat64(20.0)
	bounds := defaultBounds()

	var out Output
	for i := 0; i < 2000; i++ {
		in := Inputs{
			BeerSetting:        beerSetting,
			FridgeSetting:      out.NewFridgeSetting,
			BeerSlowFiltered:   fixedpoint.FromFloat64(5.0), // large, persistent error
			BeerSlope:          0,
			FridgeFastFiltered: fixedpoint.FromFloat64(5.0),
			StateIsIdle:        true,
		}
		out = p.Update(in, bounds)
		if out.NewFridgeSetting > beerSetting+bounds.PidMax {
			t.Fatalf("tick %d: fridge setting %v exceeds beerSetting+pidMax %v", i, out.NewFridgeSetting, beerSetting+bounds.PidMax)
		}
	}
	if out.NewFridgeSetting != beerSetting+bounds.PidMax {
		t.Errorf("expected the setpoint to pin at beerSetting+pidMax, got %v", out.NewFridgeSetting)
	}
}

// TestIntegratorFrozenOutsideIdle covers invariant 6: the integrator must
// not change on ticks where state != Idle, even on the integrator cadence.
func TestIntegratorFrozenOutsideIdle(t *testing.T) {
	p := New(fixedpoint.FromFloat64(5.0), fixedpoint.FromFloat64(0.25), 0).WithCadence(1)
	bounds := defaultBounds()
	in := Inputs{
		BeerSetting:        fixedpoint.FromFloat64(20.0),
		FridgeSetting:      fixedpoint.FromFloat64(18.0),
		BeerSlowFiltered:   fixedpoint.FromFloat64(19.0),
		FridgeFastFiltered: fixedpoint.FromFloat64(18.0),
		StateIsIdle:        false,
	}
	p.Update(in, bounds)
	if p.DiffIntegral() != 0 {
		t.Errorf("integrator moved while state != Idle: %v", p.DiffIntegral())
	}
}

// TestIntegratorOnlyMovesOnCadence covers invariant 5.
func TestIntegratorOnlyMovesOnCadence(t *testing.T) {
	p := New(fixedpoint.FromFloat64(5.0), fixedpoint.FromFloat64(0.25), 0).WithCadence(5)
	bounds := defaultBounds()
	in := Inputs{
		BeerSetting:        fixedpoint.FromFloat64(20.0),
		FridgeSetting:      fixedpoint.FromFloat64(18.0),
		BeerSlowFiltered:   fixedpoint.FromFloat64(19.5),
		FridgeFastFiltered: fixedpoint.FromFloat64(18.0),
		StateIsIdle:        true,
	}
	for i := 0; i < 4; i++ {
		p.Update(in, bounds)
		if p.DiffIntegral() != 0 {
			t.Fatalf("tick %d: integrator moved before cadence fired", i+1)
		}
	}
	p.Update(in, bounds)
	if p.DiffIntegral() == 0 {
		t.Error("integrator did not move on the cadence tick")
	}
}
