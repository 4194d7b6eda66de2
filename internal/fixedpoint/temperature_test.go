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

package fixedpoint

import "testing"

func TestFromFloat64RoundTrip(t *testing.T) {
	cases := []float64{0, 1, -1, 20.5, -20.5, 0.001953125}
	for _, deg := range cases {
		got := FromFloat64(deg).Float64()
		if diff := got - deg; diff > 1.0/scale || diff < -1.0/scale {
			t.Errorf("FromFloat64(%v).Float64() = %v, want within one unit", deg, got)
		}
	}
}

func TestFromCelsiusInt(t *testing.T) {
	if got := FromCelsiusInt(20); got != Temperature(20*scale) {
		t.Errorf("FromCelsiusInt(20) = %v, want %v", got, 20*scale)
	}
}

func TestIsDisabledOrInvalid(t *testing.T) {
	if !IsDisabledOrInvalid(InvalidTemp) {
		t.Error("InvalidTemp should report disabled/invalid")
	}
	if !IsDisabledOrInvalid(DisabledTemp) {
		t.Error("DisabledTemp should report disabled/invalid")
	}
	if IsDisabledOrInvalid(FromCelsiusInt(20)) {
		t.Error("a normal reading should not report disabled/invalid")
	}
}

func TestNarrowSaturates(t *testing.T) {
	if got := LongTemperature(1 << 20).Narrow(); got != 32767 {
		t.Errorf("Narrow() overflow = %v, want 32767", got)
	}
	if got := LongTemperature(-(1 << 20)).Narrow(); got != InvalidTemp+2 {
		t.Errorf("Narrow() underflow = %v, want %v", got, InvalidTemp+2)
	}
}

func TestClamp(t *testing.T) {
	lo, hi := FromCelsiusInt(1), FromCelsiusInt(10)
	if got := Clamp(FromCelsiusInt(-5), lo, hi); got != lo {
		t.Errorf("Clamp below range = %v, want %v", got, lo)
	}
	if got := Clamp(FromCelsiusInt(50), lo, hi); got != hi {
		t.Errorf("Clamp above range = %v, want %v", got, hi)
	}
	if got := Clamp(FromCelsiusInt(5), lo, hi); got != FromCelsiusInt(5) {
		t.Errorf("Clamp within range changed value: got %v", got)
	}
}

func TestMultiplyFactorUnitGain(t *testing.T) {
	one := FromFloat64(1.0)
	diff := FromFloat64(2.0)
	if got := MultiplyFactor(one, diff); got != diff {
		t.Errorf("MultiplyFactor(1.0, 2.0) = %v, want %v", got, diff)
	}
}

func TestMultiplyFactorHalfGain(t *testing.T) {
	half := FromFloat64(0.5)
	four := FromFloat64(4.0)
	got := MultiplyFactor(half, four)
	want := FromFloat64(2.0)
	if got != want {
		t.Errorf("MultiplyFactor(0.5, 4.0) = %v, want %v", got, want)
	}
}

func TestAbs(t *testing.T) {
	if got := Abs(FromFloat64(-3.5)); got != FromFloat64(3.5) {
		t.Errorf("Abs(-3.5) = %v, want %v", got, FromFloat64(3.5))
	}
	if got := AbsLong(LongTemperature(-100)); got != 100 {
		t.Errorf("AbsLong(-100) = %v, want 100", got)
	}
}
