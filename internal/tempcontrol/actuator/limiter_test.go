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

package actuator

import (
	"testing"
	"time"
)

// fakeClock is a manually-advanced Clock for deterministic limiter tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestLimiterAllowsFirstTransition(t *testing.T) {
	target := &fakeTarget{}
	clock := &fakeClock{}
	l := NewOnOffLimiter(target, clock, 5*time.Minute, 5*time.Minute)

	l.SetActive(true)
	if !l.Active() {
		t.Fatal("expected the first transition to always be allowed")
	}
	if len(target.sets) != 1 || !target.sets[0] {
		t.Errorf("target.sets = %v, want [true]", target.sets)
	}
}

func TestLimiterBlocksEarlyOff(t *testing.T) {
	target := &fakeTarget{}
	clock := &fakeClock{}
	l := NewOnOffLimiter(target, clock, 5*time.Minute, 5*time.Minute)

	l.SetActive(true)
	clock.advance(1 * time.Minute)
	l.SetActive(false) // blocked: minOn not satisfied

	if !l.Active() {
		t.Error("expected the limiter to hold active=true through the minimum on-time")
	}
	if len(target.sets) != 1 {
		t.Errorf("target.sets = %v, want only the initial transition", target.sets)
	}
}

func TestLimiterAllowsOffAfterMinOn(t *testing.T) {
	target := &fakeTarget{}
	clock := &fakeClock{}
	l := NewOnOffLimiter(target, clock, 5*time.Minute, 5*time.Minute)

	l.SetActive(true)
	clock.advance(5 * time.Minute)
	l.SetActive(false)

	if l.Active() {
		t.Error("expected the off transition to be allowed once minOn has elapsed")
	}
	if len(target.sets) != 2 {
		t.Errorf("target.sets = %v, want two recorded transitions", target.sets)
	}
}

func TestLimiterBlocksEarlyRestart(t *testing.T) {
	target := &fakeTarget{}
	clock := &fakeClock{}
	l := NewOnOffLimiter(target, clock, 5*time.Minute, 5*time.Minute)

	l.SetActive(true)
	clock.advance(5 * time.Minute)
	l.SetActive(false)
	clock.advance(1 * time.Minute)
	l.SetActive(true) // blocked: minOff not satisfied

	if l.Active() {
		t.Error("expected the restart to be blocked before minOff elapses")
	}
	if len(target.sets) != 2 {
		t.Errorf("target.sets = %v, want no third transition", target.sets)
	}
}

func TestLimiterIgnoresRedundantSetActive(t *testing.T) {
	target := &fakeTarget{}
	clock := &fakeClock{}
	l := NewOnOffLimiter(target, clock, 5*time.Minute, 5*time.Minute)

	l.SetActive(false) // already inactive; must be a no-op, not a blocked transition
	if len(target.sets) != 0 {
		t.Errorf("target.sets = %v, want no transitions for a redundant SetActive", target.sets)
	}
}

func TestLimiterBareExposesWrappedTarget(t *testing.T) {
	target := &fakeTarget{}
	clock := &fakeClock{}
	l := NewOnOffLimiter(target, clock, 0, 0)
	if got := l.Bare(); got != Target(target) {
		t.Errorf("Bare() = %v, want the wrapped target", got)
	}
}
