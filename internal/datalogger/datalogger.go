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

// Package datalogger periodically pushes controller telemetry to an
// emonCMS-compatible input endpoint, adapted from
// internal/emoncms/emoncms.logger.service.go's HTTP GET idiom.
package datalogger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fermd/internal/tempcontrol"
	"fermd/pkg/eventbus"
	"fermd/pkg/logger"
)

// Service implements service.Runnable.
type Service struct {
	addr     string
	apiKey   string
	node     string
	interval time.Duration
	log      *logger.Logger

	controller *tempcontrol.Controller
	bus        *eventbus.Bus
}

func New(controller *tempcontrol.Controller, bus *eventbus.Bus, addr, apiKey, node string, interval time.Duration) *Service {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Service{
		addr:       addr,
		apiKey:     apiKey,
		node:       node,
		interval:   interval,
		log:        logger.New("DataLogger"),
		controller: controller,
		bus:        bus,
	}
}

// Run pushes on a fixed interval and, whenever the bus is set, also pushes
// immediately on every state transition so a chart never shows a state
// change lagging behind by up to a full interval.
func (s *Service) Run(ctx context.Context) {
	s.log.Info("Running...")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var stateCh <-chan eventbus.Event
	if s.bus != nil {
		var unsub func()
		stateCh, unsub = s.bus.Subscribe(ctx, tempcontrol.TopicStateChanged, false)
		defer unsub()
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Stopped")
			return
		case <-ticker.C:
			s.pushOnce()
		case <-stateCh:
			s.pushOnce()
		}
	}
}

func (s *Service) pushOnce() {
	vars := s.controller.ControlVariables()
	data := map[string]float64{
		"beer_temp":      s.controller.BeerTemp().Float64(),
		"beer_setting":   s.controller.BeerSetting().Float64(),
		"fridge_temp":    s.controller.FridgeTemp().Float64(),
		"fridge_setting": s.controller.FridgeSetting().Float64(),
		"state":          float64(s.controller.State()),
		"diff_integral":  vars.DiffIntegral.Float64(),
		"beer_diff":      vars.BeerDiff.Float64(),
	}

	if err := s.post(data); err != nil {
		s.log.Error("push failed: %v", err)
	}
}

func (s *Service) post(data map[string]float64) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	q := url.Values{}
	q.Set("node", s.node)
	q.Set("apikey", s.apiKey)
	q.Set("fulljson", string(body))

	resp, err := http.Get(fmt.Sprintf("%s/input/post?%s", s.addr, q.Encode()))
	if err != nil {
		return fmt.Errorf("http.Get: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	return nil
}
