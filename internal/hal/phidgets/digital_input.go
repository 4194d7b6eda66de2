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

package phidgets

import (
	"encoding/json"
	"net/http"
	"sync"

	"fermd/pkg/logger"

	phidgetsapi "fermd/internal/phidgets"
)

// DigitalInput mirrors the door-sensor channel state pushed by the phidgets
// bridge's webhook. It implements tempcontrol.BoolSensor.
type DigitalInput struct {
	mu    sync.RWMutex
	state bool

	log *logger.Logger
}

type digitalInStateMessage struct {
	State bool `json:"state"`
}

// NewDigitalInput registers the channel with the bridge, asking it to POST
// state changes to webhookURL, and returns the sensor. Its Webhook method
// is the handler to mount at that URL.
func NewDigitalInput(serverURL, name string, channel, hubPort int, webhookURL string) (*DigitalInput, error) {
	d := &DigitalInput{log: logger.New("Phidgets  ")}
	if err := phidgetsapi.OpenDigitalInput(serverURL, name, channel, hubPort, webhookURL); err != nil {
		return nil, err
	}
	return d, nil
}

// Sense reports the last state the bridge pushed.
func (d *DigitalInput) Sense() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Webhook is the http.HandlerFunc to mount at the URL passed to
// NewDigitalInput; the bridge POSTs {"state": bool} to it on every change.
func (d *DigitalInput) Webhook(w http.ResponseWriter, r *http.Request) {
	var msg digitalInStateMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		d.log.Error("bad webhook payload: %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	d.mu.Lock()
	d.state = msg.State
	d.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}
