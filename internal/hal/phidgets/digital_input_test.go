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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phidgetsapi "fermd/internal/phidgets"
	"fermd/pkg/logger"
)

func TestNewDigitalInputRegistersChannelWithWebhookURL(t *testing.T) {
	var got phidgetsapi.DigitalInRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d, err := NewDigitalInput(server.URL, "door", 5, 0, "http://host/webhook/door")
	if err != nil {
		t.Fatalf("NewDigitalInput: %v", err)
	}
	if got.Name != "door" || got.Channel != 5 || got.Webhook != "http://host/webhook/door" {
		t.Errorf("got request %+v, want Name=door Channel=5 Webhook=http://host/webhook/door", got)
	}
	if d.Sense() {
		t.Error("expected initial state to be false before any webhook push")
	}
}

func TestNewDigitalInputPropagatesBridgeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := NewDigitalInput(server.URL, "door", 5, 0, "http://host/webhook/door"); err == nil {
		t.Error("expected an error when the bridge rejects channel registration")
	}
}

func TestWebhookUpdatesSenseState(t *testing.T) {
	d := &DigitalInput{log: logger.New("test")}

	body, _ := json.Marshal(map[string]bool{"state": true})
	req := httptest.NewRequest(http.MethodPost, "/webhook/door", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	d.Webhook(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if !d.Sense() {
		t.Error("expected Sense() to report true after a {state:true} webhook push")
	}
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	d := &DigitalInput{log: logger.New("test")}

	req := httptest.NewRequest(http.MethodPost, "/webhook/door", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()

	d.Webhook(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
