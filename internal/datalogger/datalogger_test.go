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

package datalogger

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestPostSendsExpectedQueryParams(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := New(nil, nil, server.URL, "testkey", "1", 0)
	if err := s.post(map[string]float64{"beer_temp": 20.5}); err != nil {
		t.Fatalf("post: %v", err)
	}

	if gotQuery.Get("apikey") != "testkey" {
		t.Errorf("apikey = %q, want testkey", gotQuery.Get("apikey"))
	}
	if gotQuery.Get("node") != "1" {
		t.Errorf("node = %q, want 1", gotQuery.Get("node"))
	}
	if gotQuery.Get("fulljson") == "" {
		t.Error("expected a non-empty fulljson payload")
	}
}

func TestPostErrorsOnNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := New(nil, nil, server.URL, "testkey", "1", 0)
	if err := s.post(map[string]float64{"beer_temp": 20.5}); err == nil {
		t.Error("expected an error on a non-200 response")
	}
}
