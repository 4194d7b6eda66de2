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

// Package hostlink implements the append-only annotation channel to the
// host (tempcontrol.HostLink), broadcasting each annotation to connected
// websocket clients, in the style of thermostat.web.service.go's
// ClientSync/webAppBroadcast.
package hostlink

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fermd/pkg/logger"
)

// Annotation is one emitted event, timestamped at creation.
type Annotation struct {
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}

const ringSize = 200

// Link broadcasts annotations over websocket and keeps the last ringSize
// of them so a client connecting mid-run isn't starting blind.
type Link struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	ring    []Annotation
	ringPos int

	log *logger.Logger
}

func New() *Link {
	return &Link{
		clients: make(map[*websocket.Conn]bool),
		log:     logger.New("HostLink  "),
	}
}

// PrintFridgeAnnotation implements tempcontrol.HostLink.
func (l *Link) PrintFridgeAnnotation(format string, args ...any) {
	a := Annotation{Time: time.Now(), Text: fmt.Sprintf(format, args...)}

	l.mu.Lock()
	if len(l.ring) < ringSize {
		l.ring = append(l.ring, a)
	} else {
		l.ring[l.ringPos] = a
		l.ringPos = (l.ringPos + 1) % ringSize
	}
	clients := make([]*websocket.Conn, 0, len(l.clients))
	for ws := range l.clients {
		clients = append(clients, ws)
	}
	l.mu.Unlock()

	data, err := json.Marshal(a)
	if err != nil {
		l.log.Error("marshal annotation: %v", err)
		return
	}
	pm, err := websocket.NewPreparedMessage(websocket.TextMessage, data)
	if err != nil {
		l.log.Error("prepare annotation message: %v", err)
		return
	}
	for _, ws := range clients {
		if err := ws.WritePreparedMessage(pm); err != nil {
			l.log.Error("write to client failed: %v", err)
			l.removeClient(ws)
		}
	}
}

// Recent returns a snapshot of the most recently emitted annotations, in
// chronological order.
func (l *Link) Recent() []Annotation {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.ring) < ringSize {
		out := make([]Annotation, len(l.ring))
		copy(out, l.ring)
		return out
	}
	out := make([]Annotation, ringSize)
	copy(out, l.ring[l.ringPos:])
	copy(out[ringSize-l.ringPos:], l.ring[:l.ringPos])
	return out
}

func (l *Link) addClient(ws *websocket.Conn) {
	l.mu.Lock()
	l.clients[ws] = true
	l.mu.Unlock()
}

func (l *Link) removeClient(ws *websocket.Conn) {
	l.mu.Lock()
	delete(l.clients, ws)
	l.mu.Unlock()
	ws.Close()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return false
		}
		return strings.Contains(origin, "localhost") || strings.Contains(origin, r.Host)
	},
}

// ServeWebSocket upgrades the connection and streams annotations to it
// until the client disconnects. Mount it under the host's UI mux.
func (l *Link) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.log.Error("upgrade failed: %v", err)
		return
	}
	l.addClient(ws)
	defer l.removeClient(ws)

	for _, a := range l.Recent() {
		if err := ws.WriteJSON(a); err != nil {
			return
		}
	}

	// The link is broadcast-only; drain and discard anything the client
	// sends so the read deadline/close handshake behaves normally.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
