// Package server exposes HTTP handlers, including the WebSocket upgrade that
// feeds connections into the relay, a health check, and the built-in test page.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// WebSocketHandler returns the handler for WebSocket upgrade requests. It
// resolves the room name from the "room" query parameter — substituting the
// configured default exactly once, here at the transport boundary — upgrades
// the connection, joins the registry, and starts the connection's pumps.
func WebSocketHandler(registry *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
			return
		}

		room := r.URL.Query().Get("room")
		if room == "" {
			room = currentConfig().DefaultRoom
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(conn, registry, room, r.RemoteAddr)

		// Join cannot fail; the connection relays until its transport ends.
		registry.Join(room, client)
		connectionsActive.Inc()
		log.Printf("Client %s from %s joined room %q (%d members)",
			client.id, client.addr, room, registry.MemberCount(room))

		go client.writePump()
		client.readPump()
	}
}

// HealthHandler provides a simple health check endpoint that returns server status.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Signald relay is running!")
}

// IndexHandler serves an HTML page for exercising the signaling relay. It
// connects to the WebSocket endpoint with a chosen room and exchanges raw
// text payloads, which is all a WebRTC client needs to swap offers and
// candidates.
func IndexHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Signald Relay Test</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        #messages {
            border: 1px solid #ccc;
            height: 300px;
            padding: 10px;
            overflow-y: scroll;
            margin: 10px 0;
            background-color: #f9f9f9;
        }
        input[type="text"] { padding: 5px; margin-right: 10px; }
        button {
            padding: 5px 15px;
            background-color: #007cba;
            color: white;
            border: none;
            cursor: pointer;
        }
        button:hover { background-color: #005a87; }
    </style>
</head>
<body>
    <h1>Signald Relay Test</h1>

    <div>
        <input type="text" id="roomInput" placeholder="Room (default if empty)">
        <button id="connectButton" onclick="toggleConnection()">Connect</button>
    </div>
    <div>
        <input type="text" id="messageInput" placeholder="Payload to relay..." disabled>
        <button id="sendButton" onclick="sendMessage()" disabled>Send</button>
    </div>

    <div id="messages"></div>

    <script>
        let ws = null;
        const messagesDiv = document.getElementById('messages');
        const messageInput = document.getElementById('messageInput');
        const roomInput = document.getElementById('roomInput');
        const sendButton = document.getElementById('sendButton');
        const connectButton = document.getElementById('connectButton');

        function addMessage(message, color) {
            const el = document.createElement('div');
            el.style.color = color || 'gray';
            el.textContent = message;
            messagesDiv.appendChild(el);
            messagesDiv.scrollTop = messagesDiv.scrollHeight;
        }

        function setConnected(connected) {
            messageInput.disabled = !connected;
            sendButton.disabled = !connected;
            connectButton.textContent = connected ? 'Disconnect' : 'Connect';
        }

        function connect() {
            const room = roomInput.value.trim();
            const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
            const url = proto + location.host + '/ws' + (room ? '?room=' + encodeURIComponent(room) : '');
            ws = new WebSocket(url);

            ws.onopen = function() {
                addMessage('Connected to room "' + (room || 'default') + '"');
                setConnected(true);
            };
            ws.onmessage = function(event) {
                addMessage(event.data, 'green');
            };
            ws.onclose = function() {
                addMessage('Connection closed');
                setConnected(false);
                ws = null;
            };
        }

        function toggleConnection() {
            if (ws && ws.readyState === WebSocket.OPEN) {
                ws.close();
            } else {
                connect();
            }
        }

        function sendMessage() {
            const message = messageInput.value.trim();
            if (message && ws && ws.readyState === WebSocket.OPEN) {
                ws.send(message);
                addMessage(message, 'blue');
                messageInput.value = '';
            }
        }

        messageInput.addEventListener('keypress', function(e) {
            if (e.key === 'Enter') {
                sendMessage();
            }
        });
    </script>
</body>
</html>`
	if _, err := fmt.Fprint(w, html); err != nil {
		log.Printf("Error writing HTML response: %v", err)
	}
}
