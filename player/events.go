package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
)

// EventCallback is the function signature for raw mpv event notifications.
// Property changes arrive as (property, value); other events as (event, payload).
type EventCallback func(name string, data any)

// observedProperties are subscribed on the listener's own connection;
// mpv only sends property changes to the client that asked for them.
var observedProperties = []string{
	"eof-reached",
	"pause",
}

// EventListener provides real-time mpv event monitoring via observe_property.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	log        logrus.FieldLogger
	done       chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a new event listener for the given socket.
func NewEventListener(socketPath string, log logrus.FieldLogger, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		log:        log,
		done:       make(chan struct{}),
	}
}

// Start connects, subscribes to the observed properties and starts the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observedProperties {
		payload, err := json.Marshal(ipcCommand{Command: []any{"observe_property", i + 1, name}})
		if err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true

	go el.readLoop(conn)

	el.log.Debugf("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop terminates the event listener and waits for the read loop to exit.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}
	el.listening = false
	el.conn.Close()
	el.mu.Unlock()

	<-el.done
}

// readLoop reads newline-delimited JSON events until the connection closes.
func (el *EventListener) readLoop(conn net.Conn) {
	defer close(el.done)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), 1<<20)

	for scanner.Scan() {
		el.processEvent(scanner.Bytes())
	}

	el.mu.Lock()
	stopped := !el.listening
	el.mu.Unlock()

	if err := scanner.Err(); err != nil && !stopped {
		el.log.Warnf("event listener read error: %v", err)
	}
}

// processEvent parses and dispatches a single mpv event JSON line.
func (el *EventListener) processEvent(line []byte) {
	var event map[string]any
	if err := json.Unmarshal(line, &event); err != nil {
		return
	}

	eventType, ok := event["event"].(string)
	if !ok || el.callback == nil {
		// command replies
		return
	}

	switch eventType {
	case "property-change":
		name, _ := event["name"].(string)
		if name != "" {
			el.callback(name, event["data"])
		}
	default:
		el.callback(eventType, event)
	}
}
