package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id,omitempty"`
}

// ipcResponse is the JSON structure received from mpv's IPC socket.
// Asynchronous events share the socket and carry Event instead of Error.
type ipcResponse struct {
	Data      any    `json:"data"`
	Error     string `json:"error"`
	Event     string `json:"event"`
	RequestID int    `json:"request_id"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = 1 * time.Second
	requestID    = 1
)

// sendCommand sends a JSON-IPC command to the handle's mpv process.
// Transient connection errors are retried; calls are serialized.
func (h *mpvHandle) sendCommand(command []any) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(h.socketPath, command)
		if err == nil {
			return result, nil
		}
		if _, ok := err.(*commandError); ok {
			// mpv answered, retrying will not change its mind
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", maxRetries, lastErr)
}

// commandError is an error reported by mpv itself, e.g. "property unavailable".
type commandError struct {
	msg string
}

func (e *commandError) Error() string {
	return "mpv error: " + e.msg
}

// doSendCommand performs a single IPC command attempt on a fresh connection.
func doSendCommand(socketPath string, command []any) (any, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: requestID})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv requires newline-delimited JSON
	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		// Skip broadcast events until our reply shows up.
		if resp.Event != "" || resp.RequestID != requestID {
			continue
		}

		if resp.Error != "" && resp.Error != "success" {
			return nil, &commandError{msg: resp.Error}
		}

		return resp.Data, nil
	}
}
