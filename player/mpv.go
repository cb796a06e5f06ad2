package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bilisonic/bilisonic/constant"
	"github.com/bilisonic/bilisonic/where"
	"github.com/sirupsen/logrus"
)

const (
	socketWaitTimeout  = 3 * time.Second
	socketWaitMinDelay = 25 * time.Millisecond
	socketWaitMaxDelay = 200 * time.Millisecond
	closeTimeout      = 3 * time.Second
)

// MPV implements Engine by spawning one mpv process per handle.
type MPV struct {
	// Binary is the mpv executable, looked up in PATH when not absolute.
	Binary string
	log    logrus.FieldLogger
}

// NewMPV creates an engine using the given mpv executable.
func NewMPV(binary string, log logrus.FieldLogger) *MPV {
	if binary == "" {
		binary = "mpv"
	}
	return &MPV{Binary: binary, log: log}
}

// Available reports whether the mpv executable can be found.
func (m *MPV) Available() bool {
	_, err := exec.LookPath(m.Binary)
	return err == nil
}

// Open starts an mpv process for rawURL and waits for its IPC socket.
func (m *MPV) Open(rawURL string, headers map[string]string, opts Options, onEvent EventFunc) (Handle, error) {
	safeURL, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return nil, &OpenError{URL: rawURL, Err: fmt.Errorf("invalid media target: %w", err)}
	}

	socketPath, err := newSocketPath()
	if err != nil {
		return nil, &OpenError{URL: rawURL, Err: err}
	}

	h := &mpvHandle{
		socketPath: socketPath,
		exited:     make(chan struct{}),
		onEvent:    onEvent,
		log:        m.log.WithField("socket", socketPath),
	}

	h.cmd = exec.Command(m.Binary, buildArgs(socketPath, safeURL, headers, opts)...)

	// Detach from parent process group so terminal signals reach only us.
	h.cmd.SysProcAttr = sysProcAttr()
	h.cmd.Stdout = nil
	h.cmd.Stderr = nil
	h.cmd.Stdin = nil

	if err := h.cmd.Start(); err != nil {
		return nil, &OpenError{URL: rawURL, Err: fmt.Errorf("start mpv: %w", err)}
	}

	// Reap the process to prevent zombies.
	go func() {
		_ = h.cmd.Wait()
		close(h.exited)
	}()

	if err := h.waitForSocket(); err != nil {
		h.kill()
		return nil, &OpenError{URL: rawURL, Err: fmt.Errorf("mpv socket not ready: %w", err)}
	}

	h.listener = NewEventListener(socketPath, h.log, h.dispatch)
	if err := h.listener.Start(); err != nil {
		h.kill()
		return nil, &OpenError{URL: rawURL, Err: err}
	}

	go h.watchExit()

	h.log.Infof("mpv started for %s", safeURL)
	return h, nil
}

// mpvHandle is a single mpv process playing one URL.
type mpvHandle struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	listener   *EventListener
	onEvent    EventFunc
	log        logrus.FieldLogger

	mu        sync.Mutex // Protects socket writes
	closing   atomic.Bool
	endOnce   sync.Once
	closeOnce sync.Once
}

// dispatch translates raw mpv events into handle events.
func (h *mpvHandle) dispatch(name string, data any) {
	if h.closing.Load() || h.onEvent == nil {
		return
	}

	switch name {
	case "eof-reached":
		if reached, _ := data.(bool); reached {
			h.endOfStream()
		}
	case "pause":
		if paused, ok := data.(bool); ok {
			h.onEvent(EventPause, paused)
		}
	case "file-loaded":
		h.onEvent(EventReady, nil)
	case "end-file":
		event, _ := data.(map[string]any)
		reason, _ := event["reason"].(string)
		switch reason {
		case "eof":
			h.endOfStream()
		case "error":
			msg, _ := event["file_error"].(string)
			h.onEvent(EventError, errors.New(msg))
			h.endOfStream()
		}
	}
}

func (h *mpvHandle) endOfStream() {
	h.endOnce.Do(func() {
		h.onEvent(EventEndOfStream, nil)
	})
}

// watchExit reports an exit that Close did not ask for as end of stream.
func (h *mpvHandle) watchExit() {
	<-h.exited
	if h.closing.Load() || h.onEvent == nil {
		return
	}
	h.log.Warn("mpv exited unexpectedly")
	h.endOfStream()
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (h *mpvHandle) waitForSocket() error {
	deadline := time.Now().Add(socketWaitTimeout)
	delay := socketWaitMinDelay

	for {
		conn, err := net.Dial("unix", h.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("socket %s not ready after %s: %w", h.socketPath, socketWaitTimeout, err)
		}

		select {
		case <-h.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		case <-time.After(delay):
		}

		delay = min(delay*2, socketWaitMaxDelay)
	}
}

func (h *mpvHandle) kill() {
	select {
	case <-h.exited:
	default:
		h.log.Warn("killing mpv")
		_ = killProcess(h.cmd)
	}
	_ = os.Remove(h.socketPath)
}

func (h *mpvHandle) Pause() error {
	return h.set("pause", true)
}

func (h *mpvHandle) Resume() error {
	return h.set("pause", false)
}

func (h *mpvHandle) Position() (float64, error) {
	return h.getFloatProperty("time-pos")
}

func (h *mpvHandle) Metadata() (*Metadata, error) {
	md := &Metadata{Tags: make(map[string]string)}

	data, err := h.sendCommand([]any{"get_property", "metadata"})
	if err != nil {
		return nil, err
	}
	if tags, ok := data.(map[string]any); ok {
		for k, v := range tags {
			md.Tags[strings.ToLower(k)] = fmt.Sprint(v)
		}
	}

	if title, err := h.sendCommand([]any{"get_property", "media-title"}); err == nil {
		md.Title, _ = title.(string)
	}

	// Duration is unavailable for some live streams.
	if dur, err := h.getFloatProperty("duration"); err == nil {
		md.Duration = dur
	}

	return md, nil
}

// Close shuts down the mpv process and cleans up resources.
func (h *mpvHandle) Close() error {
	h.closeOnce.Do(func() {
		h.closing.Store(true)
		h.listener.Stop()

		// Try graceful quit via IPC
		_, _ = h.sendCommand([]any{"quit"})

		select {
		case <-h.exited:
		case <-time.After(closeTimeout):
			_ = killProcess(h.cmd)
		}

		_ = os.Remove(h.socketPath)
		h.log.Info("mpv closed")
	})
	return nil
}

func (h *mpvHandle) set(property string, value any) error {
	_, err := h.sendCommand([]any{"set_property", property, value})
	return err
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (h *mpvHandle) getFloatProperty(name string) (float64, error) {
	data, err := h.sendCommand([]any{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// newSocketPath returns a random IPC socket path in the system temp directory.
func newSocketPath() (string, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("generate socket name: %w", err)
	}
	return filepath.Join(where.Temp(), fmt.Sprintf("%s-%x.sock", constant.App, randomBytes)), nil
}

// buildArgs assembles the mpv command line.
func buildArgs(socketPath, target string, headers map[string]string, opts Options) []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--no-config",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
	}

	if opts.NoVideo {
		args = append(args, "--vid=no", "--no-video", "--force-window=no")
	}
	if opts.NoSubtitles {
		args = append(args, "--sid=no")
	}
	if opts.AutoExit {
		args = append(args, "--idle=no", "--keep-open=no")
	} else {
		args = append(args, "--idle=yes")
	}
	if opts.Reconnect {
		args = append(args, "--stream-lavf-o=reconnect=1,reconnect_streamed=1")
	}
	if opts.Volume >= 0 {
		args = append(args, fmt.Sprintf("--volume=%d", min(opts.Volume, 100)))
	}

	if fields := formatHeaderFields(headers); fields != "" {
		args = append(args, fmt.Sprintf("--http-header-fields=%s", fields))
	}

	// Everything after "--" is a file, never an option.
	return append(args, "--", target)
}

// formatHeaderFields renders headers as mpv's comma separated header list,
// sorted by name so the command line is stable.
func formatHeaderFields(headers map[string]string) string {
	if len(headers) == 0 {
		return ""
	}

	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, k := range names {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		// mpv splits the list on commas
		val := strings.ReplaceAll(headers[k], ",", "%2C")
		b.WriteString(fmt.Sprintf("%s: %s", k, val))
	}
	return b.String()
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}
