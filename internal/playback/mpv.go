package playback

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// mpvHandle drives an mpv process over its JSON IPC socket. mpv owns the
// render window; the TUI only issues commands and polls the playhead.
type mpvHandle struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	conn   net.Conn
	rd     *bufio.Reader
	socket string
	log    zerolog.Logger
	reqID  int
}

type mpvRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type mpvReply struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID int             `json:"request_id"`
	Event     string          `json:"event"`
}

const mpvConnectTimeout = 5 * time.Second

// OpenMPV launches mpv for the given media URL and connects to its IPC
// socket. The stream starts paused so the controller owns the first play.
func OpenMPV(mediaURL string, log zerolog.Logger) (Media, error) {
	socket := filepath.Join(os.TempDir(), "roadwatch-mpv-"+uuid.New().String()+".sock")

	cmd := exec.Command("mpv",
		"--input-ipc-server="+socket,
		"--pause",
		"--keep-open=yes",
		"--force-window=yes",
		"--no-terminal",
		mediaURL,
	)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("launch mpv: %w", err)
	}

	conn, err := dialSocket(socket, mpvConnectTimeout)
	if err != nil {
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("connect to mpv: %w", err)
	}

	h := &mpvHandle{
		cmd:    cmd,
		conn:   conn,
		rd:     bufio.NewReader(conn),
		socket: socket,
		log:    log,
	}
	go h.reap()
	return h, nil
}

// dialSocket retries until mpv has created its IPC socket.
func dialSocket(path string, timeout time.Duration) (net.Conn, error) {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.Dial("unix", path)
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// reap waits for the mpv process so it never lingers as a zombie.
func (h *mpvHandle) reap() {
	if err := h.cmd.Wait(); err != nil {
		h.log.Debug().Err(err).Msg("mpv exited")
	}
}

// roundTrip sends one command and reads replies until the matching
// request_id arrives, skipping interleaved event notifications.
func (h *mpvHandle) roundTrip(command ...any) (json.RawMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.reqID++
	req := mpvRequest{Command: command, RequestID: h.reqID}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode mpv command: %w", err)
	}
	if _, err := h.conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write mpv command: %w", err)
	}

	for {
		line, err := h.rd.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read mpv reply: %w", err)
		}
		var reply mpvReply
		if err := json.Unmarshal(line, &reply); err != nil {
			continue
		}
		if reply.Event != "" || reply.RequestID != h.reqID {
			continue
		}
		if reply.Error != "success" {
			return nil, fmt.Errorf("mpv: %s", reply.Error)
		}
		return reply.Data, nil
	}
}

func (h *mpvHandle) setProperty(name string, value any) error {
	_, err := h.roundTrip("set_property", name, value)
	return err
}

func (h *mpvHandle) getFloat(name string) (float64, error) {
	data, err := h.roundTrip("get_property", name)
	if err != nil {
		return 0, err
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("decode mpv property %s: %w", name, err)
	}
	return v, nil
}

func (h *mpvHandle) Play() error  { return h.setProperty("pause", false) }
func (h *mpvHandle) Pause() error { return h.setProperty("pause", true) }

func (h *mpvHandle) SetMute(muted bool) error { return h.setProperty("mute", muted) }

func (h *mpvHandle) Seek(offset time.Duration) error {
	return h.setProperty("time-pos", offset.Seconds())
}

func (h *mpvHandle) SetFullscreen(enabled bool) error {
	return h.setProperty("fullscreen", enabled)
}

func (h *mpvHandle) Position() (time.Duration, error) {
	secs, err := h.getFloat("time-pos")
	if err != nil {
		return 0, err
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func (h *mpvHandle) Duration() (time.Duration, error) {
	secs, err := h.getFloat("duration")
	if err != nil {
		return 0, err
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// Close quits mpv and removes the IPC socket.
func (h *mpvHandle) Close() error {
	_, err := h.roundTrip("quit")
	_ = h.conn.Close()
	if err != nil {
		// mpv may already be gone; make sure.
		_ = h.cmd.Process.Kill()
	}
	_ = os.Remove(h.socket)
	return nil
}
