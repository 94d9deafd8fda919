// Package player drives an external mpv process over its JSON IPC socket.
// mpv decodes and renders asynchronously in its own window; this package
// treats it as a black box that accepts commands and reports discrete
// state changes (position, duration, pause, end of file) as events.
package player

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// Player errors.
var (
	ErrStartFailed  = errors.New("could not start mpv")
	ErrNoConnection = errors.New("mpv ipc socket not available")
	ErrCommand      = errors.New("mpv rejected command")
)

const (
	dialTimeout    = 5 * time.Second
	dialInterval   = 100 * time.Millisecond
	commandTimeout = 3 * time.Second
)

// Options configures the mpv process.
type Options struct {
	Binary    string   // mpv executable, resolved via PATH if relative
	SocketDir string   // directory for the IPC socket
	ExtraArgs []string // appended to the command line
}

// Player is a handle on a running mpv instance.
type Player struct {
	cmd    *exec.Cmd
	conn   net.Conn
	socket string
	events chan Event

	mu      sync.Mutex
	nextID  int
	pending map[int]chan response

	closeOnce sync.Once
	done      chan struct{}
}

// Start launches mpv idle with an IPC socket and connects to it.
// The returned Player must be Closed to shut the process down.
func Start(opts Options) (*Player, error) {
	binary := opts.Binary
	if binary == "" {
		binary = "mpv"
	}
	socketDir := opts.SocketDir
	if socketDir == "" {
		socketDir = os.TempDir()
	}
	socket := filepath.Join(socketDir, fmt.Sprintf("vidsort-mpv-%d.sock", os.Getpid()))
	_ = os.Remove(socket) // stale socket from a crashed run

	args := []string{
		"--idle=yes",
		"--input-ipc-server=" + socket,
		"--force-window=yes",
		"--keep-open=yes", // pause at end instead of unloading
		"--no-terminal",
		"--input-default-bindings=no", // all control goes through the TUI
	}
	args = append(args, opts.ExtraArgs...)

	cmd := exec.Command(binary, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStartFailed, binary, err)
	}

	conn, err := dialWithRetry(socket, dialTimeout)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, fmt.Errorf("%w: %v", ErrNoConnection, err)
	}

	p := &Player{
		cmd:     cmd,
		conn:    conn,
		socket:  socket,
		events:  make(chan Event, 64),
		pending: make(map[int]chan response),
		done:    make(chan struct{}),
	}

	go p.readLoop()

	// Register property observers; without these mpv stays silent.
	if err := p.observe(observePosition, "time-pos"); err != nil {
		p.Close()
		return nil, err
	}
	if err := p.observe(observeDuration, "duration"); err != nil {
		p.Close()
		return nil, err
	}
	if err := p.observe(observePause, "pause"); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// Events returns the stream of playback notifications. The channel is
// closed when the connection to mpv goes away.
func (p *Player) Events() <-chan Event {
	return p.events
}

// Load starts playback of path, replacing whatever was loaded before.
func (p *Player) Load(path string) error {
	return p.command("loadfile", path, "replace")
}

// Unload stops playback and drops the file, releasing mpv's handle on it.
// The command is acknowledged before this returns, so a following move or
// rename of the file will not race the player.
func (p *Player) Unload() error {
	return p.command("stop")
}

// SetPause pauses or resumes playback.
func (p *Player) SetPause(paused bool) error {
	return p.command("set_property", "pause", paused)
}

// SetSpeed changes the playback rate.
func (p *Player) SetSpeed(rate float64) error {
	return p.command("set_property", "speed", rate)
}

// Seek jumps to an absolute position in seconds.
func (p *Player) Seek(seconds float64) error {
	return p.command("seek", seconds, "absolute")
}

// Close quits mpv and tears down the connection.
func (p *Player) Close() error {
	var err error
	p.closeOnce.Do(func() {
		_ = p.command("quit")
		close(p.done)
		_ = p.conn.Close()
		err = p.cmd.Wait()
		_ = os.Remove(p.socket)
	})
	return err
}

func (p *Player) observe(id int, property string) error {
	return p.command("observe_property", id, property)
}

// command sends one request and waits for mpv's acknowledgement.
func (p *Player) command(cmd ...any) error {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	ch := make(chan response, 1)
	p.pending[id] = ch
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.pending, id)
		p.mu.Unlock()
	}()

	line, err := encodeRequest(id, cmd...)
	if err != nil {
		return err
	}
	if _, err := p.conn.Write(line); err != nil {
		return fmt.Errorf("%w: %v", ErrNoConnection, err)
	}

	select {
	case resp := <-ch:
		if resp.Error != "success" {
			return fmt.Errorf("%w: %v: %s", ErrCommand, cmd[0], resp.Error)
		}
		return nil
	case <-p.done:
		return ErrNoConnection
	case <-time.After(commandTimeout):
		return fmt.Errorf("%w: %v: timeout", ErrCommand, cmd[0])
	}
}

// readLoop demultiplexes socket lines into request replies and events.
func (p *Player) readLoop() {
	defer close(p.events)

	scanner := bufio.NewScanner(p.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		msg, err := decodeMessage(scanner.Bytes())
		if err != nil {
			continue
		}

		if msg.Event != "" {
			if ev := eventFromMessage(msg); ev != nil {
				select {
				case p.events <- ev:
				default:
					// Position updates arrive often; dropping one
					// under backpressure is harmless.
				}
			}
			continue
		}

		p.mu.Lock()
		ch, ok := p.pending[msg.RequestID]
		p.mu.Unlock()
		if ok {
			ch <- response{Error: msg.Error, RequestID: msg.RequestID, Data: msg.Data}
		}
	}
}

func dialWithRetry(socket string, timeout time.Duration) (net.Conn, error) {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.Dial("unix", socket)
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(dialInterval)
	}
}
