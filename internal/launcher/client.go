package launcher

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"

	"glint/internal/daemon"
	"glint/internal/eventbus"
)

// requestBuffer bounds the outbound queue. The daemon consumes requests far
// faster than a human types, so a small buffer is enough.
const requestBuffer = 8

// Service owns the daemon subprocess and bridges its stdio to the event bus.
// Responses are published in arrival order; the bus dispatches them one at a
// time so the controller never sees reordered responses.
type Service struct {
	bus      eventbus.EventBus
	command  string
	args     []string
	requests chan daemon.Request
}

// NewService creates a daemon service. Start must be called before any
// request can be sent.
func NewService(bus eventbus.EventBus, command string, args []string) *Service {
	return &Service{
		bus:      bus,
		command:  command,
		args:     args,
		requests: make(chan daemon.Request, requestBuffer),
	}
}

// Start launches the daemon subprocess and begins pumping requests and
// responses. It publishes DaemonReadyEvent once the process is up; the
// carried channel is the only way to reach the daemon.
func (s *Service) Start(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, s.command, s.args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("daemon stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("daemon stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start daemon %q: %w", s.command, err)
	}
	log.Printf("Daemon %s started (pid %d)", s.command, cmd.Process.Pid)

	go s.writeLoop(ctx, stdin)
	go s.readLoop(stdout)
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("Daemon exited: %v", err)
		}
	}()

	s.bus.Publish(eventbus.DaemonReadyEvent{Requests: s.requests})
	return nil
}

// writeLoop drains the request channel into the daemon's stdin. A write
// failure means the daemon is gone, which ends the session.
func (s *Service) writeLoop(ctx context.Context, stdin io.WriteCloser) {
	defer stdin.Close()

	for {
		select {
		case req := <-s.requests:
			data, err := daemon.EncodeRequest(req)
			if err != nil {
				s.bus.Publish(eventbus.ErrorEvent{Message: "encode request", Err: err})
				continue
			}
			log.Printf("-> daemon: %s", data)
			if _, err := stdin.Write(append(data, '\n')); err != nil {
				s.bus.Publish(eventbus.ErrorEvent{Message: "daemon request channel unavailable", Err: err})
				s.bus.Publish(eventbus.DaemonClosedEvent{Err: err})
				return
			}
		case <-ctx.Done():
			// Best effort: ask the daemon to exit before the pipe closes.
			if data, err := daemon.EncodeRequest(daemon.Exit{}); err == nil {
				_, _ = stdin.Write(append(data, '\n'))
			}
			return
		}
	}
}

// readLoop decodes responses line by line. Malformed lines are logged and
// skipped so one misbehaving plugin cannot take the frontend down.
func (s *Service) readLoop(stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp, err := daemon.DecodeResponse(line)
		if err != nil {
			log.Printf("Skipping malformed daemon response: %v", err)
			continue
		}
		s.bus.Publish(eventbus.DaemonResponseEvent{Response: resp})
	}

	s.bus.Publish(eventbus.DaemonClosedEvent{Err: scanner.Err()})
}
