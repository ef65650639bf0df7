// Package engine owns the external classifier process. It spawns the JVM
// exactly once, feeds text into its stdin and delivers stdout back line by
// line to subscribers. At most one engine process exists at a time.
package engine

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"nertag/internal/config"
)

// entryClass is the engine's fixed main class.
const entryClass = "edu.stanford.nlp.ie.crf.CRFClassifier"

// stopGrace is how long Stop waits after SIGTERM before killing.
const stopGrace = 2 * time.Second

// startGrace is how long Start watches a fresh process for an early exit
// before declaring the spawn successful.
const startGrace = 500 * time.Millisecond

// Command assembles the engine launch command from config: heap flag,
// classpath (jar plus lib directory, platform path separator), entry class,
// classifier to load, and the flag that keeps it reading stdin.
func Command(cfg config.Config) (string, []string) {
	cp := cfg.JarPath() + string(os.PathListSeparator) + filepath.Join(cfg.LibDir(), "*")
	args := []string{
		fmt.Sprintf("-mx%dm", cfg.HeapSizeMB),
		"-cp", cp,
		entryClass,
		"-loadClassifier", cfg.ClassifierPath(),
		"-readStdin",
	}
	return cfg.JavaBin, args
}

// Engine manages one external classifier subprocess.
type Engine struct {
	bin  string
	args []string
	log  zerolog.Logger

	mu       sync.Mutex
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	handlers []func(line string)
	started  bool
	stopped  bool

	stderr bytes.Buffer
	waitCh chan error
}

// New returns an unstarted engine for the given command.
func New(bin string, args []string, log zerolog.Logger) *Engine {
	return &Engine{bin: bin, args: args, log: log}
}

// NewFromConfig returns an unstarted engine with the standard java command.
func NewFromConfig(cfg config.Config, log zerolog.Logger) *Engine {
	bin, args := Command(cfg)
	return New(bin, args, log)
}

// Start spawns the subprocess and begins delivering stdout lines to
// subscribers. Spawn failures surface immediately; they are fatal and never
// retried. Start may be called once.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return fmt.Errorf("engine already started")
	}
	cmd := exec.Command(e.bin, e.args...)
	cmd.Stderr = &e.stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("engine stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("engine stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn engine: %w", err)
	}
	e.cmd = cmd
	e.stdin = stdin
	e.started = true
	e.waitCh = make(chan error, 1)
	e.log.Info().Int("pid", cmd.Process.Pid).Str("bin", e.bin).Msg("engine started")

	go e.readLines(stdout)
	go func() {
		werr := cmd.Wait()
		if werr != nil {
			tail := e.stderrTail()
			e.log.Error().Err(werr).Str("stderr", tail).Msg("engine exited")
		} else {
			e.log.Info().Msg("engine exited cleanly")
		}
		e.waitCh <- werr
	}()

	// A process that dies right after spawn (wrong JVM, corrupt jar) is a
	// fatal startup error, not a running engine.
	select {
	case werr := <-e.waitCh:
		e.stopped = true
		if werr != nil {
			return fmt.Errorf("engine exited early: %w; stderr tail: %s", werr, e.stderrTail())
		}
		return fmt.Errorf("engine exited before ready; stderr tail: %s", e.stderrTail())
	case <-time.After(startGrace):
	}
	return nil
}

// readLines splits stdout into complete lines and fans each one out to the
// subscribed handlers. Blank lines carry no tokens and are dropped here so
// downstream accounting only ever sees sentence lines.
func (e *Engine) readLines(r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		e.mu.Lock()
		handlers := make([]func(string), len(e.handlers))
		copy(handlers, e.handlers)
		e.mu.Unlock()
		for _, h := range handlers {
			h(line)
		}
	}
	if err := sc.Err(); err != nil {
		e.log.Warn().Err(err).Msg("engine stdout read ended")
	}
}

// Subscribe registers a handler invoked once per complete output line, from
// the engine's reader goroutine.
func (e *Engine) Subscribe(h func(line string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, h)
}

// Write appends text to the engine's stdin.
func (e *Engine) Write(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return fmt.Errorf("engine not started")
	}
	if e.stopped {
		return fmt.Errorf("engine stopped")
	}
	if _, err := io.WriteString(e.stdin, text); err != nil {
		return fmt.Errorf("write to engine: %w", err)
	}
	return nil
}

// Pid returns the subprocess id, or 0 if the engine is not running.
func (e *Engine) Pid() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil || e.cmd.Process == nil {
		return 0
	}
	return e.cmd.Process.Pid
}

// Stop terminates the subprocess: stdin close and SIGTERM first, kill after a
// grace period. Idempotent; safe to call on a never-started engine.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return nil
	}
	e.stopped = true
	cmd := e.cmd
	stdin := e.stdin
	waitCh := e.waitCh
	e.mu.Unlock()

	_ = stdin.Close()
	_ = cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-waitCh:
	case <-time.After(stopGrace):
		_ = cmd.Process.Kill()
		<-waitCh
	}
	return nil
}

func (e *Engine) stderrTail() string {
	s := e.stderr.String()
	if len(s) > 4096 {
		s = s[len(s)-4096:]
	}
	return s
}
