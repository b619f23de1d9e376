package mcpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// RunStdio serves on stdin/stdout until EOF or ctx is cancelled.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Infow("starting MCP server (stdio)", "name", s.name, "version", s.version, "tools", len(s.Tools()))
	return s.ServeStdio(ctx, os.Stdin, os.Stdout)
}

// ServeStdio reads newline-delimited JSON-RPC messages from r and writes one
// response line per request to w. Notifications produce no output. Each
// message is handled in its own goroutine, so responses may be written out of
// order; ServeStdio returns once every handler has finished.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan []byte)
	readErr := make(chan error, 1)

	// The reader goroutine may stay blocked in Read after cancellation;
	// it exits with the process.
	go func() {
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadBytes('\n')
			if len(bytes.TrimSpace(line)) > 0 {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				readErr <- err
				return
			}
		}
	}()

	var (
		wg       sync.WaitGroup
		writeMu  sync.Mutex
		writeErr error
		encoder  = json.NewEncoder(w)
	)
	defer wg.Wait()

	write := func(resp *JSONRPCResponse) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if writeErr != nil {
			return
		}
		if err := encoder.Encode(resp); err != nil {
			writeErr = fmt.Errorf("encode response: %w", err)
			cancel()
		}
	}
	failed := func() error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return writeErr
	}

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return failed()
		case err := <-readErr:
			wg.Wait()
			if err != nil {
				return fmt.Errorf("read request: %w", err)
			}
			return failed()
		case line := <-lines:
			wg.Add(1)
			go func() {
				defer wg.Done()
				if resp := s.HandleMessage(ctx, line); resp != nil {
					write(resp)
				}
			}()
		}
	}
}
