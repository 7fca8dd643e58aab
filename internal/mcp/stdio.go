// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package mcp

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// maxMessageSize caps a single newline-delimited message (10 MB)
const maxMessageSize = 10 * 1024 * 1024

// ServeStdio serves newline-delimited JSON-RPC messages from r, writing
// responses to w.
//
// Returns nil when r reaches EOF or the context is canceled. Each message
// occupies exactly one line; responses are written one per line in request
// order.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxMessageSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.Handle(ctx, line)
		if resp == nil {
			continue
		}
		if _, err := w.Write(append(resp, '\n')); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read message: %w", err)
	}
	return nil
}
