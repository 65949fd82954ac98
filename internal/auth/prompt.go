// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ConsolePrompter prints the authorization URL and reads the code from In.
type ConsolePrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p ConsolePrompter) AuthCode(ctx context.Context, authURL string) (string, error) {
	_, _ = fmt.Fprintf(p.Out, "Open this URL in a browser and authorize access:\n\n  %s\n\nAuthorization code: ", authURL)

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(p.In).ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		code := strings.TrimSpace(r.line)
		if code == "" {
			if r.err != nil && !errors.Is(r.err, io.EOF) {
				return "", r.err
			}
			return "", errors.New("empty authorization code")
		}
		return code, nil
	}
}
