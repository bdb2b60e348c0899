// ABOUTME: Terminal credential collector implementing the gateway's prompt contract
// ABOUTME: Reads username/password, verifies via the probe, loops until valid or cancelled

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/2389/fold-console/internal/authgw"
)

// Prompt is the interactive credential collector. It satisfies
// authgw.Collector: the gateway's challenge coordinator invokes it at
// most once per challenge episode, however many requests are waiting.
type Prompt struct {
	probe  *authgw.Probe
	creds  *authgw.CredentialStore
	logger *slog.Logger

	in  *bufio.Reader
	out io.Writer

	// readPassword is swappable for tests; the default reads from the
	// terminal with echo disabled.
	readPassword func() (string, error)
}

// NewPrompt creates a prompt reading from stdin and writing to stderr,
// so piped command output stays clean.
func NewPrompt(probe *authgw.Probe, creds *authgw.CredentialStore, logger *slog.Logger) *Prompt {
	p := &Prompt{
		probe:  probe,
		creds:  creds,
		logger: logger,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stderr,
	}
	p.readPassword = p.terminalPassword
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.With("component", "prompt")
	return p
}

// ShowPrompt displays the credential prompt, pre-filled with the
// remembered identity. It returns the verified credentials on success,
// ok=false on explicit cancellation (empty submit or EOF), and an error
// only on unexpected failure.
func (p *Prompt) ShowPrompt(ctx context.Context) (authgw.Credentials, bool, error) {
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	yellow.Fprintln(p.out, "Authentication required.")

	remembered := p.creds.RememberedIdentity()

	for {
		username, ok, err := p.readUsername(remembered)
		if err != nil {
			return authgw.Credentials{}, false, err
		}
		if !ok {
			return authgw.Credentials{}, false, nil
		}

		fmt.Fprint(p.out, "Password: ")
		password, err := p.readPassword()
		fmt.Fprintln(p.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return authgw.Credentials{}, false, nil
			}
			return authgw.Credentials{}, false, fmt.Errorf("reading password: %w", err)
		}

		header, err := authgw.BasicHeader(username, password)
		if err != nil {
			p.logger.Warn("could not encode credentials", "error", err)
			red.Fprintln(p.out, "Those credentials cannot be encoded; please try again.")
			continue
		}

		verified, status, err := p.probe.Verify(ctx, header)
		if verified {
			return authgw.Credentials{Username: username, Header: header}, true, nil
		}
		if status == 401 {
			red.Fprintln(p.out, "Invalid username or password.")
			continue
		}
		if err != nil {
			p.logger.Warn("verification probe failed", "error", err)
		}
		red.Fprintln(p.out, "Could not reach the server; check your connection and try again.")
	}
}

// readUsername reads a username line, offering the remembered identity
// as the default. Returns ok=false on cancellation.
func (p *Prompt) readUsername(remembered string) (string, bool, error) {
	if remembered != "" {
		fmt.Fprintf(p.out, "Username [%s]: ", remembered)
	} else {
		fmt.Fprint(p.out, "Username: ")
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
			return "", false, nil
		}
		if !errors.Is(err, io.EOF) {
			return "", false, fmt.Errorf("reading username: %w", err)
		}
	}

	username := strings.TrimSpace(line)
	if username == "" {
		if remembered == "" {
			// Empty submit with nothing remembered is a cancel
			return "", false, nil
		}
		username = remembered
	}
	return username, true, nil
}

// terminalPassword reads a password from the controlling terminal with
// echo disabled, falling back to a plain line read when stdin is not a
// terminal (tests, pipes).
func (p *Prompt) terminalPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if line == "" && errors.Is(err, io.EOF) {
		return "", io.EOF
	}
	return strings.TrimRight(line, "\r\n"), nil
}
