package transport

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bft-labs/mqship/internal/domain"
)

// Wire commands.
const (
	cmdConnect   = "CONNECT"
	cmdConnected = "CONNECTED"
	cmdSend      = "SEND"
	cmdError     = "ERROR"
)

// writeFrame writes one wire frame: command line, header lines, blank line,
// body, NUL.
func writeFrame(w io.Writer, command string, headers domain.Headers, body []byte) error {
	var buf bytes.Buffer
	buf.WriteString(command)
	buf.WriteByte('\n')
	for _, h := range headers {
		buf.WriteString(h.Name)
		buf.WriteByte(':')
		buf.WriteString(h.Value)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(body)
	buf.WriteByte(0)

	_, err := w.Write(buf.Bytes())
	return err
}

// readFrame reads one wire frame. Bodies are read to the NUL terminator;
// this adapter only ever reads small control frames (CONNECTED, ERROR).
func readFrame(r *bufio.Reader) (command string, headers domain.Headers, body []byte, err error) {
	command, err = readLine(r)
	if err != nil {
		return "", nil, nil, err
	}

	for {
		line, lerr := readLine(r)
		if lerr != nil {
			return "", nil, nil, lerr
		}
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return "", nil, nil, fmt.Errorf("malformed header line %q", line)
		}
		headers = headers.Set(name, value)
	}

	body, err = r.ReadBytes(0)
	if err != nil {
		return "", nil, nil, err
	}
	body = body[:len(body)-1]
	return command, headers, body, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
