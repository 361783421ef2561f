package internal

import (
	"bytes"
	"errors"
	"io"
	"strconv"
)

var headerEnd = []byte("\r\n\r\n")

// readRequest reads one request from r: everything up to the blank line
// after the headers plus Content-Length body bytes, at most limit bytes.
// It returns what it has read together with any read error; a truncated
// request is left for the parser to reject.
func readRequest(r io.Reader, limit int) ([]byte, error) {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	want := -1

	for len(buf) < limit {
		if want < 0 {
			if i := bytes.Index(buf, headerEnd); i >= 0 {
				want = i + len(headerEnd) + contentLength(buf[:i])
			}
		}
		if want >= 0 && len(buf) >= want {
			return buf[:want], nil
		}

		n, err := r.Read(chunk[:min(len(chunk), limit-len(buf))])
		buf = append(buf, chunk[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			return buf, err
		}
	}
	return buf, nil
}

// contentLength scans raw header lines for Content-Length. Absent or
// invalid values count as zero.
func contentLength(head []byte) int {
	for line := range bytes.SplitSeq(head, []byte("\r\n")) {
		name, value, ok := bytes.Cut(line, []byte(":"))
		if !ok || !bytes.EqualFold(bytes.TrimSpace(name), []byte("Content-Length")) {
			continue
		}
		n, err := strconv.Atoi(string(bytes.TrimSpace(value)))
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	return 0
}
