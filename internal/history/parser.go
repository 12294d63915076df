package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/avast/retry-go"
	"github.com/goccy/go-json"
)

// ErrNotArray is returned when a file's first JSON token is not '['.
var ErrNotArray = errors.New("file does not contain a JSON array")

// Stream yields the elements of a JSON array one at a time without reading the
// whole file. Use it like bufio.Scanner:
//
//	s, err := history.OpenStream(path)
//	if err != nil { ... }
//	defer s.Close()
//	for s.Next() {
//		ev := history.Normalize(s.Record())
//	}
//	if err := s.Err(); err != nil { ... }
type Stream struct {
	path    string
	f       *os.File
	dec     *json.Decoder
	rec     Record
	err     error
	done    bool
	records int
	skipped int
}

// OpenStream opens path and consumes the opening '[' of its array.
func OpenStream(path string) (*Stream, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	c, err := firstByte(br)
	if err == io.EOF {
		f.Close()
		return nil, fmt.Errorf("%s: empty file: %w", path, ErrNotArray)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if c != '[' {
		f.Close()
		return nil, fmt.Errorf("%s: starts with %q: %w", path, c, ErrNotArray)
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()
	if _, err := dec.Token(); err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: opening array: %w", path, err)
	}

	return &Stream{path: path, f: f, dec: dec}, nil
}

// firstByte peeks past leading whitespace and a UTF-8 byte order mark.
func firstByte(br *bufio.Reader) (byte, error) {
	if bom, err := br.Peek(3); err == nil && string(bom) == "\xef\xbb\xbf" {
		br.Discard(3)
	}
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			br.Discard(1)
		default:
			return b[0], nil
		}
	}
}

// Next advances to the next object in the array. Elements that are not
// objects are skipped and counted. It returns false at the end of the array
// or on the first decode error.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}

	for s.dec.More() {
		var v any
		if err := s.dec.Decode(&v); err != nil {
			s.fail(fmt.Errorf("%s: element %d: %w", s.path, s.records+s.skipped, err))
			return false
		}
		obj, ok := v.(map[string]any)
		if !ok {
			s.skipped++
			continue
		}
		s.rec = Record(obj)
		s.records++
		return true
	}

	// Closing ']'. A truncated file fails here.
	if _, err := s.dec.Token(); err != nil {
		s.fail(fmt.Errorf("%s: closing array: %w", s.path, err))
		return false
	}
	s.done = true
	s.rec = nil
	return false
}

func (s *Stream) fail(err error) {
	s.err = err
	s.done = true
	s.rec = nil
}

// Record returns the object read by the last successful Next.
func (s *Stream) Record() Record {
	return s.rec
}

// Err returns the first decode error, if any.
func (s *Stream) Err() error {
	return s.err
}

// Records is the number of objects yielded so far.
func (s *Stream) Records() int {
	return s.records
}

// Skipped is the number of non-object elements passed over.
func (s *Stream) Skipped() int {
	return s.skipped
}

func (s *Stream) Close() error {
	return s.f.Close()
}

// openFile retries opens that fail for transient reasons, such as running out
// of file descriptors while another pass is walking a large export.
func openFile(path string) (*os.File, error) {
	var f *os.File
	err := retry.Do(
		func() error {
			var err error
			f, err = os.Open(path)
			return err
		},
		retry.Attempts(3),
		retry.Delay(20*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
	)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

func isTransient(err error) bool {
	return errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE) ||
		errors.Is(err, syscall.EINTR) ||
		errors.Is(err, syscall.EAGAIN)
}
