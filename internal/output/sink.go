package output

import (
	"bufio"
	"os"
)

// sink buffers writes to a results destination. Close flushes the buffer
// and closes the file, so a failed final write is reported there.
type sink struct {
	*bufio.Writer
	f *os.File // nil for stdout
}

// openSink creates path, or wraps stdout when path is empty.
func openSink(path string) (*sink, error) {
	if path == "" {
		return &sink{Writer: bufio.NewWriter(os.Stdout)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &sink{Writer: bufio.NewWriter(f), f: f}, nil
}

func (s *sink) Close() error {
	err := s.Flush()
	if s.f != nil {
		if cerr := s.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
