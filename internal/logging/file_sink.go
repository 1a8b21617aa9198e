package logging

import "os"

// FileSink appends formatted records to a file on disk. Callers own the
// *os.File's lifetime (open/close); FileSink only writes to it.
type FileSink struct {
	File *os.File
}

// NewFileSink opens path for appending (creating it if necessary) and
// returns a sink that writes to it.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileSink{File: f}, nil
}

func (s *FileSink) Emit(r Record) {
	WriterSink{W: s.File}.Emit(r)
}

func (s *FileSink) Close() error {
	return s.File.Close()
}
