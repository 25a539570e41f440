package logging

import (
	"bufio"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Analytics is an append only JSON lines log.
type Analytics struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer

	log zerolog.Logger
}

// OpenAnalytics opens or creates filename for appending.
func OpenAnalytics(filename string) (*Analytics, error) {
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "opening analytics log")
	}

	a := &Analytics{
		file: file,
		buf:  bufio.NewWriter(file),
	}
	a.log = zerolog.New(a).With().Timestamp().Logger()

	return a, nil
}

// Logger returns the analytics logger.
func (a *Analytics) Logger() zerolog.Logger {
	return a.log
}

func (a *Analytics) Write(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.buf == nil {
		return 0, os.ErrClosed
	}
	return a.buf.Write(p)
}

// Close flushes buffered events and closes the file.
func (a *Analytics) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.buf == nil {
		return nil
	}

	err := a.buf.Flush()
	if cerr := a.file.Close(); err == nil {
		err = cerr
	}
	a.buf = nil

	return errors.Wrap(err, "closing analytics log")
}
