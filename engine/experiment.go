package engine

import (
	"bytes"
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding"
)

// ResultLog appends session records to a CSV file. Every row is written
// and synced before the call returns.
type ResultLog struct {
	f   *os.File
	enc *encoding.Encoder
}

func CreateResultLog(path, encodingName string) (*ResultLog, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, eris.Wrapf(err, "results: open %s", path)
	}
	return &ResultLog{f: f, enc: encoding.ReplaceUnsupported(enc.NewEncoder())}, nil
}

func (l *ResultLog) Path() string {
	return l.f.Name()
}

func (l *ResultLog) Header() error {
	return l.write(RecordHeader)
}

func (l *ResultLog) Append(rec Record) error {
	return l.write(rec.Fields())
}

func (l *ResultLog) write(row []string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(row); err != nil {
		return eris.Wrap(err, "results: format row")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "results: format row")
	}

	out, err := l.enc.Bytes(buf.Bytes())
	if err != nil {
		return eris.Wrap(err, "results: encode row")
	}
	if _, err := l.f.Write(out); err != nil {
		return eris.Wrap(err, "results: write row")
	}
	return eris.Wrap(l.f.Sync(), "results: sync")
}

func (l *ResultLog) Close() error {
	return l.f.Close()
}

// MultiSink fans every call out to each sink in order and stops at the
// first error.
type MultiSink []Sink

func (m MultiSink) Header() error {
	for _, s := range m {
		if err := s.Header(); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) Append(rec Record) error {
	for _, s := range m {
		if err := s.Append(rec); err != nil {
			return err
		}
	}
	return nil
}
