package engine

import (
	"time"

	"github.com/rotisserie/eris"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

// Trigger marks stimulus onset and response on external recording
// equipment.
type Trigger interface {
	Onset()
	Response()
}

type NopTrigger struct{}

func (NopTrigger) Onset()    {}
func (NopTrigger) Response() {}

const (
	onsetLine    = "1"
	responseLine = "2"
	pulseWidth   = 5 * time.Millisecond
)

// DLPIO8G drives the digital lines of a DLP-IO8-G USB board. Line 1 is
// held high while the stimulus is on screen, line 2 pulses on response.
type DLPIO8G struct {
	port serial.Port
	log  *zap.Logger
}

func NewDLPIO8G(device string, baudrate int, log *zap.Logger) (*DLPIO8G, error) {
	mode := &serial.Mode{
		BaudRate: baudrate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, eris.Wrapf(err, "dlp: open %s", device)
	}

	d := &DLPIO8G{port: port, log: log}
	if !d.Ping() {
		port.Close()
		return nil, eris.Errorf("dlp: %s did not respond to ping", device)
	}

	// binary mode
	if _, err := port.Write([]byte{0x5C}); err != nil {
		port.Close()
		return nil, eris.Wrap(err, "dlp: select binary mode")
	}

	return d, nil
}

func (d *DLPIO8G) Close() error {
	if d.port == nil {
		return nil
	}
	return d.port.Close()
}

func (d *DLPIO8G) Ping() bool {
	if _, err := d.port.Write([]byte{0x27}); err != nil {
		return false
	}
	buf := make([]byte, 1)
	n, err := d.port.Read(buf)
	return err == nil && n == 1 && buf[0] == 'Q'
}

func (d *DLPIO8G) Set(lines string) {
	if _, err := d.port.Write([]byte(lines)); err != nil {
		d.log.Warn("dlp: set lines", zap.String("lines", lines), zap.Error(err))
	}
}

func (d *DLPIO8G) Unset(lines string) {
	if _, err := d.port.Write(unsetCommand(lines)); err != nil {
		d.log.Warn("dlp: unset lines", zap.String("lines", lines), zap.Error(err))
	}
}

func (d *DLPIO8G) Onset() {
	d.Set(onsetLine)
}

func (d *DLPIO8G) Response() {
	d.Unset(onsetLine)
	d.Set(responseLine)
	time.Sleep(pulseWidth)
	d.Unset(responseLine)
}

// unsetCommand maps line numbers to the board's clear commands.
func unsetCommand(lines string) []byte {
	cmd := []byte(lines)
	for i, c := range cmd {
		if c >= '1' && c <= '8' {
			cmd[i] = "QWERTYUI"[c-'1']
		}
	}
	return cmd
}
