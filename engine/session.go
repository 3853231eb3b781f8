package engine

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

const stampLayout = "20060102150405"

// Participant is what the operator enters in the setup dialog.
type Participant struct {
	SubjectID string
	Note      string
}

// SessionInfo describes one run of the experiment. It is written next to
// the diagnostic log so a data file can be traced back to its schedule.
type SessionInfo struct {
	ID        string    `yaml:"id"`
	Subject   string    `yaml:"subject"`
	Note      string    `yaml:"note,omitempty"`
	Catalog   string    `yaml:"catalog"`
	Seed      uint64    `yaml:"seed"`
	StartedAt time.Time `yaml:"started_at"`
	Keys      []string  `yaml:"keys"`
	Order     []int     `yaml:"trial_order"`
	Positions []string  `yaml:"positions"`
}

func NewSessionInfo(p Participant, catalog string, seed uint64, started time.Time) SessionInfo {
	return SessionInfo{
		ID:        uuid.NewString(),
		Subject:   p.SubjectID,
		Note:      p.Note,
		Catalog:   catalog,
		Seed:      seed,
		StartedAt: started,
	}
}

// FileStem is the shared base name of the session's output files:
// <subject>_<YYYYMMDDhhmmss>.
func (s SessionInfo) FileStem() string {
	return s.Subject + "_" + s.StartedAt.Format(stampLayout)
}

// WithSchedule returns a copy carrying the schedule and response keys.
func (s SessionInfo) WithSchedule(sched Schedule, keys Keys) SessionInfo {
	s.Order = append([]int(nil), sched.Order...)
	s.Positions = make([]string, len(sched.Positions))
	for i, p := range sched.Positions {
		s.Positions[i] = p.String()
	}
	s.Keys = []string{keys.Left, keys.Right}
	return s
}

func WriteSessionInfo(path string, info SessionInfo) error {
	out, err := yaml.Marshal(info)
	if err != nil {
		return eris.Wrap(err, "session: marshal info")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return eris.Wrapf(err, "session: write %s", path)
	}
	return nil
}

func ReadSessionInfo(path string) (SessionInfo, error) {
	var info SessionInfo
	data, err := os.ReadFile(path)
	if err != nil {
		return info, eris.Wrapf(err, "session: read %s", path)
	}
	if err := yaml.Unmarshal(data, &info); err != nil {
		return info, eris.Wrapf(err, "session: parse %s", path)
	}
	return info, nil
}

// OutputPaths lays out the files of a session under dir.
type OutputPaths struct {
	Results string
	Log     string
	Info    string
}

// PrepareOutput creates dir/csv and dir/log. Existing folders are fine.
func PrepareOutput(dir string, info SessionInfo) (OutputPaths, error) {
	csvDir := filepath.Join(dir, "csv")
	logDir := filepath.Join(dir, "log")
	for _, d := range []string{csvDir, logDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return OutputPaths{}, eris.Wrapf(err, "output: create %s", d)
		}
	}
	stem := info.FileStem()
	return OutputPaths{
		Results: filepath.Join(csvDir, stem+".csv"),
		Log:     filepath.Join(logDir, stem+".log"),
		Info:    filepath.Join(logDir, stem+".yaml"),
	}, nil
}
