package autostart

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"howett.net/plist"
)

// LaunchAgent is a per-user launchd plist in dir.
type LaunchAgent struct {
	app App
	dir string
}

type launchdJob struct {
	Label            string   `plist:"Label"`
	ProgramArguments []string `plist:"ProgramArguments"`
	RunAtLoad        bool     `plist:"RunAtLoad"`
	ProcessType      string   `plist:"ProcessType,omitempty"`
}

// NewLaunchAgent manages dir/<app.Label>.plist.
func NewLaunchAgent(app App, dir string) *LaunchAgent {
	return &LaunchAgent{app: app, dir: dir}
}

// Path is the plist location.
func (l *LaunchAgent) Path() string {
	return filepath.Join(l.dir, l.app.Label+".plist")
}

func (l *LaunchAgent) IsEnabled() (bool, error) {
	data, err := os.ReadFile(l.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read launch agent: %w", err)
	}
	var job launchdJob
	if _, err := plist.Unmarshal(data, &job); err != nil {
		return false, fmt.Errorf("decode launch agent: %w", err)
	}
	return len(job.ProgramArguments) > 0 && job.ProgramArguments[0] == l.app.Exec, nil
}

func (l *LaunchAgent) Enable() error {
	job := launchdJob{
		Label:            l.app.Label,
		ProgramArguments: append([]string{l.app.Exec}, l.app.Args...),
		RunAtLoad:        true,
		ProcessType:      "Interactive",
	}
	data, err := plist.MarshalIndent(job, plist.XMLFormat, "\t")
	if err != nil {
		return fmt.Errorf("encode launch agent: %w", err)
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("creating LaunchAgents directory: %w", err)
	}
	if err := os.WriteFile(l.Path(), data, 0o644); err != nil {
		return fmt.Errorf("writing launch agent: %w", err)
	}
	return nil
}

func (l *LaunchAgent) Disable() error {
	if err := os.Remove(l.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing launch agent: %w", err)
	}
	return nil
}
