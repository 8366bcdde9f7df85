package job

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteJob writes a job to a YAML file
func WriteJob(j *Job, path string) error {
	if j.Version == "" {
		j.Version = CurrentVersion
	}
	data, err := yaml.Marshal(j)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadJob reads and validates a job from a YAML file. Relative series
// paths are taken relative to the job file.
func ReadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var j Job
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if j.Version == "" {
		j.Version = CurrentVersion
	}
	if err := j.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range j.Series {
		if p := j.Series[i].Path; !filepath.IsAbs(p) {
			j.Series[i].Path = filepath.Join(dir, p)
		}
	}
	if j.Movie.Out != "" && !filepath.IsAbs(j.Movie.Out) {
		j.Movie.Out = filepath.Join(dir, j.Movie.Out)
	}

	return &j, nil
}
