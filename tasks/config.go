// Copyright 2024 The nrtool authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tasks

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/nrtool/nrtool/scheduler"
)

var log = logrus.WithField("component", "tasks")

// ConfigFileName is looked up at the root of the data directory.
const ConfigFileName = "tasks.yaml"

// DefaultTriggerTime is used when a task declares no `time`.
var DefaultTriggerTime = scheduler.TimeOfDay{Hour: 7, Minute: 0}

// Config is the content of the tasks.yaml file.
type Config struct {
	// Defaults are form fields merged underneath every profile's own
	// fields (the profile wins).
	Defaults map[string]interface{} `yaml:"defaults"`
	Tasks    []Task                 `yaml:"tasks"`
}

// Task is one daily report submission.
type Task struct {
	ID      string `yaml:"id"`
	UID     string `yaml:"uid"`
	Cookie  string `yaml:"cookie"`
	Profile string `yaml:"profile"`

	// Enable defaults to true when absent.
	Enable *bool  `yaml:"enable"`
	Time   string `yaml:"time"`

	// Jitter of the daily trigger: a Rayleigh-distributed delay with
	// sigma JitterSigma, resampled to stay under JitterBound.
	JitterSigma TimeSpan `yaml:"rayleigh_sigma"`
	JitterBound TimeSpan `yaml:"rayleigh_upbound"`

	// ProfilePath is the resolved absolute profile location, set during
	// validation.
	ProfilePath string `yaml:"-"`
}

func (task *Task) Enabled() bool {
	return task.Enable == nil || *task.Enable
}

// TriggerTime returns the task's daily trigger as a TimeOfDay; the task
// must have been validated.
func (task *Task) TriggerTime() scheduler.TimeOfDay {
	if task.Time == "" {
		return DefaultTriggerTime
	}
	timeOfDay, err := scheduler.ParseTimeOfDay(task.Time)
	if err != nil {
		// Validation rejects unparseable times before this point.
		return DefaultTriggerTime
	}
	return timeOfDay
}

// Validate checks the task and resolves its profile path against the data
// directory. Disabled tasks are only checked for an id.
func (task *Task) Validate(dataDir string) error {
	if task.ID == "" {
		return fmt.Errorf("task has no id")
	}
	if !task.Enabled() {
		return nil
	}
	if task.UID == "" {
		return fmt.Errorf("task %q: uid is not defined", task.ID)
	}
	if task.Cookie == "" {
		return fmt.Errorf("task %q: cookie is not defined", task.ID)
	}
	if task.Profile == "" {
		return fmt.Errorf("task %q: profile is not defined", task.ID)
	}

	profilePath := filepath.Join(dataDir, task.Profile)
	if _, err := os.Stat(profilePath); err != nil {
		return fmt.Errorf("task %q: profile %q is not found", task.ID, profilePath)
	}
	if _, err := readProfile(profilePath); err != nil {
		return fmt.Errorf("task %q: %w", task.ID, err)
	}
	task.ProfilePath = profilePath

	if task.Time != "" {
		if _, err := scheduler.ParseTimeOfDay(task.Time); err != nil {
			return fmt.Errorf("task %q: %w", task.ID, err)
		}
	}

	return nil
}

// EnabledTasks filters out disabled tasks.
func (config *Config) EnabledTasks() []Task {
	enabled := make([]Task, 0, len(config.Tasks))
	for _, task := range config.Tasks {
		if task.Enabled() {
			enabled = append(enabled, task)
		}
	}
	return enabled
}

// LoadConfig reads and validates `tasks.yaml` from the data directory. The
// first invalid task aborts the load.
func LoadConfig(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, ConfigFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read the task configuration %q: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(content, &config); err != nil {
		return nil, fmt.Errorf("invalid task configuration %q: %w", path, err)
	}
	if config.Tasks == nil {
		return nil, fmt.Errorf("invalid task configuration %q: no `tasks` list", path)
	}

	for index := range config.Tasks {
		task := &config.Tasks[index]
		if err := task.Validate(dataDir); err != nil {
			return nil, err
		}
		if !task.Enabled() {
			log.WithField("task", task.ID).Info("skipping disabled task")
		}
	}

	return &config, nil
}
