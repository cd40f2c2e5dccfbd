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

	"github.com/imdario/mergo"
	"gopkg.in/yaml.v2"
)

func readProfile(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read the profile %q: %w", path, err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("invalid profile %q: %w", path, err)
	}

	return stringifyFields(raw), nil
}

func stringifyFields(raw map[string]interface{}) map[string]string {
	fields := make(map[string]string, len(raw))
	for name, value := range raw {
		if value == nil {
			fields[name] = ""
			continue
		}
		fields[name] = fmt.Sprintf("%v", value)
	}
	return fields
}

// LoadProfile reads the form fields of a profile file and merges the
// config-level defaults underneath them. Profiles are read on every call so
// edits on the data volume apply without a restart.
func LoadProfile(path string, defaults map[string]interface{}) (map[string]string, error) {
	fields, err := readProfile(path)
	if err != nil {
		return nil, err
	}

	if len(defaults) > 0 {
		defaultFields := stringifyFields(defaults)
		if err := mergo.Merge(&fields, defaultFields); err != nil {
			return nil, fmt.Errorf("unable to apply the configured defaults: %w", err)
		}
	}

	return fields, nil
}
