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
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Accepted time span strings: "3m20s", "2m", "45s"
var timeSpanRegex = regexp.MustCompile(`^(?:(\d+)m\s*)?(?:(\d+)s)?$`)

// ParseTimeSpan parses a "<minutes>m<seconds>s" style string where either
// part may be omitted (but not both).
func ParseTimeSpan(value string) (time.Duration, error) {
	matches := timeSpanRegex.FindStringSubmatch(strings.TrimSpace(value))
	if matches == nil || (matches[1] == "" && matches[2] == "") {
		return 0, fmt.Errorf("invalid time span %q (expected e.g. \"3m20s\", \"2m\" or \"45s\")", value)
	}

	var seconds int
	if matches[1] != "" {
		minutes, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, err
		}
		seconds += 60 * minutes
	}
	if matches[2] != "" {
		span, err := strconv.Atoi(matches[2])
		if err != nil {
			return 0, err
		}
		seconds += span
	}

	return time.Duration(seconds) * time.Second, nil
}

// TimeSpan is a duration declared in the task configuration either as a
// bare number of seconds or as a ParseTimeSpan string.
type TimeSpan time.Duration

func (span *TimeSpan) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var seconds int
	if err := unmarshal(&seconds); err == nil {
		*span = TimeSpan(time.Duration(seconds) * time.Second)
		return nil
	}

	var value string
	if err := unmarshal(&value); err != nil {
		return fmt.Errorf("invalid time span (expected a number of seconds or a \"<m>m<s>s\" string)")
	}
	duration, err := ParseTimeSpan(value)
	if err != nil {
		return err
	}
	*span = TimeSpan(duration)
	return nil
}

func (span TimeSpan) Duration() time.Duration {
	return time.Duration(span)
}

func (span TimeSpan) String() string {
	return time.Duration(span).String()
}
