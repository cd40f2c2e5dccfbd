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

package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var timeOfDayRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// TimeOfDay is a daily trigger time with minute resolution, in local time.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a "HH:MM" string.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	matches := timeOfDayRegex.FindStringSubmatch(value)
	if matches == nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q (expected \"HH:MM\")", value)
	}

	hour, err := strconv.Atoi(matches[1])
	if err != nil {
		return TimeOfDay{}, err
	}
	minute, err := strconv.Atoi(matches[2])
	if err != nil {
		return TimeOfDay{}, err
	}
	if hour > 23 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q (expected \"HH:MM\")", value)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (timeOfDay TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", timeOfDay.Hour, timeOfDay.Minute)
}

// Next returns the first occurrence of the time of day strictly after now:
// today if it is still ahead, tomorrow otherwise.
func (timeOfDay TimeOfDay) Next(now time.Time) time.Time {
	occurrence := time.Date(
		now.Year(), now.Month(), now.Day(),
		timeOfDay.Hour, timeOfDay.Minute, 0, 0,
		now.Location(),
	)
	if !occurrence.After(now) {
		occurrence = occurrence.AddDate(0, 0, 1)
	}
	return occurrence
}
