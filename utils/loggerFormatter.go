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

package utils

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	ansiRed    = 31
	ansiYellow = 33
	ansiCyan   = 36
	ansiGray   = 37
)

var levelColors = map[logrus.Level]int{
	logrus.TraceLevel: ansiGray,
	logrus.DebugLevel: ansiGray,
	logrus.WarnLevel:  ansiYellow,
	logrus.ErrorLevel: ansiRed,
	logrus.FatalLevel: ansiRed,
	logrus.PanicLevel: ansiRed,
}

// LoggerFormatter renders entries as
// `<timestamp> [LEVE] [<prefix fields>] <message> [field:value]...`.
type LoggerFormatter struct {
	// PrefixFields appear bracketed between the level and the message, in
	// this order; every other field is appended after the message, sorted.
	PrefixFields []string

	// DisableColors strips the ANSI level coloring (for file outputs).
	DisableColors bool
}

// Format a log entry
func (f *LoggerFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := &bytes.Buffer{}

	b.WriteString(entry.Time.Format(time.RFC3339))

	level := strings.ToUpper(entry.Level.String())[:4]
	if f.DisableColors {
		fmt.Fprintf(b, " [%s]", level)
	} else {
		color, ok := levelColors[entry.Level]
		if !ok {
			color = ansiCyan
		}
		fmt.Fprintf(b, " \x1b[%dm[%s]", color, level)
	}

	prefix := make([]string, 0, len(f.PrefixFields))
	rest := make([]string, 0, len(entry.Data))
	for _, field := range f.PrefixFields {
		if value, ok := entry.Data[field]; ok {
			prefix = append(prefix, fmt.Sprintf("%v", value))
		}
	}
	for field := range entry.Data {
		if !f.isPrefixField(field) {
			rest = append(rest, field)
		}
	}
	sort.Strings(rest)

	fmt.Fprintf(b, " [%s]", strings.Join(prefix, ">"))
	if !f.DisableColors {
		b.WriteString("\x1b[0m")
	}

	b.WriteByte(' ')
	b.WriteString(strings.TrimSpace(entry.Message))

	for _, field := range rest {
		fmt.Fprintf(b, " [%s:%v]", field, entry.Data[field])
	}

	b.WriteByte('\n')

	return b.Bytes(), nil
}

func (f *LoggerFormatter) isPrefixField(name string) bool {
	for _, field := range f.PrefixFields {
		if field == name {
			return true
		}
	}
	return false
}
