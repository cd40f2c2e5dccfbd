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

package cmd

import (
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nrtool/nrtool/reportlog"
)

// reportsViper represents the configuration of the reports command
var reportsViper = viper.New()

// reportsCmd represents the reports command
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List the archived report submissions",
	Args:  cobra.NoArgs,
	RunE: func(_cmd *cobra.Command, _args []string) error {
		err := configureLog(logViper)
		if err != nil {
			return err
		}

		reportDir := reportsViper.GetString(reportDirKey)
		if reportDir == "" {
			reportDir = filepath.Join(reportsViper.GetString(dataDirKey), "log")
		}

		archives, err := reportlog.List(reportDir)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"TASK", "DATE", "PATH"})
		for _, archive := range archives {
			table.Append([]string{archive.TaskID, archive.Date, archive.Path})
		}
		table.Render()
		return nil
	},
}

func init() {
	populateDataFlags(reportsCmd, reportsViper)

	reportsViper.SetDefault(reportDirKey, "")
	_ = reportsViper.BindEnv(reportDirKey, "NRTOOL_LOG_PATH")
	reportsCmd.Flags().String(
		reportDirKey,
		reportsViper.GetString(reportDirKey),
		"The directory holding the report archives (defaults to <data_dir>/log)",
	)

	// Don't sort alphabetically, keep insertion order
	reportsCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = reportsViper.BindPFlags(reportsCmd.Flags())
}
