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
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nrtool/nrtool/tasks"
)

// listViper represents the configuration of the list command
var listViper = viper.New()

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured tasks",
	Args:  cobra.NoArgs,
	RunE: func(_cmd *cobra.Command, _args []string) error {
		err := configureLog(logViper)
		if err != nil {
			return err
		}

		config, err := tasks.LoadConfig(listViper.GetString(dataDirKey))
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "PROFILE", "TIME", "JITTER", "ENABLED"})
		for _, task := range config.Tasks {
			jitter := "-"
			if task.JitterSigma > 0 {
				jitter = fmt.Sprintf("~%v < %v", task.JitterSigma, task.JitterBound)
			}
			table.Append([]string{
				task.ID,
				task.Profile,
				task.TriggerTime().String(),
				jitter,
				strconv.FormatBool(task.Enabled()),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	populateDataFlags(listCmd, listViper)

	// Don't sort alphabetically, keep insertion order
	listCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = listViper.BindPFlags(listCmd.Flags())
}
