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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nrtool/nrtool/tasks"
)

// checkViper represents the configuration of the check command
var checkViper = viper.New()

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the task configuration and all referenced profiles",
	Args:  cobra.NoArgs,
	RunE: func(_cmd *cobra.Command, _args []string) error {
		err := configureLog(logViper)
		if err != nil {
			return err
		}

		config, err := tasks.LoadConfig(checkViper.GetString(dataDirKey))
		if err != nil {
			return err
		}

		for _, task := range config.Tasks {
			if task.Enabled() {
				fmt.Printf("task %s: ok\n", task.ID)
			} else {
				fmt.Printf("task %s: disabled\n", task.ID)
			}
		}
		fmt.Printf("%d tasks configured (%d enabled)\n", len(config.Tasks), len(config.EnabledTasks()))
		return nil
	},
}

func init() {
	populateDataFlags(checkCmd, checkViper)

	// Don't sort alphabetically, keep insertion order
	checkCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = checkViper.BindPFlags(checkCmd.Flags())
}
