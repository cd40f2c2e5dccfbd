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
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nrtool/nrtool/services/runner"
	"github.com/nrtool/nrtool/utils"
)

// sendViper represents the configuration of the send command
var sendViper = viper.New()

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <task-id>",
	Short: "Submit one task immediately, without scheduling or jitter",
	Args:  cobra.ExactArgs(1),
	RunE: func(_cmd *cobra.Command, args []string) error {
		err := configureLog(logViper)
		if err != nil {
			return err
		}

		options := runnerOptions(sendViper)
		if options.Endpoint == "" {
			return fmt.Errorf("no API endpoint configured (set NRTOOL_API_ENDPOINT or --%s)", endpointKey)
		}

		ctx := utils.ContextWithUserTermination(context.Background())
		return runner.SendOnce(ctx, options, args[0])
	},
}

func init() {
	populateDataFlags(sendCmd, sendViper)
	populateClientFlags(sendCmd, sendViper)

	// Don't sort alphabetically, keep insertion order
	sendCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = sendViper.BindPFlags(sendCmd.Flags())
}
