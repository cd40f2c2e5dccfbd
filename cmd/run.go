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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nrtool/nrtool/services/runner"
	"github.com/nrtool/nrtool/utils"
	"github.com/nrtool/nrtool/version"
)

// runViper represents the configuration of the run command
var runViper = viper.New()

// runCmd represents the run command, the container entrypoint
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the report submission daemon",
	Args:  cobra.NoArgs,
	RunE: func(_cmd *cobra.Command, _args []string) error {
		err := configureLog(logViper)
		if err != nil {
			return err
		}

		log.WithFields(logrus.Fields{
			"version": version.Version,
			"hash":    version.Hash,
		}).Info("starting the report submission daemon")

		options := runnerOptions(runViper)
		if options.Endpoint == "" {
			return fmt.Errorf("no API endpoint configured (set NRTOOL_API_ENDPOINT or --%s)", endpointKey)
		}

		ctx := utils.ContextWithUserTermination(context.Background())

		err = runner.Run(ctx, options)
		if err != nil {
			if err == context.Canceled {
				log.Info("interrupted by user")
				return nil
			}
			return err
		}
		return nil
	},
}

func init() {
	populateDataFlags(runCmd, runViper)
	populateClientFlags(runCmd, runViper)

	// Don't sort alphabetically, keep insertion order
	runCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = runViper.BindPFlags(runCmd.Flags())
}
