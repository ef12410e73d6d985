// Copyright 2025 The recordd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
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

	"github.com/spf13/cobra"

	"github.com/recordd/recordd/common"
	"github.com/recordd/recordd/confengine"
	"github.com/recordd/recordd/controller"
	"github.com/recordd/recordd/internal/sigs"
	"github.com/recordd/recordd/logger"
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Run recordd as a records tailing daemon",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := confengine.LoadConfigPath(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}

		ctr, err := controller.New(cfg, common.GetBuildInfo())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create controller: %v\n", err)
			os.Exit(1)
		}
		if err := ctr.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to start controller: %v\n", err)
			os.Exit(1)
		}

		term := sigs.Terminate()
		reload := sigs.Reload()
		for {
			select {
			case <-reload:
				// SIGHUP 仅热更新日志级别 数据链路不中断
				cfg, err := confengine.LoadConfigPath(configPath)
				if err != nil {
					logger.Errorf("failed to reload config: %v", err)
					continue
				}
				var opts logger.Options
				if cfg.Has("logger") {
					if err := cfg.UnpackChild("logger", &opts); err != nil {
						logger.Errorf("failed to reload logger config: %v", err)
						continue
					}
				}
				logger.SetLoggerLevel(opts.Level)
				logger.Infof("logger level reloaded: %s", opts.Level)

			case <-term:
				ctr.Stop()
				return
			}
		}
	},
}

var configPath string

func init() {
	tailCmd.Flags().StringVar(&configPath, "config", "recordd.yaml", "Configuration file path")
	rootCmd.AddCommand(tailCmd)
}
