/*
Copyright 2024 Vistos Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	vistos "github.com/herbertavetisyan/vist0s"
	"github.com/herbertavetisyan/vist0s/config"
	"github.com/herbertavetisyan/vist0s/database"
	"github.com/herbertavetisyan/vist0s/internal/notification"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Vistos represents the CLI application, encapsulating the root Cobra command.
type Vistos struct {
	cmd *cobra.Command
}

// vistosInstance holds the runtime engine instance and its configuration,
// shared by every subcommand.
type vistosInstance struct {
	vistos *vistos.Vistos
	cnf    *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the engine before any
// subcommand runs.
func preRun(app *vistosInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newVistos, err := setupVistos(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.vistos = newVistos
		app.cnf = cnf

		return nil
	}
}

// setupVistos connects the datasource and builds the engine instance.
func setupVistos(cfg *config.Configuration) (*vistos.Vistos, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newVistos, err := vistos.NewVistos(db)
	if err != nil {
		return nil, fmt.Errorf("error creating vistos: %v", err)
	}
	return newVistos, nil
}

// NewCLI creates the command-line interface for the origination engine.
func NewCLI() *Vistos {
	var configFile string
	v := &vistosInstance{}

	var rootCmd = &cobra.Command{
		Use:   "vistos",
		Short: "Loan origination engine",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./vistos.json", "Configuration file for the origination engine")

	rootCmd.PersistentPreRunE = preRun(v, &configFile)

	rootCmd.AddCommand(serverCommands(v))
	rootCmd.AddCommand(workerCommands(v))
	rootCmd.AddCommand(seedCommands(v))

	return &Vistos{cmd: rootCmd}
}

func (w Vistos) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
