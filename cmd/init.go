// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
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
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/jackc/pgx/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/penny-vault/pvratios/db"
	"github.com/penny-vault/pvratios/library"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type configFile struct {
	Library struct {
		Name  string `toml:"name"`
		Owner string `toml:"owner"`
	} `toml:"library"`

	FMP struct {
		APIKey    string `toml:"apikey"`
		RateLimit int    `toml:"ratelimit"`
	} `toml:"fmp"`

	Cache struct {
		Dir string `toml:"dir"`
	} `toml:"cache"`

	DB struct {
		URL string `toml:"url"`
	} `toml:"db"`
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Gather api credentials, cache, and database configuration",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine user home directory")
		}

		config := configFile{}
		config.FMP.RateLimit = 300
		config.Cache.Dir = filepath.Join(home, ".pvratios-cache")

		form := huh.NewForm(
			// Gather details about the library and who owns it
			huh.NewGroup(
				huh.NewInput().
					Title("Give the library a name:").
					Value(&config.Library.Name),

				huh.NewInput().
					Title("Who owns the library?").
					Value(&config.Library.Owner),
			),

			// Provider credentials and cache location
			huh.NewGroup(
				huh.NewInput().
					Title("Financial Modeling Prep API key:").
					Value(&config.FMP.APIKey),

				huh.NewInput().
					Title("Directory for cached statement responses:").
					Value(&config.Cache.Dir),
			),

			// Optional database for persisting collection runs
			huh.NewGroup(
				huh.NewInput().
					Title("PostgreSQL DSN for saving results, leave blank to skip (postgres://[user[:password]@][netloc][:port][/dbname])").
					Value(&config.DB.URL).
					Validate(func(dsn string) error {
						if dsn == "" {
							return nil
						}

						_, err := pgx.ParseConfig(dsn)
						return err
					}),
			),
		)

		err = form.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("error gathering settings")
		}

		if config.DB.URL != "" {
			log.Info().Msg("creating database tables")

			// run migration
			dbURL := strings.Replace(config.DB.URL, "postgres://", "pgx5://", -1)
			err = db.Migrate(dbURL)
			if err != nil {
				log.Fatal().Err(err).Msg("error running database migration")
			}

			log.Info().Msg("database tables created")
			log.Info().Msg("Saving library name and owner to database")

			myLibrary := &library.Library{
				DBUrl: config.DB.URL,
				Name:  config.Library.Name,
				Owner: config.Library.Owner,
			}

			if err := myLibrary.Connect(ctx); err != nil {
				log.Fatal().Err(err).Msg("could not connect to database")
			}
			defer myLibrary.Close()

			err = myLibrary.SaveDB(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("error saving library settings to database")
			}
		}

		// save settings to config file
		configFN := filepath.Join(home, ".pvratios.toml")
		log.Info().Str("ConfigFile", configFN).Msg("Saving settings to config file")
		configData, err := toml.Marshal(config)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		err = os.WriteFile(configFN, configData, 0600)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		log.Info().Msg("pvratios is configured")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
