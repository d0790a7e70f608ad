// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestServeCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "lyricad",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "enc-key",
						EnvVars:  []string{"ENC_KEY_B64"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "genius-token",
						EnvVars:  []string{"GENIUS_API_TOKEN"},
						Required: true,
					},
					&cli.StringFlag{
						Name:  "addr",
						Value: ":8000",
					},
				},
			},
		},
	}

	t.Run("db is required", func(t *testing.T) {
		err := app.Run([]string{"lyricad", "serve"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("enc-key is required", func(t *testing.T) {
		err := app.Run([]string{"lyricad", "serve", "--db", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "enc-key")
	})

	t.Run("addr has default value", func(t *testing.T) {
		cmd := app.Commands[0]
		var addrFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "addr" {
				addrFlag = f
				break
			}
		}
		require.NotNil(t, addrFlag)
		assert.Equal(t, ":8000", addrFlag.Value)
	})
}

func TestRefingerprintCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "lyricad",
		Commands: []*cli.Command{
			{
				Name:   "refingerprint",
				Action: refingerprintCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Value: 100,
					},
				},
			},
		},
	}

	t.Run("db is required", func(t *testing.T) {
		err := app.Run([]string{"lyricad", "refingerprint"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("batch-size has default value", func(t *testing.T) {
		cmd := app.Commands[0]
		var batchFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "batch-size" {
				batchFlag = f
				break
			}
		}
		require.NotNil(t, batchFlag)
		assert.Equal(t, 100, batchFlag.Value)
	})
}

func TestSetupLogger_RejectsUnknownLevel(t *testing.T) {
	app := &cli.App{
		Name:   "lyricad",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Action: func(c *cli.Context) error { return nil },
	}

	err := app.Run([]string{"lyricad", "--log-level", "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
