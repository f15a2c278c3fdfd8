/*************************************************************************
 * Copyright 2023 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package zenohcfg loads the Zenoh session configuration named by the
// ZENOH_SESSION_CONFIG_URI environment variable, following the same
// gcfg-backed INI loader shape the ingest pipeline uses for its own
// configuration files.
package zenohcfg

import (
	"errors"
	"os"

	"github.com/gravwell/gcfg"
)

const envConfigURI = "ZENOH_SESSION_CONFIG_URI"

var (
	ErrConfigFileTooLarge = errors.New("zenohcfg: config file is too large")
	ErrNoFileScheme       = errors.New("zenohcfg: only file:// and bare paths are supported")
)

const maxConfigSize = 1 << 20 // 1MB is plenty for a session config

// Mode is the Zenoh session's connection mode.
type Mode string

const (
	ModePeer   Mode = "peer"
	ModeClient Mode = "client"
)

// Config is a resolved Zenoh session configuration.
type Config struct {
	Mode            Mode
	Connect         []string
	Listen          []string
	ScoutingDelayMs int
}

// Default matches rmw_zenoh_cpp's own out-of-the-box config: peer mode,
// dialing the local router on the standard TCP port.
func Default() Config {
	return Config{
		Mode:            ModePeer,
		Connect:         []string{"tcp/localhost:7447"},
		ScoutingDelayMs: 200,
	}
}

type gcfgRoot struct {
	Zenoh struct {
		Mode            string
		Connect         []string
		Listen          []string
		ScoutingDelayMs int
	}
}

// LoadBytes parses an INI-formatted session config. A missing [Zenoh]
// section, or fields left unset, fall back to Default()'s values.
func LoadBytes(b []byte) (Config, error) {
	if len(b) > maxConfigSize {
		return Config{}, ErrConfigFileTooLarge
	}
	cfg := Default()
	var root gcfgRoot
	if err := gcfg.ReadStringInto(&root, string(b)); err != nil {
		return Config{}, err
	}
	if root.Zenoh.Mode != "" {
		cfg.Mode = Mode(root.Zenoh.Mode)
	}
	if len(root.Zenoh.Connect) > 0 {
		cfg.Connect = root.Zenoh.Connect
	}
	if len(root.Zenoh.Listen) > 0 {
		cfg.Listen = root.Zenoh.Listen
	}
	if root.Zenoh.ScoutingDelayMs != 0 {
		cfg.ScoutingDelayMs = root.Zenoh.ScoutingDelayMs
	}
	return cfg, nil
}

// LoadFile reads and parses the config file at path.
func LoadFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return LoadBytes(b)
}

// LoadFromEnv resolves ZENOH_SESSION_CONFIG_URI. An unset variable
// yields Default(). The only URI schemes understood are "file://" and a
// bare filesystem path, matching rmw_zenoh_cpp's own narrow support.
func LoadFromEnv() (Config, error) {
	uri := os.Getenv(envConfigURI)
	if uri == "" {
		return Default(), nil
	}
	const filePrefix = "file://"
	path := uri
	if len(uri) >= len(filePrefix) {
		if uri[:len(filePrefix)] == filePrefix {
			path = uri[len(filePrefix):]
		} else if containsScheme(uri) {
			return Config{}, ErrNoFileScheme
		}
	}
	return LoadFile(path)
}

func containsScheme(uri string) bool {
	for i := 0; i < len(uri); i++ {
		if uri[i] == ':' {
			return i+2 < len(uri) && uri[i+1] == '/' && uri[i+2] == '/'
		}
		if uri[i] == '/' {
			return false
		}
	}
	return false
}
