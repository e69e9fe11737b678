// Package config reads layered YAML configuration: compiled-in defaults,
// then a file from the default config directory, then an explicitly given
// path, each layer overriding the previous one.
package config

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
	"go.uber.org/config"
)

type Reader struct {
	basename      string
	explicitPath  string
	defaultConfig string
}

func New(basename string, opts ...Option) *Reader {
	reader := &Reader{basename: basename}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

func (r *Reader) Read(cfg interface{}) error {
	copts, err := r.yamlOptions()
	if err != nil {
		return err
	}

	provider, err := config.NewYAML(copts...)
	if err != nil {
		return err
	}

	return provider.Get("").Populate(cfg)
}

func (r *Reader) yamlOptions() ([]config.YAMLOption, error) {
	options := make([]config.YAMLOption, 0)

	if r.defaultConfig != "" {
		options = append(options, config.Source(strings.NewReader(r.defaultConfig)))
	}

	// Config from the default location, if present
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}
	altPath := filepath.Join(home, ".config", r.basename)
	if configHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		altPath = filepath.Join(configHome, r.basename)
	}

	content, err := ioutil.ReadFile(altPath)
	if err == nil {
		log.Debug().Str("path", altPath).Msg("Using config file")
		options = append(options, config.Source(bytes.NewBuffer(content)))
	}

	// Primary config passed via CLI arguments
	if r.explicitPath != "" {
		absPath, err := homedir.Expand(r.explicitPath)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("path", absPath).Msg("Using config file")
		options = append(options, config.File(absPath))
	}

	return options, nil
}
