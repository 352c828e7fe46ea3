// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1" //nolint:depguard // wrapped by ConfigProvider
)

// ConfigSection is the part of an ini section the loaders need
type ConfigSection interface {
	Name() string
	MapTo(any) error
	HasKey(key string) bool
	Key(key string) *ini.Key
}

// ConfigProvider represents a config provider
type ConfigProvider interface {
	Section(name string) ConfigSection
	HasSection(name string) bool
}

type iniConfigProvider struct {
	file *ini.File
}

var _ ConfigProvider = (*iniConfigProvider)(nil)

func (p *iniConfigProvider) Section(name string) ConfigSection {
	return p.file.Section(name)
}

func (p *iniConfigProvider) HasSection(name string) bool {
	return p.file.HasSection(name)
}

// NewConfigProviderFromData reads an ini document from memory, used by tests and for the empty config
func NewConfigProviderFromData(configContent string) (ConfigProvider, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, []byte(configContent))
	if err != nil {
		return nil, err
	}
	cfg.NameMapper = ini.SnackCase
	return &iniConfigProvider{file: cfg}, nil
}

// NewConfigProviderFromFile reads the config file. A missing file gives an empty config so defaults apply.
func NewConfigProviderFromFile(file string) (ConfigProvider, error) {
	cfg := ini.Empty(ini.LoadOptions{IgnoreInlineComment: true})
	if file != "" {
		if _, err := os.Stat(file); err == nil {
			if err = cfg.Append(file); err != nil {
				return nil, fmt.Errorf("failed to load config file %q: %w", file, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("unable to check if %q is a file: %w", file, err)
		}
	}
	cfg.NameMapper = ini.SnackCase
	return &iniConfigProvider{file: cfg}, nil
}

// loadSecret returns the value of key, or the content of the file named by key+"_URI"
// when that key is set to "file:/path". Both being set is a configuration error.
func loadSecret(sec ConfigSection, uriKey, verbatimKey string) (string, error) {
	verbatim := sec.Key(verbatimKey).String()
	uri := sec.Key(uriKey).String()
	if uri == "" {
		return verbatim, nil
	}
	if verbatim != "" {
		return "", fmt.Errorf("cannot specify both %s and %s in [%s]", uriKey, verbatimKey, sec.Name())
	}
	path, ok := strings.CutPrefix(uri, "file:")
	if !ok {
		return "", fmt.Errorf("unsupported URI scheme for %s in [%s]: %q", uriKey, sec.Name(), uri)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s (%s): %w", uriKey, path, err)
	}
	return strings.TrimSpace(string(buf)), nil
}
