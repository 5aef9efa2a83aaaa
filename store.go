/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Store is a small key-value file backed by viper. Every write rewrites
// the whole file, which is fine for the handful of keys kept here.
type Store struct {
	fs   afero.Fs
	path string
	v    *viper.Viper
}

func OpenStore(fs afero.Fs, path string) (*Store, error) {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("json")

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if exists {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	return &Store{fs: fs, path: path, v: v}, nil
}

func (s *Store) String(key string) string {
	return s.v.GetString(key)
}

func (s *Store) Bool(key string) bool {
	return s.v.GetBool(key)
}

func (s *Store) Int(key string) int {
	return s.v.GetInt(key)
}

// Set stores every value and flushes the file once.
func (s *Store) Set(values map[string]any) error {
	for k, val := range values {
		s.v.Set(k, val)
	}

	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
