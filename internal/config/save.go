package config

import (
	"fmt"

	"github.com/harrison/todotree/internal/filelock"
)

// SaveTarget returns the file that tags --add/--remove/--reset should edit:
// the explicit --config path, else an existing project file in dir, else a
// new .todorc.json in dir.
func SaveTarget(dir, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	path, err := ProjectFile(dir)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = FileNameFor(dir, FormatJSON)
	}
	return path, nil
}

// Save writes cfg to path in the format implied by its extension, under the
// config file lock.
func Save(path string, cfg *Config) error {
	format, _ := FormatOf(path)
	data, err := cfg.Encode(format)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := filelock.LockAndWrite(path, data); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// Edit performs a locked read-modify-write of the config at path. When the
// file does not exist yet, fn starts from a copy of base. It returns the
// config as written.
func Edit(path string, base *Config, fn func(*Config) error) (*Config, error) {
	var written *Config
	if base == nil {
		base = DefaultConfig()
	}
	err := filelock.Update(path, func(current []byte) ([]byte, error) {
		cfg := base.Clone()
		if current != nil {
			decoded, err := Decode(current, path)
			if err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
			cfg = decoded
		}

		if err := fn(cfg); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}

		format, _ := FormatOf(path)
		data, err := cfg.Encode(format)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		written = cfg
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}
