package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/covenant-go/internal/covenant"
	"github.com/nibzard/covenant-go/internal/logging"
	"github.com/nibzard/covenant-go/internal/store"
)

// Validate checks every field and sets Location and TodayDate.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case store.BackendFile:
		if c.StateFile == "" {
			errs = append(errs, fmt.Errorf("%w: state_file is empty", ErrInvalid))
		}
	case store.BackendSQLite:
		if c.DBFile == "" {
			errs = append(errs, fmt.Errorf("%w: db_file is empty", ErrInvalid))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: backend %q (want %s or %s)", ErrInvalid, c.Backend, store.BackendFile, store.BackendSQLite))
	}

	loc, err := loadLocation(c.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: timezone %q: %v", ErrInvalid, c.Timezone, err))
	} else {
		c.Location = loc
	}

	c.TodayDate = covenant.Date{}
	if strings.TrimSpace(c.Today) != "" {
		d, err := covenant.ParseDate(c.Today)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: today: %v", ErrInvalid, err))
		} else {
			c.TodayDate = d
		}
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	if _, err := logging.ParseFormatter(c.LogFormat); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalid, err))
	}

	return errors.Join(errs...)
}

func loadLocation(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "", "Local", "local":
		return time.Local, nil
	}
	return time.LoadLocation(strings.TrimSpace(name))
}
