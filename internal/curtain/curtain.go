// Package curtain ties the options record and the ManageCurtain grants
// together into the plugin lifecycle.
package curtain

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCurtain/GoCurtain/internal/capability"
	"github.com/GoCurtain/GoCurtain/internal/options"
)

// Plugin runs lifecycle operations against one database.
type Plugin struct {
	db              *gorm.DB
	themeBackground string
}

// New creates a Plugin. themeBackground seeds the default background color.
func New(db *gorm.DB, themeBackground string) *Plugin {
	if db == nil {
		panic("db cannot be nil")
	}

	return &Plugin{
		db:              db,
		themeBackground: themeBackground,
	}
}

// DB returns the database the plugin works on.
func (p *Plugin) DB() *gorm.DB {
	return p.db
}

// Defaults returns the record a fresh activation writes.
func (p *Plugin) Defaults() options.Record {
	return options.Defaults(p.themeBackground)
}

// Options reads the stored record.
func (p *Plugin) Options() (options.Record, error) {
	return options.Load(p.db)
}

// Activate adds the default record, unless one exists, and grants
// ManageCurtain to the default roles.
func (p *Plugin) Activate() error {
	return activate(p.db, p.Defaults())
}

// Deactivate deletes the record and revokes ManageCurtain from every role.
func (p *Plugin) Deactivate() error {
	return deactivate(p.db)
}

// Reset restores the defaults and the default grants. The mode survives.
func (p *Plugin) Reset() error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		current, err := options.Load(tx)
		if err != nil {
			return err
		}

		if err = deactivate(tx); err != nil {
			return err
		}

		defaults := p.Defaults()
		if err = activate(tx, defaults); err != nil {
			return err
		}

		if current.Mode == defaults.Mode {
			return nil
		}

		defaults.Mode = current.Mode
		if _, err = options.Update(tx, defaults); err != nil {
			return err
		}

		return nil
	})
}

// Mode returns the stored mode.
func (p *Plugin) Mode() (int, error) {
	rec, err := options.Load(p.db)
	if err != nil {
		return options.ModeOff, err
	}

	return rec.Mode, nil
}

// SetMode writes mode into the record and reports whether the stored record
// changed.
func (p *Plugin) SetMode(mode int) (bool, error) {
	rec, err := options.Load(p.db)
	if err != nil {
		return false, err
	}

	rec.Mode = mode

	changed, err := options.Update(p.db, rec)
	if err != nil {
		return false, err
	}

	if changed {
		log.Info().Int("mode", mode).Msg("curtain mode changed")
	}

	return changed, nil
}

// NeedReset reports whether the record or the grants differ from what a
// reset would produce. The mode is not compared.
func (p *Plugin) NeedReset() (bool, error) {
	rec, err := options.Load(p.db)
	if err != nil {
		return false, err
	}

	if rec.Scalars() != p.Defaults().Scalars() {
		return true, nil
	}

	granted, err := capability.Granted(p.db)
	if err != nil {
		return false, err
	}

	defaults := capability.Defaults()
	slices.Sort(defaults)

	return !slices.Equal(granted, defaults), nil
}

func activate(db *gorm.DB, defaults options.Record) error {
	if _, err := options.Add(db, defaults); err != nil {
		return fmt.Errorf("activate: %w", err)
	}

	if err := capability.Grant(db); err != nil {
		return fmt.Errorf("activate: %w", err)
	}

	return nil
}

func deactivate(db *gorm.DB) error {
	if err := options.Delete(db); err != nil {
		return fmt.Errorf("deactivate: %w", err)
	}

	if err := capability.Revoke(db); err != nil {
		return fmt.Errorf("deactivate: %w", err)
	}

	return nil
}
