// Package config loads a dump.Options value from a TOML file, the
// ambient configuration-file collaborator the core dump pipeline itself
// stays independent of. Unknown keys are rejected at load time using
// BurntSushi/toml's metadata API, which is the teacher's own TOML
// dependency.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"sqldump/internal/dump"
	"sqldump/internal/sink"
)

// keepDataFile mirrors dump.KeepDataSpec with TOML-friendly field names.
type keepDataFile struct {
	Column string   `toml:"column"`
	Rows   []string `toml:"rows"`
}

// file is the on-disk shape of an option file; field names match §6's key
// table (with hyphens, the way mysqldump's own option names read) via the
// toml struct tags rather than Go's field-name casing.
type file struct {
	IncludeTables []string                `toml:"include-tables"`
	ExcludeTables []string                `toml:"exclude-tables"`
	IncludeViews  []string                `toml:"include-views"`
	NoData        bool                    `toml:"no-data"`
	NoDataList    []string                `toml:"no-data-list"`
	KeepData      map[string]keepDataFile `toml:"keep-data"`
	Where         string                  `toml:"where"`
	Compress      string                  `toml:"compress"`

	DefaultCharacterSet string   `toml:"default-character-set"`
	InitCommands        []string `toml:"init_commands"`

	ResetAutoIncrement bool `toml:"reset-auto-increment"`
	AddDropDatabase    bool `toml:"add-drop-database"`
	AddDropTable       bool `toml:"add-drop-table"`
	AddDropTrigger     *bool `toml:"add-drop-trigger"`
	AddLocks           *bool `toml:"add-locks"`
	LockTables         *bool `toml:"lock-tables"`
	CompleteInsert     bool  `toml:"complete-insert"`
	Databases          bool  `toml:"databases"`
	DisableKeys        *bool `toml:"disable-keys"`
	ExtendedInsert     *bool `toml:"extended-insert"`
	Events             bool  `toml:"events"`
	HexBlob            *bool `toml:"hex-blob"`
	InsertIgnore       bool  `toml:"insert-ignore"`
	NetBufferLength    int   `toml:"net_buffer_length"`
	NoAutocommit       *bool `toml:"no-autocommit"`
	NoCreateInfo       bool  `toml:"no-create-info"`
	Routines           bool  `toml:"routines"`
	SingleTransaction  *bool `toml:"single-transaction"`
	SkipTriggers       bool  `toml:"skip-triggers"`
	SkipTZUTC          bool  `toml:"skip-tz-utc"`
	SkipComments       bool  `toml:"skip-comments"`
	SkipDumpDate       bool  `toml:"skip-dump-date"`
	SkipDefiner        bool  `toml:"skip-definer"`
}

// Load decodes raw TOML into a dump.Options, starting from
// dump.DefaultOptions() and overlaying whatever the file sets. Any key in
// raw that the file struct does not recognize is a ConfigError, per the
// "unknown keys are rejected at construction time" invariant of §3.
func Load(raw []byte) (dump.Options, error) {
	opts := dump.DefaultOptions()

	var f file
	meta, err := toml.Decode(string(raw), &f)
	if err != nil {
		return opts, fmt.Errorf("config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return opts, fmt.Errorf("config: unknown option(s): %s", strings.Join(keys, ", "))
	}

	opts.IncludeTables = f.IncludeTables
	opts.ExcludeTables = f.ExcludeTables
	opts.IncludeViews = f.IncludeViews
	opts.NoData = f.NoData
	opts.NoDataList = f.NoDataList
	opts.Where = f.Where

	if len(f.KeepData) > 0 {
		opts.KeepData = make(map[string]dump.KeepDataSpec, len(f.KeepData))
		for table, spec := range f.KeepData {
			opts.KeepData[table] = dump.KeepDataSpec{Column: spec.Column, Rows: spec.Rows}
		}
	}

	if f.Compress != "" {
		opts.Compress = sink.Compression(f.Compress)
	}
	if f.DefaultCharacterSet != "" {
		opts.DefaultCharacterSet = f.DefaultCharacterSet
	}
	opts.InitCommands = f.InitCommands

	opts.ResetAutoIncrement = f.ResetAutoIncrement
	opts.AddDropDatabase = f.AddDropDatabase
	opts.AddDropTable = f.AddDropTable
	opts.CompleteInsert = f.CompleteInsert
	opts.Databases = f.Databases
	opts.Events = f.Events
	opts.InsertIgnore = f.InsertIgnore
	opts.NoCreateInfo = f.NoCreateInfo
	opts.Routines = f.Routines
	opts.SkipTriggers = f.SkipTriggers
	opts.SkipTZUTC = f.SkipTZUTC
	opts.SkipComments = f.SkipComments
	opts.SkipDumpDate = f.SkipDumpDate
	opts.SkipDefiner = f.SkipDefiner

	if f.NetBufferLength > 0 {
		opts.NetBufferLength = f.NetBufferLength
	}

	overlayBool(&opts.AddDropTrigger, f.AddDropTrigger)
	overlayBool(&opts.AddLocks, f.AddLocks)
	overlayBool(&opts.LockTables, f.LockTables)
	overlayBool(&opts.DisableKeys, f.DisableKeys)
	overlayBool(&opts.ExtendedInsert, f.ExtendedInsert)
	overlayBool(&opts.HexBlob, f.HexBlob)
	overlayBool(&opts.NoAutocommit, f.NoAutocommit)
	overlayBool(&opts.SingleTransaction, f.SingleTransaction)

	return opts, nil
}

// overlayBool applies a *bool TOML override onto a default-carrying field
// only when the file actually set it, distinguishing "left at default
// true" from "explicitly set to false".
func overlayBool(dst *bool, override *bool) {
	if override != nil {
		*dst = *override
	}
}
