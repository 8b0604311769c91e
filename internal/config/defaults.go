package config

const (
	defaultConfigPath   = "~/.config/vivosprep/config.toml"
	defaultLogDir       = "~/.local/share/vivosprep/logs"
	defaultStateDir     = "~/.local/share/vivosprep"
	defaultAudioDir     = "waves"
	defaultPromptsFile  = "prompts.txt"
	defaultGendersFile  = "genders.txt"
	defaultWavExtension = ".wav"
	defaultWorkers      = 1
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"

	// HistoryDriverSQLite stores run history in a local SQLite file.
	HistoryDriverSQLite = "sqlite"
	// HistoryDriverMySQL stores run history in a MySQL/MariaDB database.
	HistoryDriverMySQL = "mysql"
)

var defaultSplits = []string{"train", "test"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	splits := make([]string, len(defaultSplits))
	copy(splits, defaultSplits)
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Corpus: Corpus{
			Splits:       splits,
			AudioDir:     defaultAudioDir,
			PromptsFile:  defaultPromptsFile,
			GendersFile:  defaultGendersFile,
			WavExtension: defaultWavExtension,
		},
		Output: Output{
			Workers:        defaultWorkers,
			CheckFreeSpace: true,
		},
		History: History{
			Enabled: true,
			Driver:  HistoryDriverSQLite,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
