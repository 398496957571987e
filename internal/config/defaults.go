package config

// Default returns the repository default configuration. Paths are relative
// placeholders until normalize expands them.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: "~/comics",
			DataDir:    "~/.local/share/longbox",
			LogDir:     "~/.local/share/longbox/logs",
			APIBind:    "127.0.0.1:8080",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
		Library: Library{
			UnsortedSeries: "Unsorted",
		},
	}
}
