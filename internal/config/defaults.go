package config

const (
	defaultDataDir                  = "~/.local/share/imprint/data"
	defaultLogDir                   = "~/.local/share/imprint/logs"
	defaultGenerationBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultGenerationModel          = "google/gemini-3-flash-preview"
	defaultGenerationTimeoutSeconds = 60
	defaultCompilerBinary           = "tectonic"
	defaultCompilerTimeoutSeconds   = 120
	defaultExpansionCompleteness    = "standard"
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Generation: Generation{
			BaseURL:        defaultGenerationBaseURL,
			Model:          defaultGenerationModel,
			TimeoutSeconds: defaultGenerationTimeoutSeconds,
		},
		Compiler: Compiler{
			Binary:         defaultCompilerBinary,
			TimeoutSeconds: defaultCompilerTimeoutSeconds,
		},
		Expansion: Expansion{
			AssumeDefaults: true,
			Completeness:   defaultExpansionCompleteness,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
