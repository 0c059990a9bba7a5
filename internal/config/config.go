package config

import (
	"fmt"
	"strings"

	"github.com/example/go-texttok/internal/vocab"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths     PathsConfig     `mapstructure:"paths"`
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Tokenizer TokenizerConfig `mapstructure:"tokenizer"`
	Server    ServerConfig    `mapstructure:"server"`
	LogLevel  string          `mapstructure:"log_level"`
}

type PathsConfig struct {
	Corpus      string `mapstructure:"corpus"`
	PiecesModel string `mapstructure:"pieces_model"`
}

type CorpusConfig struct {
	KeepBlank bool `mapstructure:"keep_blank"`
	Sentences bool `mapstructure:"sentences"`
}

type TokenizerConfig struct {
	Padding  string `mapstructure:"padding"`
	Reverse  bool   `mapstructure:"reverse"`
	NumWords int    `mapstructure:"num_words"`
	Lower    bool   `mapstructure:"lower"`
	Filters  string `mapstructure:"filters"`
	Split    string `mapstructure:"split"`
	OOVToken string `mapstructure:"oov_token"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	MaxTokens       int    `mapstructure:"max_tokens"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// flagKeys maps each registered flag to its nested config key.
var flagKeys = map[string]string{
	"corpus":                  "paths.corpus",
	"pieces-model":            "paths.pieces_model",
	"corpus-keep-blank":       "corpus.keep_blank",
	"corpus-sentences":        "corpus.sentences",
	"padding":                 "tokenizer.padding",
	"reverse":                 "tokenizer.reverse",
	"num-words":               "tokenizer.num_words",
	"lower":                   "tokenizer.lower",
	"filters":                 "tokenizer.filters",
	"split":                   "tokenizer.split",
	"oov-token":               "tokenizer.oov_token",
	"server-listen-addr":      "server.listen_addr",
	"server-max-text-bytes":   "server.max_text_bytes",
	"server-max-tokens":       "server.max_tokens",
	"server-shutdown-timeout": "server.shutdown_timeout",
	"log-level":               "log_level",
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			Corpus:      "corpus.txt",
			PiecesModel: "",
		},
		Corpus: CorpusConfig{
			KeepBlank: false,
			Sentences: false,
		},
		Tokenizer: TokenizerConfig{
			Padding:  PaddingPost,
			Reverse:  false,
			NumWords: 0,
			Lower:    true,
			Filters:  vocab.DefaultFilters,
			Split:    " ",
			OOVToken: "",
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			MaxTextBytes:    4096,
			MaxTokens:       4096,
			ShutdownTimeout: 30,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("corpus", defaults.Paths.Corpus, "Corpus file, one text per line ('-' for stdin)")
	fs.String("pieces-model", defaults.Paths.PiecesModel, "Optional SentencePiece model; fits the vocabulary on subword pieces")
	fs.Bool("corpus-keep-blank", defaults.Corpus.KeepBlank, "Keep blank corpus lines as empty texts")
	fs.Bool("corpus-sentences", defaults.Corpus.Sentences, "Split corpus lines into one text per sentence")
	fs.String("padding", defaults.Tokenizer.Padding, "Padding side (pre|post)")
	fs.Bool("reverse", defaults.Tokenizer.Reverse, "Reverse token sequences")
	fs.Int("num-words", defaults.Tokenizer.NumWords, "Keep only ids below this value (0 = all words)")
	fs.Bool("lower", defaults.Tokenizer.Lower, "Lower-case texts before splitting")
	fs.String("filters", defaults.Tokenizer.Filters, "Characters removed from texts before splitting")
	fs.String("split", defaults.Tokenizer.Split, "Word separator")
	fs.String("oov-token", defaults.Tokenizer.OOVToken, "Token that replaces unknown and capped words (empty = drop them)")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Maximum text size accepted by POST /encode")
	fs.Int("server-max-tokens", defaults.Server.MaxTokens, "Maximum number of ids accepted by POST /decode")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("TEXTTOK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("texttok")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	padding, err := NormalizePadding(cfg.Tokenizer.Padding)
	if err != nil {
		return Config{}, err
	}
	cfg.Tokenizer.Padding = padding

	if cfg.Tokenizer.NumWords < 0 {
		return Config{}, fmt.Errorf("num_words must be non-negative, got %d", cfg.Tokenizer.NumWords)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.corpus", c.Paths.Corpus)
	v.SetDefault("paths.pieces_model", c.Paths.PiecesModel)
	v.SetDefault("corpus.keep_blank", c.Corpus.KeepBlank)
	v.SetDefault("corpus.sentences", c.Corpus.Sentences)
	v.SetDefault("tokenizer.padding", c.Tokenizer.Padding)
	v.SetDefault("tokenizer.reverse", c.Tokenizer.Reverse)
	v.SetDefault("tokenizer.num_words", c.Tokenizer.NumWords)
	v.SetDefault("tokenizer.lower", c.Tokenizer.Lower)
	v.SetDefault("tokenizer.filters", c.Tokenizer.Filters)
	v.SetDefault("tokenizer.split", c.Tokenizer.Split)
	v.SetDefault("tokenizer.oov_token", c.Tokenizer.OOVToken)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.max_tokens", c.Server.MaxTokens)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("log_level", c.LogLevel)
}

// bindFlags binds every registered flag present in fs to its nested key, so
// a flag only wins over env and config file when it was set explicitly.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}

		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}

	return nil
}
