package configloader

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Options описывает, откуда и как загружать конфиг.
type Options struct {
	Path      string                 // путь к YAML-файлу (опционально)
	EnvPrefix string                 // префикс ENV переменных, например: "TASKTRACKER"
	Defaults  map[string]interface{} // значения по умолчанию
	Out       interface{}            // указатель на структуру конфига
}

// Load загружает конфиг в opts.Out: из YAML + ENV + defaults.
func Load(opts Options) error {
	v := viper.New()

	// Шаг 1: apply defaults
	for key, val := range opts.Defaults {
		v.SetDefault(key, val)
	}

	// Шаг 2: environment override
	v.SetEnvPrefix(opts.EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Шаг 3: read file (if provided)
	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("configloader: read config %q: %w", opts.Path, err)
		}
	}

	// Шаг 4: decode
	if err := decode(v.AllSettings(), opts.Out); err != nil {
		return fmt.Errorf("configloader: decode failed: %w", err)
	}

	return nil
}
