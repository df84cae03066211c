package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/logging"
	"github.com/arthur-debert/outfit/pkg/paths"
	"github.com/arthur-debert/outfit/pkg/render"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix starts every environment variable the loader reads.
// OUTFIT_OUTPUT_MODE sets output.mode, OUTFIT_TEMPLATES_DIRS=a,b sets
// templates.dirs.
const EnvPrefix = "OUTFIT_"

var sections = []string{"output", "templates", "stylesheets", "log"}

// Options controls which layers Load reads.
type Options struct {
	// Path is an explicit config file. It must exist.
	Path string
	// SkipUserConfig ignores the file under the XDG config directory.
	SkipUserConfig bool
	// Overrides are dotted keys applied last, typically from flags.
	Overrides map[string]interface{}
}

// Load builds the configuration from every layer.
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")

	base, err := readLayer(&rawBytesProvider{bytes: defaultConfig}, yaml.Parser())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	if !opts.SkipUserConfig {
		if path := userConfigPath(); path != "" {
			layer, err := readFile(path)
			if err != nil {
				return nil, err
			}
			mergeMaps(base, layer)
			logger.Debug().Str("path", path).Msg("loaded user config")
		}
	}

	if opts.Path != "" {
		if _, err := os.Stat(opts.Path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", opts.Path).
				WithDetail("path", opts.Path)
		}
		layer, err := readFile(opts.Path)
		if err != nil {
			return nil, err
		}
		mergeMaps(base, layer)
		logger.Debug().Str("path", opts.Path).Msg("loaded config file")
	}

	envLayer, err := readLayer(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}
	mergeMaps(base, envLayer)

	if len(opts.Overrides) > 0 {
		overrides, err := readLayer(confmap.Provider(opts.Overrides, "."), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
		mergeMaps(base, overrides)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(base, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load configuration")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := postProcess(&cfg); err != nil {
		return nil, err
	}
	logger.Debug().
		Str("mode", cfg.Output.Mode).
		Strs("templates", cfg.Templates.Dirs).
		Strs("stylesheets", cfg.Stylesheets.Dirs).
		Str("theme", cfg.Stylesheets.Theme).
		Msg("configuration loaded")
	return &cfg, nil
}

// Default returns the embedded defaults alone.
func Default() *Config {
	cfg, err := Load(Options{SkipUserConfig: true})
	if err != nil {
		panic(err)
	}
	return cfg
}

func readLayer(p koanf.Provider, parser koanf.Parser) (map[string]interface{}, error) {
	k := koanf.New(".")
	if err := k.Load(p, parser); err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

func readFile(path string) (map[string]interface{}, error) {
	var parser koanf.Parser = yaml.Parser()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		parser = toml.Parser()
	}
	layer, err := readLayer(file.Provider(path), parser)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return layer, nil
}

// userConfigPath returns the first existing user config file.
func userConfigPath() string {
	yamlPath := paths.ConfigFilePath()
	candidates := []string{
		yamlPath,
		strings.TrimSuffix(yamlPath, filepath.Ext(yamlPath)) + ".toml",
	}
	for _, p := range candidates {
		if paths.Exists(p) {
			return p
		}
	}
	return ""
}

// envKey maps OUTFIT_OUTPUT_FILE_PATH to output.file_path: only the
// section separator becomes a dot.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

// mergeMaps merges src into dest: maps merge recursively, lists append
// and everything else is overwritten.
func mergeMaps(dest, src map[string]interface{}) {
	for key, srcVal := range src {
		destVal, destOk := dest[key]
		if !destOk {
			dest[key] = srcVal
			continue
		}

		if srcMap, srcOk := srcVal.(map[string]interface{}); srcOk {
			if destMap, destOk := destVal.(map[string]interface{}); destOk {
				mergeMaps(destMap, srcMap)
				continue
			}
		}

		if isSlice(srcVal) && isSlice(destVal) {
			dest[key] = append(toInterfaceSlice(destVal), toInterfaceSlice(srcVal)...)
			continue
		}

		dest[key] = srcVal
	}
}

func isSlice(v interface{}) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Slice
}

func toInterfaceSlice(v interface{}) []interface{} {
	rv := reflect.ValueOf(v)
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func postProcess(cfg *Config) error {
	if _, err := render.ParseOutputMode(cfg.Output.Mode); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "invalid output.mode %q", cfg.Output.Mode).
			WithDetail("key", "output.mode")
	}
	if cfg.Output.Width < 0 {
		return errors.Newf(errors.ErrConfigLoad, "output.width must not be negative, got %d", cfg.Output.Width).
			WithDetail("key", "output.width")
	}
	if cfg.Output.FilePath != "" {
		cfg.Output.FilePath = paths.ExpandHome(cfg.Output.FilePath)
	}
	if cfg.Stylesheets.Theme == "" {
		cfg.Stylesheets.Theme = "default"
	}

	cfg.Templates.Dirs = resolveDirs(cfg.Templates.Dirs, cfg.Templates.UserDir, paths.UserTemplatesDir())
	cfg.Stylesheets.Dirs = resolveDirs(cfg.Stylesheets.Dirs, cfg.Stylesheets.UserDir, paths.UserStylesheetsDir())
	return nil
}

// resolveDirs expands ~, drops duplicates and appends userDir when enabled
// and present on disk.
func resolveDirs(dirs []string, useUserDir bool, userDir string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(d string) {
		d = filepath.Clean(paths.ExpandHome(d))
		if d == "" || seen[d] {
			return
		}
		seen[d] = true
		out = append(out, d)
	}
	for _, d := range dirs {
		if strings.TrimSpace(d) != "" {
			add(d)
		}
	}
	if useUserDir && paths.Exists(userDir) {
		add(userDir)
	}
	return out
}
