package engine

import (
	"fmt"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the full application configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Window  WindowConfig  `yaml:"window" mapstructure:"window"`
	Font    FontConfig    `yaml:"font" mapstructure:"font"`
	Colors  ColorConfig   `yaml:"colors" mapstructure:"colors"`
	Keys    KeyConfig     `yaml:"keys" mapstructure:"keys"`
	Archive ArchiveConfig `yaml:"archive" mapstructure:"archive"`
	Trigger TriggerConfig `yaml:"trigger" mapstructure:"trigger"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Seed    uint64        `yaml:"seed" mapstructure:"seed"`
}

type CatalogConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
}

type WindowConfig struct {
	Width      int  `yaml:"width" mapstructure:"width"`
	Height     int  `yaml:"height" mapstructure:"height"`
	Fullscreen bool `yaml:"fullscreen" mapstructure:"fullscreen"`
	VSync      bool `yaml:"vsync" mapstructure:"vsync"`
}

// FontConfig selects the TTF font. An empty file falls back to
// GetDefaultFontPath.
type FontConfig struct {
	File string `yaml:"file" mapstructure:"file"`
	Size int    `yaml:"size" mapstructure:"size"`
}

// ColorConfig holds "R,G,B,A" color strings.
type ColorConfig struct {
	Background string `yaml:"background" mapstructure:"background"`
	Text       string `yaml:"text" mapstructure:"text"`
	Highlight  string `yaml:"highlight" mapstructure:"highlight"`
}

type KeyConfig struct {
	Left  string `yaml:"left" mapstructure:"left"`
	Right string `yaml:"right" mapstructure:"right"`
}

// ArchiveConfig enables the SQLite session archive when Path is set.
type ArchiveConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// TriggerConfig enables the DLP-IO8-G trigger box when Device is set.
type TriggerConfig struct {
	Device string `yaml:"device" mapstructure:"device"`
	Baud   int    `yaml:"baud" mapstructure:"baud"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

func (c KeyConfig) Keys() Keys {
	return Keys{Left: strings.ToLower(c.Left), Right: strings.ToLower(c.Right)}
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"catalog":    "catalog.path",
	"output-dir": "output.dir",
	"fullscreen": "window.fullscreen",
	"seed":       "seed",
	"archive":    "archive.path",
	"trigger":    "trigger.device",
	"log-level":  "log.level",
}

// Load reads configuration from defaults, config.yaml in the working
// directory, CITYCOMPARE_* environment variables and, when given, flags.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CITYCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("catalog.path", "city.csv")
	v.SetDefault("catalog.encoding", "utf-8")
	v.SetDefault("output.dir", "data")
	v.SetDefault("output.encoding", "utf-8")
	v.SetDefault("window.width", 1200)
	v.SetDefault("window.height", 900)
	v.SetDefault("window.fullscreen", false)
	v.SetDefault("window.vsync", true)
	v.SetDefault("font.file", "")
	v.SetDefault("font.size", 32)
	v.SetDefault("colors.background", "128,128,128,255")
	v.SetDefault("colors.text", "255,255,255,255")
	v.SetDefault("colors.highlight", "255,255,0,255")
	v.SetDefault("keys.left", "f")
	v.SetDefault("keys.right", "j")
	v.SetDefault("archive.path", "")
	v.SetDefault("trigger.device", "")
	v.SetDefault("trigger.baud", 9600)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("seed", 0)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, eris.Wrapf(err, "config: bind flag %s", name)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	keys := c.Keys.Keys()
	if keys.Left == "" || keys.Right == "" || keys.Left == keys.Right {
		return eris.Errorf("config: keys.left and keys.right must be distinct, got %q and %q", c.Keys.Left, c.Keys.Right)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return eris.Errorf("config: invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Font.Size <= 0 {
		return eris.Errorf("config: invalid font size %d", c.Font.Size)
	}
	for _, name := range []string{c.Catalog.Encoding, c.Output.Encoding} {
		if _, err := LookupEncoding(name); err != nil {
			return eris.Wrap(err, "config")
		}
	}
	for _, s := range []string{c.Colors.Background, c.Colors.Text, c.Colors.Highlight} {
		if _, err := ParseColor(s); err != nil {
			return err
		}
	}
	return nil
}

// ParseColor parses "R,G,B" or "R,G,B,A". Alpha defaults to 255.
func ParseColor(s string) (sdl.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return sdl.Color{}, eris.Errorf("config: bad color %q", s)
	}
	var vals [4]uint8
	vals[3] = 255
	for i, p := range parts {
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%d", &n); err != nil || n < 0 || n > 255 {
			return sdl.Color{}, eris.Errorf("config: bad color %q", s)
		}
		vals[i] = uint8(n)
	}
	return sdl.Color{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
}

// Palette is the parsed form of ColorConfig.
type Palette struct {
	Background sdl.Color
	Text       sdl.Color
	Highlight  sdl.Color
}

func (c ColorConfig) Palette() Palette {
	// Validate has already rejected malformed colors.
	bg, _ := ParseColor(c.Background)
	text, _ := ParseColor(c.Text)
	hl, _ := ParseColor(c.Highlight)
	return Palette{Background: bg, Text: text, Highlight: hl}
}
