package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/soocke/rect-annotator/domain/dataset"
	"github.com/soocke/rect-annotator/domain/geometry"
)

// Mode names accepted in Config.Mode.
const (
	ModeDrag     = "drag"
	ModeTwoClick = "two_click"
	ModeFixed    = "fixed"
	ModeOutline  = "outline"
	ModeEdit     = "edit"
)

// Modes lists the accepted interaction modes in display order.
var Modes = []string{ModeDrag, ModeTwoClick, ModeFixed, ModeOutline, ModeEdit}

// EnvPath names the environment variable that overrides the config file location.
const EnvPath = "ANNOTATOR_CONFIG"

var ErrMissingTrailingSeparator = errors.New("directory must end with a path separator")

// Config holds runtime configuration for an annotation session.
// Fields may be loaded from a JSON or YAML file and edited in the launcher.
type Config struct {
	Debug        bool `json:"debug" yaml:"debug"`
	SkipLauncher bool `json:"skip_launcher" yaml:"skip_launcher"`

	ImageDir  string `json:"image_dir" yaml:"image_dir"`
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Interaction
	Mode         string  `json:"mode" yaml:"mode"`
	ClickPair    string  `json:"click_pair" yaml:"click_pair"`
	AspectRatio  float64 `json:"aspect_ratio" yaml:"aspect_ratio"`
	BoxWidth     int     `json:"box_width" yaml:"box_width"`
	BoxHeight    int     `json:"box_height" yaml:"box_height"`
	OutlineScale float64 `json:"outline_scale" yaml:"outline_scale"`
	DrawMarker   bool    `json:"draw_marker" yaml:"draw_marker"`

	// Drawing
	AnnotationColor string `json:"annotation_color" yaml:"annotation_color"`
	MarkerSize      int    `json:"marker_size" yaml:"marker_size"`
	Thickness       int    `json:"thickness" yaml:"thickness"`
	WindowName      string `json:"window_name" yaml:"window_name"`

	// Output
	PatchFormat string `json:"patch_format" yaml:"patch_format"`
	PatchWidth  int    `json:"patch_width" yaml:"patch_width"`
	PatchHeight int    `json:"patch_height" yaml:"patch_height"`
	Workers     int    `json:"workers" yaml:"workers"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:           false,
		SkipLauncher:    false,
		ImageDir:        "images/",
		OutputDir:       "patches/",
		Mode:            ModeEdit,
		ClickPair:       geometry.TopLeftBottomRight.String(),
		AspectRatio:     0,
		BoxWidth:        64,
		BoxHeight:       128,
		OutlineScale:    1,
		DrawMarker:      false,
		AnnotationColor: "blue",
		MarkerSize:      20,
		Thickness:       2,
		WindowName:      "Annotate",
		PatchFormat:     string(dataset.FormatPNG),
		PatchWidth:      0,
		PatchHeight:     0,
		Workers:         4,
	}
}

// Validate clamps/normalizes values to safe ranges and reports settings that
// cannot be repaired.
func (c *Config) Validate() error {
	if c.BoxWidth <= 0 {
		c.BoxWidth = 64
	}
	if c.BoxHeight <= 0 {
		c.BoxHeight = 128
	}
	if c.OutlineScale <= 0 {
		c.OutlineScale = 1
	}
	if c.MarkerSize <= 0 {
		c.MarkerSize = 20
	}
	if c.Thickness <= 0 {
		c.Thickness = 2
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.PatchWidth < 0 || c.PatchHeight < 0 || (c.PatchWidth == 0) != (c.PatchHeight == 0) {
		c.PatchWidth, c.PatchHeight = 0, 0
	}
	switch c.AnnotationColor {
	case "blue", "green", "red", "cyan":
	default:
		c.AnnotationColor = "blue"
	}
	if strings.TrimSpace(c.WindowName) == "" {
		c.WindowName = "Annotate"
	}
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))

	var errs []error
	if !validMode(c.Mode) {
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	pair, err := geometry.ParseClickPair(c.ClickPair)
	if err != nil {
		errs = append(errs, err)
	} else if pair.NeedsRatio() && c.AspectRatio == 0 && (c.Mode == ModeTwoClick || c.Mode == ModeEdit) {
		errs = append(errs, fmt.Errorf("click pair %s requires a non-zero aspect_ratio", pair))
	}
	if _, err := dataset.ParseFormat(c.PatchFormat); err != nil {
		errs = append(errs, err)
	}
	for name, dir := range map[string]string{"image_dir": c.ImageDir, "output_dir": c.OutputDir} {
		if !strings.HasSuffix(dir, "/") && !strings.HasSuffix(dir, string(os.PathSeparator)) {
			errs = append(errs, fmt.Errorf("%s %q: %w", name, dir, ErrMissingTrailingSeparator))
		}
	}
	return errors.Join(errs...)
}

func validMode(m string) bool {
	for _, v := range Modes {
		if v == m {
			return true
		}
	}
	return false
}

// Path returns $ANNOTATOR_CONFIG when set, else config.json under the user config dir.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(dir, "rect-annotator", "config.json")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load attempts to read configuration from the given file path; .yaml/.yml files
// are parsed as YAML and everything else as JSON. If the file does not exist it
// returns DefaultConfig(). On a parse error it returns defaults with the error.
// Validation problems are returned alongside the loaded config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration to the given path, creating parent directories.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
