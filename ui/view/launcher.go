package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/rect-annotator/config"
	"github.com/soocke/rect-annotator/domain/dataset"
	"github.com/soocke/rect-annotator/domain/geometry"
	"github.com/soocke/rect-annotator/ui/images"
	"github.com/soocke/rect-annotator/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Launcher is the pre-session form: it edits the configuration, persists it and
// reports whether the operator chose to start annotating.
type Launcher struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	widgets map[string]*TextWidget // keyed by internal field id
	combos  map[string]*TComboboxWidget
	choices map[string][]string
	status  *TLabelWidget
	preview *LabelWidget
	started bool
}

// NewLauncher creates the form bound to cfg.
func NewLauncher(cfg *config.Config, cfgPath string, logger *slog.Logger) *Launcher {
	return &Launcher{
		cfg:     cfg,
		cfgPath: cfgPath,
		logger:  logger,
		widgets: make(map[string]*TextWidget),
		combos:  make(map[string]*TComboboxWidget),
		choices: make(map[string][]string),
	}
}

// Run builds the form, blocks in the Tk event loop and returns true when the
// operator pressed Start with a valid configuration.
func (v *Launcher) Run(title string) bool {
	App.WmTitle(title)
	theme.InitStyles()
	WmProtocol(App, "WM_DELETE_WINDOW", func() { Destroy(App) })
	row := v.build(0)
	v.status = TLabel(Txt(""), Style(theme.StyleHintLabel), Anchor("w"))
	Grid(v.status, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	v.refreshPreview()
	App.Wait()
	return v.started
}

func (v *Launcher) build(startRow int) (row int) {
	c := v.cfg
	row = startRow
	label := func(text string) {
		lbl := Label(Txt(text), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
	}
	makeRow := func(id, text, value string) {
		label(text)
		w := Text(Height(1), Width(32))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeCombo := func(id, text string, values []string, current string) {
		label(text)
		cb := TCombobox(Values(values), Width(30))
		Grid(cb, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		cb.Current(indexOf(values, current))
		v.combos[id] = cb
		v.choices[id] = values
		row++
	}
	makeRow("imageDir", "Image Dir (ends with /)", c.ImageDir)
	makeRow("outputDir", "Output Dir (ends with /)", c.OutputDir)
	makeCombo("mode", "Mode", config.Modes, c.Mode)
	makeCombo("clickPair", "Click Pair", clickPairNames(), c.ClickPair)
	makeRow("aspectRatio", "Aspect Ratio (w/h, <0 keeps width)", fmt.Sprintf("%.3f", c.AspectRatio))
	makeRow("boxWidth", "Box Width", fmt.Sprintf("%d", c.BoxWidth))
	makeRow("boxHeight", "Box Height", fmt.Sprintf("%d", c.BoxHeight))
	makeRow("outlineScale", "Outline Scale", fmt.Sprintf("%.2f", c.OutlineScale))
	makeRow("drawMarker", "Draw Marker (true/false)", fmt.Sprintf("%t", c.DrawMarker))
	makeCombo("color", "Annotation Color", theme.AnnotationColorNames, c.AnnotationColor)
	makeCombo("patchFormat", "Patch Format", []string{"png", "jpg", "webp"}, c.PatchFormat)
	makeRow("patchWidth", "Patch Width (0 keeps size)", fmt.Sprintf("%d", c.PatchWidth))
	makeRow("patchHeight", "Patch Height (0 keeps size)", fmt.Sprintf("%d", c.PatchHeight))

	v.preview = Label(Txt("no preview"), Borderwidth(1), Relief("groove"))
	Grid(v.preview, Row(startRow), Column(2), Rowspan(row-startRow), Sticky("n"), Padx("0.4m"), Pady("0.3m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	startBtn := TButton(Txt("Start"), Style(theme.StylePrimaryButton), Command(func() { v.start() }))
	Grid(startBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	saveBtn := Button(Txt("Save"), Command(func() { v.ApplyChanges() }))
	Grid(saveBtn, In(btnFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	quitBtn := TButton(Txt("Quit"), Style(theme.StyleDangerButton), Command(func() { Destroy(App) }))
	Grid(quitBtn, In(btnFrame), Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	row++
	return row
}

func (v *Launcher) start() {
	if !v.ApplyChanges() {
		return
	}
	v.started = true
	Destroy(App)
}

func (v *Launcher) text(id string) (string, bool) {
	w := v.widgets[id]
	if w == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), "")), true
}

func (v *Launcher) combo(id string) (string, bool) {
	cb := v.combos[id]
	if cb == nil {
		return "", false
	}
	idx, err := strconv.Atoi(cb.Current(nil))
	values := v.choices[id]
	if err != nil || idx < 0 || idx >= len(values) {
		return "", false
	}
	return values[idx], true
}

// ApplyChanges parses the form into the config, validates and saves it. It
// returns false and shows the problem when the result is invalid.
func (v *Launcher) ApplyChanges() bool {
	if v.cfg == nil {
		return false
	}
	cfg := *v.cfg // copy
	assignString := func(id string, dst *string) {
		if s, ok := v.text(id); ok && s != "" {
			*dst = s
		}
	}
	assignFloat := func(id string, dst *float64) {
		if s, ok := v.text(id); ok {
			if f, ok := parseFloatField(s); ok {
				*dst = f
			}
		}
	}
	assignInt := func(id string, dst *int) {
		if s, ok := v.text(id); ok {
			if i, ok := parseIntField(s); ok {
				*dst = i
			}
		}
	}
	assignCombo := func(id string, dst *string) {
		if s, ok := v.combo(id); ok {
			*dst = s
		}
	}
	assignString("imageDir", &cfg.ImageDir)
	assignString("outputDir", &cfg.OutputDir)
	assignCombo("mode", &cfg.Mode)
	assignCombo("clickPair", &cfg.ClickPair)
	assignFloat("aspectRatio", &cfg.AspectRatio)
	assignInt("boxWidth", &cfg.BoxWidth)
	assignInt("boxHeight", &cfg.BoxHeight)
	assignFloat("outlineScale", &cfg.OutlineScale)
	if s, ok := v.text("drawMarker"); ok {
		if b, ok := parseBoolLoose(s); ok {
			cfg.DrawMarker = b
		}
	}
	assignCombo("color", &cfg.AnnotationColor)
	assignCombo("patchFormat", &cfg.PatchFormat)
	assignInt("patchWidth", &cfg.PatchWidth)
	assignInt("patchHeight", &cfg.PatchHeight)
	if err := cfg.Validate(); err != nil {
		v.setStatus(err.Error())
		return false
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
		v.setStatus("save failed: " + err.Error())
	} else {
		if v.logger != nil {
			v.logger.Info("config saved", "path", v.cfgPath)
		}
		v.setStatus("saved " + v.cfgPath)
	}
	v.refreshPreview()
	return true
}

func (v *Launcher) setStatus(s string) {
	if v.status != nil {
		v.status.Configure(Txt(s))
	}
}

// refreshPreview shows a thumbnail of the first image of the image dir.
func (v *Launcher) refreshPreview() {
	if v.preview == nil {
		return
	}
	src := dataset.NewSource(v.cfg.ImageDir, v.logger)
	paths, err := src.List()
	if err != nil || len(paths) == 0 {
		v.preview.Configure(Txt("no images found"))
		return
	}
	img, err := src.Load(paths[0])
	if err != nil {
		v.preview.Configure(Txt("preview unavailable"))
		return
	}
	thumb := images.ScaleToFit(img, 240, 240)
	v.preview.Configure(Image(NewPhoto(Data(images.EncodePNG(thumb)))), Txt(fmt.Sprintf("%d images", len(paths))), Compound("top"))
}

func clickPairNames() []string {
	pairs := []geometry.ClickPair{
		geometry.TopLeftBottomRight, geometry.CenterTop, geometry.CenterRight, geometry.CenterLeft,
		geometry.CenterBottom, geometry.TopBottom, geometry.LeftRight,
	}
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.String()
	}
	return out
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if strings.EqualFold(s, v) {
			return i
		}
	}
	return 0
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
