package engine

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
	"github.com/rotisserie/eris"
)

// GetDefaultFontPath looks for a TTF in ./fonts first, then in the usual
// system locations. City names may be Japanese, so CJK fonts come first.
func GetDefaultFontPath() string {
	entries, err := os.ReadDir("fonts")
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext == ".ttf" || ext == ".ttc" || ext == ".otf" {
				return filepath.Join("fonts", entry.Name())
			}
		}
	}

	var paths []string
	switch runtime.GOOS {
	case "windows":
		paths = []string{"C:\\Windows\\Fonts\\meiryo.ttc", "C:\\Windows\\Fonts\\arial.ttf"}
	case "darwin":
		paths = []string{
			"/System/Library/Fonts/ヒラギノ角ゴシック W3.ttc",
			"/System/Library/Fonts/Helvetica.ttc",
		}
	default:
		paths = []string{
			"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func OpenFont(file string, size int) (*ttf.Font, error) {
	if file == "" {
		file = GetDefaultFontPath()
	}
	if file == "" {
		return nil, eris.New("font: no font file configured and no system font found")
	}
	font, err := ttf.OpenFont(file, float32(size))
	if err != nil {
		return nil, eris.Wrapf(err, "font: open %s", file)
	}
	return font, nil
}

type textKey struct {
	text  string
	color sdl.Color
}

type textTexture struct {
	tex  *sdl.Texture
	w, h float32
}

// TextCache keeps one texture per rendered string and color so the poll
// loops can redraw every iteration without re-rasterizing.
type TextCache struct {
	renderer *sdl.Renderer
	font     *ttf.Font
	entries  map[textKey]textTexture
}

func NewTextCache(renderer *sdl.Renderer, font *ttf.Font) *TextCache {
	return &TextCache{
		renderer: renderer,
		font:     font,
		entries:  make(map[textKey]textTexture),
	}
}

func (c *TextCache) Get(text string, color sdl.Color) (textTexture, error) {
	key := textKey{text: text, color: color}
	if entry, ok := c.entries[key]; ok {
		return entry, nil
	}

	surf, err := c.font.RenderTextBlended(text, color)
	if err != nil {
		return textTexture{}, eris.Wrapf(err, "text: render %q", text)
	}
	defer surf.Destroy()

	tex, err := c.renderer.CreateTextureFromSurface(surf)
	if err != nil {
		return textTexture{}, eris.Wrapf(err, "text: upload %q", text)
	}
	entry := textTexture{tex: tex, w: float32(surf.W), h: float32(surf.H)}
	c.entries[key] = entry
	return entry, nil
}

func (c *TextCache) Destroy() {
	for _, entry := range c.entries {
		entry.tex.Destroy()
	}
	c.entries = make(map[textKey]textTexture)
}
