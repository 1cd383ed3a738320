// Package overlay implements C10: pure-view drawing of the scrollbar,
// navigation chevrons, and metadata panel, grounded on ui.go's
// renderDebugOverlay (SetDrawColor + FillRect info bar) generalised
// from a fixed info bar to settings-driven widgets. Overlay holds no
// state of its own; every call takes the current table/settings/index.
package overlay

import (
	"math"
	"strings"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"asapcabinetfe/internal/config"
	"asapcabinetfe/internal/render"
	"asapcabinetfe/internal/table"
)

// Draw renders the scrollbar, chevrons, and metadata panel over
// renderer for the playfield role's viewport (playfieldW/H), per §4.10.
// tr renders the metadata panel's title/manufacturer/year text; it may
// be nil, in which case the panel draws its box and broken-badge only.
func Draw(renderer *sdl.Renderer, settings *config.Settings, t *table.Record, index, count int, playfieldW, playfieldH int32, elapsed time.Duration, tr *render.TitleRenderer) {
	if settings.ShowScrollbar {
		drawScrollbar(renderer, settings, index, count, playfieldW)
	}
	if settings.ShowArrowHint {
		drawChevrons(renderer, settings, playfieldW, playfieldH, elapsed)
	}
	if settings.ShowMetadata && t != nil {
		drawMetadataPanel(renderer, settings, t, tr)
	}
}

// drawScrollbar draws a bar of length_factor×playfield_width centred at
// the top, with a thumb positioned proportionally to the current index.
func drawScrollbar(renderer *sdl.Renderer, settings *config.Settings, index, count int, playfieldW int32) {
	trackW := int32(float64(playfieldW) * settings.ScrollbarLengthFactor)
	trackX := (playfieldW - trackW) / 2
	const trackH, trackY = int32(6), int32(4)

	renderer.SetDrawColor(60, 60, 60, 160)
	renderer.FillRect(&sdl.Rect{X: trackX, Y: trackY, W: trackW, H: trackH})

	const thumbW = int32(24)
	frac := 0.0
	if count > 1 {
		frac = float64(index) / float64(count-1)
	}
	thumbX := trackX + int32(frac*float64(trackW-thumbW))

	renderer.SetDrawColor(230, 230, 230, 220)
	renderer.FillRect(&sdl.Rect{X: thumbX, Y: trackY, W: thumbW, H: trackH})
}

// drawChevrons draws left/right arrows vertically centred, with a
// sinusoidal alpha fade between 0.2 and 1.0 per second.
func drawChevrons(renderer *sdl.Renderer, settings *config.Settings, playfieldW, playfieldH int32, elapsed time.Duration) {
	phase := math.Sin(elapsed.Seconds() * 2 * math.Pi)
	alpha := 0.2 + 0.8*(phase+1)/2

	centerY := playfieldH / 2
	const size = int32(32)

	drawChevron(renderer, settings, 16, centerY, size, true, alpha)
	drawChevron(renderer, settings, playfieldW-16-size, centerY, size, false, alpha)
}

func drawChevron(renderer *sdl.Renderer, settings *config.Settings, x, centerY, size int32, pointLeft bool, alpha float64) {
	top := settings.ArrowTopColor
	bottom := settings.ArrowBottomColor
	a := uint8(alpha * 255)

	var p1, p2, p3 sdl.Point
	if pointLeft {
		p1 = sdl.Point{X: x + size, Y: centerY - size/2}
		p2 = sdl.Point{X: x, Y: centerY}
		p3 = sdl.Point{X: x + size, Y: centerY + size/2}
	} else {
		p1 = sdl.Point{X: x, Y: centerY - size/2}
		p2 = sdl.Point{X: x + size, Y: centerY}
		p3 = sdl.Point{X: x, Y: centerY + size/2}
	}

	renderer.SetDrawColor(top.R, top.G, top.B, a)
	renderer.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
	renderer.SetDrawColor(bottom.R, bottom.G, bottom.B, a)
	renderer.DrawLine(p2.X, p2.Y, p3.X, p3.Y)
}

// drawMetadataPanel draws a translucent box in the bottom-left with the
// current table's title/manufacturer/year, plus a broken-table badge
// (§7's "rendered with a distinct badge" requirement).
func drawMetadataPanel(renderer *sdl.Renderer, settings *config.Settings, t *table.Record, tr *render.TitleRenderer) {
	w := int32(settings.MetadataPanelWidth)
	h := int32(settings.MetadataPanelHeight)
	alpha := uint8(settings.MetadataPanelAlpha * 255)

	_, winH, _ := renderer.GetOutputSize()
	rect := &sdl.Rect{X: 16, Y: winH - h - 16, W: w, H: h}

	renderer.SetDrawColor(10, 10, 10, alpha)
	renderer.FillRect(rect)
	renderer.SetDrawColor(255, 255, 255, alpha)
	renderer.DrawRect(rect)

	if tr != nil {
		drawMetadataLine(renderer, tr, t.Title, rect.X+8, rect.Y+8, settings)
		if line := manufacturerYear(t); line != "" {
			drawMetadataLine(renderer, tr, line, rect.X+8, rect.Y+8+int32(settings.FontSize)+4, settings)
		}
	}

	if t.IsBroken {
		badge := &sdl.Rect{X: rect.X + w - 20, Y: rect.Y + 4, W: 16, H: 16}
		renderer.SetDrawColor(220, 40, 40, 255)
		renderer.FillRect(badge)
	}
}

// manufacturerYear joins a table's manufacturer and year into one line,
// omitting either side that is absent.
func manufacturerYear(t *table.Record) string {
	parts := make([]string, 0, 2)
	if t.Manufacturer != "" {
		parts = append(parts, t.Manufacturer)
	}
	if t.Year != "" {
		parts = append(parts, t.Year)
	}
	return strings.Join(parts, " · ")
}

// drawMetadataLine renders text through tr into an uncached texture and
// blits it at (x, y); the texture is never cache-resident, matching
// the title texture's own lifecycle (§4.3 step 4).
func drawMetadataLine(renderer *sdl.Renderer, tr *render.TitleRenderer, text string, x, y int32, settings *config.Settings) {
	if text == "" {
		return
	}
	tex, w, h, err := tr.RenderTitle(renderer, text, toSDLColor(settings.FontColor), toSDLColor(settings.FontBgColor))
	if err != nil {
		return
	}
	defer tex.Destroy()
	renderer.Copy(tex, nil, &sdl.Rect{X: x, Y: y, W: w, H: h})
}

func toSDLColor(c config.Color) sdl.Color {
	return sdl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
