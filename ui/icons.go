package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/yllada/prayer-times/common"
)

// IconConfig defines the configuration for icon generation.
type IconConfig struct {
	Size       int
	MoonColor  color.RGBA
	EdgeColor  color.RGBA
	StarColor  color.RGBA
	Background color.RGBA
	ShowStar   bool
	FillDisc   bool
}

// DefaultIdleIconConfig returns the config for the normal countdown state.
func DefaultIdleIconConfig() IconConfig {
	return IconConfig{
		Size:      common.TrayIconSize,
		MoonColor: color.RGBA{236, 201, 75, 255}, // Gold
		EdgeColor: color.RGBA{183, 140, 30, 255},
		StarColor: color.RGBA{236, 201, 75, 255},
		ShowStar:  true,
	}
}

// DefaultAlertIconConfig returns the config shown while an athan plays.
func DefaultAlertIconConfig() IconConfig {
	return IconConfig{
		Size:       common.TrayIconSize,
		MoonColor:  color.RGBA{255, 255, 255, 255},
		EdgeColor:  color.RGBA{200, 230, 201, 255},
		StarColor:  color.RGBA{255, 255, 255, 255},
		Background: color.RGBA{56, 142, 60, 255}, // Dark green
		ShowStar:   true,
		FillDisc:   true,
	}
}

// DefaultOfflineIconConfig returns the config used when no schedule could
// be fetched.
func DefaultOfflineIconConfig() IconConfig {
	return IconConfig{
		Size:      common.TrayIconSize,
		MoonColor: color.RGBA{158, 158, 158, 255},
		EdgeColor: color.RGBA{117, 117, 117, 255},
		StarColor: color.RGBA{189, 189, 189, 255},
	}
}

// IconGenerator generates PNG icons for the system tray.
type IconGenerator struct {
	config IconConfig
}

// NewIconGenerator creates a new icon generator with the given config.
func NewIconGenerator(config IconConfig) *IconGenerator {
	return &IconGenerator{config: config}
}

// Generate creates a PNG icon and returns the bytes.
func (g *IconGenerator) Generate() []byte {
	img := g.Image()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		common.LogError("Icon encoding failed: %v", err)
		return nil
	}
	return buf.Bytes()
}

// Image renders the icon without encoding it.
func (g *IconGenerator) Image() *image.RGBA {
	size := g.config.Size
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	if g.config.FillDisc {
		g.drawDisc(img)
	}
	g.drawCrescent(img)
	if g.config.ShowStar {
		g.drawStar(img)
	}
	return img
}

func (g *IconGenerator) drawDisc(img *image.RGBA) {
	size := float64(g.config.Size)
	c := size / 2
	r := size/2 - 0.5

	for y := 0; y < g.config.Size; y++ {
		for x := 0; x < g.config.Size; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			if math.Hypot(fx-c, fy-c) <= r {
				img.Set(x, y, g.config.Background)
			}
		}
	}
}

// drawCrescent subtracts an offset disc from the moon disc.
func (g *IconGenerator) drawCrescent(img *image.RGBA) {
	size := float64(g.config.Size)
	cx, cy := size*0.45, size/2
	r := size * 0.4
	ox, oy := cx+r*0.45, cy-r*0.15
	or := r * 0.85

	inCrescent := func(x, y float64) bool {
		return math.Hypot(x-cx, y-cy) <= r && math.Hypot(x-ox, y-oy) > or
	}

	for y := 0; y < g.config.Size; y++ {
		for x := 0; x < g.config.Size; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			if !inCrescent(fx, fy) {
				continue
			}
			isEdge := !inCrescent(fx-1, fy) || !inCrescent(fx+1, fy) ||
				!inCrescent(fx, fy-1) || !inCrescent(fx, fy+1)
			if isEdge {
				img.Set(x, y, g.config.EdgeColor)
			} else {
				img.Set(x, y, g.config.MoonColor)
			}
		}
	}
}

// drawStar draws a small plus-shaped star inside the crescent's opening.
func (g *IconGenerator) drawStar(img *image.RGBA) {
	size := g.config.Size
	sx, sy := size*7/10, size*2/5
	arm := size / 11
	if arm < 1 {
		arm = 1
	}

	c := g.config.StarColor
	for d := -arm; d <= arm; d++ {
		setIfInside(img, sx+d, sy, c)
		setIfInside(img, sx, sy+d, c)
	}
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

// GenerateIdleIcon generates the normal tray icon.
func GenerateIdleIcon() []byte {
	return NewIconGenerator(DefaultIdleIconConfig()).Generate()
}

// GenerateAlertIcon generates the icon shown while an athan is due.
func GenerateAlertIcon() []byte {
	return NewIconGenerator(DefaultAlertIconConfig()).Generate()
}

// GenerateOfflineIcon generates the icon shown without a schedule.
func GenerateOfflineIcon() []byte {
	return NewIconGenerator(DefaultOfflineIconConfig()).Generate()
}
