// Package viewer draws arena snapshots as a top-down terminal map.
package viewer

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"

	"SentryArena/internal/game"
)

const hudRows = 1

var (
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleObstacle   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	stylePatrol     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleChase      = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	stylePlayer     = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleShotAgent  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleShotPlayer = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHUD        = tcell.StyleDefault.Reverse(true)
)

const (
	GlyphObstacle   = '#'
	GlyphAgent      = 'S'
	GlyphPlayer     = '@'
	GlyphProjectile = '*'
)

// Viewport maps arena ground coordinates onto a block of terminal cells.
// Larger z is drawn higher up.
type Viewport struct {
	Left, Top     int
	Width, Height int
	Bounds        orb.Bound
}

// NewViewport fits the arena inside a screen of w by h cells, leaving the
// top rows for the HUD and one cell of border on every side.
func NewViewport(w, h int, bounds orb.Bound) Viewport {
	return Viewport{
		Left:   1,
		Top:    hudRows + 1,
		Width:  max(w-2, 1),
		Height: max(h-hudRows-2, 1),
		Bounds: bounds,
	}
}

// Cell converts a ground position to a screen cell. ok is false for
// positions outside the arena.
func (v Viewport) Cell(p game.Vec3) (x, y int, ok bool) {
	bw := v.Bounds.Max.X() - v.Bounds.Min.X()
	bd := v.Bounds.Max.Y() - v.Bounds.Min.Y()
	if bw <= 0 || bd <= 0 {
		return 0, 0, false
	}
	fx := (p.X - v.Bounds.Min.X()) / bw
	fz := (v.Bounds.Max.Y() - p.Z) / bd
	if fx < 0 || fx > 1 || fz < 0 || fz > 1 {
		return 0, 0, false
	}
	x = v.Left + min(int(math.Floor(fx*float64(v.Width))), v.Width-1)
	y = v.Top + min(int(math.Floor(fz*float64(v.Height))), v.Height-1)
	return x, y, true
}

// Render clears the screen and draws one snapshot. It does not call Show.
func Render(s tcell.Screen, snap game.Snapshot) {
	s.Clear()
	w, h := s.Size()
	vp := NewViewport(w, h, snap.Bounds)

	drawBorder(s, vp)
	for _, o := range snap.Obstacles {
		drawObstacle(s, vp, o)
	}
	for _, p := range snap.Projectiles {
		style := styleShotAgent
		if p.OwnerKind == game.OwnerPlayer {
			style = styleShotPlayer
		}
		if x, y, ok := vp.Cell(p.Pos); ok {
			s.SetContent(x, y, GlyphProjectile, nil, style)
		}
	}
	for _, a := range snap.Agents {
		style := stylePatrol
		if a.State == game.StateChasing {
			style = styleChase
		}
		if x, y, ok := vp.Cell(a.Pos); ok {
			s.SetContent(x, y, GlyphAgent, nil, style)
		}
	}
	if p := snap.Player; p != nil {
		if x, y, ok := vp.Cell(p.Pos); ok {
			s.SetContent(x, y, GlyphPlayer, nil, stylePlayer)
		}
	}
	drawText(s, 0, 0, w, HUD(snap), styleHUD)
}

// HUD is the status line shown above the map.
func HUD(snap game.Snapshot) string {
	chasing := 0
	for _, a := range snap.Agents {
		if a.State == game.StateChasing {
			chasing++
		}
	}
	player := "player down"
	if p := snap.Player; p != nil {
		ammo := fmt.Sprintf("%d/%d", p.Ammo.Current, p.Ammo.Max)
		if p.Ammo.Infinite {
			ammo = "inf"
		}
		player = fmt.Sprintf("hp %d/%d ammo %s", p.Health, p.MaxHealth, ammo)
	}
	return fmt.Sprintf(" t=%.1fs score=%d %s agents=%d chasing=%d shots=%d ",
		snap.Now, snap.Score, player, len(snap.Agents), chasing, len(snap.Projectiles))
}

func drawBorder(s tcell.Screen, vp Viewport) {
	left, right := vp.Left-1, vp.Left+vp.Width
	top, bottom := vp.Top-1, vp.Top+vp.Height
	for x := left; x <= right; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, styleBorder)
		s.SetContent(x, bottom, tcell.RuneHLine, nil, styleBorder)
	}
	for y := top; y <= bottom; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, styleBorder)
		s.SetContent(right, y, tcell.RuneVLine, nil, styleBorder)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, styleBorder)
	s.SetContent(right, top, tcell.RuneURCorner, nil, styleBorder)
	s.SetContent(left, bottom, tcell.RuneLLCorner, nil, styleBorder)
	s.SetContent(right, bottom, tcell.RuneLRCorner, nil, styleBorder)
}

func drawObstacle(s tcell.Screen, vp Viewport, o game.Obstacle) {
	x0, y0, ok0 := vp.Cell(game.Vec3{X: o.Footprint.Min.X(), Z: o.Footprint.Max.Y()})
	x1, y1, ok1 := vp.Cell(game.Vec3{X: o.Footprint.Max.X(), Z: o.Footprint.Min.Y()})
	if !ok0 || !ok1 {
		return
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			s.SetContent(x, y, GlyphObstacle, nil, styleObstacle)
		}
	}
}

func drawText(s tcell.Screen, x, y, maxW int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= maxW {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
