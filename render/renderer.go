package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/astro-blast/collider"
	"github.com/lixenwraith/astro-blast/engine"
	"github.com/lixenwraith/astro-blast/game"
	"github.com/lixenwraith/astro-blast/vmath"
)

// cellAspect compensates for terminal cells being roughly twice as tall
// as they are wide
const cellAspect = 2.0

// unitsPerDistance converts the camera's zoom distance into world units
// visible along the screen's height
const unitsPerDistance = 8.0

var (
	craftStyle    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	asteroidStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	bulletStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	hudStyle      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Renderer projects the simulation onto a terminal screen, centered on
// the local player's camera.
type Renderer struct {
	screen     tcell.Screen
	ecs        *engine.ECS
	controller *game.Controller
}

// New creates a renderer on a fresh terminal screen
func New(ecs *engine.ECS, controller *game.Controller) (*Renderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return NewWithScreen(screen, ecs, controller), nil
}

// NewWithScreen creates a renderer on an already initialized screen
func NewWithScreen(screen tcell.Screen, ecs *engine.ECS, controller *game.Controller) *Renderer {
	return &Renderer{
		screen:     screen,
		ecs:        ecs,
		controller: controller,
	}
}

// Screen exposes the underlying screen for input polling
func (r *Renderer) Screen() tcell.Screen {
	return r.screen
}

// Close releases the terminal
func (r *Renderer) Close() {
	r.screen.Fini()
}

// Frame draws one complete frame: every visible entity projected
// relative to the camera, then the score line.
func (r *Renderer) Frame() {
	var center vmath.Vec2
	distance := float32(game.CameraInitialDistance)
	r.ecs.Visit(r.controller.Camera(), func(e *engine.Entity) {
		center = e.Transform.Position
		distance = e.Camera.Distance
	})

	width, height := r.screen.Size()
	if width == 0 || height == 0 {
		return
	}
	scale := float32(height) / (distance * unitsPerDistance)

	r.screen.Clear()

	r.ecs.Each(func(_ engine.EntityID, e *engine.Entity) bool {
		switch e.Kind() {
		case engine.KindSpacecraft:
			r.drawSpacecraft(e, center, scale, width, height)
		case engine.KindAsteroid:
			r.drawAsteroid(e, center, scale, width, height)
		case engine.KindBullet:
			r.plot(e.Transform.Position, center, scale, width, height, '*', bulletStyle)
		}
		return true
	})

	r.drawHUD(width)
	r.screen.Show()
}

// drawSpacecraft plots the craft's body triangle, nose vertex marked
func (r *Renderer) drawSpacecraft(e *engine.Entity, center vmath.Vec2, scale float32, width, height int) {
	sin, cos := vmath.SinCos(e.Transform.Rotation)
	for _, shape := range e.Collider.Shapes {
		triangle, ok := shape.(collider.Triangle)
		if !ok {
			continue
		}
		for i, vertex := range triangle.Vertices {
			world := vertex.Rotate(sin, cos).Add(e.Transform.Position)
			mark := 'o'
			if i == 0 {
				mark = '^'
			}
			r.plot(world, center, scale, width, height, mark, craftStyle)
		}
	}
}

func (r *Renderer) drawAsteroid(e *engine.Entity, center vmath.Vec2, scale float32, width, height int) {
	sin, cos := vmath.SinCos(e.Transform.Rotation)
	for _, vertex := range e.Asteroid.Body {
		world := vertex.Rotate(sin, cos).Add(e.Transform.Position)
		r.plot(world, center, scale, width, height, '#', asteroidStyle)
	}
}

// plot projects a world position into a screen cell and sets it.
// Off-screen positions are dropped.
func (r *Renderer) plot(world, center vmath.Vec2, scale float32, width, height int, mark rune, style tcell.Style) {
	relative := world.Sub(center)
	x := width/2 + int(relative.X*scale*cellAspect)
	// Screen rows grow downward, world Y grows upward
	y := height/2 - int(relative.Y*scale)

	if x < 0 || x >= width || y < 0 || y >= height {
		return
	}
	r.screen.SetContent(x, y, mark, nil, style)
}

func (r *Renderer) drawHUD(width int) {
	line := fmt.Sprintf(" %s  score %d ", r.controller.Name(), r.controller.Score())
	for i, ch := range line {
		if i >= width {
			break
		}
		r.screen.SetContent(i, 0, ch, nil, hudStyle)
	}
}
