// sim/world.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/skyglide/skyglide/aviation"
	"github.com/skyglide/skyglide/log"
	"github.com/skyglide/skyglide/math"
	"github.com/skyglide/skyglide/nav"
	"github.com/skyglide/skyglide/platform"
	"github.com/skyglide/skyglide/rand"
	"github.com/skyglide/skyglide/renderer"
	"github.com/skyglide/skyglide/scene"
	"github.com/skyglide/skyglide/util"
	"github.com/skyglide/skyglide/wx"
)

const (
	// AI gliders are launched this far from the task start.
	launchSpread = 200
	// PlanViewHeight is the plan view's height above the task center.
	PlanViewHeight = 3000
	// Clouds are hidden until their thermal reaches this strength
	// factor.
	cloudVisibleFactor = 0.3
)

type Options struct {
	Seed int64
	// UserGlider is the glider type flown by the user; there is no user
	// body if it is empty.
	UserGlider string
	NumAI      int
	Rate       int
	Width      int
	Height     int
	Audio      platform.Audio
}

// World owns everything in a running session: the scene, the camera, the
// clock, the weather and the bodies flying in it.
type World struct {
	Task    *aviation.Task
	Library *aviation.Library

	Scene   *scene.Manager
	Camera  *scene.Camera
	Clock   *Clock
	Weather *wx.Model
	Terrain *wx.Terrain
	Events  *platform.EventQueue
	Vario   *Vario

	Bodies []*Body
	User   *Body
	// Progress is the number of task turnpoints the user has reached.
	Progress int

	userPilot *UserPilot
	clouds    map[int]*cloud
	subject   int
	plan      bool
	nextName  int
	rand      rand.Rand
	lg        *log.Logger
}

type cloud struct {
	thermal *wx.Thermal
	obj     *scene.Object
	subject *ThermalSubject
}

// ThermalSubject views a thermal from the side so that its lean with the
// wind is visible.
type ThermalSubject struct {
	Thermal *wx.Thermal
}

func (t *ThermalSubject) focusHeight() float32 {
	return t.Thermal.CloudBase / 2
}

func (t *ThermalSubject) ViewPoint() (eye, focus [3]float32) {
	focus = t.Thermal.CoreAt(t.focusHeight())
	d := 1.5 * t.Thermal.CloudBase
	eye = math.Add3f(focus, [3]float32{-d / 2, -d, 0})
	return
}

func (t *ThermalSubject) Position() [3]float32 {
	return t.Thermal.CoreAt(t.focusHeight())
}

func (t *ThermalSubject) SubjectClass() scene.SubjectClass { return scene.SubjectThermal }

// NewWorld builds the scene for task and launches the user's glider and
// the AI pilots.
func NewWorld(task *aviation.Task, lib *aviation.Library, opts Options, lg *log.Logger) (*World, error) {
	w := &World{
		Task:    task,
		Library: lib,
		Scene:   scene.NewManager(),
		Clock:   NewClock(opts.Rate, lg),
		Terrain: &wx.Terrain{Hills: task.HillModels()},
		Events:  platform.NewEventQueue(lg),
		Vario:   NewVario(opts.Audio),
		clouds:  make(map[int]*cloud),
		rand:    rand.Make(opts.Seed),
		lg:      lg,
	}
	w.Weather = wx.NewModel(task.WindModel(), task.CloudBase, w.Terrain, &w.rand, lg)
	w.Weather.OnThermalAdded(w.addCloud)
	w.Weather.OnThermalRemoved(w.thermalRemoved)
	for _, tr := range task.TriggerModels() {
		w.Weather.AddTrigger(tr)
	}

	eye := math.Add3f(task.Start, [3]float32{-300, -300, 150})
	w.Camera = scene.NewCamera(eye, task.Start, max(opts.Width, 1), max(opts.Height, 1))

	// The controls run first so that they keep running while paused. The
	// shadows and camera are updated after the bodies have moved so that
	// they do not trail them by a tick.
	w.Clock.Register(ObserverFunc(w.tickControls))
	w.Clock.Register(ObserverFunc(w.tickWeather))
	w.Clock.Register(ObserverFunc(w.tickVario))
	w.Clock.Register(ObserverFunc(w.tickTask))
	w.Clock.RegisterFinal(ObserverFunc(w.tickScene))

	w.buildScene()
	w.Events.Subscribe(w.handleKey)

	if opts.UserGlider != "" {
		gt, err := lib.GliderType(opts.UserGlider)
		if err != nil {
			return nil, err
		}
		w.userPilot = NewUserPilot(task.Circuit())
		w.User = w.Spawn("you", gt, task.Start, w.headingToTask(task.Start), w.userPilot)
	}

	if opts.NumAI > 0 {
		types := task.Gliders
		if len(types) == 0 {
			types = lib.Names()
		}
		if len(types) == 0 {
			return nil, ErrNoGliderTypes
		}
		for i := range opts.NumAI {
			if _, err := w.SpawnAI(types[i%len(types)]); err != nil {
				return nil, err
			}
		}
	}

	if w.User != nil {
		w.Camera.JumpTo(w.User, true)
	} else if len(w.Bodies) > 0 {
		w.Camera.JumpTo(w.Bodies[0], true)
	}

	lg.Info("world created", slog.Any("task", task), slog.Int("bodies", len(w.Bodies)),
		slog.Int("objects", w.Scene.Len()))
	return w, nil
}

func (w *World) buildScene() {
	for _, obj := range GroundTiles(w.Task) {
		w.Scene.Add(obj)
	}
	for i, h := range w.Terrain.Hills {
		w.Scene.Add(HillObject(fmt.Sprintf("hill %d", i), h))
	}
	for i, r := range w.Task.Roads {
		w.Scene.Add(RoadObject(fmt.Sprintf("road %d", i), r, w.Terrain))
	}
	for i, tp := range w.Task.TurnPoints {
		w.Scene.Add(TurnPointObject(fmt.Sprintf("turnpoint %d", i), tp, w.Terrain))
	}
}

func (w *World) headingToTask(p [3]float32) float32 {
	if len(w.Task.TurnPoints) == 0 {
		return 0
	}
	return math.VectorHeading(math.Sub3f(w.Task.TurnPoints[0].Pos, p))
}

func (w *World) repeller() nav.Repeller {
	if len(w.Terrain.Hills) == 0 {
		return nil
	}
	return w.Terrain.Hills[0]
}

///////////////////////////////////////////////////////////////////////////
// Environment

func (w *World) Sample(p [3]float32) wx.Sample { return w.Weather.Lookup(p) }

func (w *World) NearestThermal(p [3]float32) (*wx.Thermal, float32) {
	return w.Weather.Nearest(p)
}

func (w *World) GroundHeight(x, y float32) float32 { return w.Terrain.Height(x, y) }

func (w *World) CloudBase() float32 { return w.Weather.CloudBase }

///////////////////////////////////////////////////////////////////////////
// Bodies

// Spawn adds a body to the world; it is advanced every tick until it is
// removed.
func (w *World) Spawn(name string, gt *aviation.GliderType, p [3]float32, heading float32, pilot Pilot) *Body {
	b := NewBody(name, gt, p, heading, pilot, w.lg)
	w.Bodies = append(w.Bodies, b)
	w.Scene.Add(b.Object)
	w.Scene.Add(b.Tail.Object)
	b.observer = w.Clock.Register(ObserverFunc(func(dt float32) {
		b.Step(dt, w)
		if b.Landed && b != w.User {
			w.Remove(b)
		}
	}))
	w.lg.Info("spawned", slog.Any("body", b))
	return b
}

// SpawnAI launches an AI pilot flying the named glider type near the task
// start.
func (w *World) SpawnAI(glider string) (*Body, error) {
	gt, err := w.Library.GliderType(glider)
	if err != nil {
		return nil, err
	}
	w.nextName++
	p := math.Add3f(w.Task.Start, [3]float32{
		w.rand.Uniform(-launchSpread, launchSpread),
		w.rand.Uniform(-launchSpread, launchSpread),
		w.rand.Uniform(-launchSpread/2, launchSpread/2),
	})
	p[2] = max(p[2], w.GroundHeight(p[0], p[1])+50)
	pilot := NewAIPilot(w.Task.Circuit(), w.repeller(), rand.Make(int64(w.rand.Uint32())))
	return w.Spawn(fmt.Sprintf("%s %d", gt.Name, w.nextName), gt, p, w.rand.Uniform(0, 360), pilot), nil
}

// SpawnRemote adds a body whose state is relayed from elsewhere through
// Body.SetState.
func (w *World) SpawnRemote(name, glider string) (*Body, error) {
	gt, err := w.Library.GliderType(glider)
	if err != nil {
		return nil, err
	}
	return w.Spawn(name, gt, w.Task.Start, 0, &RemotePilot{}), nil
}

// Remove takes a body out of the world and drops all references to it.
func (w *World) Remove(b *Body) {
	if !slices.Contains(w.Bodies, b) {
		return
	}
	w.Clock.Unregister(b.observer)
	w.Scene.Remove(b.Object)
	w.Scene.Remove(b.Tail.Object)
	w.Camera.Release(b)
	w.Bodies = slices.DeleteFunc(w.Bodies, func(o *Body) bool { return o == b })
	if w.User == b {
		w.User = nil
	}
	w.lg.Info("removed", slog.Any("body", b))
}

func (w *World) BodyByName(name string) *Body {
	if i := slices.IndexFunc(w.Bodies, func(b *Body) bool { return b.Name == name }); i != -1 {
		return w.Bodies[i]
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////
// Thermals and clouds

func (w *World) addCloud(th *wx.Thermal) {
	c := &cloud{
		thermal: th,
		obj:     CloudObject(fmt.Sprintf("cloud %d", th.ID()), 1.5*th.Radius),
		subject: &ThermalSubject{Thermal: th},
	}
	w.clouds[th.ID()] = c
	w.updateCloud(c)
	w.Scene.Add(c.obj)
}

func (w *World) updateCloud(c *cloud) {
	c.obj.SetPose(c.thermal.CoreAt(c.thermal.CloudBase), math.Identity3x3())
	c.obj.Hidden = c.thermal.Factor() < cloudVisibleFactor
}

// thermalRemoved drops every reference to a thermal that has died.
func (w *World) thermalRemoved(th *wx.Thermal) {
	for _, b := range w.Bodies {
		b.Nav.ReleaseThermal(th)
	}
	if c, ok := w.clouds[th.ID()]; ok {
		w.Scene.Remove(c.obj)
		w.Camera.Release(c.subject)
		delete(w.clouds, th.ID())
	}
}

///////////////////////////////////////////////////////////////////////////
// Per-tick updates

func (w *World) tickControls(dt float32) {
	w.Events.Drain()
}

func (w *World) tickScene(dt float32) {
	w.Scene.UpdateShadows(w.Terrain)
	w.Camera.Tick()
}

func (w *World) tickWeather(dt float32) {
	w.Weather.Update(dt)
	for _, c := range w.clouds {
		w.updateCloud(c)
	}
}

// Watched returns the body the camera is looking at, or the user's body
// if it is looking at something else.
func (w *World) Watched() *Body {
	if b, ok := w.Camera.Subject().(*Body); ok {
		return b
	}
	return w.User
}

func (w *World) tickVario(dt float32) {
	if b := w.Watched(); b != nil && !b.Landed {
		w.Vario.Update(b.Climb, dt)
	}
}

func (w *World) tickTask(dt float32) {
	if w.User == nil || w.Progress >= len(w.Task.TurnPoints) {
		return
	}
	tp := w.Task.TurnPoints[w.Progress]
	if math.Distance2f(math.XY(w.User.P), math.XY(tp.Pos)) < tp.Radius {
		w.Progress++
		w.lg.Info("turnpoint reached", slog.Int("turnpoint", w.Progress),
			slog.Float64("time", float64(w.Clock.Time())))
	}
}

///////////////////////////////////////////////////////////////////////////
// Camera and keys

func (w *World) handleKey(e platform.KeyEvent) {
	if w.User != nil && w.userPilot.HandleKey(w.User, e) {
		return
	}
	if !e.Down {
		return
	}
	switch {
	case e.Is('c'):
		w.CycleSubject()
	case e.Is('p'):
		w.TogglePlanView()
	case e.Is(' '):
		w.Clock.TogglePause()
	}
}

// Subjects returns everything the camera can be cut to: bodies first,
// then thermals in order of creation.
func (w *World) Subjects() []scene.Subject {
	var s []scene.Subject
	for _, b := range w.Bodies {
		s = append(s, b)
	}
	for _, id := range util.SortedMapKeys(w.clouds) {
		s = append(s, w.clouds[id].subject)
	}
	return s
}

// CycleSubject cuts the camera to the next subject.
func (w *World) CycleSubject() {
	if w.plan {
		w.TogglePlanView()
	}
	subjects := w.Subjects()
	if len(subjects) == 0 {
		return
	}
	w.subject = (w.subject + 1) % len(subjects)
	w.Camera.CutTo(subjects[w.subject], true)
}

// TogglePlanView switches between a fixed view from above the task and
// the previous subject.
func (w *World) TogglePlanView() {
	w.plan = !w.plan
	if w.plan {
		lo, hi := taskBounds(w.Task)
		center := [3]float32{(lo[0] + hi[0]) / 2, (lo[1] + hi[1]) / 2, 0}
		w.Camera.JumpTo(scene.PlanView(center, PlanViewHeight), false)
		w.Camera.SetFrozen(true)
		return
	}

	w.Camera.SetFrozen(false)
	if b := w.Watched(); b != nil {
		w.Camera.CutTo(b, true)
	} else if len(w.Bodies) > 0 {
		w.Camera.CutTo(w.Bodies[0], true)
	}
}

func (w *World) PlanView() bool { return w.plan }

///////////////////////////////////////////////////////////////////////////
// Rendering

// Render draws the scene and the instruments for the watched body.
func (w *World) Render(s renderer.Surface) {
	w.Scene.Render(w.Camera, s)
	w.drawHUD(s)
}

func (w *World) drawHUD(s renderer.Surface) {
	s.SetColor(renderer.RGB{R: 1, G: 1, B: 1})

	line := float32(0)
	text := func(format string, args ...any) {
		s.DrawText(fmt.Sprintf(format, args...), 0, line)
		line += 2
	}

	if b := w.Watched(); b != nil {
		text("%s  %s  alt %.0fm  %+.1fm/s  %.0fkm/h  hdg %03.0f", b.Name, b.Type.Name, b.P[2], b.Climb,
			b.Speed*3.6, b.Heading())
		if b == w.User && w.Progress < len(w.Task.TurnPoints) {
			tp := w.Task.TurnPoints[w.Progress]
			d := math.Distance2f(math.XY(b.P), math.XY(tp.Pos))
			text("turnpoint %d/%d  %.1fkm %s", w.Progress+1, len(w.Task.TurnPoints), d/1000,
				math.ShortCompass(math.VectorHeading(math.Sub3f(tp.Pos, b.P))))
		} else if b == w.User {
			text("task complete")
		}
		if b.Landed {
			text("landed")
		}
	}
	if w.Clock.Paused {
		text("paused")
	}
}

func (w *World) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("task", w.Task.Name),
		slog.Any("clock", w.Clock),
		slog.Int("bodies", len(w.Bodies)),
		slog.Int("thermals", len(w.Weather.Thermals)),
		slog.Any("camera", w.Camera),
	)
}
