// scene/cut.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scene

import (
	"github.com/skyglide/skyglide/math"
	"github.com/skyglide/skyglide/util"
)

const (
	// CutLen is the number of ticks a cut takes.
	CutLen = 40
	// CutRamp is the number of ticks spent accelerating at the start of a
	// cut and decelerating at its end.
	CutRamp = 10
)

type SubjectClass int

const (
	SubjectBody SubjectClass = iota
	SubjectThermal
	SubjectPlan
	SubjectFree
)

func (c SubjectClass) String() string {
	return [...]string{"body", "thermal", "plan", "free"}[c]
}

// Subject is something the camera can look at. The camera only holds a
// reference to its subject; whoever destroys a subject must call
// Camera.Release.
type Subject interface {
	// ViewPoint returns where the camera's eye and focus should be to
	// view the subject.
	ViewPoint() (eye, focus [3]float32)
	// Position is the subject's current world-space position; the camera
	// follows its changes.
	Position() [3]float32
	SubjectClass() SubjectClass
}

type CameraState int

const (
	CameraIdle CameraState = iota
	CameraTracking
	CameraCutting
	CameraFollowing
)

func (s CameraState) String() string {
	return [...]string{"idle", "tracking", "cutting", "following"}[s]
}

type cutState struct {
	state      CameraState
	subject    Subject
	subjectPos [3]float32
	track      bool
	frozen     bool

	count              int
	eyeVel, focusVel   [3]float32
	eyeGoto, focusGoto [3]float32
}

func (c *Camera) State() CameraState { return c.cut.state }

func (c *Camera) Subject() Subject { return c.cut.subject }

// Frozen cameras ignore subject changes and subject motion.
func (c *Camera) SetFrozen(f bool) { c.cut.frozen = f }

func (c *Camera) Frozen() bool { return c.cut.frozen }

// Cutting reports whether a cut is in progress.
func (c *Camera) Cutting() bool { return c.cut.count > 0 }

// JumpTo moves the camera to the subject's view point immediately. If
// track is set, the camera then follows the subject's motion.
func (c *Camera) JumpTo(s Subject, track bool) {
	if c.cut.frozen || s == nil {
		return
	}
	c.cut.count = 0
	eye, focus := s.ViewPoint()
	c.SetEyeFocus(eye, focus)
	c.setSubject(s, track)
	c.cut.state = util.Select(track, CameraTracking, CameraIdle)
}

// CutTo glides the camera to the subject's view point over CutLen
// ticks, accelerating over the first CutRamp ticks and decelerating over
// the last CutRamp ticks. A request made while a cut toward a subject of
// the same class is in progress is ignored.
func (c *Camera) CutTo(s Subject, track bool) {
	if c.cut.frozen || s == nil {
		return
	}
	if c.cut.count > 0 && c.cut.subject != nil && c.cut.subject.SubjectClass() == s.SubjectClass() {
		return
	}

	eye, focus := s.ViewPoint()
	c.cut.eyeGoto, c.cut.focusGoto = eye, focus
	k := float32(1) / (CutLen - CutRamp)
	c.cut.eyeVel = math.Scale3f(math.Sub3f(eye, c.eye), k)
	c.cut.focusVel = math.Scale3f(math.Sub3f(focus, c.focus), k)
	c.cut.count = CutLen
	c.setSubject(s, track)
	c.cut.state = CameraCutting
}

func (c *Camera) setSubject(s Subject, track bool) {
	c.cut.subject = s
	c.cut.track = track
	c.cut.subjectPos = s.Position()
}

// Release drops the camera's reference to s if it is the current
// subject. A cut in progress completes without following.
func (c *Camera) Release(s Subject) {
	if c.cut.subject != s {
		return
	}
	c.cut.subject = nil
	c.cut.track = false
	if c.cut.count == 0 {
		c.cut.state = CameraIdle
	}
}

// cutFactor returns the ease factor for the e'th tick of a cut,
// 1 <= e <= CutLen. The factors sum to CutLen-CutRamp.
func cutFactor(e int) float32 {
	return min(1, float32(e)/CutRamp, float32(CutLen-e)/CutRamp)
}

// Tick advances a cut in progress and follows the subject's motion.
func (c *Camera) Tick() {
	if c.cut.frozen {
		return
	}

	eye, focus := c.eye, c.focus
	if s := c.cut.subject; s != nil && c.cut.track {
		p := s.Position()
		d := math.Sub3f(p, c.cut.subjectPos)
		c.cut.subjectPos = p
		if d != [3]float32{} {
			eye, focus = math.Add3f(eye, d), math.Add3f(focus, d)
			if c.cut.count > 0 {
				c.cut.eyeGoto = math.Add3f(c.cut.eyeGoto, d)
				c.cut.focusGoto = math.Add3f(c.cut.focusGoto, d)
			}
		}
	}

	if c.cut.count > 0 {
		e := CutLen - c.cut.count + 1
		f := cutFactor(e)
		eye = math.LinComb3f(1, eye, f, c.cut.eyeVel)
		focus = math.LinComb3f(1, focus, f, c.cut.focusVel)
		c.cut.count--
		if c.cut.count == 0 {
			// Land exactly on the goal.
			eye, focus = c.cut.eyeGoto, c.cut.focusGoto
			if c.cut.subject != nil && c.cut.track {
				c.cut.state = CameraFollowing
			} else {
				c.cut.state = CameraIdle
				c.cut.subject = nil
			}
		}
	}

	if eye != c.eye || focus != c.focus {
		c.SetEyeFocus(eye, focus)
	}
}
