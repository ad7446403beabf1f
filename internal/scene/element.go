package scene

import (
	"errors"
	"image"
	"slices"
)

// Kind is the visual type of an element
type Kind string

const (
	KindText         Kind = "text"
	KindShape        Kind = "shape"
	KindProductImage Kind = "productImage"
	KindChart        Kind = "chart"
	KindProcessFlow  Kind = "processFlow"
	KindIcon         Kind = "icon"
	KindQRCode       Kind = "qrCode"
)

// AnimationKind selects the entrance animation of an element
type AnimationKind string

const (
	FadeIn       AnimationKind = "fadeIn"
	SlideInLeft  AnimationKind = "slideInLeft"
	SlideInRight AnimationKind = "slideInRight"
	ScaleIn      AnimationKind = "scaleIn"
	ZoomIn       AnimationKind = "zoomIn"
	BounceIn     AnimationKind = "bounceIn"
	Typewriter   AnimationKind = "typewriter"
)

// AnimationKinds lists every entrance animation the engine draws
var AnimationKinds = []AnimationKind{FadeIn, SlideInLeft, SlideInRight, ScaleIn, ZoomIn, BounceIn, Typewriter}

// Known reports whether k is one of AnimationKinds
func (k AnimationKind) Known() bool {
	return slices.Contains(AnimationKinds, k)
}

// Animation is the entrance timing of an element, relative to its scene start
type Animation struct {
	Kind       AnimationKind `yaml:"kind"`
	DelayMs    float64       `yaml:"delay_ms"`
	DurationMs float64       `yaml:"duration_ms"`
}

// Progress returns the element's local progress at sinceSceneStartMs.
// visible is false before the delay has passed; the element must not be
// drawn at all then. After the window the progress stays at 1.
func (a Animation) Progress(sinceSceneStartMs float64) (progress float64, visible bool) {
	if sinceSceneStartMs < a.DelayMs {
		return 0, false
	}
	if a.DurationMs <= 0 {
		return 1, true
	}
	p := (sinceSceneStartMs - a.DelayMs) / a.DurationMs
	if p > 1 {
		p = 1
	}
	return p, true
}

// Position is in surface pixels. CenterX replaces X with the horizontal
// center of the surface at draw time.
type Position struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	CenterX bool    `yaml:"center_x,omitempty"`
}

// Centered returns a position horizontally centered at height y
func Centered(y float64) Position {
	return Position{Y: y, CenterX: true}
}

// At returns an absolute position
func At(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Size is an optional element box
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Element is one visual unit within a scene
type Element struct {
	Kind      Kind
	Content   Content
	Position  Position
	Size      *Size
	Color     *RGBA
	FontSize  float64
	Animation Animation
}

// SizeOr returns the element size or def when none was set
func (e Element) SizeOr(def Size) Size {
	if e.Size == nil {
		return def
	}
	return *e.Size
}

// Content is the kind-specific payload of an element. The set of
// implementations is closed: TextContent, ShapeContent, ImageContent,
// ChartContent, ProcessFlowContent and IconContent.
type Content interface {
	contentKind() Kind
}

// Align is the horizontal anchor of text
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

type TextContent struct {
	Text   string `yaml:"text"`
	Bold   bool   `yaml:"bold,omitempty"`
	Align  Align  `yaml:"align,omitempty"`
	Stroke bool   `yaml:"stroke,omitempty"` // outline glyphs for saturated backgrounds
}

func (TextContent) contentKind() Kind { return KindText }

// ShapeKind is the outline of a shape element
type ShapeKind string

const (
	ShapeRect        ShapeKind = "rect"
	ShapeRoundedRect ShapeKind = "roundedRect"
	ShapeCircle      ShapeKind = "circle"
)

type ShapeContent struct {
	Shape       ShapeKind `yaml:"shape"`
	Radius      float64   `yaml:"radius,omitempty"`
	StrokeColor *RGBA     `yaml:"stroke_color,omitempty"`
	StrokeWidth float64   `yaml:"stroke_width,omitempty"`
	Label       string    `yaml:"label,omitempty"` // centered text, e.g. a CTA button caption
}

func (ShapeContent) contentKind() Kind { return KindShape }

// ImageContent references a bitmap that was decoded before the run
type ImageContent struct {
	Handle ImageHandle `yaml:"handle"`
}

func (ImageContent) contentKind() Kind { return KindProductImage }

type ChartItem struct {
	Label string  `yaml:"label"`
	Value float64 `yaml:"value,omitempty"` // 0 draws an even bar
}

// ChartContent is a horizontal bar list, also used for benefit lists
type ChartContent struct {
	Title string      `yaml:"title,omitempty"`
	Items []ChartItem `yaml:"items"`
}

func (ChartContent) contentKind() Kind { return KindChart }

type ProcessFlowContent struct {
	Steps []string `yaml:"steps"`
}

func (ProcessFlowContent) contentKind() Kind { return KindProcessFlow }

// IconGlyph is a vector icon drawn inside a disc
type IconGlyph string

const (
	IconCheck IconGlyph = "check"
	IconStar  IconGlyph = "star"
	IconCross IconGlyph = "cross"
	IconArrow IconGlyph = "arrow"
	IconAlert IconGlyph = "alert"
)

type IconContent struct {
	Glyph IconGlyph `yaml:"glyph"`
}

func (IconContent) contentKind() Kind { return KindIcon }

// ErrNotLoaded marks a handle whose bitmap was never resolved
var ErrNotLoaded = errors.New("image not loaded")

// ImageHandle is an already decoded bitmap, or the reason it is missing
type ImageHandle struct {
	ID    string      `yaml:"id"`
	Image image.Image `yaml:"-"`
	Err   error       `yaml:"-"`
}

// Ready reports whether the bitmap can be drawn
func (h ImageHandle) Ready() bool {
	return h.Err == nil && h.Image != nil
}

// Failure returns the reason the handle cannot be drawn
func (h ImageHandle) Failure() error {
	if h.Err != nil {
		return h.Err
	}
	if h.Image == nil {
		return ErrNotLoaded
	}
	return nil
}

// NewHandle wraps a decoded image
func NewHandle(id string, img image.Image) ImageHandle {
	return ImageHandle{ID: id, Image: img}
}

// FailedHandle records a bitmap that could not be loaded
func FailedHandle(id string, err error) ImageHandle {
	return ImageHandle{ID: id, Err: err}
}
