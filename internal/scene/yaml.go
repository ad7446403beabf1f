package scene

import (
	"fmt"
)

// elementDoc is the on-disk layout of an Element: exactly one of the
// content fields is set, matching Kind.
type elementDoc struct {
	Kind      Kind      `yaml:"kind"`
	Position  Position  `yaml:"position"`
	Size      *Size     `yaml:"size,omitempty"`
	Color     *RGBA     `yaml:"color,omitempty"`
	FontSize  float64   `yaml:"font_size,omitempty"`
	Animation Animation `yaml:"animation"`

	Text  *TextContent        `yaml:"text,omitempty"`
	Shape *ShapeContent       `yaml:"shape,omitempty"`
	Image *ImageContent       `yaml:"image,omitempty"`
	Chart *ChartContent       `yaml:"chart,omitempty"`
	Flow  *ProcessFlowContent `yaml:"flow,omitempty"`
	Icon  *IconContent        `yaml:"icon,omitempty"`
}

func (e Element) MarshalYAML() (interface{}, error) {
	doc := elementDoc{
		Kind:      e.Kind,
		Position:  e.Position,
		Size:      e.Size,
		Color:     e.Color,
		FontSize:  e.FontSize,
		Animation: e.Animation,
	}
	switch c := e.Content.(type) {
	case TextContent:
		doc.Text = &c
	case ShapeContent:
		doc.Shape = &c
	case ImageContent:
		doc.Image = &c
	case ChartContent:
		doc.Chart = &c
	case ProcessFlowContent:
		doc.Flow = &c
	case IconContent:
		doc.Icon = &c
	case nil:
	default:
		return nil, fmt.Errorf("element %s: unsupported content %T", e.Kind, e.Content)
	}
	return doc, nil
}

func (e *Element) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var doc elementDoc
	if err := unmarshal(&doc); err != nil {
		return err
	}
	*e = Element{
		Kind:      doc.Kind,
		Position:  doc.Position,
		Size:      doc.Size,
		Color:     doc.Color,
		FontSize:  doc.FontSize,
		Animation: doc.Animation,
	}
	switch {
	case doc.Text != nil:
		e.Content = *doc.Text
	case doc.Shape != nil:
		e.Content = *doc.Shape
	case doc.Image != nil:
		e.Content = *doc.Image
	case doc.Chart != nil:
		e.Content = *doc.Chart
	case doc.Flow != nil:
		e.Content = *doc.Flow
	case doc.Icon != nil:
		e.Content = *doc.Icon
	}
	return e.Validate()
}

// Validate checks that the content payload matches the element kind and
// that the animation is one the engine knows, with a positive duration
func (e Element) Validate() error {
	if e.Content == nil {
		return fmt.Errorf("element %s: missing content", e.Kind)
	}
	want := e.Kind
	if want == KindQRCode {
		want = KindProductImage
	}
	if got := e.Content.contentKind(); got != want {
		return fmt.Errorf("element %s: content is %s", e.Kind, got)
	}
	if e.Animation.DelayMs < 0 {
		return fmt.Errorf("element %s: negative delay %.0fms", e.Kind, e.Animation.DelayMs)
	}
	if !e.Animation.Kind.Known() {
		return fmt.Errorf("element %s: unknown animation %q", e.Kind, e.Animation.Kind)
	}
	if e.Animation.DurationMs <= 0 {
		return fmt.Errorf("element %s: animation duration must be positive, got %.0fms", e.Kind, e.Animation.DurationMs)
	}
	return nil
}
