package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/asticode/go-astisub"
)

// Cue is one subtitle event for WriteASS.
type Cue struct {
	Start, End time.Duration
	Text       string
}

func ptr[T any](v T) *T { return &v }

// DefaultStyle is a complete ASS style so the SSA writer has every field.
func DefaultStyle() *astisub.Style {
	return &astisub.Style{
		ID: "Default",
		InlineStyle: &astisub.StyleAttributes{
			SSAFontName:        "Arial",
			SSAFontSize:        ptr(20.0),
			SSAPrimaryColour:   &astisub.Color{Red: 255, Green: 255, Blue: 255},
			SSASecondaryColour: &astisub.Color{Red: 255},
			SSAOutlineColour:   &astisub.Color{},
			SSABackColour:      &astisub.Color{},
			SSABold:            ptr(false),
			SSAItalic:          ptr(false),
			SSAUnderline:       ptr(false),
			SSAStrikeout:       ptr(false),
			SSAScaleX:          ptr(100.0),
			SSAScaleY:          ptr(100.0),
			SSASpacing:         ptr(0.0),
			SSAAngle:           ptr(0.0),
			SSABorderStyle:     ptr(1),
			SSAOutline:         ptr(2.0),
			SSAShadow:          ptr(1.0),
			SSAAlignment:       ptr(2),
			SSAMarginLeft:      ptr(10),
			SSAMarginRight:     ptr(10),
			SSAMarginVertical:  ptr(10),
			SSAEncoding:        ptr(1),
		},
	}
}

// WriteASS writes cues as an ASS file in dir and returns its path.
func WriteASS(t testing.TB, dir string, cues ...Cue) string {
	t.Helper()
	style := DefaultStyle()
	subs := astisub.NewSubtitles()
	subs.Metadata = &astisub.Metadata{SSAScriptType: "v4.00+"}
	subs.Styles = map[string]*astisub.Style{style.ID: style}
	for _, c := range cues {
		subs.Items = append(subs.Items, &astisub.Item{
			StartAt: c.Start,
			EndAt:   c.End,
			Style:   style,
			Lines:   []astisub.Line{{Items: []astisub.LineItem{{Text: c.Text}}}},
		})
	}

	path := filepath.Join(dir, "subs.ass")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := subs.WriteToSSA(f); err != nil {
		t.Fatalf("write ASS: %v", err)
	}
	return path
}
