package fcengine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/flowcanvas/fcalign"
	"oss.terrastruct.com/flowcanvas/fcroute"
	"oss.terrastruct.com/flowcanvas/fcseparate"
	"oss.terrastruct.com/flowcanvas/fctarget"
	"oss.terrastruct.com/flowcanvas/fcviewport"
	"oss.terrastruct.com/flowcanvas/lib/label"
)

// Options are the engine tunables. Zero values take the defaults.
type Options struct {
	SnapThreshold float64 `toml:"snap_threshold"`
	GridSize      float64 `toml:"grid_size"`

	DefaultNodeWidth  float64 `toml:"default_node_width"`
	DefaultNodeHeight float64 `toml:"default_node_height"`

	SubgraphMargin       float64 `toml:"subgraph_margin"`
	SeparationIterations int     `toml:"separation_iterations"`
	SeparationEpsilon    float64 `toml:"separation_epsilon"`

	// ClearEpsilon is how close to the automatic layout a released value
	// must be for its override to be cleared.
	ClearEpsilon  float64 `toml:"clear_epsilon"`
	InsertEpsilon float64 `toml:"insert_epsilon"`

	ViewportMargin    float64 `toml:"viewport_margin"`
	ViewportSmoothing float64 `toml:"viewport_smoothing"`
	ViewportEpsilon   float64 `toml:"viewport_epsilon"`

	LabelCharWidth      float64 `toml:"label_char_width"`
	LabelHeight         float64 `toml:"label_height"`
	LabelMinWidth       float64 `toml:"label_min_width"`
	LabelVerticalOffset float64 `toml:"label_vertical_offset"`
}

func DefaultOptions() *Options {
	return &Options{
		SnapThreshold:        fcalign.DEFAULT_THRESHOLD,
		GridSize:             fcalign.DEFAULT_GRID_SIZE,
		DefaultNodeWidth:     fctarget.DEFAULT_NODE_WIDTH,
		DefaultNodeHeight:    fctarget.DEFAULT_NODE_HEIGHT,
		SubgraphMargin:       fcseparate.DEFAULT_MARGIN,
		SeparationIterations: fcseparate.DEFAULT_ITERATIONS,
		SeparationEpsilon:    fcseparate.DEFAULT_EPSILON,
		ClearEpsilon:         0.5,
		InsertEpsilon:        fcroute.DEFAULT_INSERT_EPSILON,
		ViewportMargin:       fcviewport.DEFAULT_MARGIN,
		ViewportSmoothing:    fcviewport.DEFAULT_SMOOTHING,
		ViewportEpsilon:      fcviewport.DEFAULT_EPSILON,
		LabelCharWidth:       label.DEFAULT_CHAR_WIDTH,
		LabelHeight:          label.DEFAULT_HEIGHT,
		LabelMinWidth:        label.DEFAULT_MIN_WIDTH,
		LabelVerticalOffset:  fcroute.DEFAULT_LABEL_VERTICAL_OFFSET,
	}
}

// withDefaults returns a copy of o with every zero field defaulted.
func (o *Options) withDefaults() Options {
	def := DefaultOptions()
	if o == nil {
		return *def
	}
	out := *o
	orFloat := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}
	orFloat(&out.SnapThreshold, def.SnapThreshold)
	orFloat(&out.GridSize, def.GridSize)
	orFloat(&out.DefaultNodeWidth, def.DefaultNodeWidth)
	orFloat(&out.DefaultNodeHeight, def.DefaultNodeHeight)
	orFloat(&out.SubgraphMargin, def.SubgraphMargin)
	orFloat(&out.SeparationEpsilon, def.SeparationEpsilon)
	orFloat(&out.ClearEpsilon, def.ClearEpsilon)
	orFloat(&out.InsertEpsilon, def.InsertEpsilon)
	orFloat(&out.ViewportMargin, def.ViewportMargin)
	orFloat(&out.ViewportSmoothing, def.ViewportSmoothing)
	orFloat(&out.ViewportEpsilon, def.ViewportEpsilon)
	orFloat(&out.LabelCharWidth, def.LabelCharWidth)
	orFloat(&out.LabelHeight, def.LabelHeight)
	orFloat(&out.LabelMinWidth, def.LabelMinWidth)
	orFloat(&out.LabelVerticalOffset, def.LabelVerticalOffset)
	if out.SeparationIterations == 0 {
		out.SeparationIterations = def.SeparationIterations
	}
	return out
}

func (o Options) align() fcalign.Options {
	return fcalign.Options{
		Threshold: o.SnapThreshold,
		GridSize:  o.GridSize,
	}
}

func (o Options) separate() fcseparate.Options {
	return fcseparate.Options{
		Margin:     o.SubgraphMargin,
		Epsilon:    o.SeparationEpsilon,
		Iterations: o.SeparationIterations,
	}
}

func (o Options) sizer() label.Sizer {
	return label.Sizer{
		CharWidth: o.LabelCharWidth,
		Height:    o.LabelHeight,
		MinWidth:  o.LabelMinWidth,
	}
}

// LoadOptionsFile overlays the keys set in the TOML file at path onto base.
// Unknown keys are an error.
func LoadOptionsFile(path string, base *Options) (_ *Options, err error) {
	defer xdefer.Errorf(&err, "failed to load options from %s", path)

	opts := DefaultOptions()
	if base != nil {
		*opts = *base
	}
	meta, err := toml.DecodeFile(path, opts)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if meta.IsDefined("separation_iterations") && opts.SeparationIterations < 0 {
		return nil, fmt.Errorf("separation_iterations must not be negative")
	}
	return opts, nil
}
