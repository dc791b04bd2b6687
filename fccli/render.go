package fccli

import (
	"bytes"
	"context"
	"encoding/json"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/flowcanvas/fcengine"
	"oss.terrastruct.com/flowcanvas/fcrenderers/fcsvg"
	"oss.terrastruct.com/flowcanvas/fctarget"
	"oss.terrastruct.com/flowcanvas/lib/xmain"
)

func renderCmd(ctx context.Context, ms *xmain.State, opts *fcengine.Options, args []string) error {
	if len(args) == 0 {
		return xmain.UsageErrorf("render requires an input path")
	} else if len(args) > 2 {
		return xmain.UsageErrorf("too many arguments passed")
	}

	inputPath := args[0]
	outputPath := renameExt(inputPath, ".svg")
	if len(args) == 2 {
		outputPath = args[1]
	}

	d, err := readDiagram(ms, inputPath)
	if err != nil {
		return err
	}
	svg, err := renderDiagram(ctx, opts, d)
	if err != nil {
		return err
	}
	err = ms.WritePath(outputPath, svg)
	if err != nil {
		return err
	}
	ms.Log.Success.Printf("successfully rendered %s to %s", ms.HumanPath(inputPath), ms.HumanPath(outputPath))
	return nil
}

// renderDiagram draws d the way the canvas shows it at rest.
func renderDiagram(ctx context.Context, opts *fcengine.Options, d *fctarget.Diagram) ([]byte, error) {
	e := fcengine.New(ctx, opts, fcengine.Callbacks{})
	e.SetDiagram(d)
	return fcsvg.Render(e.Render(), &fcsvg.RenderOpts{
		HideGuides: true,
	})
}

func readDiagram(ms *xmain.State, fp string) (_ *fctarget.Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to read %s", ms.HumanPath(fp))

	b, err := ms.ReadPath(fp)
	if err != nil {
		return nil, err
	}
	return fctarget.Read(bytes.NewReader(b))
}

func readEvents(ms *xmain.State, fp string) (_ []fcengine.Event, err error) {
	defer xdefer.Errorf(&err, "failed to read events from %s", ms.HumanPath(fp))

	b, err := ms.ReadPath(fp)
	if err != nil {
		return nil, err
	}
	var events []fcengine.Event
	err = json.Unmarshal(b, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}
