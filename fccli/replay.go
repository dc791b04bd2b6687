package fccli

import (
	"context"
	"encoding/json"
	"fmt"

	"oss.terrastruct.com/flowcanvas/fcengine"
	"oss.terrastruct.com/flowcanvas/lib/xmain"
)

func replayCmd(ctx context.Context, ms *xmain.State, opts *fcengine.Options, args []string) error {
	if len(args) < 2 {
		return xmain.UsageErrorf("replay requires a diagram and an events file")
	} else if len(args) > 3 {
		return xmain.UsageErrorf("too many arguments passed")
	}

	inputPath, eventsPath := args[0], args[1]
	if inputPath == "-" && eventsPath == "-" {
		return xmain.UsageErrorf("only one of the diagram and the events may be read from stdin")
	}
	outputPath := "-"
	if len(args) == 3 {
		outputPath = args[2]
	}

	d, err := readDiagram(ms, inputPath)
	if err != nil {
		return err
	}
	events, err := readEvents(ms, eventsPath)
	if err != nil {
		return err
	}

	s := newSession(ctx, opts, d)
	committed := 0
	for i, ev := range events {
		changes, err := s.dispatch(ev)
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		for _, c := range changes {
			b, err := json.Marshal(c)
			if err != nil {
				return err
			}
			ms.Log.Info.Printf("event %d (%s) committed %s", i, ev.Type, b)
		}
		committed += len(changes)
	}
	if st := s.engine.State(); st != fcengine.Idle {
		ms.Log.Warn.Printf("events ended while %s: cancelling", st)
		s.engine.PointerCancel()
	}

	b, err := s.diagram.Bytes()
	if err != nil {
		return err
	}
	err = ms.WritePath(outputPath, b)
	if err != nil {
		return err
	}
	ms.Log.Success.Printf("replayed %d events with %d committed updates", len(events), committed)
	return nil
}
