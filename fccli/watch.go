package fccli

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"oss.terrastruct.com/flowcanvas/fcengine"
	"oss.terrastruct.com/flowcanvas/fcrenderers/fcsvg"
	"oss.terrastruct.com/flowcanvas/fctarget"
	"oss.terrastruct.com/flowcanvas/lib/xbrowser"
	"oss.terrastruct.com/flowcanvas/lib/xhttp"
	"oss.terrastruct.com/flowcanvas/lib/xmain"
)

//go:embed static
var staticFS embed.FS

const FRAME_INTERVAL = time.Millisecond * 16

func watchCmd(ctx context.Context, ms *xmain.State, opts *fcengine.Options, host, port string, args []string) error {
	if len(args) == 0 {
		return xmain.UsageErrorf("watch requires an input path")
	} else if len(args) > 1 {
		return xmain.UsageErrorf("too many arguments passed")
	}
	if args[0] == "-" {
		return xmain.UsageErrorf("watch cannot read from stdin")
	}
	inputPath, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	w, err := newWatcher(ctx, ms, watcherOpts{
		host:       host,
		port:       port,
		inputPath:  inputPath,
		engineOpts: opts,
	})
	if err != nil {
		return err
	}
	return w.run()
}

type watcherOpts struct {
	host       string
	port       string
	inputPath  string
	engineOpts *fcengine.Options
}

type watcher struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	ms *xmain.State
	watcherOpts

	reloadCh chan struct{}
	renderCh chan struct{}

	fw               *fsnotify.Watcher
	l                net.Listener
	staticFileServer http.Handler

	wsclientsMu sync.Mutex
	closing     bool
	wsclientsWG sync.WaitGroup
	wsclients   map[*wsclient]struct{}

	errMu sync.Mutex
	err   error

	// sessionMu serializes every call into the engine.
	sessionMu sync.Mutex
	session   *session
	loadErr   string
	// written is what was last persisted, so our own writes are not
	// reloaded.
	written []byte
	// dragOwner is the client whose pointer went down to start the drag in
	// flight. Events from other clients are dropped until it ends.
	dragOwner *wsclient

	resMu sync.Mutex
	res   *message
}

// message is what the page receives. Render messages carry the canvas,
// capture and release messages route a pointer to the canvas.
type message struct {
	Type      string `json:"type"`
	SVG       string `json:"svg,omitempty"`
	Err       string `json:"err,omitempty"`
	PointerID int    `json:"pointerId,omitempty"`
}

func newWatcher(ctx context.Context, ms *xmain.State, opts watcherOpts) (*watcher, error) {
	ctx, cancel := context.WithCancel(ctx)

	w := &watcher{
		ctx:    ctx,
		cancel: cancel,

		ms:          ms,
		watcherOpts: opts,

		reloadCh:  make(chan struct{}, 1),
		renderCh:  make(chan struct{}, 1),
		wsclients: make(map[*wsclient]struct{}),
	}
	err := w.init()
	if err != nil {
		cancel()
		return nil, err
	}
	return w, nil
}

func (w *watcher) init() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fw = fw
	sfs, err := fs.Sub(staticFS, "static")
	if err != nil {
		return err
	}
	w.staticFileServer = http.FileServer(http.FS(sfs))
	return w.listen()
}

func (w *watcher) run() error {
	defer w.close()

	w.goFunc(w.watchLoop)
	w.goFunc(w.reloadLoop)
	w.goFunc(w.renderLoop)
	w.goServe()

	w.wg.Wait()
	w.close()
	return w.err
}

func (w *watcher) close() {
	w.wsclientsMu.Lock()
	if w.closing {
		w.wsclientsMu.Unlock()
		return
	}
	w.closing = true
	w.wsclientsMu.Unlock()

	w.cancel()
	if w.fw != nil {
		err := w.fw.Close()
		w.setErr(err)
	}
	if w.l != nil {
		err := w.l.Close()
		if !errors.Is(err, net.ErrClosed) {
			w.setErr(err)
		}
	}

	w.wsclientsWG.Wait()
}

func (w *watcher) setErr(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	w.errMu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.errMu.Unlock()
}

func (w *watcher) goFunc(fn func(context.Context) error) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.cancel()

		err := fn(w.ctx)
		w.setErr(err)
	}()
}

// watchLoop batches bursts of file system events on the input into one
// reload. Editors often write, chmod and rename in quick succession.
func (w *watcher) watchLoop(ctx context.Context) error {
	mt, err := w.ensureAddWatch(ctx, w.inputPath)
	if err != nil {
		return err
	}
	lastModified := mt
	w.ms.Log.Info.Printf("loading %v...", w.ms.HumanPath(w.inputPath))
	w.requestReload()

	eatBurstTimer := time.NewTimer(0)
	<-eatBurstTimer.C
	pollTicker := time.NewTicker(time.Second * 10)
	defer pollTicker.Stop()

	for {
		select {
		case <-pollTicker.C:
			// Catch changes whose events were missed.
			mt, err := w.ensureAddWatch(ctx, w.inputPath)
			if err != nil {
				return err
			}
			if !mt.Equal(lastModified) {
				lastModified = mt
				w.requestReload()
			}
		case ev, ok := <-w.fw.Events:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			w.ms.Log.Debug.Printf("received file system event %v", ev)
			mt, err := w.ensureAddWatch(ctx, w.inputPath)
			if err != nil {
				return err
			}
			if ev.Op == fsnotify.Chmod {
				if mt.Equal(lastModified) {
					continue
				}
			}
			lastModified = mt
			eatBurstTimer.Reset(FRAME_INTERVAL)
		case <-eatBurstTimer.C:
			w.ms.Log.Debug.Printf("detected change in %s", w.ms.HumanPath(w.inputPath))
			w.requestReload()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			w.ms.Log.Error.Printf("fsnotify error: %v", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ensureAddWatch retries until path can be watched. Editors that save by
// renaming leave it missing for a moment.
func (w *watcher) ensureAddWatch(ctx context.Context, path string) (time.Time, error) {
	interval := FRAME_INTERVAL
	tc := time.NewTimer(0)
	<-tc.C
	for {
		mt, err := w.addWatch(path)
		if err == nil {
			return mt, nil
		}
		if interval >= time.Second {
			w.ms.Log.Error.Printf("failed to watch %q: %v (retrying in %v)", w.ms.HumanPath(path), err, interval)
		}

		tc.Reset(interval)
		select {
		case <-tc.C:
			if interval < time.Second {
				interval = time.Second
			}
			if interval < time.Second*16 {
				interval *= 2
			}
		case <-ctx.Done():
			return time.Time{}, ctx.Err()
		}
	}
}

func (w *watcher) addWatch(path string) (time.Time, error) {
	err := w.fw.Add(path)
	if err != nil {
		return time.Time{}, err
	}
	d, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return d.ModTime(), nil
}

func (w *watcher) requestReload() {
	select {
	case w.reloadCh <- struct{}{}:
	default:
	}
}

func (w *watcher) requestRender() {
	select {
	case w.renderCh <- struct{}{}:
	default:
	}
}

func (w *watcher) reloadLoop(ctx context.Context) error {
	firstLoad := true
	for {
		select {
		case <-w.reloadCh:
		case <-ctx.Done():
			return ctx.Err()
		}

		if w.reload(firstLoad) {
			w.requestRender()
		}

		if firstLoad {
			firstLoad = false
			url := fmt.Sprintf("http://%s", w.l.Addr())
			err := xbrowser.Open(ctx, w.ms.Env, url)
			if err != nil {
				w.ms.Log.Warn.Printf("failed to open browser to %v: %v", url, err)
			}
		}
	}
}

// reload reads the input file into the session. It reports whether anything
// changed.
func (w *watcher) reload(first bool) bool {
	reloadedPrefix := ""
	if !first {
		reloadedPrefix = "re"
	}

	b, err := os.ReadFile(w.inputPath)

	w.sessionMu.Lock()
	defer w.sessionMu.Unlock()
	if err == nil && w.written != nil && bytes.Equal(b, w.written) {
		return false
	}

	var d *fctarget.Diagram
	if err == nil {
		d, err = fctarget.Read(bytes.NewReader(b))
	}
	if err != nil {
		w.loadErr = fmt.Sprintf("failed to %sload %s: %v", reloadedPrefix, w.ms.HumanPath(w.inputPath), err)
		w.ms.Log.Error.Print(w.loadErr)
		return true
	}

	w.loadErr = ""
	w.written = nil
	if w.session == nil {
		w.session = newSession(w.ctx, w.engineOpts, d)
	} else {
		w.session.reload(d)
	}
	w.ms.Log.Info.Printf("%sloaded %s", reloadedPrefix, w.ms.HumanPath(w.inputPath))
	return true
}

// renderLoop broadcasts a frame per render request and keeps ticking while
// the viewport eases towards its target.
func (w *watcher) renderLoop(ctx context.Context) error {
	tick := time.NewTimer(0)
	<-tick.C
	for {
		select {
		case <-w.renderCh:
		case <-tick.C:
		case <-ctx.Done():
			return ctx.Err()
		}

		res, animating := w.render()
		w.broadcast(res)
		if animating {
			tick.Reset(FRAME_INTERVAL)
		}
	}
}

func (w *watcher) render() (*message, bool) {
	w.sessionMu.Lock()
	defer w.sessionMu.Unlock()

	res := &message{
		Type: "render",
		Err:  w.loadErr,
	}
	if w.session == nil {
		return res, false
	}

	_, animating := w.session.engine.Tick()
	svg, err := fcsvg.Render(w.session.engine.Render(), nil)
	if err != nil {
		if res.Err == "" {
			res.Err = fmt.Sprintf("failed to render: %v", err)
		}
		return res, animating
	}
	res.SVG = string(svg)
	return res, animating
}

// handleEvent runs one event from cl against the engine and persists what
// it committed.
func (w *watcher) handleEvent(cl *wsclient, ev fcengine.Event) {
	w.sessionMu.Lock()
	defer w.sessionMu.Unlock()
	if w.session == nil {
		return
	}

	// A drag belongs to the client that started it.
	wasIdle := w.session.engine.State() == fcengine.Idle
	if !wasIdle && w.dragOwner != nil && w.dragOwner != cl {
		return
	}

	w.session.engine.SetPointerCapturer(cl)
	changes, err := w.session.dispatch(ev)
	if err != nil {
		w.ms.Log.Warn.Printf("dropping event: %v", err)
		return
	}
	if w.session.engine.State() == fcengine.Idle {
		w.dragOwner = nil
	} else if wasIdle {
		w.dragOwner = cl
	}

	if len(changes) > 0 {
		for _, c := range changes {
			b, err := json.Marshal(c)
			if err == nil {
				w.ms.Log.Info.Printf("committed %s", b)
			}
		}
		err = w.persist()
		if err != nil {
			w.ms.Log.Error.Printf("failed to persist %s: %v", w.ms.HumanPath(w.inputPath), err)
		}
	}
	w.requestRender()
}

// persist writes the session's diagram back to the input file. sessionMu
// must be held.
func (w *watcher) persist() error {
	b, err := w.session.diagram.Bytes()
	if err != nil {
		return err
	}
	err = os.WriteFile(w.inputPath, b, 0644)
	if err != nil {
		return err
	}
	w.written = b
	return nil
}

// dropClient cancels the drag a disconnected client left in flight.
func (w *watcher) dropClient(cl *wsclient) {
	w.sessionMu.Lock()
	defer w.sessionMu.Unlock()
	if w.dragOwner != cl {
		return
	}
	w.dragOwner = nil
	if w.session != nil {
		w.session.engine.SetPointerCapturer(nil)
		w.session.engine.PointerCancel()
		w.session.flush()
	}
	w.requestRender()
}

func (w *watcher) listen() error {
	l, err := net.Listen("tcp", net.JoinHostPort(w.host, w.port))
	if err != nil {
		return err
	}
	w.l = l
	w.ms.Log.Success.Printf("listening on http://%v", w.l.Addr())
	return nil
}

func (w *watcher) goServe() {
	m := http.NewServeMux()
	m.HandleFunc("/", w.handleRoot)
	m.Handle("/static/", http.StripPrefix("/static", w.staticFileServer))
	m.Handle("/watch", xhttp.HandlerFuncAdapter{Log: w.ms.Log, Func: w.handleWatch})

	s := xhttp.NewServer(w.ms.Log.Warn, xhttp.Log(w.ms.Log, m))
	w.goFunc(func(ctx context.Context) error {
		return xhttp.Serve(ctx, time.Second*30, s, w.l)
	})
}

func (w *watcher) getRes() *message {
	w.resMu.Lock()
	defer w.resMu.Unlock()
	return w.res
}

func (w *watcher) handleRoot(hw http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(hw, r)
		return
	}
	hw.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(hw, `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>%s</title>
	<script src="/static/watch.js"></script>
	<link rel="stylesheet" href="/static/watch.css">
</head>
<body>
	<div id="fc-err" style="display: none"></div>
	<div id="fc-canvas" tabindex="0"></div>
</body>
</html>`, filepath.Base(w.inputPath))
}

func (w *watcher) handleWatch(hw http.ResponseWriter, r *http.Request) error {
	w.wsclientsMu.Lock()
	if w.closing {
		w.wsclientsMu.Unlock()
		return xhttp.Errorf(http.StatusServiceUnavailable, "server shutting down...", "server shutting down...")
	}
	// Register before upgrading so close waits for us.
	w.wsclientsWG.Add(1)
	w.wsclientsMu.Unlock()

	c, err := websocket.Accept(hw, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		w.wsclientsWG.Done()
		return err
	}

	go func() {
		defer w.wsclientsWG.Done()

		ctx, cancel := context.WithTimeout(w.ctx, time.Hour)
		defer cancel()

		cl := &wsclient{
			w:         w,
			resultsCh: make(chan struct{}, 1),
			controlCh: make(chan *message, 16),
			c:         c,
		}

		w.wsclientsMu.Lock()
		w.wsclients[cl] = struct{}{}
		w.wsclientsMu.Unlock()
		defer func() {
			w.wsclientsMu.Lock()
			delete(w.wsclients, cl)
			w.wsclientsMu.Unlock()
			w.dropClient(cl)
		}()

		readDone := make(chan struct{})
		defer func() { <-readDone }()
		defer c.Close(websocket.StatusInternalError, "the sky is falling")

		go func() {
			defer close(readDone)
			defer cancel()
			_ = cl.readLoop(ctx)
		}()
		go wsHeartbeat(ctx, c)
		_ = cl.writeLoop(ctx)
	}()
	return nil
}

type wsclient struct {
	w         *watcher
	resultsCh chan struct{}
	controlCh chan *message
	c         *websocket.Conn
}

var _ fcengine.PointerCapturer = &wsclient{}

func (cl *wsclient) SetPointerCapture(pointerID int) error {
	return cl.control(&message{Type: "capture", PointerID: pointerID})
}

func (cl *wsclient) ReleasePointerCapture(pointerID int) error {
	return cl.control(&message{Type: "release", PointerID: pointerID})
}

func (cl *wsclient) control(m *message) error {
	select {
	case cl.controlCh <- m:
		return nil
	default:
		return errors.New("client is not keeping up")
	}
}

func (cl *wsclient) readLoop(ctx context.Context) error {
	for {
		var ev fcengine.Event
		err := wsjson.Read(ctx, cl.c, &ev)
		if err != nil {
			return err
		}
		cl.w.handleEvent(cl, ev)
	}
}

func (cl *wsclient) writeLoop(ctx context.Context) error {
	for {
		res := cl.w.getRes()
		if res != nil {
			err := cl.write(ctx, res)
			if err != nil {
				return err
			}
		}

		err := cl.waitResult(ctx)
		if err != nil {
			return err
		}
	}
}

// waitResult forwards control messages until the next broadcast.
func (cl *wsclient) waitResult(ctx context.Context) error {
	for {
		select {
		case <-cl.resultsCh:
			return nil
		case m := <-cl.controlCh:
			err := cl.write(ctx, m)
			if err != nil {
				return err
			}
		case <-ctx.Done():
			cl.c.Close(websocket.StatusGoingAway, "server shutting down...")
			return ctx.Err()
		}
	}
}

func (cl *wsclient) write(ctx context.Context, m *message) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	return wsjson.Write(ctx, cl.c, m)
}

func (w *watcher) broadcast(res *message) {
	w.resMu.Lock()
	w.res = res
	w.resMu.Unlock()

	w.wsclientsMu.Lock()
	defer w.wsclientsMu.Unlock()
	for cl := range w.wsclients {
		select {
		case cl.resultsCh <- struct{}{}:
		default:
		}
	}
}

func wsHeartbeat(ctx context.Context, c *websocket.Conn) {
	defer c.Close(websocket.StatusInternalError, "the sky is falling")

	t := time.NewTimer(0)
	<-t.C
	for {
		err := c.Ping(ctx)
		if err != nil {
			return
		}

		t.Reset(time.Second * 30)
		select {
		case <-t.C:
		case <-ctx.Done():
			return
		}
	}
}
