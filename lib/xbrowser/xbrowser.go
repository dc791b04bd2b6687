// Package xbrowser opens the watch page for the user.
package xbrowser

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/pkg/browser"

	"oss.terrastruct.com/xos"
)

// Open opens url with $BROWSER when set, or the system browser. $BROWSER=0
// disables opening anything.
func Open(ctx context.Context, env *xos.Env, url string) error {
	switch b := env.Getenv("BROWSER"); b {
	case "0", "false":
		return nil
	case "":
		return browser.OpenURL(url)
	default:
		cmd := exec.CommandContext(ctx, "sh", "-c", fmt.Sprintf("%s \"$1\"", b), "--", url)
		out, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("failed to run %v (out: %q): %w", cmd.Args, out, err)
		}
		return nil
	}
}
