package fetcher

import (
	"os/exec"

	"github.com/jmylchreest/lounas/internal/logger"
)

// browsers are tried in order.
var browsers = []string{
	"google-chrome",
	"chromium",
	"chromium-browser",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
}

var lookPath = exec.LookPath

// findBrowser returns the first browser found, or "".
func findBrowser() string {
	for _, name := range browsers {
		if path, err := lookPath(name); err == nil {
			logger.Debug("browser found", "path", path)
			return path
		}
	}
	return ""
}
