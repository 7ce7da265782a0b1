// Package web holds the monitor page.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// DevModeEnv names the variable that makes the monitor serve the page from
// the source tree, so that it can be edited without rebuilding.
const DevModeEnv = "SCANRT_MONITOR_DEV"

//go:embed dist/index.html
var embedded embed.FS

// Embedded returns the page compiled into the binary.
func Embedded() http.FileSystem {
	dist, err := fs.Sub(embedded, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(dist)
}

// SourceDir returns the page directory of the source tree this package was
// built from.
func SourceDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot locate the monitor sources")
	}

	return filepath.Join(filepath.Dir(file), "dist")
}

// DevMode tells whether DevModeEnv holds a true boolean.
func DevMode() bool {
	v, err := strconv.ParseBool(os.Getenv(DevModeEnv))
	return err == nil && v
}

// Assets picks the source tree in development mode and the embedded page
// otherwise.
func Assets(dev bool) http.FileSystem {
	if dev {
		return http.Dir(SourceDir())
	}

	return Embedded()
}
