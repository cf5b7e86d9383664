package modref

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/xerrors"
)

// ErrModuleNotFound is returned by Resolve when every resolution candidate
// has been exhausted.
type ErrModuleNotFound struct {
	Reference string
	Tried     []string
}

func (e *ErrModuleNotFound) Error() string {
	return "module not found: " + e.Reference
}

// searchPathEnvVar is the dependency-search-path environment variable (spec
// §6). Its value is split by ';' on Windows and ':' elsewhere.
const searchPathEnvVar = "EBUILD_MODULE_PATH"

// probeCandidates returns, for a candidate directory, the probe order fixed by
// spec §4.1: D (as a file), D/index.ebuild.cs, D/<dirname>.ebuild.cs,
// D/ebuild.cs, D.ebuild.cs (sibling).
func probeCandidates(dir string) []string {
	base := filepath.Base(dir)
	return []string{
		dir,
		filepath.Join(dir, "index.ebuild.cs"),
		filepath.Join(dir, base+".ebuild.cs"),
		filepath.Join(dir, "ebuild.cs"),
		dir + ".ebuild.cs",
	}
}

func statRegular(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// Context carries the per-resolution inputs that are not intrinsic to the
// Reference itself: the module directory the reference was declared in, an
// explicit extra search-path list from the caller, and the program's
// module-repo locations.
type Context struct {
	// ModuleDir is the directory containing the module description that
	// declared this reference. A relative path is tried against it first,
	// and its <module-dir>/.repo subtree is searched after the
	// environment search path.
	ModuleDir string

	// DependencySearchPaths are paths declared by the referencing module
	// itself (e.g. a "search additional directories here" list).
	DependencySearchPaths []string

	// AdditionalPaths is the caller-supplied extra search list (source c).
	AdditionalPaths []string

	// UserProfileRepo and MachineRepo are well-known, single-directory
	// repos (sources f, g).
	UserProfileRepo string
	MachineRepo     string

	// EnvPathVar overrides searchPathEnvVar's value, for testing. Empty
	// means "read the real environment variable".
	EnvPathVar string

	// ProgramSearchPath overrides the OS program-search path (source h),
	// for testing. Nil means "use $PATH".
	ProgramSearchPath []string
}

func (c *Context) envSearchPaths() []string {
	val := c.EnvPathVar
	if val == "" {
		val = os.Getenv(searchPathEnvVar)
	}
	if val == "" {
		return nil
	}
	sep := ":"
	if runtime.GOOS == "windows" {
		sep = ";"
	}
	return strings.Split(val, sep)
}

func (c *Context) osProgramSearchPath() []string {
	if c.ProgramSearchPath != nil {
		return c.ProgramSearchPath
	}
	path := os.Getenv("PATH")
	if path == "" {
		return nil
	}
	sep := string(os.PathListSeparator)
	return strings.Split(path, sep)
}

// candidateDirs assembles the eight-source precedence list from spec §4.1,
// in order: (a) the path as given, (b) per-module dependency search paths,
// (c) caller-supplied additional paths, (d) the env path variable, (e) a
// <module-dir>/.repo subtree, (f) user-profile repo, (g) machine repo, (h)
// OS program-search path.
func (c *Context) candidateDirs(rawPath string) []string {
	var dirs []string
	add := func(base string) {
		if base == "" {
			return
		}
		dirs = append(dirs, filepath.Join(base, rawPath))
	}

	if filepath.IsAbs(rawPath) {
		dirs = append(dirs, rawPath)
	} else {
		add(c.ModuleDir)
	}
	for _, p := range c.DependencySearchPaths {
		add(p)
	}
	for _, p := range c.AdditionalPaths {
		add(p)
	}
	for _, p := range c.envSearchPaths() {
		add(p)
	}
	if c.ModuleDir != "" {
		add(filepath.Join(c.ModuleDir, ".repo"))
	}
	add(c.UserProfileRepo)
	add(c.MachineRepo)
	for _, p := range c.osProgramSearchPath() {
		add(p)
	}
	return dirs
}

// Resolve turns r into an absolute path, consulting ctx's eight-source
// precedence list and, for each candidate directory, the fixed probe order.
// Resolution is idempotent and memoized on r: a second call returns the
// cached result without touching the filesystem again (P4).
func (r *Reference) Resolve(ctx *Context) (string, error) {
	r.resolveOnce.Do(func() {
		r.resolvedPath, r.resolvedError = resolve(r, ctx)
	})
	return r.resolvedPath, r.resolvedError
}

func resolve(r *Reference, ctx *Context) (string, error) {
	var tried []string
	for _, dir := range ctx.candidateDirs(r.rawPath) {
		for _, candidate := range probeCandidates(dir) {
			tried = append(tried, candidate)
			if statRegular(candidate) {
				abs, err := filepath.Abs(candidate)
				if err != nil {
					return "", xerrors.Errorf("resolve %q: %w", r.text, err)
				}
				return abs, nil
			}
		}
	}
	return "", &ErrModuleNotFound{Reference: r.text, Tried: tried}
}
