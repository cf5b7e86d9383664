package toolchain

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// SelectBestVersion picks the newest of several discovered toolchain
// version strings (spec §4.7's setup(): "... choose a version"). Versions
// that parse as semver are compared with semver.Compare; a non-semver
// version string (e.g. a vendor build number) sorts below every semver
// one and otherwise compares lexically, so discovery is still
// deterministic even for toolchains that don't tag releases with semver.
func SelectBestVersion(candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	sorted := append([]string(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool {
		return compareVersions(sorted[i], sorted[j]) < 0
	})
	return sorted[len(sorted)-1], true
}

func compareVersions(a, b string) int {
	va, vb := canonicalSemver(a), canonicalSemver(b)
	if va != "" && vb != "" {
		return semver.Compare(va, vb)
	}
	if va != "" {
		return 1
	}
	if vb != "" {
		return -1
	}
	return strings.Compare(a, b)
}

// canonicalSemver returns a's semver.IsValid form ("v"-prefixed), or "" if
// a isn't a semantic version.
func canonicalSemver(a string) string {
	v := a
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}
