// Package modref implements the module reference grammar and its resolver.
//
// A module reference is the compact string form used throughout module
// descriptions to name another module:
//
//	[output:]path[@version][?k=v;...]
//
// e.g. "zlib.ebuild.cs", "static:zlib.ebuild.cs?EnableDebug=true", or
// "shared:libs/foo@v2".
package modref

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/xerrors"
)

// DefaultOutputKind is used when a reference does not specify an output
// transformer.
const DefaultOutputKind = "default"

// DefaultVersion is used when a reference does not specify a version.
const DefaultVersion = "latest"

// referenceRe mirrors the grammar in spec §6 verbatim.
var referenceRe = regexp.MustCompile(
	`^(?:(?P<output>\w+):)?(?P<path>(?:[^/\\]*[/\\])*(?:[^@?!]*))(?:@(?P<version>\w+))?(?:\?(?P<options>(?:[\w._-]+=[\w._-]+;?)*))?$`,
)

// ErrInvalidReferenceSyntax is returned by Parse when text does not match
// the reference grammar.
type ErrInvalidReferenceSyntax struct {
	Text string
}

func (e *ErrInvalidReferenceSyntax) Error() string {
	return fmt.Sprintf("invalid module reference syntax: %q", e.Text)
}

// option is one k=v entry of a reference's option list. Order is
// significant for Format (P1, reference round-trip); uniqueness of Key is
// enforced by Parse.
type option struct {
	Key   string
	Value string
}

// Reference is an immutable, parsed module reference. Use Parse to
// construct one; use Resolve to turn it into an absolute path.
type Reference struct {
	outputKind string
	rawPath    string
	version    string
	options    []option

	text string // the exact text Parse was given; Format reproduces it (P1)

	// resolution memoization (P4: idempotent, no I/O after the first call)
	resolveOnce   sync.Once
	resolvedPath  string
	resolvedError error
}

// OutputKind returns the reference's output transformer id, or
// DefaultOutputKind if none was specified.
func (r *Reference) OutputKind() string { return r.outputKind }

// RawPath returns the unresolved path component of the reference.
func (r *Reference) RawPath() string { return r.rawPath }

// Version returns the reference's version, or DefaultVersion if none was
// specified.
func (r *Reference) Version() string { return r.version }

// Options returns the reference's option map in declaration order. The
// returned slice must not be mutated.
func (r *Reference) Options() []string {
	out := make([]string, 0, len(r.options))
	for _, o := range r.options {
		out = append(out, o.Key+"="+o.Value)
	}
	return out
}

// OptionsMap returns the reference's options as an unordered map,
// convenient for lookups.
func (r *Reference) OptionsMap() map[string]string {
	m := make(map[string]string, len(r.options))
	for _, o := range r.options {
		m[o.Key] = o.Value
	}
	return m
}

// Parse parses text according to the grammar in spec §6.
func Parse(text string) (*Reference, error) {
	m := referenceRe.FindStringSubmatch(text)
	if m == nil {
		return nil, &ErrInvalidReferenceSyntax{Text: text}
	}
	names := referenceRe.SubexpNames()
	groups := make(map[string]string, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		groups[name] = m[i]
	}

	r := &Reference{
		outputKind: groups["output"],
		rawPath:    groups["path"],
		version:    groups["version"],
		text:       text,
	}
	if r.outputKind == "" {
		r.outputKind = DefaultOutputKind
	}
	if r.version == "" {
		r.version = DefaultVersion
	}
	if r.rawPath == "" {
		return nil, &ErrInvalidReferenceSyntax{Text: text}
	}

	if raw := groups["options"]; raw != "" {
		seen := make(map[string]bool)
		for _, kv := range strings.Split(strings.TrimSuffix(raw, ";"), ";") {
			if kv == "" {
				continue
			}
			idx := strings.IndexByte(kv, '=')
			if idx < 0 {
				return nil, &ErrInvalidReferenceSyntax{Text: text}
			}
			key, val := kv[:idx], kv[idx+1:]
			if seen[key] {
				return nil, xerrors.Errorf("duplicate option key %q in reference %q", key, text)
			}
			seen[key] = true
			r.options = append(r.options, option{Key: key, Value: val})
		}
	}

	return r, nil
}

// Format reproduces the exact text Parse was given. Since Parse is a pure
// function of its grammar, format(parse(r)) == r for any valid r (P1).
func (r *Reference) Format() string {
	return r.text
}

// sortedOptionKeys returns the option keys in ASCII case-insensitive sorted
// order, matching the canonicalization rule used for VariantId (spec §4.2).
func sortedOptionKeys(opts []option) []string {
	keys := make([]string, 0, len(opts))
	for _, o := range opts {
		keys = append(keys, o.Key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	return keys
}
