package incremental

import (
	"os"
)

// Reason names the five REBUILD causes from spec §4.5, checked in order;
// the first true reason is reported.
type Reason string

const (
	ReasonOutputMissing    Reason = "output-missing"
	ReasonArgumentsChanged Reason = "arguments-changed"
	ReasonToolchainChanged Reason = "toolchain-changed"
	ReasonSourceModified   Reason = "source-modified"
	ReasonDependencyModified Reason = "dependency-modified"
	ReasonVariantChanged   Reason = "variant-changed"
)

// Decision is the oracle's verdict for one BuildNode.
type Decision struct {
	Rebuild bool
	Reason  Reason
}

func skip() Decision { return Decision{Rebuild: false} }
func rebuild(r Reason) Decision { return Decision{Rebuild: true, Reason: r} }

// Facts bundles everything the oracle needs to know about the *current*
// state of one BuildNode, as computed fresh by the caller (Executor) before
// consulting the stored Record.
type Facts struct {
	Output          string   // output file path
	PrimarySource   string   // the node's own source_path / rc_source; "" for link/copy nodes
	Inputs          []string // primary source (if any) + every discovered header, in any order
	ToolPath        string
	ToolVersionHash string
	ArgvHash        string
	VariantID       uint32
}

// Decide implements spec §4.5's ordered REBUILD/SKIP check. record/found
// come from Load; a missing record (found == false) always yields
// ReasonOutputMissing on the first check, since there is nothing else to
// compare against.
func Decide(record *Record, found bool, f Facts) Decision {
	if _, err := os.Stat(f.Output); err != nil || !found {
		return rebuild(ReasonOutputMissing)
	}

	if record.ArgvHash != f.ArgvHash {
		return rebuild(ReasonArgumentsChanged)
	}
	if record.ToolVersionHash != f.ToolVersionHash {
		return rebuild(ReasonToolchainChanged)
	}

	recordedByPath := make(map[string]InputRecord, len(record.Inputs))
	for _, in := range record.Inputs {
		recordedByPath[in.Path] = in
	}
	for path, prior := range recordedByPath {
		fi, err := os.Stat(path)
		if err != nil || fi.Size() != prior.Size || fi.ModTime().UnixNano() > prior.Mtime {
			if path == f.PrimarySource {
				return rebuild(ReasonSourceModified)
			}
			return rebuild(ReasonDependencyModified)
		}
	}

	if record.VariantID != f.VariantID {
		return rebuild(ReasonVariantChanged)
	}

	return skip()
}
