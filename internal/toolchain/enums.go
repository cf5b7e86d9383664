package toolchain

import "golang.org/x/xerrors"

func (s CStandard) String() string {
	switch s {
	case C89:
		return "C89"
	case C99:
		return "C99"
	case C11:
		return "C11"
	case C17:
		return "C17"
	case C2x:
		return "C2x"
	default:
		return "unspecified"
	}
}

func (s CppStandard) String() string {
	switch s {
	case Cpp98:
		return "Cpp98"
	case Cpp11:
		return "Cpp11"
	case Cpp14:
		return "Cpp14"
	case Cpp17:
		return "Cpp17"
	case Cpp20:
		return "Cpp20"
	case Cpp23:
		return "Cpp23"
	case CppLatest:
		return "CppLatest"
	default:
		return "unspecified"
	}
}

// ParseOptimization parses a Module.OptimizationLevel string ("" defaults
// to OptNone) into the portable enum.
func ParseOptimization(s string) (Optimization, error) {
	switch s {
	case "", "None":
		return OptNone, nil
	case "Size":
		return OptSize, nil
	case "Speed":
		return OptSpeed, nil
	case "Max":
		return OptMax, nil
	default:
		return 0, xerrors.Errorf("unknown optimization level %q", s)
	}
}

// ParseCStandard parses a Module.CStandard string ("" means unspecified,
// leaving the family's own default in effect).
func ParseCStandard(s string) (CStandard, error) {
	switch s {
	case "":
		return CUnspecified, nil
	case "C89":
		return C89, nil
	case "C99":
		return C99, nil
	case "C11":
		return C11, nil
	case "C17":
		return C17, nil
	case "C2x":
		return C2x, nil
	default:
		return 0, xerrors.Errorf("unknown C standard %q", s)
	}
}

// ParseCppStandard parses a Module.CppStandard string.
func ParseCppStandard(s string) (CppStandard, error) {
	switch s {
	case "":
		return CppUnspecified, nil
	case "Cpp98":
		return Cpp98, nil
	case "Cpp11":
		return Cpp11, nil
	case "Cpp14":
		return Cpp14, nil
	case "Cpp17":
		return Cpp17, nil
	case "Cpp20":
		return Cpp20, nil
	case "Cpp23":
		return Cpp23, nil
	case "CppLatest":
		return CppLatest, nil
	default:
		return 0, xerrors.Errorf("unknown C++ standard %q", s)
	}
}
