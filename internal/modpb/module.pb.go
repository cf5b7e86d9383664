// Code in this file follows the shape protoc-gen-go emits for a proto2
// schema; it is maintained by hand rather than generated from a .proto
// file, since the schema is small and stable (module.proto lives alongside
// it as documentation of record).
//
// Package modpb defines the on-disk, declarative schema for a module
// description: a .module.textproto file parses directly into a *Module.
// This is choice (a) of the "Scripted module provider" design note — data,
// never code — see SPEC_FULL.md.
package modpb

import (
	fmt "fmt"

	proto "github.com/golang/protobuf/proto"
)

// ModuleType mirrors spec §3's Module.type enum.
type ModuleType int32

const (
	ModuleType_STATIC_LIBRARY ModuleType = 0
	ModuleType_SHARED_LIBRARY ModuleType = 1
	ModuleType_EXECUTABLE      ModuleType = 2
	ModuleType_GUI_EXECUTABLE  ModuleType = 3
)

var ModuleType_name = map[int32]string{
	0: "STATIC_LIBRARY",
	1: "SHARED_LIBRARY",
	2: "EXECUTABLE",
	3: "GUI_EXECUTABLE",
}

var ModuleType_value = map[string]int32{
	"STATIC_LIBRARY": 0,
	"SHARED_LIBRARY": 1,
	"EXECUTABLE":      2,
	"GUI_EXECUTABLE":  3,
}

func (x ModuleType) String() string {
	return proto.EnumName(ModuleType_name, int32(x))
}

// AdditionalDependency_Kind mirrors spec §3's AdditionalDependency.kind.
type AdditionalDependency_Kind int32

const (
	AdditionalDependency_FILE      AdditionalDependency_Kind = 0
	AdditionalDependency_DIRECTORY AdditionalDependency_Kind = 1
)

var AdditionalDependency_Kind_name = map[int32]string{
	0: "FILE",
	1: "DIRECTORY",
}

var AdditionalDependency_Kind_value = map[string]int32{
	"FILE":      0,
	"DIRECTORY": 1,
}

func (x AdditionalDependency_Kind) String() string {
	return proto.EnumName(AdditionalDependency_Kind_name, int32(x))
}

// AdditionalDependency is the wire form of spec §3's AdditionalDependency.
type AdditionalDependency struct {
	Kind             *AdditionalDependency_Kind `protobuf:"varint,1,opt,name=kind,enum=modpb.AdditionalDependency_Kind,def=0" json:"kind,omitempty"`
	SourcePath       *string                    `protobuf:"bytes,2,req,name=source_path,json=sourcePath" json:"source_path,omitempty"`
	TargetDirectory  *string                    `protobuf:"bytes,3,req,name=target_directory,json=targetDirectory" json:"target_directory,omitempty"`
	CustomProcessor  *string                    `protobuf:"bytes,4,opt,name=custom_processor,json=customProcessor" json:"custom_processor,omitempty"`

	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *AdditionalDependency) Reset()         { *m = AdditionalDependency{} }
func (m *AdditionalDependency) String() string { return proto.CompactTextString(m) }
func (*AdditionalDependency) ProtoMessage()    {}

func (m *AdditionalDependency) GetKind() AdditionalDependency_Kind {
	if m != nil && m.Kind != nil {
		return *m.Kind
	}
	return AdditionalDependency_FILE
}

func (m *AdditionalDependency) GetSourcePath() string {
	if m != nil && m.SourcePath != nil {
		return *m.SourcePath
	}
	return ""
}

func (m *AdditionalDependency) GetTargetDirectory() string {
	if m != nil && m.TargetDirectory != nil {
		return *m.TargetDirectory
	}
	return ""
}

func (m *AdditionalDependency) GetCustomProcessor() string {
	if m != nil && m.CustomProcessor != nil {
		return *m.CustomProcessor
	}
	return ""
}

// Module is the wire form of spec §3's Module record. Fields are pointers
// (proto2-style) so that "unset" is distinguishable from the zero value,
// which matters for optional fields like c_standard and use_variants.
type Module struct {
	Name *string     `protobuf:"bytes,1,opt,name=name" json:"name,omitempty"`
	Type *ModuleType `protobuf:"varint,2,req,name=type,enum=modpb.ModuleType" json:"type,omitempty"`

	SourceFile []string `protobuf:"bytes,3,rep,name=source_file,json=sourceFile" json:"source_file,omitempty"`

	IncludePublic         []string `protobuf:"bytes,4,rep,name=include_public,json=includePublic" json:"include_public,omitempty"`
	IncludePrivate        []string `protobuf:"bytes,5,rep,name=include_private,json=includePrivate" json:"include_private,omitempty"`
	ForceIncludePublic     []string `protobuf:"bytes,6,rep,name=force_include_public,json=forceIncludePublic" json:"force_include_public,omitempty"`
	ForceIncludePrivate    []string `protobuf:"bytes,7,rep,name=force_include_private,json=forceIncludePrivate" json:"force_include_private,omitempty"`

	DefinitionPublic  []string `protobuf:"bytes,8,rep,name=definition_public,json=definitionPublic" json:"definition_public,omitempty"`
	DefinitionPrivate []string `protobuf:"bytes,9,rep,name=definition_private,json=definitionPrivate" json:"definition_private,omitempty"`

	DependencyPublic  []string `protobuf:"bytes,10,rep,name=dependency_public,json=dependencyPublic" json:"dependency_public,omitempty"`
	DependencyPrivate []string `protobuf:"bytes,11,rep,name=dependency_private,json=dependencyPrivate" json:"dependency_private,omitempty"`

	LibraryPublic  []string `protobuf:"bytes,12,rep,name=library_public,json=libraryPublic" json:"library_public,omitempty"`
	LibraryPrivate []string `protobuf:"bytes,13,rep,name=library_private,json=libraryPrivate" json:"library_private,omitempty"`

	LibrarySearchPathPublic  []string `protobuf:"bytes,14,rep,name=library_search_path_public,json=librarySearchPathPublic" json:"library_search_path_public,omitempty"`
	LibrarySearchPathPrivate []string `protobuf:"bytes,15,rep,name=library_search_path_private,json=librarySearchPathPrivate" json:"library_search_path_private,omitempty"`

	AdditionalDependencyPublic  []*AdditionalDependency `protobuf:"bytes,16,rep,name=additional_dependency_public,json=additionalDependencyPublic" json:"additional_dependency_public,omitempty"`
	AdditionalDependencyPrivate []*AdditionalDependency `protobuf:"bytes,17,rep,name=additional_dependency_private,json=additionalDependencyPrivate" json:"additional_dependency_private,omitempty"`

	CompilerOptionPublic  []string `protobuf:"bytes,18,rep,name=compiler_option_public,json=compilerOptionPublic" json:"compiler_option_public,omitempty"`
	CompilerOptionPrivate []string `protobuf:"bytes,19,rep,name=compiler_option_private,json=compilerOptionPrivate" json:"compiler_option_private,omitempty"`

	CStandard         *string `protobuf:"bytes,20,opt,name=c_standard,json=cStandard" json:"c_standard,omitempty"`
	CppStandard       *string `protobuf:"bytes,21,opt,name=cpp_standard,json=cppStandard" json:"cpp_standard,omitempty"`
	OptimizationLevel *string `protobuf:"bytes,22,opt,name=optimization_level,json=optimizationLevel" json:"optimization_level,omitempty"`

	UseVariants *bool `protobuf:"varint,23,opt,name=use_variants,json=useVariants,def=1" json:"use_variants,omitempty"`

	OutputDirectory *string `protobuf:"bytes,24,opt,name=output_directory,json=outputDirectory" json:"output_directory,omitempty"`

	OptionsMap map[string]string `protobuf:"bytes,25,rep,name=options_map,json=optionsMap" json:"options_map,omitempty" protobuf_key:"bytes,1,opt,name=key" protobuf_val:"bytes,2,opt,name=value"`

	OutputTransformer []string `protobuf:"bytes,26,rep,name=output_transformer,json=outputTransformer" json:"output_transformer,omitempty"`

	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Module) Reset()         { *m = Module{} }
func (m *Module) String() string { return proto.CompactTextString(m) }
func (*Module) ProtoMessage()    {}

func (m *Module) GetName() string {
	if m != nil && m.Name != nil {
		return *m.Name
	}
	return ""
}

func (m *Module) GetType() ModuleType {
	if m != nil && m.Type != nil {
		return *m.Type
	}
	return ModuleType_STATIC_LIBRARY
}

func (m *Module) GetCStandard() string {
	if m != nil && m.CStandard != nil {
		return *m.CStandard
	}
	return ""
}

func (m *Module) GetCppStandard() string {
	if m != nil && m.CppStandard != nil {
		return *m.CppStandard
	}
	return ""
}

func (m *Module) GetOptimizationLevel() string {
	if m != nil && m.OptimizationLevel != nil {
		return *m.OptimizationLevel
	}
	return ""
}

func (m *Module) GetUseVariants() bool {
	if m != nil && m.UseVariants != nil {
		return *m.UseVariants
	}
	return true
}

func (m *Module) GetOutputDirectory() string {
	if m != nil && m.OutputDirectory != nil {
		return *m.OutputDirectory
	}
	return ""
}

func init() {
	// Guard against accidental field-tag collisions when this file is
	// hand-edited; protoc would catch this for us.
	seen := map[string]bool{}
	for _, name := range []string{"Module", "AdditionalDependency"} {
		if seen[name] {
			panic(fmt.Sprintf("duplicate message name %s", name))
		}
		seen[name] = true
	}
}
