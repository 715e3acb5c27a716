// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgsl extracts the host-visible interface of a WGSL module:
// entry points, resource bindings and host-shareable struct layouts.
//
// It is a lightweight textual reflector, not a compiler. Sources are
// expected to have already passed naga validation.
package wgsl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Stage is a shader entry point stage attribute.
type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
	StageCompute  Stage = "compute"
)

// Binding is a module-scope resource variable declared with @group/@binding.
type Binding struct {
	Group        uint32
	Binding      uint32
	AddressSpace string // "uniform", "storage, read", or "" for handles
	Name         string
	Type         string
}

// Field is one member of a struct with its resolved host-shareable layout.
type Field struct {
	Name   string
	Type   string
	Offset uint64
	Size   uint64
	Align  uint64
}

// Layout is the host-shareable layout of a struct.
type Layout struct {
	Name   string
	Size   uint64
	Align  uint64
	Fields []Field
}

// Field returns the named member.
func (l Layout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Module is the reflected interface of one WGSL source.
type Module struct {
	entries  map[Stage][]string
	bindings []Binding
	structs  map[string]parsedStruct
	layouts  map[string]Layout
}

type parsedStruct struct {
	name   string
	fields []parsedField
}

type parsedField struct {
	name string
	typ  string
}

var (
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	fieldRegex       = regexp.MustCompile(`^(?:@\w+(?:\([^)]*\))?\s*)*(\w+)\s*:\s*(.+)$`)
	entryRegex       = regexp.MustCompile(`(?s)@(vertex|fragment|compute)\b.*?\bfn\s+(\w+)`)
	bindingRegex     = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// Reflect parses source and computes layouts for every struct it declares.
// A struct whose member types cannot be resolved is reported as an error.
func Reflect(source string) (*Module, error) {
	src := stripComments(source)
	m := &Module{
		entries: make(map[Stage][]string),
		structs: make(map[string]parsedStruct),
		layouts: make(map[string]Layout),
	}

	for _, match := range entryRegex.FindAllStringSubmatch(src, -1) {
		stage := Stage(match[1])
		m.entries[stage] = append(m.entries[stage], match[2])
	}

	for _, match := range bindingRegex.FindAllStringSubmatch(src, -1) {
		group, _ := strconv.ParseUint(match[1], 10, 32)
		binding, _ := strconv.ParseUint(match[2], 10, 32)
		m.bindings = append(m.bindings, Binding{
			Group:        uint32(group),
			Binding:      uint32(binding),
			AddressSpace: strings.TrimSpace(match[3]),
			Name:         match[4],
			Type:         strings.TrimSpace(match[5]),
		})
	}

	var order []string
	for _, match := range structBlockRegex.FindAllStringSubmatch(src, -1) {
		ps := parsedStruct{name: match[1]}
		for _, part := range splitAtTopLevelCommas(match[2]) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			fm := fieldRegex.FindStringSubmatch(part)
			if fm == nil {
				return nil, fmt.Errorf("wgsl: struct %s: malformed member %q", ps.name, part)
			}
			ps.fields = append(ps.fields, parsedField{name: fm[1], typ: strings.TrimSpace(fm[2])})
		}
		m.structs[ps.name] = ps
		order = append(order, ps.name)
	}

	// Structs may reference each other in any order; resolve until stable.
	for pending := order; len(pending) > 0; {
		var next []string
		for _, name := range pending {
			l, ok := m.computeLayout(m.structs[name])
			if !ok {
				next = append(next, name)
				continue
			}
			m.layouts[name] = l
		}
		if len(next) == len(pending) {
			return nil, fmt.Errorf("wgsl: cannot resolve layout of struct %s", next[0])
		}
		pending = next
	}
	return m, nil
}

// EntryPoints returns the entry point names declared for stage, in source order.
func (m *Module) EntryPoints(stage Stage) []string {
	return m.entries[stage]
}

// HasEntryPoint reports whether name is declared as an entry point of stage.
func (m *Module) HasEntryPoint(stage Stage, name string) bool {
	for _, e := range m.entries[stage] {
		if e == name {
			return true
		}
	}
	return false
}

// Bindings returns all declared resource bindings.
func (m *Module) Bindings() []Binding {
	return m.bindings
}

// Binding returns the resource at (group, binding).
func (m *Module) Binding(group, binding uint32) (Binding, bool) {
	for _, b := range m.bindings {
		if b.Group == group && b.Binding == binding {
			return b, true
		}
	}
	return Binding{}, false
}

// StructLayout returns the layout of the named struct.
func (m *Module) StructLayout(name string) (Layout, bool) {
	l, ok := m.layouts[name]
	return l, ok
}

func (m *Module) computeLayout(ps parsedStruct) (Layout, bool) {
	l := Layout{Name: ps.name, Align: 1}
	var offset uint64
	for _, f := range ps.fields {
		tl, ok := m.resolveType(f.typ)
		if !ok {
			return Layout{}, false
		}
		offset = roundUpAlign(tl.align, offset)
		l.Fields = append(l.Fields, Field{
			Name:   f.name,
			Type:   f.typ,
			Offset: offset,
			Size:   tl.size,
			Align:  tl.align,
		})
		offset += tl.size
		if tl.align > l.Align {
			l.Align = tl.align
		}
	}
	l.Size = roundUpAlign(l.Align, offset)
	return l, true
}

func (m *Module) resolveType(typeName string) (typeLayout, bool) {
	if tl, ok := primitiveLayouts[typeName]; ok {
		return tl, true
	}
	if l, ok := m.layouts[typeName]; ok {
		return typeLayout{size: l.Size, align: l.Align}, true
	}
	if strings.HasPrefix(typeName, "array<") && strings.HasSuffix(typeName, ">") {
		inner := typeName[len("array<") : len(typeName)-1]
		parts := splitAtTopLevelCommas(inner)
		elem, ok := m.resolveType(strings.TrimSpace(parts[0]))
		if !ok || len(parts) != 2 {
			return typeLayout{}, false
		}
		count, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return typeLayout{}, false
		}
		stride := roundUpAlign(elem.align, elem.size)
		return typeLayout{size: count * stride, align: elem.align}, true
	}
	return typeLayout{}, false
}

func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(':
			depth++
		case '>', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case depth == 0 && source[i] == '/' && source[i+1] == '/':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
