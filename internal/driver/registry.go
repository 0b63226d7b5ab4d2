// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/auroralink/auroralink/pkg/ndiproto"
)

// Registry owns every Tool's storage and the port-handle lookup table.
// Tool ↔ port-map cyclic references are broken by indexing: the registry
// exclusively owns Tool storage, keyed by name, and the port map below
// holds non-owning lookups by serial number and port handle.
type Registry struct {
	byName   map[string]*ndiproto.Tool
	bySerial map[string]*ndiproto.Tool
	byPort   map[string]*ndiproto.Tool
	order    []string
}

// NewRegistry returns an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]*ndiproto.Tool),
		bySerial: make(map[string]*ndiproto.Tool),
		byPort:   make(map[string]*ndiproto.Tool),
	}
}

// AddTool registers name/serial, returning the existing Tool unchanged if
// serial is already registered (duplicate adds are ignored). offset is
// the tooltip offset in millimetres; NaN or infinite components are
// rejected with ErrInvalidTooltipOffset.
func (r *Registry) AddTool(name, serial, definitionPath string, offset r3.Vector) (*ndiproto.Tool, error) {
	if existing, ok := r.bySerial[serial]; ok {
		return existing, nil
	}
	if !validOffset(offset) {
		return nil, ErrInvalidTooltipOffset
	}
	if _, collide := r.byName[name]; collide {
		return nil, ErrDuplicateName
	}

	tool := &ndiproto.Tool{
		Name:           name,
		SerialNumber:   serial,
		DefinitionPath: definitionPath,
		TooltipOffset:  offset,
	}
	r.byName[name] = tool
	r.bySerial[serial] = tool
	r.order = append(r.order, name)
	return tool, nil
}

func validOffset(v r3.Vector) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ToolBySerial looks up a Tool by its (possibly channel-bumped) serial
// number.
func (r *Registry) ToolBySerial(serial string) (*ndiproto.Tool, bool) {
	t, ok := r.bySerial[serial]
	return t, ok
}

// ToolByPortHandle looks up a Tool by its currently assigned port handle.
func (r *Registry) ToolByPortHandle(handle string) (*ndiproto.Tool, bool) {
	t, ok := r.byPort[handle]
	return t, ok
}

// ToolNameAtIndex returns the name of the i-th tool in registration
// order, or "" if i is out of range.
func (r *Registry) ToolNameAtIndex(i int) string {
	if i < 0 || i >= len(r.order) {
		return ""
	}
	return r.order[i]
}

// ToolNames returns every registered tool's name in registration order.
func (r *Registry) ToolNames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// BindPortHandle associates handle with the Tool already identified by
// serial, updating both the Tool's PortHandle field and the port lookup
// table. It is a no-op if serial is not registered.
func (r *Registry) BindPortHandle(serial, handle string) {
	tool, ok := r.bySerial[serial]
	if !ok {
		return
	}
	if tool.PortHandle != "" {
		delete(r.byPort, tool.PortHandle)
	}
	tool.PortHandle = handle
	r.byPort[handle] = tool
}

// ReleasePortHandle removes handle from the port lookup table and clears
// it from the owning Tool, if any, without removing the Tool itself.
func (r *Registry) ReleasePortHandle(handle string) {
	tool, ok := r.byPort[handle]
	if !ok {
		return
	}
	if tool.PortHandle == handle {
		tool.PortHandle = ""
	}
	delete(r.byPort, handle)
}

// ToolsWithDefinition returns every registered tool that has a non-empty
// DefinitionPath, in registration order, for the passive-tool ROM upload
// step of bring-up.
func (r *Registry) ToolsWithDefinition() []*ndiproto.Tool {
	var out []*ndiproto.Tool
	for _, name := range r.order {
		if t := r.byName[name]; t.DefinitionPath != "" {
			out = append(out, t)
		}
	}
	return out
}
