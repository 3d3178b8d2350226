package runtime

import (
	"maps"
	"slices"
)

// Binding is one named slot in a frame.
type Binding struct {
	Value Value
	Const bool
}

// Frame is one level of the scope stack.
type Frame struct {
	vars   map[string]Binding
	frozen bool
}

// NewFrame creates an empty, writable frame.
func NewFrame() *Frame {
	return &Frame{vars: make(map[string]Binding)}
}

// Define writes a binding directly into the frame. It is intended for
// populating frames before they are attached to a table.
func (f *Frame) Define(name string, value Value, isConst bool) error {
	if f.frozen {
		return Errorf(ResourceError, "cannot define '%s' in a frozen frame", name)
	}
	f.vars[name] = Binding{Value: value, Const: isConst}
	return nil
}

// Freeze makes the frame immutable so it can be shared between tables.
func (f *Frame) Freeze() *Frame {
	f.frozen = true
	return f
}

// Lookup reports the binding for name in this frame only.
func (f *Frame) Lookup(name string) (Binding, bool) {
	b, ok := f.vars[name]
	return b, ok
}

// Names returns the frame's bindings in sorted order.
func (f *Frame) Names() []string {
	return slices.Sorted(maps.Keys(f.vars))
}

// Len reports the number of bindings.
func (f *Frame) Len() int { return len(f.vars) }

// SymbolTable is an ordered stack of frames. Frame 0 is the shared standard
// environment and frame 1 the program's globals; neither is ever popped.
type SymbolTable struct {
	frames []*Frame
}

const baseFrames = 2

// NewSymbolTable stacks a fresh globals frame on top of base.
func NewSymbolTable(base *Frame) *SymbolTable {
	if base == nil {
		base = NewFrame().Freeze()
	}
	return &SymbolTable{frames: []*Frame{base, NewFrame()}}
}

// Push opens a new innermost frame.
func (s *SymbolTable) Push() {
	s.frames = append(s.frames, NewFrame())
}

// Pop discards the innermost frame. The base and globals frames stay.
func (s *SymbolTable) Pop() {
	if len(s.frames) > baseFrames {
		s.frames[len(s.frames)-1] = nil
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth reports the number of frames, including the two base frames.
func (s *SymbolTable) Depth() int { return len(s.frames) }

// Globals returns the program's global frame.
func (s *SymbolTable) Globals() *Frame { return s.frames[1] }

// Innermost returns the frame declarations currently write to.
func (s *SymbolTable) Innermost() *Frame { return s.frames[len(s.frames)-1] }

// Declare binds name in the innermost frame, replacing any binding of the
// same name there. Only Assign is checked against const.
func (s *SymbolTable) Declare(name string, value Value, isConst bool) error {
	return s.Innermost().Define(name, value, isConst)
}

// Assign updates the nearest binding of name.
func (s *SymbolTable) Assign(name string, value Value) error {
	for i := len(s.frames) - 1; i >= 0; i-- {
		frame := s.frames[i]
		existing, ok := frame.Lookup(name)
		if !ok {
			continue
		}
		if existing.Const || frame.frozen {
			return NameErrorf("cannot assign to constant '%s'", name)
		}
		frame.vars[name] = Binding{Value: value}
		return nil
	}
	return NameErrorf("undefined variable '%s'", name)
}

// Get resolves name from the innermost frame outwards.
func (s *SymbolTable) Get(name string) (Value, error) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i].Lookup(name); ok {
			return b.Value, nil
		}
	}
	return nil, NameErrorf("undefined variable '%s'", name)
}

// Names returns every visible name, innermost shadowing outermost, sorted.
func (s *SymbolTable) Names() []string {
	seen := make(map[string]struct{})
	for _, f := range s.frames {
		for name := range f.vars {
			seen[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
