package java

import (
	"fmt"
	"sort"
	"sync"
)

// SyntaxError is a parse error in a Java source file.
type SyntaxError struct {
	Pos     Pos
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// File is a parsed Java source file.
type File struct {
	Path    string
	Unit    *Unit
	Classes []*Class
	Errors  []SyntaxError

	lines []string
}

// Line returns the 1-based source line n.
func (f *File) Line(n int) (string, bool) {
	if f == nil || n < 1 || n > len(f.lines) {
		return "", false
	}
	return f.lines[n-1], true
}

// Codebase indexes the classes of a set of parsed source files by their
// qualified name.
type Codebase struct {
	mu        sync.RWMutex
	classpath *Classpath
	files     map[string]*File
	order     []string
	classes   map[string]*Class
}

// NewCodebase returns an empty codebase resolving external types against
// cp, which may be nil.
func NewCodebase(cp *Classpath) *Codebase {
	return &Codebase{
		classpath: cp,
		files:     make(map[string]*File),
		classes:   make(map[string]*Class),
	}
}

// Classpath returns the classpath used for types not declared in source.
func (cb *Codebase) Classpath() *Classpath {
	return cb.classpath
}

// AddSource parses source and adds its classes, replacing whatever an
// earlier version of the same path contributed.
func (cb *Codebase) AddSource(path string, source []byte) *File {
	f := ParseFile(path, source)

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if _, ok := cb.files[path]; !ok {
		cb.order = append(cb.order, path)
	}
	cb.files[path] = f
	cb.reindexLocked()
	return f
}

// RemoveFile drops a file and its classes.
func (cb *Codebase) RemoveFile(path string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if _, ok := cb.files[path]; !ok {
		return
	}
	delete(cb.files, path)
	for i, p := range cb.order {
		if p == path {
			cb.order = append(cb.order[:i], cb.order[i+1:]...)
			break
		}
	}
	cb.reindexLocked()
}

func (cb *Codebase) reindexLocked() {
	cb.classes = make(map[string]*Class)
	for _, path := range cb.order {
		for _, c := range cb.files[path].Classes {
			cb.indexLocked(c)
		}
	}
}

func (cb *Codebase) indexLocked(c *Class) {
	if _, dup := cb.classes[c.QualifiedName()]; !dup {
		cb.classes[c.QualifiedName()] = c
	}
	for _, n := range c.Nested {
		cb.indexLocked(n)
	}
}

// File returns the parsed file for path, or nil.
func (cb *Codebase) File(path string) *File {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.files[path]
}

// Files returns the files in the order they were first added.
func (cb *Codebase) Files() []*File {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	out := make([]*File, 0, len(cb.order))
	for _, path := range cb.order {
		out = append(out, cb.files[path])
	}
	return out
}

// Classes returns every class, nested ones right after their outer class,
// in file order.
func (cb *Codebase) Classes() []*Class {
	var out []*Class
	var walk func(c *Class)
	walk = func(c *Class) {
		out = append(out, c)
		for _, n := range c.Nested {
			walk(n)
		}
	}
	for _, f := range cb.Files() {
		for _, c := range f.Classes {
			walk(c)
		}
	}
	return out
}

// Class returns the source class with the given qualified name.
func (cb *Codebase) Class(qualified string) *Class {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.classes[qualified]
}

// Packages returns the sorted set of packages declared in source.
func (cb *Codebase) Packages() []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range cb.Files() {
		if f.Unit == nil || seen[f.Unit.Package] {
			continue
		}
		seen[f.Unit.Package] = true
		out = append(out, f.Unit.Package)
	}
	sort.Strings(out)
	return out
}

// SourceLine returns a line of a loaded file, for diagnostics.
func (cb *Codebase) SourceLine(path string, line int) (string, bool) {
	return cb.File(path).Line(line)
}
