// Package javadoc provides a parser for Javadoc comments.
package javadoc

// Node is the interface implemented by all Javadoc AST nodes.
type Node interface {
	node()
}

// DocComment represents a complete Javadoc comment.
type DocComment struct {
	Body      []Node // Main description content
	BlockTags []Node // Block tags like @param, @deprecated, etc.
}

func (DocComment) node() {}

// Text represents plain text content.
type Text struct {
	Content string
}

func (Text) node() {}

// HTML represents a start or end HTML element, kept verbatim.
type HTML struct {
	Raw string
}

func (HTML) node() {}

// Entity represents an HTML entity such as &amp;.
type Entity struct {
	Raw string
}

func (Entity) node() {}

// Code represents an {@code ...} inline tag.
type Code struct {
	Content string
}

func (Code) node() {}

// Literal represents an {@literal ...} inline tag.
type Literal struct {
	Content string
}

func (Literal) node() {}

// Link represents an {@link ...} or {@linkplain ...} inline tag.
type Link struct {
	Reference string // The reference (e.g., "java.util.List#add")
	Label     []Node // Optional label content
	Plain     bool   // true for @linkplain, false for @link
}

func (Link) node() {}

// Value represents an {@value ...} inline tag.
type Value struct {
	Reference string
}

func (Value) node() {}

// InlineTag represents any other inline tag, including custom ones with
// dotted names like {@configurationdoc.default 10}.
type InlineTag struct {
	Name    string
	Content []Node
}

func (InlineTag) node() {}

// Param represents a @param block tag.
type Param struct {
	Name        string
	IsTypeParam bool // true if <T>, false if regular parameter
	Description []Node
}

func (Param) node() {}

// See represents a @see block tag.
type See struct {
	Reference []Node // Can be a reference, string literal, or HTML
}

func (See) node() {}

// Since represents a @since block tag.
type Since struct {
	Version []Node
}

func (Since) node() {}

// Deprecated represents a @deprecated block tag.
type Deprecated struct {
	Description []Node
}

func (Deprecated) node() {}

// Hidden represents a @hidden block tag.
type Hidden struct{}

func (Hidden) node() {}

// BlockTag represents any other block tag such as @return, @throws or
// a custom @configurationdoc.default.
type BlockTag struct {
	Name    string
	Content []Node
}

func (BlockTag) node() {}

// ParamDoc returns the @param block tag documenting name, or nil.
func (d *DocComment) ParamDoc(name string) *Param {
	if d == nil {
		return nil
	}
	for _, tag := range d.BlockTags {
		if p, ok := tag.(Param); ok && !p.IsTypeParam && p.Name == name {
			return &p
		}
	}
	return nil
}

// HasBlockTag reports whether the comment carries a block tag with the
// given name.
func (d *DocComment) HasBlockTag(name string) bool {
	if d == nil {
		return false
	}
	for _, tag := range d.BlockTags {
		if tagName(tag) == name {
			return true
		}
	}
	return false
}

// Collect returns the content of every block and inline tag named name,
// searching the body, block tags and their descriptions.
func (d *DocComment) Collect(name string) [][]Node {
	if d == nil {
		return nil
	}
	var out [][]Node
	var visit func(nodes []Node)
	visit = func(nodes []Node) {
		for _, n := range nodes {
			switch n := n.(type) {
			case InlineTag:
				if n.Name == name {
					out = append(out, n.Content)
				}
				visit(n.Content)
			case BlockTag:
				if n.Name == name {
					out = append(out, n.Content)
				}
				visit(n.Content)
			case Param:
				visit(n.Description)
			case Deprecated:
				visit(n.Description)
			case Since:
				visit(n.Version)
			case See:
				visit(n.Reference)
			case Link:
				visit(n.Label)
			}
		}
	}
	visit(d.Body)
	visit(d.BlockTags)
	return out
}

func tagName(n Node) string {
	switch n := n.(type) {
	case Param:
		return "param"
	case See:
		return "see"
	case Since:
		return "since"
	case Deprecated:
		return "deprecated"
	case Hidden:
		return "hidden"
	case BlockTag:
		return n.Name
	}
	return ""
}
