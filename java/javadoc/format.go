package javadoc

import (
	"html"
	"strings"
)

// Format renders a DocComment as Markdown-flavoured text for editor hovers.
func Format(doc *DocComment) string {
	if doc == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(normalizeWhitespace(formatNodes(doc.Body, true)))

	if len(doc.BlockTags) > 0 && sb.Len() > 0 {
		sb.WriteString("\n")
	}
	for _, tag := range doc.BlockTags {
		if s := formatBlockTag(tag); s != "" {
			sb.WriteString("\n")
			sb.WriteString(s)
		}
	}

	return strings.TrimSpace(sb.String())
}

// PlainText renders the body of a DocComment without markup.
func PlainText(doc *DocComment) string {
	if doc == nil {
		return ""
	}
	return strings.TrimSpace(normalizeWhitespace(formatNodes(doc.Body, false)))
}

// NodesText renders a content list without markup.
func NodesText(nodes []Node) string {
	return strings.TrimSpace(formatNodes(nodes, false))
}

func formatNodes(nodes []Node, markup bool) string {
	var sb strings.Builder
	for _, node := range nodes {
		sb.WriteString(formatNode(node, markup))
	}
	return sb.String()
}

func formatNode(node Node, markup bool) string {
	switch n := node.(type) {
	case Text:
		return n.Content
	case Code:
		content := strings.TrimSpace(n.Content)
		if !markup {
			return content
		}
		if strings.Contains(content, "\n") {
			return "\n```\n" + content + "\n```\n"
		}
		return "`" + content + "`"
	case Literal:
		return n.Content
	case Link:
		if len(n.Label) > 0 {
			return formatNodes(n.Label, markup)
		}
		return formatReference(n.Reference)
	case Value:
		return formatReference(n.Reference)
	case InlineTag:
		return formatNodes(n.Content, markup)
	case HTML:
		if markup {
			return formatElement(n.Raw)
		}
		return ""
	case Entity:
		return html.UnescapeString(n.Raw)
	}
	return ""
}

func formatReference(ref string) string {
	if idx := strings.LastIndex(ref, "#"); idx >= 0 {
		member := ref[idx+1:]
		if paren := strings.Index(member, "("); paren >= 0 {
			member = member[:paren]
		}
		return member
	}
	if idx := strings.LastIndex(ref, "."); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}

// ElementName returns the lower-cased element name of a raw HTML tag and
// whether it is a closing tag.
func ElementName(raw string) (string, bool) {
	s := strings.TrimPrefix(raw, "<")
	closing := strings.HasPrefix(s, "/")
	s = strings.TrimPrefix(s, "/")
	end := strings.IndexAny(s, " \t\n/>")
	if end >= 0 {
		s = s[:end]
	}
	return strings.ToLower(s), closing
}

func formatElement(raw string) string {
	name, closing := ElementName(raw)
	switch name {
	case "p":
		if closing {
			return ""
		}
		return "\n\n"
	case "br":
		return "\n"
	case "pre":
		return "\n```\n"
	case "code":
		return "`"
	case "ul", "ol":
		return "\n"
	case "li":
		if closing {
			return ""
		}
		return "\n- "
	}
	return ""
}

func formatBlockTag(node Node) string {
	switch n := node.(type) {
	case Param:
		return "@param " + n.Name + " " + strings.TrimSpace(formatNodes(n.Description, true))
	case See:
		return "@see " + strings.TrimSpace(formatNodes(n.Reference, true))
	case Since:
		return "@since " + strings.TrimSpace(formatNodes(n.Version, true))
	case Deprecated:
		return "@deprecated " + strings.TrimSpace(formatNodes(n.Description, true))
	case Hidden:
		return "@hidden"
	case BlockTag:
		return "@" + n.Name + " " + strings.TrimSpace(formatNodes(n.Content, true))
	}
	return ""
}

func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	var result []string
	prevEmpty := false

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if !prevEmpty {
				result = append(result, "")
				prevEmpty = true
			}
			continue
		}
		result = append(result, line)
		prevEmpty = false
	}

	return strings.Join(result, "\n")
}
