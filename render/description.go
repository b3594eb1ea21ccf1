package render

import (
	"strings"

	"github.com/dhamidi/confdoc/java/javadoc"
	"github.com/dhamidi/confdoc/property"
)

// describer writes the prose of documentation comments.
type describer struct {
	f         Formatter
	allowHTML bool
}

// comment writes the body of doc followed by its block tags and reports
// whether doc carries @hidden. Each block tag ends with a line break.
func (d describer) comment(doc *javadoc.DocComment) bool {
	if doc == nil {
		return false
	}
	if d.nodes(doc.Body, "") {
		return true
	}
	if len(doc.BlockTags) == 0 {
		return false
	}
	d.f.Paragraph()
	return d.nodes(doc.BlockTags, d.f.Linebreak())
}

func (d describer) nodes(nodes []javadoc.Node, sep string) bool {
	for _, n := range nodes {
		if d.node(n) {
			return true
		}
		if sep != "" {
			d.f.RawAppend(sep)
		}
	}
	return false
}

func (d describer) node(n javadoc.Node) bool {
	f := d.f
	switch n := n.(type) {
	case javadoc.Text:
		f.Append(n.Content)
	case javadoc.HTML:
		f.RawAppend(sanitizeTag(n.Raw, d.allowHTML))
	case javadoc.Entity:
		f.RawAppend(n.Raw)
	case javadoc.Code:
		f.RawAppend(" ")
		f.Code(n.Content)
	case javadoc.Literal:
		f.RawAppend(" ")
		f.Escape(n.Content)
	case javadoc.Link:
		f.RawAppend(" ")
		f.Code(linkText(n))
	case javadoc.Value:
		f.RawAppend(" ")
		f.Code(n.Reference)
	case javadoc.Param:
		return d.nodes(n.Description, "")
	case javadoc.Deprecated:
		f.RawAppend("Deprecated: ")
		return d.nodes(n.Description, "")
	case javadoc.Since:
		f.RawAppend("Since: ")
		return d.nodes(n.Version, "")
	case javadoc.See:
		f.RawAppend("See: ")
		return d.nodes(n.Reference, "")
	case javadoc.Hidden:
		return true
	case javadoc.InlineTag:
		if n.Name != property.DefaultTag {
			log.Debugf("unsupported inline tag @%s", n.Name)
		}
	case javadoc.BlockTag:
		if n.Name != property.DefaultTag {
			log.Debugf("unsupported block tag @%s", n.Name)
		}
	}
	return false
}

// linkText is "label (reference)", or the reference alone.
func linkText(l javadoc.Link) string {
	label := javadoc.NodesText(l.Label)
	if strings.TrimSpace(label) == "" {
		return l.Reference
	}
	return label + " (" + l.Reference + ")"
}

var presenceNoise = strings.NewReplacer("<br>", "", " ", "", "\t", "", "\n", "", "\r", "")

// alreadyPresent reports whether needle occurs in haystack ignoring
// whitespace, <br> and case.
func alreadyPresent(needle, haystack string) bool {
	n := strings.ToLower(presenceNoise.Replace(needle))
	h := strings.ToLower(presenceNoise.Replace(haystack))
	return strings.Contains(h, n)
}
