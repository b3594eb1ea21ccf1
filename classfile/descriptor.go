package classfile

import "strings"

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// TypeName converts a field descriptor into a Java source type name, for
// example "[Ljava/lang/String;" into "java.lang.String[]". Nested class
// names keep their '$' separator.
func TypeName(desc string) string {
	dims := 0
	for dims < len(desc) && desc[dims] == '[' {
		dims++
	}
	rest := desc[dims:]
	var name string
	switch {
	case rest == "":
		return ""
	case rest[0] == 'L' && strings.HasSuffix(rest, ";"):
		name = InternalToSourceName(rest[1 : len(rest)-1])
	case len(rest) == 1 && baseTypes[rest[0]] != "":
		name = baseTypes[rest[0]]
	default:
		return ""
	}
	return name + strings.Repeat("[]", dims)
}

// ParameterDescriptors splits a method descriptor into its parameter
// descriptors and return descriptor.
func ParameterDescriptors(desc string) (params []string, result string, ok bool) {
	if !strings.HasPrefix(desc, "(") {
		return nil, "", false
	}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		start := i
		for i < len(desc) && desc[i] == '[' {
			i++
		}
		if i >= len(desc) {
			return nil, "", false
		}
		if desc[i] == 'L' {
			end := strings.IndexByte(desc[i:], ';')
			if end < 0 {
				return nil, "", false
			}
			i += end
		}
		i++
		params = append(params, desc[start:i])
	}
	if i >= len(desc) {
		return nil, "", false
	}
	return params, desc[i+1:], true
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
