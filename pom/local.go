package pom

import (
	"os"
	"path/filepath"
	"strings"
)

func (p *Project) interpolate() {
	props := map[string]string{
		"project.groupId":    p.GroupID,
		"project.artifactId": p.ArtifactID,
		"project.version":    p.Version,
		"pom.groupId":        p.GroupID,
		"pom.artifactId":     p.ArtifactID,
		"pom.version":        p.Version,
	}
	if p.Parent != nil {
		props["project.parent.version"] = p.Parent.Version
	}
	if p.Properties != nil {
		for k, v := range p.Properties.Entries {
			props[k] = v
		}
	}

	expand := func(deps []Dependency) {
		for i := range deps {
			deps[i].GroupID = expandRefs(deps[i].GroupID, props)
			deps[i].ArtifactID = expandRefs(deps[i].ArtifactID, props)
			deps[i].Version = expandRefs(deps[i].Version, props)
			deps[i].SystemPath = expandRefs(deps[i].SystemPath, props)
		}
	}
	expand(p.Dependencies)
	if p.DependencyManagement != nil {
		expand(p.DependencyManagement.Dependencies)
	}
}

// expandRefs replaces ${name} references found in props. Unknown
// references are left in place. Property values may refer to other
// properties, up to a fixed depth.
func expandRefs(s string, props map[string]string) string {
	for range 8 {
		if !strings.Contains(s, "${") {
			return s
		}
		var b strings.Builder
		changed := false
		rest := s
		for {
			start := strings.Index(rest, "${")
			if start < 0 {
				b.WriteString(rest)
				break
			}
			end := strings.IndexByte(rest[start:], '}')
			if end < 0 {
				b.WriteString(rest)
				break
			}
			end += start
			b.WriteString(rest[:start])
			if v, ok := props[rest[start+2:end]]; ok {
				b.WriteString(v)
				changed = true
			} else {
				b.WriteString(rest[start : end+1])
			}
			rest = rest[end+1:]
		}
		s = b.String()
		if !changed {
			break
		}
	}
	return s
}

// LocalRepository is a Maven repository on disk, usually ~/.m2/repository.
type LocalRepository struct {
	Dir string
}

// DefaultRepository returns the local repository of the current user.
func DefaultRepository() LocalRepository {
	home, err := os.UserHomeDir()
	if err != nil {
		return LocalRepository{}
	}
	return LocalRepository{Dir: filepath.Join(home, ".m2", "repository")}
}

// JarPath returns where the jar of dep lives in the repository.
func (r LocalRepository) JarPath(dep Dependency) string {
	name := dep.ArtifactID + "-" + dep.Version
	if dep.Classifier != "" {
		name += "-" + dep.Classifier
	}
	return filepath.Join(r.Dir, filepath.FromSlash(strings.ReplaceAll(dep.GroupID, ".", "/")), dep.ArtifactID, dep.Version, name+".jar")
}

// Classpath returns the jars of the direct dependencies of project that
// take part in compilation and are present on disk. Versions missing
// from a dependency are taken from dependencyManagement.
func (r LocalRepository) Classpath(project *Project) []string {
	managed := make(map[string]string)
	if project.DependencyManagement != nil {
		for _, d := range project.DependencyManagement.Dependencies {
			managed[d.Key()] = d.Version
		}
	}

	var jars []string
	seen := make(map[string]bool)
	for _, dep := range project.Dependencies {
		if dep.Type != "" && dep.Type != "jar" {
			continue
		}
		var path string
		switch dep.Scope {
		case "", "compile", "provided":
			if dep.Version == "" {
				dep.Version = managed[dep.Key()]
			}
			if dep.Version == "" || strings.Contains(dep.Version, "${") || r.Dir == "" {
				continue
			}
			path = r.JarPath(dep)
		case "system":
			path = dep.SystemPath
		default:
			continue
		}
		if path == "" || seen[path] {
			continue
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		seen[path] = true
		jars = append(jars, path)
	}
	return jars
}
