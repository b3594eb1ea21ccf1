package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhamidi/confdoc/pom"
)

// Layout names the directory convention a project follows.
type Layout string

const (
	// Maven is src/main/java with compiled classes in target/classes.
	Maven Layout = "maven"
	// Gradle is src/main/java with compiled classes in build/classes/java/main.
	Gradle Layout = "gradle"
	// Plain is a bare src directory.
	Plain Layout = "plain"
)

// Project represents a checkout whose configuration classes are documented.
type Project struct {
	RootDir string
	Layout  Layout
	Modules []*Module
	// LibJars are the jars found in the lib directory of the root.
	LibJars []string
	// DependencyJars are the compile dependencies of Maven modules
	// found in the local repository.
	DependencyJars []string
}

// Module is one source tree of a project, the root itself or a
// subproject of a multi-module build.
type Module struct {
	Name     string
	Dir      string
	SrcDir   string
	ClassDir string // empty when nothing was compiled yet
	POM      *pom.Project
	Project  *Project
}

// Load detects the project in the current directory.
func Load() (*Project, error) {
	return Detect(".")
}

// Detect scans rootDir for a Maven, Gradle or plain src layout. Direct
// subdirectories following the same convention become additional modules.
func Detect(rootDir string) (*Project, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("detect project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("detect project: %s is not a directory", rootDir)
	}

	proj := &Project{RootDir: rootDir, Layout: layoutOf(rootDir)}
	if m := detectModule(rootDir, "", proj.Layout); m != nil {
		proj.Modules = append(proj.Modules, m)
	}

	var names []string
	if root := readPOM(rootDir); root != nil && len(root.Modules) > 0 {
		names = root.Modules
	} else {
		entries, err := os.ReadDir(rootDir)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rootDir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") && entry.Name() != "src" {
				names = append(names, entry.Name())
			}
		}
	}
	for _, name := range names {
		dir := filepath.Join(rootDir, filepath.FromSlash(name))
		layout := layoutOf(dir)
		if layout == Plain {
			// only build-tool subprojects count
			continue
		}
		if m := detectModule(dir, name, layout); m != nil {
			proj.Modules = append(proj.Modules, m)
		}
	}

	if len(proj.Modules) == 0 {
		return nil, fmt.Errorf("could not detect project: no src/main/java or src directory found in %s", rootDir)
	}
	for _, m := range proj.Modules {
		m.Project = proj
	}

	proj.LibJars, _ = filepath.Glob(filepath.Join(rootDir, "lib", "*.jar"))
	sort.Strings(proj.LibJars)

	repo := pom.DefaultRepository()
	seen := make(map[string]bool)
	for _, m := range proj.Modules {
		if m.POM == nil {
			continue
		}
		for _, jar := range repo.Classpath(m.POM) {
			if !seen[jar] {
				seen[jar] = true
				proj.DependencyJars = append(proj.DependencyJars, jar)
			}
		}
	}
	return proj, nil
}

func layoutOf(dir string) Layout {
	switch {
	case exists(filepath.Join(dir, "pom.xml")):
		return Maven
	case exists(filepath.Join(dir, "build.gradle")), exists(filepath.Join(dir, "build.gradle.kts")):
		return Gradle
	case isDir(filepath.Join(dir, "target", "classes")):
		return Maven
	case isDir(filepath.Join(dir, "build", "classes", "java", "main")):
		return Gradle
	}
	return Plain
}

func detectModule(dir, name string, layout Layout) *Module {
	m := &Module{Name: name, Dir: dir}
	switch src := filepath.Join(dir, "src", "main", "java"); {
	case isDir(src):
		m.SrcDir = src
	case isDir(filepath.Join(dir, "src")):
		m.SrcDir = filepath.Join(dir, "src")
	default:
		return nil
	}

	var classes string
	switch layout {
	case Maven:
		classes = filepath.Join(dir, "target", "classes")
	case Gradle:
		classes = filepath.Join(dir, "build", "classes", "java", "main")
	}
	if classes != "" && isDir(classes) {
		m.ClassDir = classes
	}
	if layout == Maven {
		m.POM = readPOM(dir)
	}
	return m
}

// readPOM returns nil when dir has no readable pom.xml.
func readPOM(dir string) *pom.Project {
	path := filepath.Join(dir, "pom.xml")
	if !exists(path) {
		return nil
	}
	p, err := pom.ReadFile(path)
	if err != nil {
		return nil
	}
	return p
}

// SourceDirs returns the source directory of every module.
func (p *Project) SourceDirs() []string {
	dirs := make([]string, 0, len(p.Modules))
	for _, m := range p.Modules {
		dirs = append(dirs, m.SrcDir)
	}
	return dirs
}

// Classpath returns the compiled class directories of every module
// followed by the lib jars and the Maven dependency jars.
func (p *Project) Classpath() []string {
	var entries []string
	for _, m := range p.Modules {
		if m.ClassDir != "" {
			entries = append(entries, m.ClassDir)
		}
	}
	entries = append(entries, p.LibJars...)
	return append(entries, p.DependencyJars...)
}

// Module returns the module with the given name; the root module has
// the empty name.
func (p *Project) Module(name string) *Module {
	for _, m := range p.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
