// Package pom reads the parts of a Maven pom.xml needed to locate the
// modules of a build and the jars its classes are compiled against.
package pom

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

type Project struct {
	XMLName              xml.Name              `xml:"project"`
	GroupID              string                `xml:"groupId"`
	ArtifactID           string                `xml:"artifactId"`
	Version              string                `xml:"version"`
	Packaging            string                `xml:"packaging"`
	Parent               *Parent               `xml:"parent"`
	Modules              []string              `xml:"modules>module"`
	Properties           *Properties           `xml:"properties"`
	Dependencies         []Dependency          `xml:"dependencies>dependency"`
	DependencyManagement *DependencyManagement `xml:"dependencyManagement"`
}

type Parent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

type Properties struct {
	Entries map[string]string
}

func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.Entries = make(map[string]string)
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			p.Entries[t.Name.Local] = value
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

type Dependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Type       string `xml:"type"`
	Classifier string `xml:"classifier"`
	Scope      string `xml:"scope"`
	SystemPath string `xml:"systemPath"`
	Optional   string `xml:"optional"`
}

// Key identifies a dependency independent of its version.
func (d Dependency) Key() string {
	return d.GroupID + ":" + d.ArtifactID
}

type DependencyManagement struct {
	Dependencies []Dependency `xml:"dependencies>dependency"`
}

// Parse decodes a pom.xml document without resolving its parent.
func Parse(data []byte) (*Project, error) {
	var project Project
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("parse POM: %w", err)
	}
	return &project, nil
}

// ReadFile reads the pom.xml at path. A parent found on disk through
// its relativePath is merged in and ${...} references are expanded.
func ReadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read POM: %w", err)
	}
	project, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := project.mergeLocalParent(filepath.Dir(path)); err != nil {
		return nil, err
	}
	project.interpolate()
	return project, nil
}

func (p *Project) mergeLocalParent(dir string) error {
	if p.Parent == nil {
		return nil
	}
	rel := p.Parent.RelativePath
	if rel == "" {
		rel = filepath.Join("..", "pom.xml")
	}
	path := filepath.Join(dir, rel)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, "pom.xml")
	}
	if _, err := os.Stat(path); err != nil {
		// parent lives in a repository only
		return nil
	}

	parent, err := ReadFile(path)
	if err != nil {
		return fmt.Errorf("read parent POM: %w", err)
	}
	if parent.GroupID != p.Parent.GroupID || parent.ArtifactID != p.Parent.ArtifactID {
		return nil
	}

	if p.GroupID == "" {
		p.GroupID = parent.GroupID
	}
	if p.Version == "" {
		p.Version = parent.Version
	}
	if parent.Properties != nil {
		if p.Properties == nil {
			p.Properties = &Properties{Entries: make(map[string]string)}
		}
		for k, v := range parent.Properties.Entries {
			if _, exists := p.Properties.Entries[k]; !exists {
				p.Properties.Entries[k] = v
			}
		}
	}
	if parent.DependencyManagement != nil {
		if p.DependencyManagement == nil {
			p.DependencyManagement = &DependencyManagement{}
		}
		managed := make(map[string]bool)
		for _, d := range p.DependencyManagement.Dependencies {
			managed[d.Key()] = true
		}
		for _, d := range parent.DependencyManagement.Dependencies {
			if !managed[d.Key()] {
				p.DependencyManagement.Dependencies = append(p.DependencyManagement.Dependencies, d)
			}
		}
	}
	return nil
}
