package pom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const parentPOM = `<project>
  <groupId>com.example</groupId>
  <artifactId>parent</artifactId>
  <version>1.2.0</version>
  <packaging>pom</packaging>
  <modules>
    <module>app</module>
    <module>lib</module>
  </modules>
  <properties>
    <validation.version>3.0.2</validation.version>
  </properties>
  <dependencyManagement>
    <dependencies>
      <dependency>
        <groupId>jakarta.validation</groupId>
        <artifactId>jakarta.validation-api</artifactId>
        <version>${validation.version}</version>
      </dependency>
    </dependencies>
  </dependencyManagement>
</project>`

const appPOM = `<project>
  <parent>
    <groupId>com.example</groupId>
    <artifactId>parent</artifactId>
    <version>1.2.0</version>
  </parent>
  <artifactId>app</artifactId>
  <dependencies>
    <dependency>
      <groupId>jakarta.validation</groupId>
      <artifactId>jakarta.validation-api</artifactId>
    </dependency>
    <dependency>
      <groupId>com.example</groupId>
      <artifactId>lib</artifactId>
      <version>${project.version}</version>
    </dependency>
    <dependency>
      <groupId>org.junit</groupId>
      <artifactId>junit</artifactId>
      <version>5.0</version>
      <scope>test</scope>
    </dependency>
    <dependency>
      <groupId>org.missing</groupId>
      <artifactId>absent</artifactId>
      <version>1.0</version>
    </dependency>
  </dependencies>
</project>`

func TestReadFileMergesParent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pom.xml"), parentPOM)
	writeFile(t, filepath.Join(dir, "app", "pom.xml"), appPOM)

	parent, err := ReadFile(filepath.Join(dir, "pom.xml"))
	if err != nil {
		t.Fatalf("ReadFile(parent) error = %v", err)
	}
	if diff := cmp.Diff([]string{"app", "lib"}, parent.Modules); diff != "" {
		t.Errorf("modules mismatch (-want +got):\n%s", diff)
	}

	app, err := ReadFile(filepath.Join(dir, "app", "pom.xml"))
	if err != nil {
		t.Fatalf("ReadFile(app) error = %v", err)
	}
	if app.GroupID != "com.example" || app.Version != "1.2.0" {
		t.Errorf("inherited coordinates = %s:%s, want com.example:1.2.0", app.GroupID, app.Version)
	}
	if got := app.Dependencies[1].Version; got != "1.2.0" {
		t.Errorf("interpolated version = %q, want 1.2.0", got)
	}
	if got := app.DependencyManagement.Dependencies[0].Version; got != "3.0.2" {
		t.Errorf("managed version = %q, want 3.0.2", got)
	}
}

func TestLocalRepositoryClasspath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pom.xml"), parentPOM)
	writeFile(t, filepath.Join(dir, "app", "pom.xml"), appPOM)

	repo := LocalRepository{Dir: filepath.Join(dir, "m2")}
	validation := repo.JarPath(Dependency{GroupID: "jakarta.validation", ArtifactID: "jakarta.validation-api", Version: "3.0.2"})
	lib := repo.JarPath(Dependency{GroupID: "com.example", ArtifactID: "lib", Version: "1.2.0"})
	junit := repo.JarPath(Dependency{GroupID: "org.junit", ArtifactID: "junit", Version: "5.0"})
	for _, jar := range []string{validation, lib, junit} {
		writeFile(t, jar, "PK")
	}

	want := filepath.Join(dir, "m2", "jakarta", "validation", "jakarta.validation-api", "3.0.2", "jakarta.validation-api-3.0.2.jar")
	if validation != want {
		t.Errorf("JarPath = %s, want %s", validation, want)
	}

	app, err := ReadFile(filepath.Join(dir, "app", "pom.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{validation, lib}, repo.Classpath(app)); diff != "" {
		t.Errorf("classpath mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandRefs(t *testing.T) {
	props := map[string]string{"a": "${b}-x", "b": "1"}
	tests := []struct {
		in, want string
	}{
		{"${a}", "1-x"},
		{"v${b}${b}", "v11"},
		{"${unknown}", "${unknown}"},
		{"${unterminated", "${unterminated"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := expandRefs(tt.in, props); got != tt.want {
				t.Errorf("expandRefs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
