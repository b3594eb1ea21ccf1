package java

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/dhamidi/confdoc/classfile"
)

// Classpath looks up compiled classes in directories and jar files. It
// stands in for reflective access to constants of dependencies that are
// not available as source. A nil *Classpath finds nothing.
type Classpath struct {
	mu      sync.Mutex
	entries []classpathEntry
	cache   map[string]*classfile.ClassFile
}

type classpathEntry interface {
	open(name string) (io.ReadCloser, error)
	io.Closer
}

type dirEntry string

func (d dirEntry) open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(string(d), filepath.FromSlash(name)))
}

func (dirEntry) Close() error { return nil }

type jarEntry struct {
	zr    *zip.ReadCloser
	files map[string]*zip.File
}

func (j *jarEntry) open(name string) (io.ReadCloser, error) {
	f, ok := j.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return f.Open()
}

func (j *jarEntry) Close() error { return j.zr.Close() }

// OpenClasspath opens every directory, .jar and .zip file in paths.
// Entries that do not exist are skipped.
func OpenClasspath(paths ...string) (*Classpath, error) {
	cp := &Classpath{cache: make(map[string]*classfile.ClassFile)}
	for _, path := range paths {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			cp.Close()
			return nil, fmt.Errorf("open classpath entry: %w", err)
		}
		if info.IsDir() {
			cp.entries = append(cp.entries, dirEntry(path))
			continue
		}
		zr, err := zip.OpenReader(path)
		if err != nil {
			cp.Close()
			return nil, fmt.Errorf("open classpath entry %s: %w", path, err)
		}
		j := &jarEntry{zr: zr, files: make(map[string]*zip.File, len(zr.File))}
		for _, f := range zr.File {
			j.files[f.Name] = f
		}
		cp.entries = append(cp.entries, j)
	}
	return cp, nil
}

// Close releases the open jar files.
func (cp *Classpath) Close() error {
	if cp == nil {
		return nil
	}
	var errs []error
	for _, e := range cp.entries {
		errs = append(errs, e.Close())
	}
	return errors.Join(errs...)
}

// Load returns the class with the given binary name, e.g.
// java/util/concurrent/TimeUnit or com/example/Outer$Inner. Results,
// including misses, are cached.
func (cp *Classpath) Load(binaryName string) (*classfile.ClassFile, bool) {
	if cp == nil {
		return nil, false
	}
	cp.mu.Lock()
	defer cp.mu.Unlock()

	if cf, ok := cp.cache[binaryName]; ok {
		return cf, cf != nil
	}
	var found *classfile.ClassFile
	for _, e := range cp.entries {
		rc, err := e.open(binaryName + ".class")
		if err != nil {
			continue
		}
		cf, err := classfile.Parse(rc)
		rc.Close()
		if err == nil {
			found = cf
			break
		}
	}
	cp.cache[binaryName] = found
	return found, found != nil
}

// Has reports whether the classpath contains the class.
func (cp *Classpath) Has(binaryName string) bool {
	_, ok := cp.Load(binaryName)
	return ok
}

// StaticConstant returns the value of a public static constant as
// String.valueOf would print it. Enum constants yield their name.
// Well-known platform constants are answered without a classpath.
func (cp *Classpath) StaticConstant(binaryName, field string) (string, bool) {
	if cf, ok := cp.Load(binaryName); ok {
		if f := cf.Field(field); f != nil && f.AccessFlags.IsPublic() && f.AccessFlags.IsStatic() {
			if f.AccessFlags.IsEnum() {
				return field, true
			}
			if v, ok := cf.ConstantValue(f); ok {
				return FormatConstant(v), true
			}
		}
	}
	v, ok := jdkConstants[binaryName+"."+field]
	return v, ok
}

// FormatConstant prints a class file constant the way Java's
// String.valueOf does.
func FormatConstant(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return formatJavaFloat(float64(v), 32)
	case float64:
		return formatJavaFloat(v, 64)
	}
	return fmt.Sprint(v)
}

// formatJavaFloat mimics Double.toString: plain notation with at least
// one fractional digit for magnitudes in [1e-3, 1e7), computerized
// scientific notation otherwise.
func formatJavaFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(f)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, bits)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'e', -1, bits)
	mantissa, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(n)
}
