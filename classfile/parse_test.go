package classfile_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/confdoc/classfile"
	"github.com/dhamidi/confdoc/classfile/classfiletest"
)

func parse(t *testing.T, b *classfiletest.Builder) *classfile.ClassFile {
	t.Helper()
	cf, err := classfile.Parse(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return cf
}

func TestParseConstants(t *testing.T) {
	cf := parse(t, classfiletest.New("com/example/Limits").
		Constant("NAME", "Ljava/lang/String;", "limits").
		Constant("MAX", "I", int32(42)).
		Constant("BIG", "J", int64(1)<<40).
		Constant("RATIO", "F", float32(0.5)).
		Constant("PI", "D", 3.25).
		Constant("ENABLED", "Z", true).
		Constant("SEP", "C", ';').
		Field(classfile.AccPrivate, "plain", "I"))

	if got := cf.ClassName(); got != "com/example/Limits" {
		t.Errorf("ClassName() = %q", got)
	}
	if got := cf.SuperClassName(); got != "java/lang/Object" {
		t.Errorf("SuperClassName() = %q", got)
	}

	tests := []struct {
		field string
		want  any
	}{
		{"NAME", "limits"},
		{"MAX", int32(42)},
		{"BIG", int64(1) << 40},
		{"RATIO", float32(0.5)},
		{"PI", 3.25},
		{"ENABLED", true},
		{"SEP", ";"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f := cf.Field(tt.field)
			if f == nil {
				t.Fatalf("field %s not found", tt.field)
			}
			if !f.AccessFlags.IsStatic() || !f.AccessFlags.IsFinal() {
				t.Errorf("field %s flags = %#x", tt.field, f.AccessFlags)
			}
			got, ok := cf.ConstantValue(f)
			if !ok {
				t.Fatalf("ConstantValue(%s) not found", tt.field)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ConstantValue(%s) mismatch (-want +got):\n%s", tt.field, diff)
			}
		})
	}

	if _, ok := cf.ConstantValue(cf.Field("plain")); ok {
		t.Error("plain field must not have a constant value")
	}
	if cf.Field("missing") != nil {
		t.Error("expected nil for missing field")
	}
}

func TestParseEnum(t *testing.T) {
	cf := parse(t, classfiletest.New("com/example/Mode").
		Enum("FAST", "SLOW").
		Method(classfile.AccPublic|classfile.AccStatic, "valueOf", "(Ljava/lang/String;)Lcom/example/Mode;"))

	if !cf.IsEnum() {
		t.Fatal("expected enum")
	}
	if diff := cmp.Diff([]string{"FAST", "SLOW"}, cf.EnumConstants()); diff != "" {
		t.Errorf("EnumConstants() mismatch (-want +got):\n%s", diff)
	}
	if !cf.HasMethod("valueOf", "(Ljava/lang/String;)Lcom/example/Mode;") {
		t.Error("expected valueOf(String)")
	}
	if !cf.HasMethod("valueOf", "") {
		t.Error("empty descriptor must match any overload")
	}
	if cf.HasMethod("of", "") {
		t.Error("unexpected method of")
	}
}

func TestParseRecordAndInnerClasses(t *testing.T) {
	cf := parse(t, classfiletest.New("com/example/Outer$Point").
		Record([2]string{"x", "I"}, [2]string{"label", "Ljava/lang/String;"}).
		InnerClass("com/example/Outer$Point", "com/example/Outer", "Point", classfile.AccPublic|classfile.AccStatic))

	if !cf.IsRecord() {
		t.Fatal("expected record")
	}

	components, err := cf.Attribute("Record").RecordComponents(cf.ConstantPool)
	if err != nil {
		t.Fatalf("RecordComponents() error: %v", err)
	}
	want := []classfile.RecordComponent{
		{Name: "x", Descriptor: "I"},
		{Name: "label", Descriptor: "Ljava/lang/String;"},
	}
	if diff := cmp.Diff(want, components); diff != "" {
		t.Errorf("RecordComponents() mismatch (-want +got):\n%s", diff)
	}

	inner, err := cf.Attribute("InnerClasses").InnerClasses(cf.ConstantPool)
	if err != nil {
		t.Fatalf("InnerClasses() error: %v", err)
	}
	if len(inner) != 1 || inner[0].Outer != "com/example/Outer" || inner[0].Name != "Point" {
		t.Errorf("InnerClasses() = %+v", inner)
	}

	if _, err := cf.Attribute("Record").InnerClasses(cf.ConstantPool); err == nil {
		t.Error("expected error decoding Record as InnerClasses")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Limits.class")
	if err := os.WriteFile(path, classfiletest.New("Limits").Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	cf, err := classfile.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if cf.ClassName() != "Limits" {
		t.Errorf("ClassName() = %q", cf.ClassName())
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"bad magic", []byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 61}},
		{"truncated", classfiletest.New("Limits").Bytes()[:20]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := classfile.Parse(bytes.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"I", "int"},
		{"Z", "boolean"},
		{"Ljava/lang/String;", "java.lang.String"},
		{"[[J", "long[][]"},
		{"[Lcom/example/Outer$Inner;", "com.example.Outer$Inner[]"},
		{"Q", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := classfile.TypeName(tt.desc); got != tt.want {
			t.Errorf("TypeName(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

func TestParameterDescriptors(t *testing.T) {
	params, result, ok := classfile.ParameterDescriptors("(I[Ljava/lang/String;J)V")
	if !ok {
		t.Fatal("expected valid descriptor")
	}
	if diff := cmp.Diff([]string{"I", "[Ljava/lang/String;", "J"}, params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	if result != "V" {
		t.Errorf("result = %q, want V", result)
	}
	if _, _, ok := classfile.ParameterDescriptors("I"); ok {
		t.Error("expected invalid descriptor")
	}
}
