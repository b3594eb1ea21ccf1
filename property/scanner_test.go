package property

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/java/javadoc"
)

type recordSummary struct {
	Name    string
	Default string
	Opaque  bool
}

func summarize(records []*Record) []recordSummary {
	out := make([]recordSummary, len(records))
	for i, r := range records {
		out[i] = recordSummary{Name: r.Name, Default: r.Default, Opaque: r.Opaque}
	}
	return out
}

func collect(t *testing.T, opts Options, files map[string]string) ([]*Record, *diagnostic.Sink) {
	t.Helper()
	cb := newTestCodebase(t, files)
	sink := diagnostic.NewSink(nil, cb)
	records, err := Collect(context.Background(), cb, sink, opts)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return records, sink
}

func TestScanEndToEnd(t *testing.T) {
	records, _ := collect(t, Options{Merge: true}, map[string]string{
		"p/P.java": `package p;

import org.springframework.boot.context.properties.ConfigurationProperties;

@ConfigurationProperties(prefix = "p")
public class P {
    /** The x. */
    private int x = 1;
    private String y = "why";

    public int getX() { return x; }
    public void setX(int x) { this.x = x; }
    public String getY() { return y; }
    public void setY(String y) { this.y = y; }
}`,
	})
	want := []recordSummary{{Name: "P_X", Default: "1"}, {Name: "P_Y", Default: "why"}}
	if diff := cmp.Diff(want, summarize(records)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if got := javadoc.PlainText(records[0].Doc); got != "The x." {
		t.Errorf("P_X doc = %q", got)
	}
}

func TestScanConstructorParameterDefault(t *testing.T) {
	records, _ := collect(t, Options{Merge: true}, map[string]string{
		"p/Counter.java": `package p;

import org.springframework.boot.context.properties.ConfigurationProperties;
import org.springframework.boot.context.properties.bind.DefaultValue;

@ConfigurationProperties
public class Counter {
    private final int count;

    /**
     * @param count how many
     */
    public Counter(@DefaultValue("5") int count) {
        this.count = count;
    }

    public int getCount() { return count; }
}`,
	})
	if len(records) != 1 || records[0].Name != "COUNT" || records[0].Default != "5" {
		t.Fatalf("records = %+v", summarize(records))
	}
	var texts []string
	for _, d := range records[0].Docs() {
		texts = append(texts, javadoc.NodesText(d.BlockTags[0].(javadoc.Param).Description))
	}
	if diff := cmp.Diff([]string{"how many"}, texts); diff != "" {
		t.Errorf("docs mismatch (-want +got):\n%s", diff)
	}
}

func TestScanNestedPrefixIsCombined(t *testing.T) {
	records, sink := collect(t, Options{Merge: true}, map[string]string{
		"p/App.java": `package p;

import org.springframework.boot.context.properties.ConfigurationProperties;

@ConfigurationProperties("app")
public class App {
    /** Server settings. */
    private Server server = new Server();

    public Server getServer() { return server; }
    public void setServer(Server server) { this.server = server; }

    @ConfigurationProperties("srv")
    public static class Server {
        private int port = 80;
        public int getPort() { return port; }
        public void setPort(int port) { this.port = port; }
    }
}`,
	})
	want := []recordSummary{{Name: "APP_SERVER_PORT", Default: "80"}, {Name: "SRV_PORT", Default: "80"}}
	if diff := cmp.Diff(want, summarize(records)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if len(records[0].Additional) != 1 || javadoc.PlainText(records[0].Additional[0]) != "Server settings." {
		t.Errorf("nested record must inherit the field comment, got %d docs", len(records[0].Additional))
	}
	if !hasMessage(sink, "Found ConfigurationProperties annotation on nested class (Server)") {
		t.Errorf("expected nested configuration warning, got %q", messages(sink, diagnostic.Info))
	}
}

func TestScanRecursiveType(t *testing.T) {
	records, sink := collect(t, Options{Merge: true}, map[string]string{
		"p/Tree.java": `package p;

import org.springframework.boot.context.properties.ConfigurationProperties;

@ConfigurationProperties("tree")
public class Tree {
    private Node root;
    public Node getRoot() { return root; }
    public void setRoot(Node root) { this.root = root; }

    public static class Node {
        private String label;
        private Node next;
        public void setLabel(String label) { this.label = label; }
        public void setNext(Node next) { this.next = next; }
    }
}`,
	})
	want := []recordSummary{{Name: "TREE_ROOT_LABEL"}, {Name: "TREE_ROOT_NEXT", Opaque: true}}
	if diff := cmp.Diff(want, summarize(records)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if !hasMessage(sink, "Documenting recursive type") {
		t.Error("expected recursive type advisory")
	}
}

func TestScanRecursiveConstructorParameter(t *testing.T) {
	done := make(chan []*Record, 1)
	cb := newTestCodebase(t, map[string]string{
		"p/Root.java": `package p;

import org.springframework.boot.context.properties.ConfigurationProperties;
import org.springframework.boot.context.properties.bind.ConstructorBinding;

@ConfigurationProperties("root")
public class Root {
    private Node node;
    public Node getNode() { return node; }
    public void setNode(Node node) { this.node = node; }

    public static class Node {
        private final String name;
        private final Node child;

        @ConstructorBinding
        public Node(String name, Node child) {
            this.name = name;
            this.child = child;
        }
    }
}`,
	})
	sink := diagnostic.NewSink(nil, cb)
	go func() {
		records, err := Collect(context.Background(), cb, sink, Options{Merge: true})
		if err != nil {
			t.Errorf("Collect: %v", err)
		}
		done <- records
	}()

	var records []*Record
	select {
	case records = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scanning a self-referencing constructor parameter did not terminate")
	}
	want := []recordSummary{{Name: "ROOT_NODE_NAME"}, {Name: "ROOT_NODE_CHILD", Opaque: true}}
	if diff := cmp.Diff(want, summarize(records)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if !hasMessage(sink, "Documenting recursive type") {
		t.Error("expected recursive type advisory")
	}
}

func TestScanRecursiveAcrossNestedClasses(t *testing.T) {
	records, sink := collect(t, Options{Merge: true}, map[string]string{
		"p/A.java": `package p;

import org.springframework.boot.context.properties.ConfigurationProperties;
import org.springframework.boot.context.properties.NestedConfigurationProperty;

@ConfigurationProperties("a")
public class A {
    @NestedConfigurationProperty
    private B b;
    public B getB() { return b; }
    public void setB(B b) { this.b = b; }
}`,
		"p/B.java": `package p;

import org.springframework.boot.context.properties.NestedConfigurationProperty;

public class B {
    private String name;
    @NestedConfigurationProperty
    private A parent;
    public void setName(String name) { this.name = name; }
    public void setParent(A parent) { this.parent = parent; }
}`,
	})
	want := []recordSummary{{Name: "A_B_NAME"}, {Name: "A_B_PARENT", Opaque: true}}
	if diff := cmp.Diff(want, summarize(records)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if !hasMessage(sink, "Documenting recursive type") {
		t.Error("expected recursive type advisory")
	}
}

func TestScanRenamedParameter(t *testing.T) {
	records, _ := collect(t, Options{Merge: true}, map[string]string{
		"p/Conn.java": `package p;

import org.springframework.boot.context.properties.ConfigurationProperties;
import org.springframework.boot.context.properties.bind.ConstructorBinding;
import org.springframework.boot.context.properties.bind.Name;

@ConfigurationProperties("conn")
public class Conn {
    /** Socket timeout. */
    private final int timeout;

    @ConstructorBinding
    public Conn(@Name("read-timeout") int timeout) {
        this.timeout = timeout;
    }
}`,
	})
	if len(records) != 1 || records[0].Name != "CONN_READTIMEOUT" {
		t.Fatalf("records = %+v", summarize(records))
	}
	if records[0].Decl.Param == nil {
		t.Error("renamed property must bind through the parameter")
	}
}

func TestScanClassification(t *testing.T) {
	records, sink := collect(t, Options{Merge: true}, map[string]string{
		"p/Kinds.java": `package p;

import java.time.Duration;
import java.util.List;
import java.util.ArrayList;
import org.springframework.boot.context.properties.ConfigurationProperties;
import org.springframework.boot.context.properties.NestedConfigurationProperty;

@ConfigurationProperties("k")
public class Kinds {
    private Duration timeout = Duration.ofSeconds(5);
    private Mode mode = Mode.FAST;
    private String[] hosts;
    private List<String> tags = new ArrayList<>();
    private Other other;
    @NestedConfigurationProperty
    private Pool pool;
    private Limits limits;

    public void setTimeout(Duration v) {}
    public void setMode(Mode v) {}
    public void setHosts(String[] v) {}
    public List<String> getTags() { return tags; }
    public void setOther(Other v) {}
    public void setPool(Pool v) {}
    public void setLimits(Limits v) {}

    public enum Mode { FAST, SLOW }
}`,
		"p/Other.java": `package p;
public class Other { private int a; public void setA(int a) {} }`,
		"p/Pool.java": `package p;
public class Pool { private int size = 4; public void setSize(int s) {} }`,
		"p/Limits.java": `package p;
public record Limits(int max) {}`,
	})
	want := []recordSummary{
		{Name: "K_TIMEOUT", Default: "Duration.ofSeconds(5)"},
		{Name: "K_MODE", Default: "FAST"},
		{Name: "K_HOSTS"},
		{Name: "K_TAGS"},
		{Name: "K_OTHER"},
		{Name: "K_POOL_SIZE", Default: "4"},
		{Name: "K_LIMITS_MAX"},
	}
	if diff := cmp.Diff(want, summarize(records)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	for _, prefix := range []string{
		"Documenting array type",
		"Documenting collection type",
		"Type p.Other is not convertible from String",
	} {
		if !hasMessage(sink, prefix) {
			t.Errorf("missing diagnostic %q", prefix)
		}
	}
}

func TestScanSetterOnlyCollection(t *testing.T) {
	records, sink := collect(t, Options{Merge: true}, map[string]string{
		"p/Lists.java": `package p;

import java.util.List;
import java.util.Map;
import java.util.Set;
import org.springframework.boot.context.properties.ConfigurationProperties;

@ConfigurationProperties("l")
public class Lists {
    private List<String> hosts;
    private Set<Integer> ports;
    private Map<String, String> labels;

    public void setHosts(List<String> v) {}
    public void setPorts(Set<Integer> v) {}
    public void setLabels(Map<String, String> v) {}
}`,
	})
	want := []recordSummary{
		{Name: "L_HOSTS"},
		{Name: "L_PORTS"},
		{Name: "L_LABELS"},
	}
	if diff := cmp.Diff(want, summarize(records)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	for _, prefix := range []string{
		"Type java.util.List is not convertible from String",
		"Type java.util.Set is not convertible from String",
	} {
		if hasMessage(sink, prefix) {
			t.Errorf("unexpected diagnostic %q", prefix)
		}
	}
	if !hasMessage(sink, "Type java.util.Map is not convertible from String") {
		t.Error("map without getter must still be reported as not convertible")
	}
}

func TestScanBeanMethod(t *testing.T) {
	records, sink := collect(t, Options{Merge: true}, map[string]string{
		"p/Beans.java": `package p;

import org.springframework.boot.context.properties.ConfigurationProperties;
import org.springframework.context.annotation.Bean;

public class Beans {
    /** Pool configuration. */
    @Bean
    @ConfigurationProperties("pool")
    public Pool pool() { return new Pool(1); }

    @ConfigurationProperties("nobean")
    public Pool other() { return null; }

    @Bean
    @ConfigurationProperties("missing")
    public Unknown unknown() { return null; }

    public static class Pool {
        private int size = 4;
        public Pool(int size) { this.size = size; }
        public void setSize(int size) { this.size = size; }
    }
}`,
	})
	want := []recordSummary{{Name: "POOL_SIZE", Default: "4"}, {Name: "NOBEAN_SIZE", Default: "4"}}
	if diff := cmp.Diff(want, summarize(records)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if len(records) > 0 && (len(records[0].Additional) != 1 || javadoc.PlainText(records[0].Additional[0]) != "Pool configuration.") {
		t.Error("bean method comment must become an additional comment")
	}
	if !hasMessage(sink, "Method annotated with @ConfigurationProperties is missing @Bean annotation: other") {
		t.Error("expected missing @Bean warning")
	}
	if !hasMessage(sink, "Skipping method with @ConfigurationProperties annotation: unknown (Type Unknown not found)") {
		t.Error("expected unresolved return type warning")
	}
}

func TestScanValidationAdvisories(t *testing.T) {
	_, sink := collect(t, Options{Merge: true}, map[string]string{
		"p/V.java": `package p;

import jakarta.validation.Valid;
import jakarta.validation.constraints.NotNull;
import org.springframework.boot.context.properties.ConfigurationProperties;

@Valid
@ConfigurationProperties("v")
public class V {
    @NotNull
    private String name;
    public void setName(String name) {}
}`,
	})
	for _, prefix := range []string{
		"ConfigurationProperties structure is annotated with @Valid",
		"Element is missing @Validated annotation",
	} {
		if !hasMessage(sink, prefix) {
			t.Errorf("missing diagnostic %q in %q", prefix, messages(sink, diagnostic.Info))
		}
	}
}

func TestCollectFatal(t *testing.T) {
	cb := newTestCodebase(t, map[string]string{
		"p/Bad.java": `package p;
@ConfigurationProperties("bad")
public class Bad {
    private String a;
    Bad(String a) {}
    Bad(int b) {}
}`,
	})
	_, err := Collect(context.Background(), cb, diagnostic.NewSink(nil, nil), Options{})
	var fatal *diagnostic.FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected fatal error, got %v", err)
	}
}

func TestCollectPackageFilter(t *testing.T) {
	files := map[string]string{
		"a/A.java": `package a;
@ConfigurationProperties("a")
public class A { private int x; public void setX(int x) {} }`,
		"b/B.java": `package b;
@ConfigurationProperties("b")
public class B { private int y; public void setY(int y) {} }`,
	}
	records, _ := collect(t, Options{Package: "b"}, files)
	if len(records) != 1 || records[0].Name != "B_Y" {
		t.Errorf("records = %+v", summarize(records))
	}
}

func TestCollectCancelled(t *testing.T) {
	cb := newTestCodebase(t, map[string]string{"a/A.java": "package a;\nclass A {}"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Collect(ctx, cb, diagnostic.NewSink(nil, nil), Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
