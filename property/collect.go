package property

import (
	"context"
	"fmt"
	"strings"

	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/java"
)

// Options control discovery, merging and ordering.
type Options struct {
	EnvPrefix string
	// Package restricts the scan to classes in packages starting with it.
	// Empty means every class.
	Package       string
	RequireGetter bool
	Merge         bool
	Sorting       Sorting
}

// Collect scans every class of cb for @ConfigurationProperties types,
// bean methods and @Value injection points, resolves their defaults and
// returns the merged, ordered records. A *diagnostic.FatalError in the
// error chain means the sources use conflicting binding strategies.
func Collect(ctx context.Context, cb *java.Codebase, sink *diagnostic.Sink, opts Options) ([]*Record, error) {
	chain := NewChain(cb, sink, opts.RequireGetter)
	scanner := NewScanner(cb, sink, chain, opts.EnvPrefix)
	values := NewValueScanner(sink)

	var classes []*java.Class
	for _, c := range cb.Classes() {
		if strings.HasPrefix(c.Package(), opts.Package) {
			classes = append(classes, c)
		}
	}

	for _, c := range classes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := scanner.ScanClass(c); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.QualifiedName(), err)
		}
		for _, m := range c.Methods {
			if err := scanner.ScanBean(m); err != nil {
				return nil, fmt.Errorf("scan %s: %w", m, err)
			}
		}
	}
	for _, c := range classes {
		values.Scan(c)
	}

	res := NewResolver(cb)
	records := append(scanner.Records(), values.Records()...)
	for _, r := range records {
		res.Resolve(r)
	}
	sink.Debugf("found %d configuration attributes and %d elements with @Value", len(scanner.Records()), len(values.Records()))

	records = Merge(records, opts.Merge, sink)
	Sort(records, opts.Sorting)
	return records, nil
}
