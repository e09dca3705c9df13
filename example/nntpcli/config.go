package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// yamlLoader reads a YAML file of flag defaults. Keys are flag names;
// nested maps join with dashes, so
//
//	log:
//	  level: debug
//
// sets --log-level. Lists supply repeatable flags such as --server.
func yamlLoader(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parse config")
	}

	values := flatten("", doc)
	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		if v, ok := values[flag.Name]; ok {
			return v, nil
		}
		return nil, nil
	}), nil
}

// flatten turns a decoded YAML document into flag name to value pairs.
// Underscores in keys become dashes and list items are comma-joined.
func flatten(prefix string, doc map[string]any) map[string]string {
	out := make(map[string]string)
	for k, v := range doc {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := v.(type) {
		case map[string]any:
			for nk, nv := range flatten(key, v) {
				out[nk] = nv
			}
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, fmt.Sprint(item))
			}
			out[key] = strings.Join(items, ",")
		case nil:
		default:
			out[key] = fmt.Sprint(v)
		}
	}
	return out
}
