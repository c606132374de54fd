package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zfq308/fixd/pkg/server"
	"github.com/zfq308/fixd/pkg/util"
)

// routesFile is the declarative shape `fixd serve --routes` accepts: a flat
// list of canned responses, each addressable by method/path/content-type,
// with optional timing. It exists purely as a manual-testing convenience
// on top of the programmatic HandlerBuilder surface — it cannot express
// custom handlers or session hooks.
type routesFile struct {
	Routes []routeSpec `yaml:"routes"`
}

type routeSpec struct {
	Method      string            `yaml:"method"`
	Path        string            `yaml:"path"`
	ContentType string            `yaml:"contentType"`
	Status      int               `yaml:"status"`
	Response    responseSpec      `yaml:"response"`
	Headers     map[string]string `yaml:"headers"`
	Timing      *timingSpec       `yaml:"timing"`
}

type responseSpec struct {
	ContentType string `yaml:"contentType"`
	Body        string `yaml:"body"`
}

type timingSpec struct {
	Mode   string        `yaml:"mode"` // "after" or "every"
	Delay  time.Duration `yaml:"delay"`
	Period time.Duration `yaml:"period"`
	Count  int           `yaml:"count"`
}

// loadRoutesFile parses path and applies every route it describes to srv.
func loadRoutesFile(srv *server.Server, path string) error {
	cleaned, ok := util.SafeFilePathAllowAbsolute(path)
	if !ok {
		return fmt.Errorf("fixd: invalid routes file path %q", path)
	}

	data, err := os.ReadFile(cleaned)
	if err != nil {
		return fmt.Errorf("fixd: reading routes file: %w", err)
	}

	var rf routesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return fmt.Errorf("fixd: parsing routes file: %w", err)
	}

	for i, spec := range rf.Routes {
		if spec.Method == "" || spec.Path == "" {
			return fmt.Errorf("fixd: routes[%d]: method and path are required", i)
		}

		var b *server.HandlerBuilder
		if spec.ContentType != "" {
			b = srv.Handle(spec.Method, spec.Path, spec.ContentType)
		} else {
			b = srv.Handle(spec.Method, spec.Path)
		}

		b.With(spec.Status, spec.Response.ContentType, spec.Response.Body)
		for name, value := range spec.Headers {
			b.WithHeader(name, value)
		}

		if spec.Timing != nil {
			switch spec.Timing.Mode {
			case "after":
				b.After(spec.Timing.Delay)
			case "every":
				b.Every(spec.Timing.Period, spec.Timing.Count)
			case "", "once":
			default:
				return fmt.Errorf("fixd: routes[%d]: unknown timing mode %q", i, spec.Timing.Mode)
			}
		}
	}

	return nil
}
