// Package taskexpand turns a configuration document into the ordered list
// of concrete fetch-and-persist tasks it describes.
package taskexpand

import (
	"fmt"
	"sort"
	"time"

	"github.com/ravencrawl/raven/internal/config"
	"github.com/ravencrawl/raven/pkg/fetch"
	"github.com/ravencrawl/raven/pkg/persist"
	"github.com/ravencrawl/raven/pkg/taskrun"
	"github.com/ravencrawl/raven/pkg/template"
)

// Expand produces the ordered task list for doc, with now captured once
// and shared by every date-format directive in the run (per §4.1: "all
// tasks in one run share the same now").
func Expand(doc *config.Document, now time.Time) ([]taskrun.Task, error) {
	urlTemplate, err := template.Compile(template.FormatDate(now, doc.Request.URL))
	if err != nil {
		return nil, fmt.Errorf("compiling request URL template: %w", err)
	}

	sinkTemplates := make([]*template.Template, len(doc.Output))
	for i, sinkCfg := range doc.Output {
		path, err := sinkPathTemplateSource(sinkCfg)
		if err != nil {
			return nil, err
		}
		tpl, err := template.Compile(template.FormatDate(now, path))
		if err != nil {
			return nil, fmt.Errorf("compiling sink %d template: %w", i, err)
		}
		sinkTemplates[i] = tpl
	}

	varsList, err := expandMappingEntries(now, doc.Request.Vars)
	if err != nil {
		return nil, fmt.Errorf("expanding vars: %w", err)
	}
	paramsList, err := expandMappingEntries(now, doc.Request.Params)
	if err != nil {
		return nil, fmt.Errorf("expanding params: %w", err)
	}

	method := fetch.Method(doc.Request.Method)

	var tasks []taskrun.Task
	for _, v := range varsList {
		for _, p := range paramsList {
			merged := mergeParamsWin(v, p)

			url, err := urlTemplate.Render(merged)
			if err != nil {
				return nil, fmt.Errorf("rendering request URL: %w", err)
			}

			sinks := make([]persist.Sink, len(doc.Output))
			for i, sinkCfg := range doc.Output {
				rendered, err := sinkTemplates[i].Render(merged)
				if err != nil {
					return nil, fmt.Errorf("rendering sink %d path: %w", i, err)
				}
				sinks[i] = renderSink(sinkCfg, rendered)
			}

			queryParams, bodyParams := map[string]string{}, map[string]string{}
			if method == fetch.MethodPost {
				bodyParams = p
			} else {
				queryParams = p
			}

			timeout := doc.Request.TimeoutSeconds
			if timeout == 0 {
				timeout = 1
			}

			req := fetch.Request{
				URL:         url,
				Method:      method,
				Header:      doc.Request.Headers,
				Timeout:     time.Duration(timeout) * time.Second,
				MaxRetry:    doc.Request.MaxRetry,
				QueryParams: queryParams,
				BodyParams:  bodyParams,
				Sleep:       time.Duration(doc.Request.SleepSeconds) * time.Second,
			}
			if doc.Request.Encoding != nil {
				req.Encoding = fetch.Encoding{Input: doc.Request.Encoding.Input, Output: doc.Request.Encoding.Output}
			}

			tasks = append(tasks, taskrun.Task{
				Name:    doc.Name,
				Request: req,
				Sinks:   sinks,
			})
		}
	}
	return tasks, nil
}

func sinkPathTemplateSource(sinkCfg config.SinkConfig) (string, error) {
	switch {
	case sinkCfg.LocalFile != nil:
		return sinkCfg.LocalFile.Path, nil
	case sinkCfg.AmazonS3 != nil:
		return sinkCfg.AmazonS3.Key, nil
	default:
		return "", fmt.Errorf("sink has neither local_file nor amazon_s3 configured")
	}
}

func renderSink(sinkCfg config.SinkConfig, renderedPath string) persist.Sink {
	switch {
	case sinkCfg.LocalFile != nil:
		return persist.Sink{LocalFile: &persist.LocalFileSink{Path: renderedPath}}
	case sinkCfg.AmazonS3 != nil:
		return persist.Sink{AmazonS3: &persist.AmazonS3Sink{
			Region:   sinkCfg.AmazonS3.Region,
			Bucket:   sinkCfg.AmazonS3.Bucket,
			Key:      renderedPath,
			Endpoint: sinkCfg.AmazonS3.Endpoint,
		}}
	default:
		return persist.Sink{}
	}
}

// expandMappingEntries implements the vars/params expansion rule: each
// entry in entries produces a list of key→value maps via per-key date
// formatting + numeric range expansion, then a cross-product across keys
// within that one entry. Entries are alternatives: the final list is their
// concatenation, not a further cross-product across entries. An empty
// entries list yields [{}].
func expandMappingEntries(now time.Time, entries []map[string][]string) ([]map[string]string, error) {
	if len(entries) == 0 {
		return []map[string]string{{}}, nil
	}

	var all []map[string]string
	for _, entry := range entries {
		maps, err := crossProductOneEntry(now, entry)
		if err != nil {
			return nil, err
		}
		all = append(all, maps...)
	}
	return all, nil
}

func crossProductOneEntry(now time.Time, entry map[string][]string) ([]map[string]string, error) {
	keys := make([]string, 0, len(entry))
	for k := range entry {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := []map[string]string{{}}
	for _, key := range keys {
		var values []string
		for _, valueTemplate := range entry[key] {
			formatted := template.FormatDate(now, valueTemplate)
			values = append(values, template.ExpandNumericList(formatted)...)
		}

		next := make([]map[string]string, 0, len(results)*len(values))
		for _, prefix := range results {
			for _, v := range values {
				m := make(map[string]string, len(prefix)+1)
				for pk, pv := range prefix {
					m[pk] = pv
				}
				m[key] = v
				next = append(next, m)
			}
		}
		results = next
	}
	return results, nil
}

// mergeParamsWin merges v and p into one lookup mapping; p's values win on
// a shared key (the documented params-wins tie-break).
func mergeParamsWin(v, p map[string]string) map[string]string {
	merged := make(map[string]string, len(v)+len(p))
	for k, val := range v {
		merged[k] = val
	}
	for k, val := range p {
		merged[k] = val
	}
	return merged
}
