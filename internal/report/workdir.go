package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/scan-io-git/class-pollution-detection/internal/dataset"
)

// Entry is a stored report keyed by project id.
type Entry struct {
	ID   string
	Path string
}

// AnalysisEntry is an analysis directory named "<id>.<unix-millis>".
type AnalysisEntry struct {
	Name string
	Path string
}

// ListReports returns the reports of allowed projects in id order.
// A missing reports folder yields no reports.
func ListReports(workdir string, allowed dataset.AllowedRepos) ([]Entry, error) {
	dir := filepath.Join(workdir, ReportsDir)
	items, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list reports in %q: %w", dir, err)
	}

	var entries []Entry
	for _, item := range items {
		if !item.Type().IsRegular() || filepath.Ext(item.Name()) != ".json" {
			continue
		}
		id := strings.TrimSuffix(item.Name(), ".json")
		if !allowed.IsAllowed(id) {
			continue
		}
		entries = append(entries, Entry{ID: id, Path: filepath.Join(dir, item.Name())})
	}
	return entries, nil
}

// ListAnalysis returns the analysis directories ordered by project, then by timestamp.
// Names without a timestamp come first.
func ListAnalysis(workdir string) ([]AnalysisEntry, error) {
	dir := filepath.Join(workdir, AnalysisDir)
	items, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis directories in %q: %w", dir, err)
	}

	var entries []AnalysisEntry
	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		entries = append(entries, AnalysisEntry{Name: item.Name(), Path: filepath.Join(dir, item.Name())})
	}
	SortAnalysis(entries)
	return entries, nil
}

// SortAnalysis orders entries the way FindAnalysisDirectory expects. Timestamps are
// compared numerically so "p.99" sorts before "p.100".
func SortAnalysis(entries []AnalysisEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		pi, oki := projectOf(entries[i].Name)
		pj, okj := projectOf(entries[j].Name)
		if oki != okj {
			return !oki
		}
		if !oki || pi != pj {
			if !oki {
				return entries[i].Name < entries[j].Name
			}
			return pi < pj
		}
		ti, erri := strconv.ParseInt(timestampOf(entries[i].Name), 10, 64)
		tj, errj := strconv.ParseInt(timestampOf(entries[j].Name), 10, 64)
		if erri != nil || errj != nil {
			return entries[i].Name < entries[j].Name
		}
		return ti < tj
	})
}

// FindAnalysisDirectory returns the latest analysis directory of project id from a
// listing ordered by SortAnalysis: the entry right before the first one whose project
// part sorts after id, provided its project part is exactly id.
func FindAnalysisDirectory(entries []AnalysisEntry, id string) (AnalysisEntry, bool) {
	i := sort.Search(len(entries), func(i int) bool {
		project, ok := projectOf(entries[i].Name)
		return ok && project > id
	})
	if i == 0 {
		return AnalysisEntry{}, false
	}
	candidate := entries[i-1]
	if project, ok := projectOf(candidate.Name); !ok || project != id {
		return AnalysisEntry{}, false
	}
	return candidate, true
}

// projectOf strips the timestamp suffix from an analysis directory name.
func projectOf(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", false
	}
	return name[:i], true
}

func timestampOf(name string) string {
	return name[strings.LastIndexByte(name, '.')+1:]
}
