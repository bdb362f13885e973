package fileshaker

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ReportDuplicateGroup is one confirmed-identical group in the emitted report
type ReportDuplicateGroup struct {
	Canonical string   `json:"canonical"`
	Redundant []string `json:"redundant"`
	SizeBytes int64    `json:"size_bytes"`
}

// ReportNearDuplicateGroup is one visually-similar group in the emitted report
type ReportNearDuplicateGroup struct {
	Canonical string   `json:"canonical"`
	Similar   []string `json:"similar"`
}

// ReportSummary aggregates the run's statistics
type ReportSummary struct {
	TotalFilesScanned int   `json:"total_files_scanned"`
	DuplicateGroups   int   `json:"duplicate_groups"`
	RedundantFiles    int   `json:"redundant_files"`
	RedundantBytes    int64 `json:"redundant_bytes"`
	FilesToKeep       int   `json:"files_to_keep"`
	BytesToKeep       int64 `json:"bytes_to_keep"`
}

// Report is the machine-readable output of one run, consumed by the external
// copy step. It separates confirmed-identical, visually-similar, unique and
// unreadable files so a reviewer can distinguish certainty levels. Immutable
// once emitted.
type Report struct {
	DuplicateGroups     []ReportDuplicateGroup     `json:"duplicate_groups"`
	NearDuplicateGroups []ReportNearDuplicateGroup `json:"near_duplicate_groups"`
	UniqueFiles         []string                   `json:"unique_files"`
	UnreadableFiles     []string                   `json:"unreadable_files"`
	Summary             ReportSummary              `json:"summary"`
}

// BuildReport assembles the final report from the resolver and clusterer
// outputs. totalScanned counts every file the scan saw, readable or not.
func BuildReport(totalScanned int, resolved *ResolveResult, nearGroups []*NearDuplicateGroup, scanUnreadable []string) *Report {
	report := &Report{
		DuplicateGroups:     make([]ReportDuplicateGroup, 0, len(resolved.Groups)),
		NearDuplicateGroups: make([]ReportNearDuplicateGroup, 0, len(nearGroups)),
		UniqueFiles:         make([]string, 0, len(resolved.Unique)),
		UnreadableFiles:     make([]string, 0),
	}

	for _, group := range resolved.Groups {
		rg := ReportDuplicateGroup{
			Canonical: group.Canonical.Path,
			Redundant: make([]string, 0, len(group.Redundant)),
			SizeBytes: group.Canonical.Size,
		}
		for _, entry := range group.Redundant {
			rg.Redundant = append(rg.Redundant, entry.Path)
			report.Summary.RedundantFiles++
			report.Summary.RedundantBytes += entry.Size
		}
		report.DuplicateGroups = append(report.DuplicateGroups, rg)
		report.Summary.BytesToKeep += group.Canonical.Size
	}

	for _, group := range nearGroups {
		ng := ReportNearDuplicateGroup{
			Canonical: group.Canonical.Path,
			Similar:   make([]string, 0, len(group.Similar)),
		}
		for _, entry := range group.Similar {
			ng.Similar = append(ng.Similar, entry.Path)
		}
		report.NearDuplicateGroups = append(report.NearDuplicateGroups, ng)
	}

	for _, entry := range resolved.Unique {
		report.UniqueFiles = append(report.UniqueFiles, entry.Path)
		report.Summary.BytesToKeep += entry.Size
	}

	report.UnreadableFiles = append(report.UnreadableFiles, scanUnreadable...)
	report.UnreadableFiles = append(report.UnreadableFiles, resolved.Unreadable...)
	sort.Strings(report.UnreadableFiles)

	report.Summary.TotalFilesScanned = totalScanned
	report.Summary.DuplicateGroups = len(report.DuplicateGroups)
	report.Summary.FilesToKeep = len(report.UniqueFiles) + len(report.DuplicateGroups)

	return report
}

// Encode renders the report as indented JSON
func (r *Report) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

// Write persists the report to a file via a temp file and rename
func (r *Report) Write(path string) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
