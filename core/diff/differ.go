// Package diff computes resource-level differences between two parsed
// CloudFormation templates.
package diff

import (
	"sort"

	"cdk-cost/core/template"
)

// ResourceDiff is the complete diff between a base and a target template
type ResourceDiff struct {
	// Added are resources only present in the target
	Added []template.ResourceWithID

	// Removed are resources only present in the base
	Removed []template.ResourceWithID

	// Modified are resources present in both with property changes
	Modified []ModifiedPair
}

// ModifiedPair describes a resource whose properties changed
type ModifiedPair struct {
	// LogicalID is the template-local resource name
	LogicalID string

	// Type is identical on both sides; a type change is encoded as
	// removed plus added on the same id
	Type string

	// OldProperties are the base template properties
	OldProperties map[string]interface{}

	// NewProperties are the target template properties
	NewProperties map[string]interface{}
}

// IsEmpty reports whether the diff contains no changes
func (d *ResourceDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// Differ computes diffs between templates
type Differ struct{}

// NewDiffer creates a new differ
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff compares base and target templates. Ids present in both with a
// changed Type appear in both Removed and Added.
func (d *Differ) Diff(base, target *template.Template) *ResourceDiff {
	result := &ResourceDiff{
		Added:    []template.ResourceWithID{},
		Removed:  []template.ResourceWithID{},
		Modified: []ModifiedPair{},
	}

	for id, targetRes := range target.Resources {
		baseRes, existed := base.Resources[id]
		if !existed {
			result.Added = append(result.Added, withID(id, targetRes))
			continue
		}

		if baseRes.Type != targetRes.Type {
			// Type change: remove the old resource, add the new one.
			result.Removed = append(result.Removed, withID(id, baseRes))
			result.Added = append(result.Added, withID(id, targetRes))
			continue
		}

		if !PropertiesEqual(baseRes.Properties, targetRes.Properties) {
			result.Modified = append(result.Modified, ModifiedPair{
				LogicalID:     id,
				Type:          targetRes.Type,
				OldProperties: baseRes.Properties,
				NewProperties: targetRes.Properties,
			})
		}
	}

	for id, baseRes := range base.Resources {
		if _, exists := target.Resources[id]; !exists {
			result.Removed = append(result.Removed, withID(id, baseRes))
		}
	}

	// Sort by logical id so the diff is deterministic regardless of map
	// iteration order.
	sort.Slice(result.Added, func(i, j int) bool {
		return result.Added[i].LogicalID < result.Added[j].LogicalID
	})
	sort.Slice(result.Removed, func(i, j int) bool {
		return result.Removed[i].LogicalID < result.Removed[j].LogicalID
	})
	sort.Slice(result.Modified, func(i, j int) bool {
		return result.Modified[i].LogicalID < result.Modified[j].LogicalID
	})

	return result
}

func withID(id string, res template.Resource) template.ResourceWithID {
	return template.ResourceWithID{
		LogicalID:  id,
		Type:       res.Type,
		Properties: res.Properties,
	}
}
