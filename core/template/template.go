// Package template parses CloudFormation templates into a canonical
// resource map. JSON is attempted first, YAML as a fallback; intrinsic
// functions (Ref, Fn::GetAtt) are kept as opaque subtrees.
package template

// Resource is a single logical resource inside a template
type Resource struct {
	// Type is the dotted resource kind (e.g. "AWS::S3::Bucket")
	Type string `json:"type"`

	// Properties are the raw resource properties
	Properties map[string]interface{} `json:"properties"`
}

// ResourceWithID is a resource paired with its template-local logical id
type ResourceWithID struct {
	// LogicalID is the template-local name
	LogicalID string `json:"logicalId"`

	// Type is the dotted resource kind
	Type string `json:"type"`

	// Properties are the raw resource properties
	Properties map[string]interface{} `json:"properties"`
}

// Template is a parsed CloudFormation template
type Template struct {
	// Resources maps logical ids to resources
	Resources map[string]Resource `json:"resources"`
}

// ResourceList returns all resources with their logical ids, in
// unspecified order.
func (t *Template) ResourceList() []ResourceWithID {
	resources := make([]ResourceWithID, 0, len(t.Resources))
	for id, res := range t.Resources {
		resources = append(resources, ResourceWithID{
			LogicalID:  id,
			Type:       res.Type,
			Properties: res.Properties,
		})
	}
	return resources
}
