package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cdk-cost/internal/errors"
)

func TestParseJSONTemplate(t *testing.T) {
	text := `{
		"AWSTemplateFormatVersion": "2010-09-09",
		"Resources": {
			"Bucket1": {
				"Type": "AWS::S3::Bucket",
				"Properties": {"BucketName": "my-bucket"}
			}
		},
		"Outputs": {"Ignored": {"Value": "x"}}
	}`

	tmpl, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, tmpl.Resources, 1)
	assert.Equal(t, "AWS::S3::Bucket", tmpl.Resources["Bucket1"].Type)
	assert.Equal(t, "my-bucket", tmpl.Resources["Bucket1"].Properties["BucketName"])
}

func TestParseYAMLTemplate(t *testing.T) {
	text := `
AWSTemplateFormatVersion: "2010-09-09"
Resources:
  Fn:
    Type: AWS::Lambda::Function
    Properties:
      MemorySize: 512
      Runtime: nodejs20.x
`
	tmpl, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, tmpl.Resources, 1)

	fn := tmpl.Resources["Fn"]
	assert.Equal(t, "AWS::Lambda::Function", fn.Type)
	// YAML integers normalize to float64 to match the JSON decoder.
	assert.Equal(t, float64(512), fn.Properties["MemorySize"])
}

func TestParseMissingProperties(t *testing.T) {
	tmpl, err := Parse(`{"Resources": {"Topic": {"Type": "AWS::SNS::Topic"}}}`)
	require.NoError(t, err)
	assert.NotNil(t, tmpl.Resources["Topic"].Properties)
	assert.Empty(t, tmpl.Resources["Topic"].Properties)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"invalid text", "not json"},
		{"scalar root", `"just a string"`},
		{"no resources", `{"Parameters": {}}`},
		{"resources not mapping", `{"Resources": [1, 2]}`},
		{"resource not mapping", `{"Resources": {"A": 42}}`},
		{"missing type", `{"Resources": {"A": {"Properties": {}}}}`},
		{"non-string type", `{"Resources": {"A": {"Type": 3}}}`},
		{"properties not mapping", `{"Resources": {"A": {"Type": "AWS::S3::Bucket", "Properties": []}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeParse), "expected PARSE_ERROR, got %v", err)
		})
	}
}

func TestParseIntrinsicsKeptOpaque(t *testing.T) {
	text := `{
		"Resources": {
			"Asg": {
				"Type": "AWS::AutoScaling::AutoScalingGroup",
				"Properties": {
					"LaunchTemplate": {"LaunchTemplateId": {"Ref": "Lt"}}
				}
			}
		}
	}`

	tmpl, err := Parse(text)
	require.NoError(t, err)

	lt := tmpl.Resources["Asg"].Properties["LaunchTemplate"].(map[string]interface{})
	ref := lt["LaunchTemplateId"].(map[string]interface{})
	assert.Equal(t, "Lt", ref["Ref"])
}

func TestResourceList(t *testing.T) {
	tmpl, err := Parse(`{"Resources": {
		"A": {"Type": "AWS::S3::Bucket"},
		"B": {"Type": "AWS::SQS::Queue"}
	}}`)
	require.NoError(t, err)

	list := tmpl.ResourceList()
	require.Len(t, list, 2)
	ids := map[string]string{}
	for _, r := range list {
		ids[r.LogicalID] = r.Type
	}
	assert.Equal(t, "AWS::S3::Bucket", ids["A"])
	assert.Equal(t, "AWS::SQS::Queue", ids["B"])
}
