package ansible

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

func testSpec() ArgumentSpec {
	return ArgumentSpec{
		Options: map[string]Option{
			"region":       {Type: TypeStr, Aliases: []string{"aws_region", "ec2_region"}},
			"secret_key":   {Type: TypeStr, NoLog: true, Aliases: []string{"aws_secret_key"}},
			"access_key":   {Type: TypeStr, Aliases: []string{"aws_access_key"}},
			"instance_ids": {Type: TypeList, Elements: TypeStr, Default: []any{}},
			"filters":      {Type: TypeDict, Default: map[string]any{}},
			"max_items":    {Type: TypeInt},
			"recursive":    {Type: TypeBool, Default: false},
			"scope":        {Type: TypeStr, Choices: []string{"All", "AWS", "Local"}, Default: "All"},
			"path":         {Type: TypeStr},
			"name":         {Type: TypeStr},
		},
		MutuallyExclusive: [][]string{{"path", "name"}},
		RequiredTogether:  [][]string{{"access_key", "secret_key"}},
		RequiredIf: []RequiredIf{
			{Key: "recursive", Value: true, Requires: []string{"path"}},
		},
	}
}

func TestValidate_DefaultsAndCoercion(t *testing.T) {
	params, err := testSpec().Validate("test", map[string]any{
		"aws_region":   "eu-west-1",
		"instance_ids": "i-1, i-2",
		"max_items":    json.Number("10"),
		"recursive":    "yes",
		"path":         "/app",
		"filters":      `{"tag:Name": "web"}`,
	})
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", params.String("region"))
	assert.Equal(t, []string{"i-1", "i-2"}, params.StringSlice("instance_ids"))
	assert.Equal(t, 10, params.Int("max_items"))
	assert.True(t, params.Bool("recursive"))
	assert.Equal(t, "All", params.String("scope"))
	assert.Equal(t, map[string]any{"tag:Name": "web"}, params.Map("filters"))
	assert.Nil(t, params["name"])
	assert.False(t, params.Has("name"))
	assert.Contains(t, params, "secret_key")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want error
	}{
		{"unsupported", map[string]any{"regoin": "x"}, common.ErrUnsupportedParameter},
		{"bad bool", map[string]any{"recursive": "maybe"}, common.ErrInvalidParameter},
		{"bad int", map[string]any{"max_items": "ten"}, common.ErrInvalidParameter},
		{"bad choice", map[string]any{"scope": "Everything"}, common.ErrInvalidParameter},
		{"mutually exclusive", map[string]any{"path": "/a", "name": "b"}, common.ErrMutuallyExclusive},
		{"required together", map[string]any{"access_key": "AKIA"}, common.ErrMissingRequired},
		{"required if", map[string]any{"recursive": true}, common.ErrMissingRequired},
		{"alias twice", map[string]any{"region": "a", "aws_region": "b"}, common.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testSpec().Validate("test", tt.raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_UnsupportedMessage(t *testing.T) {
	_, err := testSpec().Validate("aws_ec2_info", map[string]any{"bogus": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported parameters for (aws_ec2_info) module: bogus")
	assert.Contains(t, err.Error(), "region (aws_region, ec2_region)")
}

func TestValidate_Required(t *testing.T) {
	spec := ArgumentSpec{Options: map[string]Option{
		"api_key":    {Type: TypeStr, Required: true, NoLog: true},
		"account_id": {Type: TypeStr, Required: true},
	}}

	_, err := spec.Validate("checkly_info", map[string]any{})
	assert.ErrorIs(t, err, common.ErrMissingRequired)
	assert.Contains(t, err.Error(), "account_id, api_key")
}

func TestValidate_RequiredOneOf(t *testing.T) {
	spec := ArgumentSpec{
		Options: map[string]Option{
			"bucket": {Type: TypeStr},
			"prefix": {Type: TypeStr},
		},
		RequiredOneOf: [][]string{{"bucket", "prefix"}},
	}

	_, err := spec.Validate("x", map[string]any{})
	assert.ErrorIs(t, err, common.ErrMissingRequired)

	_, err = spec.Validate("x", map[string]any{"prefix": "logs/"})
	assert.NoError(t, err)
}

func TestValidate_ListElementsAndChoices(t *testing.T) {
	spec := ArgumentSpec{Options: map[string]Option{
		"owners": {Type: TypeList, Elements: TypeStr, Choices: []string{"self", "amazon"}},
		"ports":  {Type: TypeList, Elements: TypeInt},
	}}

	params, err := spec.Validate("x", map[string]any{"owners": []any{"self"}, "ports": []any{"80", json.Number("443")}})
	require.NoError(t, err)
	assert.Equal(t, []any{80, 443}, params["ports"])

	_, err = spec.Validate("x", map[string]any{"owners": []any{"self", "nobody"}})
	assert.ErrorIs(t, err, common.ErrInvalidParameter)

	_, err = spec.Validate("x", map[string]any{"ports": []any{"http"}})
	assert.ErrorIs(t, err, common.ErrInvalidParameter)
}

func TestMergeAndNoLog(t *testing.T) {
	a := ArgumentSpec{Options: map[string]Option{"api_key": {NoLog: true}}, MutuallyExclusive: [][]string{{"a", "b"}}}
	b := ArgumentSpec{Options: map[string]Option{"region": {}}, RequiredOneOf: [][]string{{"region"}}}

	merged := a.Merge(b)
	assert.Len(t, merged.Options, 2)
	assert.Len(t, merged.MutuallyExclusive, 1)
	assert.Len(t, merged.RequiredOneOf, 1)
	assert.Equal(t, []string{"api_key"}, merged.NoLogNames())
	assert.Len(t, a.Options, 1)
}

func TestParamsMasked(t *testing.T) {
	p := Params{"api_key": "s3cr3t", "token": nil, "region": "eu-west-1"}

	masked := p.Masked([]string{"api_key", "token"})
	assert.Equal(t, NoLogPlaceholder, masked["api_key"])
	assert.Nil(t, masked["token"])
	assert.Equal(t, "eu-west-1", masked["region"])
	assert.Equal(t, "s3cr3t", p["api_key"])
}

func TestParamsPointers(t *testing.T) {
	p := Params{"name": "", "recursive": true, "limit": 5, "unset": nil}

	assert.Nil(t, p.StringPointer("name"))
	assert.Nil(t, p.BoolPointer("unset"))
	assert.Equal(t, true, *p.BoolPointer("recursive"))
	assert.Equal(t, int32(5), *p.Int32Pointer("limit"))
	assert.Nil(t, p.Int32Pointer("unset"))
	assert.Nil(t, p.StringSlice("unset"))
}

func TestParamsInt32PointerClamps(t *testing.T) {
	p := Params{"big": 1 << 40, "small": -(1 << 40)}

	assert.Equal(t, int32(math.MaxInt32), *p.Int32Pointer("big"))
	assert.Equal(t, int32(math.MinInt32), *p.Int32Pointer("small"))
}

func TestValidate_IntRange(t *testing.T) {
	spec := ArgumentSpec{Options: map[string]Option{
		"max_keys":  {Type: TypeInt, Min: 1, Max: 1000},
		"page_size": {Type: TypeInt, Min: 1},
	}}

	tests := []struct {
		name    string
		raw     map[string]any
		wantErr string
	}{
		{name: "in range", raw: map[string]any{"max_keys": 1000, "page_size": 5000}},
		{name: "unset", raw: map[string]any{}},
		{name: "above max", raw: map[string]any{"max_keys": json.Number("4294967297")}, wantErr: "max_keys must be at most 1000"},
		{name: "below min", raw: map[string]any{"page_size": 0}, wantErr: "page_size must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := spec.Validate("x", tt.raw)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, common.ErrInvalidParameter)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
