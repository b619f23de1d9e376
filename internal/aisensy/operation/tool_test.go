package operation

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobinCoderZhao/aisensy-mcp/pkg/apiclient"
	"github.com/RobinCoderZhao/aisensy-mcp/pkg/mcpserver"
)

func TestSchema(t *testing.T) {
	op := Operation{
		Name:   "create_qr_code",
		Method: http.MethodPost,
		Path:   "/qr-codes",
		Params: []Param{
			{Name: "prefilled_message", Type: String, Required: true, Description: "Message"},
			{Name: "generate_qr_image", Type: String, Default: "SVG", Enum: []string{"SVG", "PNG"}},
			{Name: "ids", Type: Array, Items: String},
		},
	}

	s := Schema(op)
	assert.Equal(t, "object", s["type"])
	assert.Equal(t, []string{"prefilled_message"}, s["required"])

	props := s["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string", "description": "Message"}, props["prefilled_message"])
	assert.Equal(t, map[string]any{"type": "string", "default": "SVG", "enum": []string{"SVG", "PNG"}}, props["generate_qr_image"])
	assert.Equal(t, map[string]any{"type": "array", "items": map[string]any{"type": "string"}}, props["ids"])
}

func TestSchema_NoRequired(t *testing.T) {
	s := Schema(Operation{Name: "get_flows", Method: http.MethodGet, Path: "/flows"})
	_, ok := s["required"]
	assert.False(t, ok)
	assert.Empty(t, s["properties"])
}

func TestValidate(t *testing.T) {
	require.NoError(t, createProfile.Validate())
	require.NoError(t, updateBusiness.Validate())
	require.NoError(t, uploadToSession.Validate())

	bad := []Operation{
		{Name: "", Method: http.MethodGet, Path: "/x"},
		{Name: "m", Method: "FETCH", Path: "/x"},
		{Name: "p", Method: http.MethodGet, Path: "x"},
		{Name: "u", Method: http.MethodGet, Path: "/flows/{flow_id}"},
		{Name: "d", Method: http.MethodGet, Path: "/x", Params: []Param{{Name: "a", Type: String}, {Name: "a", Type: String}}},
		{Name: "t", Method: http.MethodGet, Path: "/x", Params: []Param{{Name: "a", Type: "date"}}},
		{Name: "o", Method: http.MethodGet, Path: "/{a}", Params: []Param{{Name: "a", Type: String, In: InPath}}},
		{Name: "l", Method: http.MethodPatch, Path: "/x", Params: []Param{{Name: "a", Type: String}}, AtLeastOne: []string{"b"}},
	}
	for _, op := range bad {
		assert.Error(t, op.Validate(), op.Name)
	}
}

func TestTool_ThroughRegistry(t *testing.T) {
	sender := &fakeSender{result: apiclient.Success{Data: json.RawMessage(`{"id":"abc"}`)}}
	runner := NewRunner(sender, partnerCred("p1", ""))

	s := mcpserver.New("test", "0.0.0")
	require.NoError(t, Register(s, runner, []Operation{createProfile, updateBusiness}))
	assert.True(t, s.HasTool("create_business_profile"))

	res, err := s.CallTool(context.Background(), "create_business_profile", map[string]any{
		"display_name": "Acme",
		"email":        "ops@acme.test",
		"company_size": "10 - 20",
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"success":true,"data":{"id":"abc"}}`, res.Content[0].Text)

	res, err = s.CallTool(context.Background(), "update_business_details", map[string]any{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.JSONEq(t, `{"success":false,"error":"Missing required field: business_id"}`, res.Content[0].Text)
	assert.Equal(t, 1, sender.calls)

	res, err = s.CallTool(context.Background(), "create_business_profile", map[string]any{"display_name": "Acme"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 1, sender.calls)
}

func TestTool_FailureSetsIsError(t *testing.T) {
	sender := &fakeSender{}
	runner := NewRunner(sender, partnerCred("", ""))
	tool := Tool(createProfile, runner)

	res, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.JSONEq(t, `{"success":false,"error":"Missing required field: partner_id"}`, res.Content[0].Text)
	assert.Equal(t, 0, sender.calls)
}

func TestRegister_RejectsInvalidOperation(t *testing.T) {
	s := mcpserver.New("test", "0.0.0")
	err := Register(s, NewRunner(&fakeSender{}, partnerCred("p1", "")), []Operation{{Name: "x", Method: "BAD", Path: "/"}})
	assert.Error(t, err)
}
