package direct

import (
	op "github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/operation"
)

func flows() []op.Operation {
	flowID := pathParam("flow_id", "The flow ID.")
	categories := op.Param{Name: "categories", Type: op.Array, Items: op.String,
		Description: `Flow categories, e.g. ["APPOINTMENT_BOOKING"].`}

	update := patch("update_flow", "Update a flow. Only supplied fields change.", catFlows, "/flows/{flow_id}",
		flowID, str("name", "", "New flow name."), categories)
	update.AtLeastOne = []string{"name", "categories"}

	return []op.Operation{
		post("create_flow", "Create a WhatsApp flow.", catFlows, "/flows",
			required(str("name", "", "Flow name.")),
			required(categories),
		),
		update,
		post("upload_flow_assets", "Upload a flow JSON asset from a local file.", catFlows, "/flows/{flow_id}/assets",
			flowID, fileParam()),
		post("publish_flow", "Publish a draft flow.", catFlows, "/flows/{flow_id}/publish", flowID),
		post("deprecate_flow", "Deprecate a published flow.", catFlows, "/flows/{flow_id}/deprecate", flowID),
		get("get_flows", "List every flow.", catFlows, "/flows"),
		get("get_flow_by_id", "Get one flow by ID.", catFlows, "/flows/{flow_id}", flowID),
		get("get_flow_assets", "List the assets of a flow.", catFlows, "/flows/{flow_id}/assets", flowID),
		del("delete_flow", "Delete a draft flow.", catFlows, "/flows/{flow_id}", flowID),
	}
}
