package direct

import (
	op "github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/operation"
)

func textMessageParams() []op.Param {
	return []op.Param{
		required(str("to", "", `Recipient phone number with country code, e.g. "917089379345".`)),
		{Name: "message_type", Type: op.String, Key: "type", Default: "text", Description: "Message type."},
		required(str("text_body", "text.body", "Message body text.")),
		{Name: "recipient_type", Type: op.String, Default: "individual", Description: "Recipient type."},
	}
}

func messages() []op.Operation {
	return []op.Operation{
		post("send_message", "Send a session message to a WhatsApp user.", catMessages, "/messages",
			textMessageParams()...),
		post("send_marketing_message", "Send a marketing message to a WhatsApp user.", catMessages, "/marketing_messages",
			textMessageParams()...),
		post("mark_message_read", "Mark a received message as read.", catMessages, "/mark-read",
			required(str("message_id", "messageId", "ID of the message to mark as read.")),
		),
	}
}

func templates() []op.Operation {
	templateID := pathParam("template_id", "The template ID.")
	components := op.Param{Name: "components", Type: op.Array, Items: op.Object, Required: true,
		Description: "Template components (HEADER, BODY, FOOTER, BUTTONS)."}

	return []op.Operation{
		post("create_template", "Create a WhatsApp message template.", catTemplates, "/wa_template",
			required(str("name", "", "Template name.")),
			required(str("category", "", `Template category, e.g. "MARKETING".`)),
			required(str("language", "", `Template language, e.g. "en".`)),
			components,
		),
		post("edit_template", "Edit an existing template.", catTemplates, "/edit-template/{template_id}",
			templateID,
			required(str("category", "", `Template category, e.g. "MARKETING".`)),
			components,
		),
		post("compare_template", "Compare the performance of templates over a time range.", catTemplates, "/compare-template/{template_id}",
			templateID,
			op.Param{Name: "template_ids", Type: op.Array, Items: op.Integer, Required: true, Key: "templateIds", Description: "IDs of the templates to compare with."},
			op.Param{Name: "start", Type: op.Integer, Required: true, Description: "Start timestamp (Unix epoch)."},
			op.Param{Name: "end", Type: op.Integer, Required: true, Description: "End timestamp (Unix epoch)."},
		),
		get("get_templates", "List every message template.", catTemplates, "/wa_template"),
		get("get_template_by_id", "Get one template by ID.", catTemplates, "/wa_template/{template_id}", templateID),
		del("delete_all_templates", "Delete every message template.", catTemplates, "/wa_template"),
		del("delete_template_by_name", "Delete a template by name.", catTemplates, "/wa_template/{template_name}",
			pathParam("template_name", "The template name."),
		),
	}
}
