package direct

import (
	op "github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/operation"
)

func account() []op.Operation {
	updateProfile := patch("update_profile", "Update the WhatsApp business profile. Only supplied fields change.", catAccount, "/update-profile",
		str("whatsapp_about", "whatsAppAbout", "WhatsApp about text."),
		str("address", "", "Business address."),
		str("description", "", "Business description."),
		str("vertical", "", `Business vertical, e.g. "HEALTH" or "RETAIL".`),
		str("email", "", "Business email."),
		op.Param{Name: "websites", Type: op.Array, Items: op.String, Description: "Business website URLs."},
		str("whatsapp_display_image", "whatsAppDisplayImage", "URL of the profile picture."),
	)
	updateProfile.AtLeastOne = []string{"whatsapp_about", "address", "description", "vertical", "email", "websites", "whatsapp_display_image"}

	return []op.Operation{
		post("regenerate_token", "Regenerate the Direct API token.", catAccount, "/users/regenrate-token",
			op.Param{Name: "direct_api", Type: op.Boolean, Key: "direct_api", Default: true, Description: "Regenerate the Direct API token."},
		),
		post("get_waba_analytics", "Fetch WhatsApp Business Account analytics.", catAccount, "/waba-analytics",
			required(str("fields", "", `Analytics fields to fetch, e.g. "analytics".`)),
			op.Param{Name: "start", Type: op.Integer, Required: true, Description: "Start timestamp (Unix epoch)."},
			op.Param{Name: "end", Type: op.Integer, Required: true, Description: "End timestamp (Unix epoch)."},
			required(str("granularity", "", `Data granularity, e.g. "DAY" or "MONTH".`)),
			op.Param{Name: "country_codes", Type: op.Array, Items: op.String, Description: "Country codes to filter by."},
		),
		post("get_messaging_health_status", "Get the messaging health status of a node.", catAccount, "/health-status",
			required(str("node_id", "nodeId", "Node ID (phone number, WABA or business ID).")),
		),
		get("get_business_info", "Get the WhatsApp business information.", catAccount, "/business-info"),
		get("get_fb_verification_status", "Get the Facebook business verification status.", catAccount, "/fb-verification-status"),
		patch("update_profile_picture", "Update the WhatsApp profile picture.", catAccount, "/update-profile-picture",
			required(str("whatsapp_display_image", "whatsAppDisplayImage", "URL of the new profile picture.")),
		),
		updateProfile,
		post("set_whatsapp_business_encryption", "Set the business public key used for flow encryption.", catAccount, "/whatsapp-business-encryption",
			required(str("business_public_key", "businessPublicKey", "PEM encoded business public key.")),
		),
		get("get_whatsapp_business_encryption", "Get the business encryption settings.", catAccount, "/whatsapp-business-encryption"),
	}
}
