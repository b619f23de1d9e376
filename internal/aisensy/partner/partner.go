// Package partner is the catalog of partner (business onboarding) operations.
package partner

import (
	"net/http"

	op "github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/operation"
)

const (
	catProfile   = "business_profile"
	catProject   = "project"
	catOnboard   = "onboarding"
	catMigration = "migration"
	catInsights  = "insights"
)

var (
	assistantID = op.Param{Name: "assistant_id", Type: op.String, Required: true, Key: "assistantId", Description: "The assistant (project) ID."}
	businessID  = op.Param{Name: "business_id", Type: op.String, Required: true, Key: "businessId", Description: "The business ID."}
	dateFrom    = op.Param{Name: "from", Type: op.String, In: op.InQuery, Description: "Start of the range (YYYY-MM-DD or epoch ms)."}
	dateTo      = op.Param{Name: "to", Type: op.String, In: op.InQuery, Description: "End of the range (YYYY-MM-DD or epoch ms)."}
)

// Operations returns every partner operation.
func Operations() []op.Operation {
	ops := make([]op.Operation, 0, 19)
	ops = append(ops, writes()...)
	ops = append(ops, reads()...)
	return ops
}

func writes() []op.Operation {
	return []op.Operation{
		{
			Name:        "create_business_profile",
			Description: "Create a new business profile under the partner account.",
			Category:    catProfile,
			Method:      http.MethodPost,
			Path:        "/partner/{partner_id}/business",
			Params: []op.Param{
				{Name: "display_name", Type: op.String, Required: true, Description: "Display name for the business."},
				{Name: "email", Type: op.String, Required: true, Description: "Business email address."},
				{Name: "company", Type: op.String, Required: true, Description: "Company name."},
				{Name: "contact", Type: op.String, Required: true, Description: "Contact number."},
				{Name: "timezone", Type: op.String, Required: true, Description: `Timezone, e.g. "Asia/Calcutta GMT+05:30".`},
				{Name: "currency", Type: op.String, Required: true, Description: `Currency code, e.g. "INR".`},
				{Name: "company_size", Type: op.String, Required: true, Key: "companySize", Description: `Company size, e.g. "10 - 20".`},
				{Name: "password", Type: op.String, Required: true, Description: "Password for the business account."},
			},
		},
		{
			Name:        "create_project",
			Description: "Create a project (assistant) for the configured business.",
			Category:    catProject,
			Method:      http.MethodPost,
			Path:        "/partner/{partner_id}/business/{business_id}/project",
			Params: []op.Param{
				{Name: "name", Type: op.String, Required: true, Description: "Project name."},
			},
		},
		{
			Name:        "generate_embedded_signup_url",
			Description: "Generate an embedded signup URL for the WhatsApp Business API.",
			Category:    catOnboard,
			Tags:        []string{"waba"},
			Method:      http.MethodPost,
			Path:        "/partner/{partner_id}/generate-waba-link",
			Params: []op.Param{
				businessID,
				assistantID,
				{Name: "business_name", Type: op.String, Required: true, Key: "setup.business.name", Description: "Name of the business."},
				{Name: "business_email", Type: op.String, Required: true, Key: "setup.business.email", Description: "Email of the business."},
				{Name: "phone_code", Type: op.Integer, Required: true, Key: "setup.business.phone.code", Description: "Phone country code, e.g. 1 for US."},
				{Name: "phone_number", Type: op.String, Required: true, Key: "setup.business.phone.number", Description: "Phone number."},
				{Name: "website", Type: op.String, Required: true, Key: "setup.business.website", Description: "Business website URL."},
				{Name: "street_address", Type: op.String, Required: true, Key: "setup.business.address.streetAddress1", Description: "Street address."},
				{Name: "city", Type: op.String, Required: true, Key: "setup.business.address.city", Description: "City name."},
				{Name: "state", Type: op.String, Required: true, Key: "setup.business.address.state", Description: "State or province code."},
				{Name: "zip_postal", Type: op.String, Required: true, Key: "setup.business.address.zipPostal", Description: "ZIP or postal code."},
				{Name: "country", Type: op.String, Required: true, Key: "setup.business.address.country", Description: `Country code, e.g. "US".`},
				{Name: "timezone", Type: op.String, Required: true, Key: "setup.business.timezone", Description: `Timezone, e.g. "UTC-08:00".`},
				{Name: "display_name", Type: op.String, Required: true, Key: "setup.phone.displayName", Description: "Display name for the phone."},
				{Name: "category", Type: op.String, Required: true, Key: "setup.phone.category", Description: `Business category, e.g. "ENTERTAIN".`},
				{Name: "description", Type: op.String, Key: "setup.phone.description", Description: "Optional phone description."},
			},
		},
		{
			Name:        "submit_waba_app_id",
			Description: "Submit the WABA app ID obtained from the embedded signup flow.",
			Category:    catOnboard,
			Tags:        []string{"waba"},
			Method:      http.MethodPost,
			Path:        "/partner/{partner_id}/submit-facebook-access-token",
			Params: []op.Param{
				assistantID,
				{Name: "waba_app_id", Type: op.String, Required: true, Key: "wabaAppId", Description: "The WABA app ID."},
			},
		},
		{
			Name:        "start_migration",
			Description: "Start migrating a phone number to this partner.",
			Category:    catMigration,
			Method:      http.MethodPost,
			Path:        "/partner/{partner_id}/submit-facebook-access-token-for-migration-to-partner",
			Params: []op.Param{
				assistantID,
				{Name: "target_id", Type: op.String, Required: true, Key: "targetId", Description: "Target WABA ID."},
				{Name: "country_code", Type: op.String, Required: true, Key: "countryCode", Description: `Country calling code, e.g. "91".`},
				{Name: "phone_number", Type: op.String, Required: true, Key: "phoneNumber", Description: "Phone number being migrated."},
			},
		},
		{
			Name:        "request_otp_for_verification",
			Description: "Request an OTP to verify the phone number being migrated.",
			Category:    catMigration,
			Method:      http.MethodPost,
			Path:        "/partner/{partner_id}/request-otp-for-migration-to-partner",
			Params: []op.Param{
				assistantID,
				{Name: "mode", Type: op.String, Default: "sms", Enum: []string{"sms", "voice"}, Description: "OTP delivery mode."},
			},
		},
		{
			Name:        "verify_otp",
			Description: "Verify the OTP received for a phone number migration.",
			Category:    catMigration,
			Method:      http.MethodPost,
			Path:        "/partner/{partner_id}/validate-otp-for-migration-to-partner",
			Params: []op.Param{
				assistantID,
				{Name: "otp", Type: op.String, Required: true, Description: "The one-time password."},
			},
		},
		{
			Name:        "generate_embedded_fb_catalog_url",
			Description: "Generate an embedded Facebook catalog connect URL.",
			Category:    catOnboard,
			Tags:        []string{"catalog"},
			Method:      http.MethodPost,
			Path:        "/partner/{partner_id}/generate-catalog-connect-link",
			Params:      []op.Param{businessID, assistantID},
		},
		{
			Name:        "generate_ctwa_ads_manager_dashboard_url",
			Description: "Generate a Click-to-WhatsApp Ads Manager dashboard URL.",
			Category:    catOnboard,
			Tags:        []string{"ads"},
			Method:      http.MethodPost,
			Path:        "/partner/{partner_id}/ads/generate-dashboard-link",
			Params: []op.Param{
				businessID,
				assistantID,
				{Name: "expires_in", Type: op.Integer, Key: "expiresIn", Default: 150000, Description: "URL lifetime in milliseconds."},
			},
		},
		{
			Name:        "update_business_details",
			Description: "Update details of the configured business. Only supplied fields change.",
			Category:    catProfile,
			Method:      http.MethodPatch,
			Path:        "/partner/{partner_id}/business/{business_id}",
			Params: []op.Param{
				{Name: "display_name", Type: op.String, Description: "Display name for the business."},
				{Name: "company", Type: op.String, Description: "Company name."},
				{Name: "contact", Type: op.String, Description: "Contact number."},
				{Name: "timezone", Type: op.String, Description: "Timezone."},
				{Name: "currency", Type: op.String, Description: "Currency code."},
				{Name: "company_size", Type: op.String, Key: "companySize", Description: "Company size."},
			},
			AtLeastOne: []string{"display_name", "company", "contact", "timezone", "currency", "company_size"},
		},
	}
}

func reads() []op.Operation {
	get := func(name, desc, category, path string, params ...op.Param) op.Operation {
		return op.Operation{
			Name:        name,
			Description: desc,
			Category:    category,
			Method:      http.MethodGet,
			Path:        path,
			Params:      params,
		}
	}
	return []op.Operation{
		get("get_partner_details", "Get details of the partner account.", catProfile,
			"/partner/{partner_id}"),
		get("get_all_business_profiles", "List every business profile under the partner.", catProfile,
			"/partner/{partner_id}/business"),
		get("get_business_profile_by_id", "Get the configured business profile.", catProfile,
			"/partner/{partner_id}/business/{business_id}"),
		get("get_kyc_submission_status", "Get the KYC submission status of the configured business.", catProfile,
			"/partner/{partner_id}/business/{business_id}/kyc-submission-status"),
		get("get_business_verification_status", "Get the Facebook business verification status of the configured business.", catProfile,
			"/partner/{partner_id}/business/{business_id}/business-verification-status"),
		get("get_business_projects", "List the projects of the configured business.", catProject,
			"/partner/{partner_id}/business/{business_id}/project"),
		get("get_project_by_id", "Get one project by ID.", catProject,
			"/partner/{partner_id}/project/{project_id}",
			op.Param{Name: "project_id", Type: op.String, Required: true, In: op.InPath, Description: "The project ID."}),
		get("get_wcc_usage_analytics", "Get WhatsApp conversation credit usage analytics.", catInsights,
			"/partner/{partner_id}/wcc-usage-analytics", dateFrom, dateTo),
		get("get_billing_records", "Get partner billing records.", catInsights,
			"/partner/{partner_id}/billing-records", dateFrom, dateTo),
	}
}
