package direct

import (
	op "github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/operation"
)

func catalog() []op.Operation {
	return []op.Operation{
		post("create_catalog", "Create a product catalog.", catCatalog, "/catalog",
			required(str("name", "", "Catalog name.")),
			op.Param{Name: "vertical", Type: op.String, Default: "commerce", Description: "Catalog vertical."},
			op.Param{Name: "product_count", Type: op.Integer, Default: 0, Description: "Number of products."},
			op.Param{Name: "feed_count", Type: op.Integer, Default: 1, Description: "Number of feeds."},
			op.Param{Name: "is_catalog_segment", Type: op.Boolean, Default: false, Description: "Whether the catalog is a segment."},
			str("default_image_url", "", "Default image URL."),
			op.Param{Name: "fallback_image_url", Type: op.Array, Items: op.String, Description: "Fallback image URLs."},
			op.Param{Name: "da_display_settings", Type: op.Object, Description: "Display settings for dynamic ads."},
		),
		post("connect_catalog", "Connect a catalog to the WhatsApp number.", catCatalog, "/connect-catalog",
			required(str("catalog_id", "catalogId", "The catalog ID.")),
		),
		get("get_catalog", "Get the connected catalog.", catCatalog, "/catalog"),
		get("get_products", "List the products of the connected catalog.", catCatalog, "/products"),
		post("create_product", "Add a product to a catalog.", catCatalog, "/product",
			required(str("catalog_id", "catalogId", "The catalog ID.")),
			required(str("name", "", "Product name.")),
			required(str("category", "", "Product category.")),
			required(str("currency", "", `Currency code, e.g. "INR".`)),
			required(str("image_url", "", "Product image URL.")),
			required(str("price", "", "Product price.")),
			required(str("retailer_id", "", "Retailer ID.")),
			str("description", "", "Product description."),
			str("url", "", "Product URL."),
			str("brand", "", "Product brand."),
			str("sale_price", "", "Sale price."),
			str("sale_price_start_date", "", "Sale start date."),
			str("sale_price_end_date", "", "Sale end date."),
		),
		post("update_whatsapp_commerce_settings", "Enable or disable the catalog and cart.", catCatalog, "/whatsapp-commerce-settings",
			op.Param{Name: "enable_catalog", Type: op.Boolean, Required: true, Key: "enableCatalog", Description: "Whether the catalog is shown."},
			op.Param{Name: "enable_cart", Type: op.Boolean, Required: true, Key: "enableCart", Description: "Whether the cart is enabled."},
		),
		get("get_whatsapp_commerce_settings", "Get the commerce settings.", catCatalog, "/whatsapp-commerce-settings"),
		del("disconnect_catalog", "Disconnect the catalog from the WhatsApp number.", catCatalog, "/disconnect-catalog"),
	}
}

func qrCodes() []op.Operation {
	prefilled := required(str("prefilled_message", "prefilledMessage", "Message prefilled when the code is scanned."))

	return []op.Operation{
		post("create_qr_code", "Create a QR code with a prefilled message.", catQR, "/qr-codes",
			prefilled,
			op.Param{Name: "generate_qr_image", Type: op.String, Key: "generateQrImage", Default: "SVG", Enum: []string{"SVG", "PNG"}, Description: "QR image format."},
		),
		patch("update_qr_code", "Update the prefilled message of a QR code.", catQR, "/qr-codes",
			required(str("qr_code_id", "qrCodeId", "The QR code ID.")),
			prefilled,
		),
		get("get_qr_codes", "List every QR code.", catQR, "/qr-codes"),
	}
}

func payments() []op.Operation {
	name := required(str("configuration_name", "", "Name of the payment configuration."))
	redirect := required(str("redirect_url", "", "Redirect URL after completion."))

	return []op.Operation{
		post("create_payment_configuration", "Create a payment configuration.", catPayments, "/payment_configuration",
			name,
			required(str("purpose_code", "", `Purpose code, e.g. "00".`)),
			required(str("merchant_category_code", "", `Merchant category code, e.g. "0000".`)),
			required(str("provider_name", "", `Payment provider, e.g. "razorpay".`)),
			redirect,
		),
		post("generate_payment_configuration_oauth_link", "Generate the OAuth link of a payment configuration.", catPayments, "/generate_payment_configuration_oauth_link",
			name,
			redirect,
		),
		get("get_payment_configurations", "List every payment configuration.", catPayments, "/payment_configurations"),
		get("get_payment_configuration_by_name", "Get a payment configuration by name.", catPayments, "/payment_configuration/{configuration_name}",
			pathParam("configuration_name", "Name of the payment configuration."),
		),
	}
}
