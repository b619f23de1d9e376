// Package direct is the catalog of Direct API operations: account, messages,
// templates, media, catalog, QR codes, flows and payments.
package direct

import (
	"net/http"

	op "github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/operation"
)

const (
	catAccount   = "account"
	catMessages  = "messages"
	catTemplates = "templates"
	catMedia     = "media"
	catCatalog   = "catalog"
	catQR        = "qr_codes"
	catFlows     = "flows"
	catPayments  = "payments"
)

// Operations returns every Direct API operation.
func Operations() []op.Operation {
	var ops []op.Operation
	for _, family := range [][]op.Operation{
		account(),
		messages(),
		templates(),
		media(),
		catalog(),
		qrCodes(),
		flows(),
		payments(),
	} {
		ops = append(ops, family...)
	}
	return ops
}

func get(name, desc, category, path string, params ...op.Param) op.Operation {
	return op.Operation{Name: name, Description: desc, Category: category, Method: http.MethodGet, Path: path, Params: params}
}

func post(name, desc, category, path string, params ...op.Param) op.Operation {
	return op.Operation{Name: name, Description: desc, Category: category, Method: http.MethodPost, Path: path, Params: params}
}

func patch(name, desc, category, path string, params ...op.Param) op.Operation {
	return op.Operation{Name: name, Description: desc, Category: category, Method: http.MethodPatch, Path: path, Params: params}
}

func del(name, desc, category, path string, params ...op.Param) op.Operation {
	return op.Operation{Name: name, Description: desc, Category: category, Method: http.MethodDelete, Path: path, Params: params}
}

func str(name, key, desc string) op.Param {
	return op.Param{Name: name, Type: op.String, Key: key, Description: desc}
}

func required(p op.Param) op.Param {
	p.Required = true
	return p
}

func pathParam(name, desc string) op.Param {
	return op.Param{Name: name, Type: op.String, Required: true, In: op.InPath, Description: desc}
}

func fileParam() op.Param {
	return op.Param{Name: "file_path", Type: op.String, Required: true, In: op.InFile, Description: "Local path of the file to upload."}
}
