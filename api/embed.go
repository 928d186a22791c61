// Package api embeds the OpenAPI description served at /swagger/openapi.json.
package api

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
