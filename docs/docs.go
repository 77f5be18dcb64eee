// Package docs is generated by swag from the handler annotations. Regenerate with
// `swag init -g cmd/fin-ledger/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/profile": {
            "get": {"security": [{"Bearer": []}], "produces": ["application/json"], "tags": ["profile"], "summary": "Get profile", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"Bearer": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["profile"], "summary": "Update profile", "responses": {"200": {"description": "OK"}}}
        },
        "/transactions": {
            "get": {"security": [{"Bearer": []}], "produces": ["application/json"], "tags": ["transactions"], "summary": "List transactions", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"Bearer": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["transactions"], "summary": "Record a transaction", "responses": {"201": {"description": "Created"}}}
        },
        "/transactions/{id}": {
            "get": {"security": [{"Bearer": []}], "produces": ["application/json"], "tags": ["transactions"], "summary": "Get a transaction", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"Bearer": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["transactions"], "summary": "Replace a transaction", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"Bearer": []}], "tags": ["transactions"], "summary": "Delete a transaction", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/categories": {
            "get": {"security": [{"Bearer": []}], "produces": ["application/json"], "tags": ["categories"], "summary": "List categories", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"Bearer": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["categories"], "summary": "Create a personal category", "responses": {"201": {"description": "Created"}}}
        },
        "/categories/{id}": {
            "delete": {"security": [{"Bearer": []}], "tags": ["categories"], "summary": "Delete a personal category", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/summary": {
            "get": {"security": [{"Bearer": []}], "produces": ["application/json"], "tags": ["summary"], "summary": "Income, expense and balance for a window", "responses": {"200": {"description": "OK"}}}
        },
        "/summary/categories": {
            "get": {"security": [{"Bearer": []}], "produces": ["application/json"], "tags": ["summary"], "summary": "Totals per category", "responses": {"200": {"description": "OK"}}}
        },
        "/summary/trend": {
            "get": {"security": [{"Bearer": []}], "produces": ["application/json"], "tags": ["summary"], "summary": "Monthly trend", "responses": {"200": {"description": "OK"}}}
        },
        "/dashboard": {
            "get": {"security": [{"Bearer": []}], "produces": ["application/json"], "tags": ["summary"], "summary": "Dashboard", "responses": {"200": {"description": "OK"}}}
        },
        "/suggestions": {
            "get": {"security": [{"Bearer": []}], "produces": ["application/json"], "tags": ["suggestions"], "summary": "Suggestion history", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"Bearer": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["suggestions"], "summary": "Generate a suggestion", "responses": {"201": {"description": "Created"}, "502": {"description": "Bad Gateway"}, "504": {"description": "Gateway Timeout"}}}
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Fin Ledger API",
	Description:      "Personal finance ledger with aggregation and suggestions",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
